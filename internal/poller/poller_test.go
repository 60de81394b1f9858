package poller

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/openpredict/lmsr-pricer/internal/lmsr"
	"github.com/openpredict/lmsr-pricer/internal/router"
)

// mockSource serves snapshots for a fixed set of markets.
type mockSource struct {
	snapshots map[string]*lmsr.Snapshot
	changes   chan string
}

func newMockSource() *mockSource {
	return &mockSource{
		snapshots: make(map[string]*lmsr.Snapshot),
		changes:   make(chan string, 10),
	}
}

func (m *mockSource) ActiveTickers() []string {
	out := make([]string, 0, len(m.snapshots))
	for ticker := range m.snapshots {
		out = append(out, ticker)
	}
	return out
}

func (m *mockSource) PricingSnapshot(ticker string) (*lmsr.Snapshot, bool) {
	s, ok := m.snapshots[ticker]
	return s, ok
}

func (m *mockSource) Changes() <-chan string {
	return m.changes
}

func uniformSnapshot(outcomes int) *lmsr.Snapshot {
	funding := new(big.Int).Lsh(big.NewInt(100), 64)
	netSold := make([]*big.Int, outcomes)
	for i := range netSold {
		netSold[i] = big.NewInt(0)
	}
	return lmsr.NewSnapshot(funding, netSold)
}

func collectBatch(t *testing.T, output <-chan router.PricedBatch) router.PricedBatch {
	t.Helper()
	select {
	case batch := <-output:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("no batch emitted")
		return router.PricedBatch{}
	}
}

func TestPriceSnapshot(t *testing.T) {
	batch, err := priceSnapshot("MKT-A", uniformSnapshot(2), 42)
	if err != nil {
		t.Fatalf("priceSnapshot() error = %v", err)
	}

	if batch.Ticker != "MKT-A" {
		t.Errorf("Ticker = %s, want MKT-A", batch.Ticker)
	}
	if len(batch.Quotes) != 2 {
		t.Fatalf("len(Quotes) = %d, want 2", len(batch.Quotes))
	}

	for i, q := range batch.Quotes {
		if q.Outcome != i {
			t.Errorf("Quotes[%d].Outcome = %d, want %d", i, q.Outcome, i)
		}
		if q.ComputedAt != 42 {
			t.Errorf("Quotes[%d].ComputedAt = %d, want 42", i, q.ComputedAt)
		}
		if q.QuoteID == (batch.Quotes[0].QuoteID) && i > 0 {
			t.Errorf("Quotes[%d].QuoteID duplicates Quotes[0]", i)
		}

		// Uniform binary market prices at one half.
		half := new(big.Int).Lsh(big.NewInt(1), 63)
		diff := new(big.Int).Sub(q.MarginalPrice, half)
		if diff.CmpAbs(new(big.Int).Lsh(big.NewInt(1), 34)) > 0 {
			t.Errorf("Quotes[%d].MarginalPrice = %v, want ~%v", i, q.MarginalPrice, half)
		}

		// Buying one token into a balanced market costs a bit over half
		// a token and never more than the token itself.
		if q.UnitCost.Cmp(half) < 0 {
			t.Errorf("Quotes[%d].UnitCost = %v, want >= %v", i, q.UnitCost, half)
		}
		if q.UnitCost.Cmp(oneToken) > 0 {
			t.Errorf("Quotes[%d].UnitCost = %v, want <= one token", i, q.UnitCost)
		}
	}

	if len(batch.Update.Prices) != 2 || len(batch.Update.UnitCosts) != 2 {
		t.Fatalf("Update has %d prices, %d costs, want 2 each",
			len(batch.Update.Prices), len(batch.Update.UnitCosts))
	}
	if batch.Update.ComputedAt != 42 {
		t.Errorf("Update.ComputedAt = %d, want 42", batch.Update.ComputedAt)
	}
	if batch.Update.Prices[0][:2] != "0." {
		t.Errorf("Update.Prices[0] = %q, want a decimal fraction", batch.Update.Prices[0])
	}
}

func TestPriceSnapshotDegenerateMarket(t *testing.T) {
	if _, err := priceSnapshot("MKT-BAD", uniformSnapshot(1), 0); err == nil {
		t.Error("priceSnapshot(1 outcome) error = nil, want error")
	}
}

func TestPollerPricesOnStart(t *testing.T) {
	source := newMockSource()
	source.snapshots["MKT-A"] = uniformSnapshot(2)

	output := make(chan router.PricedBatch, 10)
	cfg := Config{Interval: time.Hour, Concurrency: 4}
	p := New(cfg, source, output, nil)

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := p.Stop(ctx); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	}()

	batch := collectBatch(t, output)
	if batch.Ticker != "MKT-A" {
		t.Errorf("batch.Ticker = %s, want MKT-A", batch.Ticker)
	}
}

func TestPollerRepricesDirtyTicker(t *testing.T) {
	source := newMockSource()
	source.snapshots["MKT-A"] = uniformSnapshot(2)
	source.snapshots["MKT-B"] = uniformSnapshot(3)

	output := make(chan router.PricedBatch, 10)
	cfg := Config{Interval: time.Hour, Concurrency: 4}
	p := New(cfg, source, output, nil)

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		p.Stop(ctx)
	}()

	// Drain the startup pass.
	seen := map[string]bool{}
	for len(seen) < 2 {
		seen[collectBatch(t, output).Ticker] = true
	}

	source.changes <- "MKT-B"

	batch := collectBatch(t, output)
	if batch.Ticker != "MKT-B" {
		t.Errorf("dirty reprice ticker = %s, want MKT-B", batch.Ticker)
	}
	if len(batch.Quotes) != 3 {
		t.Errorf("len(Quotes) = %d, want 3", len(batch.Quotes))
	}
}

func TestPollerSkipsVanishedMarket(t *testing.T) {
	source := newMockSource()
	output := make(chan router.PricedBatch, 10)
	p := New(Config{Interval: time.Hour, Concurrency: 4}, source, output, nil)

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		p.Stop(ctx)
	}()

	// A dirty ticker with no snapshot is skipped without a batch.
	source.changes <- "GONE"

	select {
	case batch := <-output:
		t.Errorf("unexpected batch for %s", batch.Ticker)
	case <-time.After(50 * time.Millisecond):
	}
}
