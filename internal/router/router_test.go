package router

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/openpredict/lmsr-pricer/internal/model"
)

func testBatch(ticker string, outcomes int) PricedBatch {
	quotes := make([]model.Quote, outcomes)
	prices := make([]string, outcomes)
	costs := make([]string, outcomes)
	for i := range quotes {
		quotes[i] = model.Quote{
			QuoteID:       uuid.New(),
			Ticker:        ticker,
			Outcome:       i,
			MarginalPrice: new(big.Int).Lsh(big.NewInt(1), 63),
			UnitCost:      new(big.Int).Lsh(big.NewInt(1), 63),
			ComputedAt:    42,
		}
		prices[i] = "0.5"
		costs[i] = "0.5"
	}
	return PricedBatch{
		Ticker: ticker,
		Quotes: quotes,
		Update: model.PriceUpdate{
			Ticker:     ticker,
			Prices:     prices,
			UnitCosts:  costs,
			ComputedAt: 42,
		},
	}
}

func TestRouterFansOut(t *testing.T) {
	input := make(chan PricedBatch, 10)
	r := NewRouter(DefaultRouterConfig(), input, nil)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	input <- testBatch("MKT-A", 2)
	input <- testBatch("MKT-B", 3)

	bufs := r.Buffers()
	deadline := time.After(time.Second)
	for bufs.Quotes.Len() < 5 || bufs.Updates.Len() < 2 {
		select {
		case <-deadline:
			t.Fatalf("buffers not filled: quotes %d, updates %d",
				bufs.Quotes.Len(), bufs.Updates.Len())
		case <-time.After(5 * time.Millisecond):
		}
	}

	q, ok := bufs.Quotes.TryReceive()
	if !ok {
		t.Fatal("TryReceive() on quote buffer returned false")
	}
	if q.Ticker != "MKT-A" || q.Outcome != 0 {
		t.Errorf("first quote = %s/%d, want MKT-A/0", q.Ticker, q.Outcome)
	}

	u, ok := bufs.Updates.TryReceive()
	if !ok {
		t.Fatal("TryReceive() on update buffer returned false")
	}
	if u.Ticker != "MKT-A" || len(u.Prices) != 2 {
		t.Errorf("first update = %s with %d prices, want MKT-A with 2", u.Ticker, len(u.Prices))
	}

	stats := r.Stats()
	if stats.BatchesReceived != 2 {
		t.Errorf("BatchesReceived = %d, want 2", stats.BatchesReceived)
	}
	if stats.QuotesRouted != 5 {
		t.Errorf("QuotesRouted = %d, want 5", stats.QuotesRouted)
	}
	if stats.UpdatesRouted != 2 {
		t.Errorf("UpdatesRouted = %d, want 2", stats.UpdatesRouted)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestRouterStopClosesBuffers(t *testing.T) {
	input := make(chan PricedBatch)
	r := NewRouter(DefaultRouterConfig(), input, nil)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	bufs := r.Buffers()
	if _, ok := bufs.Quotes.Receive(); ok {
		t.Error("quote buffer still open after Stop()")
	}
	if _, ok := bufs.Updates.Receive(); ok {
		t.Error("update buffer still open after Stop()")
	}
}

func TestRouterDrainsOnClosedInput(t *testing.T) {
	input := make(chan PricedBatch, 1)
	r := NewRouter(DefaultRouterConfig(), input, nil)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	input <- testBatch("MKT-A", 2)
	close(input)

	// The batch sent before close is still routed
	bufs := r.Buffers()
	deadline := time.After(time.Second)
	for bufs.Quotes.Len() < 2 {
		select {
		case <-deadline:
			t.Fatalf("quote buffer has %d items, want 2", bufs.Quotes.Len())
		case <-time.After(5 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	got := bufs.Quotes.DrainTo(0)
	if len(got) != 2 {
		t.Errorf("drained %d quotes, want 2", len(got))
	}
}
