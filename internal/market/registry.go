package market

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/openpredict/lmsr-pricer/internal/lmsr"
	"github.com/openpredict/lmsr-pricer/internal/model"
)

// ChangeBufferSize is the capacity of the dirty-ticker channel.
const ChangeBufferSize = 1000

// Source provides market rows, typically backed by Postgres.
type Source interface {
	ListMarkets(ctx context.Context) ([]model.Market, error)
}

// Config holds registry configuration.
type Config struct {
	ReconcileInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{ReconcileInterval: 5 * time.Minute}
}

// Registry is the in-memory market cache.
type Registry struct {
	cfg    Config
	source Source
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]*Entry

	changes chan string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates a registry backed by the given source.
func NewRegistry(cfg Config, source Source, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:     cfg,
		source:  source,
		logger:  logger,
		entries: make(map[string]*Entry),
		changes: make(chan string, ChangeBufferSize),
	}
}

// Start performs the initial load (blocking), then reconciles in the
// background.
func (r *Registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	if err := r.reconcile(r.ctx); err != nil {
		r.cancel()
		return fmt.Errorf("initial market load: %w", err)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.reconcileLoop()
	}()

	r.logger.Info("market registry started",
		"markets", r.Len(),
		"reconcile_interval", r.cfg.ReconcileInterval,
	)
	return nil
}

// Stop gracefully shuts down the reconciliation loop.
func (r *Registry) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("market registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get returns a market entry by ticker.
func (r *Registry) Get(ticker string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[ticker]
	return e, ok
}

// MarketSnapshot returns a copy of one market row.
func (r *Registry) MarketSnapshot(ticker string) (model.Market, bool) {
	e, ok := r.Get(ticker)
	if !ok {
		return model.Market{}, false
	}
	return e.Snapshot(), true
}

// PricingSnapshot atomically captures one market's state for pricing.
func (r *Registry) PricingSnapshot(ticker string) (*lmsr.Snapshot, bool) {
	e, ok := r.Get(ticker)
	if !ok {
		return nil, false
	}
	m := e.Snapshot()
	return lmsr.NewSnapshot(m.Funding, m.NetSold), true
}

// List returns a copy of every known market row.
func (r *Registry) List() []model.Market {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Market, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Snapshot())
	}
	return out
}

// ActiveTickers returns the tickers of all markets open for pricing.
func (r *Registry) ActiveTickers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.entries))
	for ticker, e := range r.entries {
		if isActive(e.Snapshot().Status) {
			out = append(out, ticker)
		}
	}
	return out
}

// Len returns the number of known markets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ApplyFill adjusts one market's net position and marks it dirty.
func (r *Registry) ApplyFill(f model.Fill) error {
	e, ok := r.Get(f.Ticker)
	if !ok {
		return fmt.Errorf("unknown market %q", f.Ticker)
	}
	if err := e.applyFill(f); err != nil {
		return fmt.Errorf("apply fill to %q: %w", f.Ticker, err)
	}
	r.markDirty(f.Ticker)
	return nil
}

// Changes returns the dirty-ticker channel consumed by the poller.
func (r *Registry) Changes() <-chan string {
	return r.changes
}

// markDirty announces a ticker on the change channel without blocking;
// the periodic repricing pass covers anything dropped here.
func (r *Registry) markDirty(ticker string) {
	select {
	case r.changes <- ticker:
	default:
		r.logger.Warn("change channel full, dropping dirty ticker", "ticker", ticker)
	}
}

// reconcileLoop refreshes the registry from the source on an interval.
func (r *Registry) reconcileLoop() {
	ticker := time.NewTicker(r.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if err := r.reconcile(r.ctx); err != nil {
				r.logger.Warn("market reconcile failed", "err", err)
			}
		}
	}
}

// reconcile replaces in-memory state with the source's view. Positions a
// fill touched since the last reconcile are overwritten deliberately: the
// database is the system of record.
func (r *Registry) reconcile(ctx context.Context) error {
	rows, err := r.source.ListMarkets(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	seen := make(map[string]struct{}, len(rows))
	for _, m := range rows {
		seen[m.Ticker] = struct{}{}
		if e, ok := r.entries[m.Ticker]; ok {
			e.replace(m)
		} else {
			r.entries[m.Ticker] = newEntry(m)
		}
	}
	for ticker := range r.entries {
		if _, ok := seen[ticker]; !ok {
			delete(r.entries, ticker)
		}
	}
	r.mu.Unlock()

	r.logger.Debug("market registry reconciled", "markets", len(rows))
	return nil
}

// isActive reports whether a market status is open for pricing.
func isActive(status string) bool {
	return status == model.StatusFunded
}
