package poller

import (
	"context"
	"log/slog"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/openpredict/lmsr-pricer/internal/lmsr"
	"github.com/openpredict/lmsr-pricer/internal/model"
	"github.com/openpredict/lmsr-pricer/internal/router"
)

// oneToken is a single outcome token in collateral base units.
var oneToken = new(big.Int).Lsh(big.NewInt(1), 64)

// MarketSource provides the markets to reprice.
type MarketSource interface {
	ActiveTickers() []string
	PricingSnapshot(ticker string) (*lmsr.Snapshot, bool)
	Changes() <-chan string
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Full repricing interval (default: 5s)
	Concurrency int           // Max markets priced at once (default: 16)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    5 * time.Second,
		Concurrency: 16,
	}
}

// Poller reprices markets and emits quote batches to the router.
type Poller struct {
	cfg     Config
	markets MarketSource
	output  chan<- router.PricedBatch
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, markets MarketSource, output chan<- router.PricedBatch, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		markets: markets,
		output:  output,
		logger:  logger,
	}
}

// Start begins the repricing loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("pricing poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("pricing poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main repricing loop. Dirty tickers from fills are repriced
// promptly between full passes.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Price everything immediately on start.
	p.priceAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.priceAll()
		case dirty := <-p.markets.Changes():
			p.priceOne(dirty)
		}
	}
}

// priceAll reprices all active markets concurrently.
func (p *Poller) priceAll() {
	start := time.Now()

	tickers := p.markets.ActiveTickers()
	if len(tickers) == 0 {
		p.logger.Debug("no active markets to price")
		return
	}

	sem := semaphore.NewWeighted(int64(p.cfg.Concurrency))
	var wg sync.WaitGroup
	var priced, errors atomic.Int64

	for _, ticker := range tickers {
		if err := sem.Acquire(p.ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := p.priceOne(ticker); err != nil {
				errors.Add(1)
				return
			}
			priced.Add(1)
		}(ticker)
	}

	wg.Wait()

	p.logger.Info("pricing pass complete",
		"markets", len(tickers),
		"priced", priced.Load(),
		"errors", errors.Load(),
		"duration", time.Since(start),
	)
}

// priceOne reprices a single market and emits the batch.
func (p *Poller) priceOne(ticker string) error {
	snap, ok := p.markets.PricingSnapshot(ticker)
	if !ok {
		// Removed between listing and pricing.
		return nil
	}

	batch, err := priceSnapshot(ticker, snap, time.Now().UnixMicro())
	if err != nil {
		p.logger.Warn("failed to price market", "ticker", ticker, "err", err)
		return err
	}

	select {
	case p.output <- batch:
	case <-p.ctx.Done():
	}
	return nil
}

// priceSnapshot computes the marginal price and one-token buy cost for
// every outcome of one market snapshot.
func priceSnapshot(ticker string, snap *lmsr.Snapshot, computedAt int64) (router.PricedBatch, error) {
	n := snap.OutcomeCount()
	batch := router.PricedBatch{
		Ticker: ticker,
		Quotes: make([]model.Quote, 0, n),
		Update: model.PriceUpdate{
			Ticker:     ticker,
			Prices:     make([]string, 0, n),
			UnitCosts:  make([]string, 0, n),
			ComputedAt: computedAt,
		},
	}

	for i := 0; i < n; i++ {
		price, err := snap.MarginalPrice(i)
		if err != nil {
			return router.PricedBatch{}, err
		}
		cost, err := snap.Cost(i, oneToken)
		if err != nil {
			return router.PricedBatch{}, err
		}

		batch.Quotes = append(batch.Quotes, model.Quote{
			QuoteID:       uuid.New(),
			Ticker:        ticker,
			Outcome:       i,
			MarginalPrice: price,
			UnitCost:      cost,
			ComputedAt:    computedAt,
		})
		batch.Update.Prices = append(batch.Update.Prices, model.FormatAmount(price))
		batch.Update.UnitCosts = append(batch.Update.UnitCosts, model.FormatAmount(cost))
	}

	return batch, nil
}
