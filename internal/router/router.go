package router

import (
	"context"
	"log/slog"
	"sync"

	"github.com/openpredict/lmsr-pricer/internal/model"
)

// Router fans priced batches out to the database writer and the stream
// server, each behind its own growable buffer.
type Router interface {
	// Start begins routing batches from the input channel.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the router.
	Stop(ctx context.Context) error

	// Buffers returns output buffers for consumers.
	Buffers() RouterBuffers

	// Stats returns current router statistics.
	Stats() RouterStats
}

// router is the internal implementation.
type router struct {
	cfg    RouterConfig
	logger *slog.Logger

	// Input from the pricing poller
	input <-chan PricedBatch

	// Output buffers
	quoteBuf  *GrowableBuffer[model.Quote]
	updateBuf *GrowableBuffer[model.PriceUpdate]

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.RWMutex
	received int64
	quotes   int64
	updates  int64
	dropped  int64
}

// NewRouter creates a new quote router.
func NewRouter(cfg RouterConfig, input <-chan PricedBatch, logger *slog.Logger) Router {
	if logger == nil {
		logger = slog.Default()
	}

	return &router{
		cfg:       cfg,
		logger:    logger,
		input:     input,
		quoteBuf:  NewGrowableBuffer[model.Quote](cfg.QuoteBufferSize),
		updateBuf: NewGrowableBuffer[model.PriceUpdate](cfg.UpdateBufferSize),
	}
}

// Start begins routing batches.
func (r *router) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.routeLoop()

	r.logger.Info("quote router started",
		"quote_buffer", r.cfg.QuoteBufferSize,
		"update_buffer", r.cfg.UpdateBufferSize,
	)

	return nil
}

// Stop gracefully shuts down the router.
func (r *router) Stop(ctx context.Context) error {
	r.logger.Info("stopping quote router")

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
		r.logger.Info("quote router stopped")
	case <-ctx.Done():
		r.logger.Warn("quote router stop timed out")
	}

	// Close output buffers so consumers drain and exit
	r.quoteBuf.Close()
	r.updateBuf.Close()

	return nil
}

// Buffers returns output buffers for consumers.
func (r *router) Buffers() RouterBuffers {
	return RouterBuffers{
		Quotes:  r.quoteBuf,
		Updates: r.updateBuf,
	}
}

// Stats returns current statistics.
func (r *router) Stats() RouterStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RouterStats{
		BatchesReceived: r.received,
		QuotesRouted:    r.quotes,
		UpdatesRouted:   r.updates,
		Dropped:         r.dropped,
		QuoteBuffer:     r.quoteBuf.Stats(),
		UpdateBuffer:    r.updateBuf.Stats(),
	}
}

// routeLoop is the main routing goroutine.
func (r *router) routeLoop() {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case batch, ok := <-r.input:
			if !ok {
				r.logger.Info("input channel closed")
				return
			}
			r.route(batch)
		}
	}
}

// route fans one batch out to both buffers.
func (r *router) route(batch PricedBatch) {
	r.mu.Lock()
	r.received++
	r.mu.Unlock()

	var quotes, dropped int64
	for _, q := range batch.Quotes {
		if r.quoteBuf.Send(q) {
			quotes++
		} else {
			dropped++
		}
	}

	var updates int64
	if r.updateBuf.Send(batch.Update) {
		updates++
	} else {
		dropped++
	}

	r.mu.Lock()
	r.quotes += quotes
	r.updates += updates
	r.dropped += dropped
	r.mu.Unlock()

	if dropped > 0 {
		r.logger.Warn("dropped messages on closed buffer",
			"ticker", batch.Ticker, "dropped", dropped)
	}
}
