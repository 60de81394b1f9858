package router

import (
	"github.com/openpredict/lmsr-pricer/internal/model"
)

// RouterConfig holds configuration for the quote router.
type RouterConfig struct {
	// Output buffer sizes
	QuoteBufferSize  int // Default: 5000
	UpdateBufferSize int // Default: 1000
}

// DefaultRouterConfig returns default configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		QuoteBufferSize:  5000,
		UpdateBufferSize: 1000,
	}
}

// PricedBatch is one market's pricing pass: a quote row per outcome plus
// the stream payload derived from them.
type PricedBatch struct {
	Ticker string
	Quotes []model.Quote
	Update model.PriceUpdate
}

// RouterBuffers provides access to output buffers for consumers.
type RouterBuffers struct {
	// Quotes feeds the database batch writer, one row per outcome.
	Quotes *GrowableBuffer[model.Quote]

	// Updates feeds the websocket stream, one payload per market pass.
	Updates *GrowableBuffer[model.PriceUpdate]
}

// RouterStats contains runtime statistics.
type RouterStats struct {
	BatchesReceived int64
	QuotesRouted    int64
	UpdatesRouted   int64
	Dropped         int64
	QuoteBuffer     BufferStats
	UpdateBuffer    BufferStats
}
