package writer

import (
	"time"
)

// WriterConfig contains configuration for the batch writer.
type WriterConfig struct {
	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     1000,
		FlushInterval: 5 * time.Second,
	}
}

// quoteRow represents a row to be inserted into the quotes table.
type quoteRow struct {
	QuoteID       string // UUID
	Ticker        string
	Outcome       int
	MarginalPrice string // NUMERIC, 2^64-scaled fraction
	UnitCost      string // NUMERIC, collateral base units
	ComputedAt    int64  // Microseconds
}

// WriterMetrics holds metrics for a writer.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
}
