package model

import (
	"math/big"

	"github.com/google/uuid"
)

// Market lifecycle statuses. Only funded markets are priced.
const (
	StatusFunded   = "funded"
	StatusPaused   = "paused"
	StatusClosed   = "closed"
	StatusResolved = "resolved"
)

// Market represents one LMSR market: its immutable shape plus the live
// position state the pricer reads.
type Market struct {
	Ticker       string     // Primary key (e.g., "PRES-2028-DEM")
	Title        string     // Display title
	OutcomeNames []string   // One name per outcome index; length fixed at creation
	Funding      *big.Int   // LMSR liquidity parameter b (base units, > 0)
	NetSold      []*big.Int // Net outcome tokens sold per outcome (signed)
	Status       string     // Status: funded, paused, closed, resolved
	CreatedTS    int64      // Creation time (µs since epoch)
	UpdatedAt    int64      // Last update (µs since epoch)
}

// OutcomeCount returns the number of outcomes.
func (m *Market) OutcomeCount() int { return len(m.OutcomeNames) }

// Quote is one priced outcome of one market at one instant.
type Quote struct {
	QuoteID       uuid.UUID // Primary key
	Ticker        string    // Market ticker
	Outcome       int       // Outcome index
	MarginalPrice *big.Int  // Fixed-point fraction in [0, 2^64]
	UnitCost      *big.Int  // Cost of buying one token (base units)
	ComputedAt    int64     // Pricing time (µs since epoch)
}

// PriceUpdate is the stream payload pushed to websocket subscribers.
// Amounts are decimal token strings so clients need no 2^64 convention.
type PriceUpdate struct {
	Ticker     string   `json:"ticker"`
	Prices     []string `json:"prices"`    // Marginal price per outcome, "0".."1"
	UnitCosts  []string `json:"unit_costs"`
	ComputedAt int64    `json:"computed_at"`
}

// Fill is a trade applied to a market's net positions.
type Fill struct {
	Ticker  string
	Outcome int
	// Count is positive for tokens the market sold, negative for tokens
	// bought back (base units).
	Count      *big.Int
	ExecutedAt int64
}
