package lmsr

import (
	"errors"
	"fmt"
	"math/big"
)

// Errors returned by the pricing operations.
var (
	// ErrInvalidMarket means the market has fewer than two outcomes.
	ErrInvalidMarket = errors.New("lmsr: market must have more than one outcome")

	// ErrInvalidInput means an argument is out of range: a negative token
	// count, an outcome index outside [0, n), or a negative logN/funding
	// reaching the offset computation.
	ErrInvalidInput = errors.New("lmsr: invalid input")

	// ErrInvariantViolation means a cost level moved against the direction
	// of the trade. Given correct Exp/Ln this is unreachable; it signals a
	// bug in the numeric approximation, not a caller error.
	ErrInvariantViolation = errors.New("lmsr: cost level moved against the trade")
)

// Market is the read-only collaborator surface the pricer consumes.
// Implementations typically wrap a market registry entry or a database row.
type Market interface {
	// OutcomeCount returns the number of outcomes, fixed at creation.
	OutcomeCount() (int, error)

	// Funding returns the market's liquidity parameter b, in collateral
	// base units (2^64 base units = one token).
	Funding() (*big.Int, error)

	// NetOutcomeTokensSold returns tokens issued minus tokens held by the
	// market itself for one outcome. May be negative.
	NetOutcomeTokensSold(index int) (*big.Int, error)
}

// Snapshot is an immutable copy of a market's state. All pricing for one
// trade evaluates against a single snapshot.
type Snapshot struct {
	funding *big.Int
	netSold []*big.Int
}

// TakeSnapshot reads the market once and returns an immutable copy of its
// state. It performs one lookup per outcome and fails only if the market
// itself fails.
func TakeSnapshot(m Market) (*Snapshot, error) {
	n, err := m.OutcomeCount()
	if err != nil {
		return nil, fmt.Errorf("outcome count: %w", err)
	}

	funding, err := m.Funding()
	if err != nil {
		return nil, fmt.Errorf("funding: %w", err)
	}

	netSold := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		q, err := m.NetOutcomeTokensSold(i)
		if err != nil {
			return nil, fmt.Errorf("net outcome tokens sold [%d]: %w", i, err)
		}
		netSold[i] = new(big.Int).Set(q)
	}

	return &Snapshot{
		funding: new(big.Int).Set(funding),
		netSold: netSold,
	}, nil
}

// NewSnapshot builds a snapshot directly from values, copying them. Used
// for hypothetical pricing where no live market backs the state.
func NewSnapshot(funding *big.Int, netSold []*big.Int) *Snapshot {
	ns := make([]*big.Int, len(netSold))
	for i, q := range netSold {
		ns[i] = new(big.Int).Set(q)
	}
	return &Snapshot{
		funding: new(big.Int).Set(funding),
		netSold: ns,
	}
}

// OutcomeCount returns the number of outcomes in the snapshot.
func (s *Snapshot) OutcomeCount() int { return len(s.netSold) }

// Funding returns the snapshot's funding (a fresh copy).
func (s *Snapshot) Funding() *big.Int { return new(big.Int).Set(s.funding) }

// NetSold returns the net tokens sold for one outcome (a fresh copy).
func (s *Snapshot) NetSold(index int) *big.Int {
	return new(big.Int).Set(s.netSold[index])
}

// checkOutcome validates the snapshot shape and the outcome index.
func (s *Snapshot) checkOutcome(outcome int) error {
	if len(s.netSold) <= 1 {
		return ErrInvalidMarket
	}
	if outcome < 0 || outcome >= len(s.netSold) {
		return fmt.Errorf("%w: outcome index %d out of range [0, %d)",
			ErrInvalidInput, outcome, len(s.netSold))
	}
	return nil
}
