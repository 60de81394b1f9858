package lmsr

import (
	"fmt"
	"math/big"

	"github.com/openpredict/lmsr-pricer/internal/fixedpoint"
)

// Cost returns the collateral cost of buying count outcome tokens, in base
// units. The cost rounds up and is clamped to count: no outcome token ever
// costs more than one unit of collateral.
func (s *Snapshot) Cost(outcome int, count *big.Int) (*big.Int, error) {
	if err := s.checkOutcome(outcome); err != nil {
		return nil, err
	}
	if count.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative token count", ErrInvalidInput)
	}

	logN, err := logOutcomeCount(len(s.netSold))
	if err != nil {
		return nil, err
	}

	before, err := costLevel(logN, s.netSold, s.funding)
	if err != nil {
		return nil, err
	}

	adjusted, err := s.withDelta(outcome, count, false)
	if err != nil {
		return nil, err
	}
	after, err := costLevel(logN, adjusted, s.funding)
	if err != nil {
		return nil, err
	}

	// Buying never decreases required collateral.
	if after.Cmp(before) < 0 {
		return nil, ErrInvariantViolation
	}

	raw, err := fixedpoint.Sub(after, before)
	if err != nil {
		return nil, err
	}

	// Round up: the maker never under-charges.
	cost, rem := new(big.Int).QuoRem(raw, fixedpoint.Scale(), new(big.Int))
	if rem.Sign() != 0 {
		cost.Add(cost, big.NewInt(1))
	}
	if cost.Cmp(count) > 0 {
		cost.Set(count)
	}
	return cost, nil
}

// Profit returns the collateral proceeds of selling count outcome tokens,
// in base units. Proceeds round down: the maker never over-pays.
func (s *Snapshot) Profit(outcome int, count *big.Int) (*big.Int, error) {
	if err := s.checkOutcome(outcome); err != nil {
		return nil, err
	}
	if count.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative token count", ErrInvalidInput)
	}

	logN, err := logOutcomeCount(len(s.netSold))
	if err != nil {
		return nil, err
	}

	before, err := costLevel(logN, s.netSold, s.funding)
	if err != nil {
		return nil, err
	}

	adjusted, err := s.withDelta(outcome, count, true)
	if err != nil {
		return nil, err
	}
	after, err := costLevel(logN, adjusted, s.funding)
	if err != nil {
		return nil, err
	}

	// Selling never increases required collateral.
	if before.Cmp(after) < 0 {
		return nil, ErrInvariantViolation
	}

	raw, err := fixedpoint.Sub(before, after)
	if err != nil {
		return nil, err
	}

	// Round down; raw is non-negative so truncation is the floor.
	return new(big.Int).Quo(raw, fixedpoint.Scale()), nil
}

// MarginalPrice returns the instantaneous price of one outcome token, a
// fixed-point fraction in [0, 2^64]. The shared exponent offset cancels out
// of the ratio.
func (s *Snapshot) MarginalPrice(outcome int) (*big.Int, error) {
	if err := s.checkOutcome(outcome); err != nil {
		return nil, err
	}

	logN, err := logOutcomeCount(len(s.netSold))
	if err != nil {
		return nil, err
	}

	sum, _, focusTerm, err := sumExpOffset(logN, s.netSold, s.funding, outcome)
	if err != nil {
		return nil, err
	}

	// sum >= exp(ExpLimit), so the scaled-down denominator is never zero.
	den := new(big.Int).Quo(sum, fixedpoint.Scale())
	return new(big.Int).Quo(focusTerm, den), nil
}

// withDelta returns a copy of the net-sold vector with count applied to one
// outcome. The snapshot itself is never mutated.
func (s *Snapshot) withDelta(outcome int, count *big.Int, sell bool) ([]*big.Int, error) {
	adjusted := make([]*big.Int, len(s.netSold))
	copy(adjusted, s.netSold)

	var q *big.Int
	var err error
	if sell {
		q, err = fixedpoint.Sub(s.netSold[outcome], count)
	} else {
		q, err = fixedpoint.Add(s.netSold[outcome], count)
	}
	if err != nil {
		return nil, err
	}
	adjusted[outcome] = q
	return adjusted, nil
}

// CalcCost snapshots the market once and prices a buy against that
// snapshot.
func CalcCost(m Market, outcome int, count *big.Int) (*big.Int, error) {
	s, err := TakeSnapshot(m)
	if err != nil {
		return nil, err
	}
	return s.Cost(outcome, count)
}

// CalcProfit snapshots the market once and prices a sell against that
// snapshot.
func CalcProfit(m Market, outcome int, count *big.Int) (*big.Int, error) {
	s, err := TakeSnapshot(m)
	if err != nil {
		return nil, err
	}
	return s.Profit(outcome, count)
}

// CalcMarginalPrice snapshots the market once and returns the marginal
// price of one outcome.
func CalcMarginalPrice(m Market, outcome int) (*big.Int, error) {
	s, err := TakeSnapshot(m)
	if err != nil {
		return nil, err
	}
	return s.MarginalPrice(outcome)
}
