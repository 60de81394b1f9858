package lmsr

import (
	"fmt"
	"math/big"

	"github.com/openpredict/lmsr-pricer/internal/fixedpoint"
)

// logOutcomeCount returns ln(n) in fixed-point form. It is computed once
// per pricing call and shared between the before and after evaluations.
func logOutcomeCount(n int) (*big.Int, error) {
	arg := new(big.Int).Lsh(big.NewInt(int64(n)), 64)
	logN, err := fixedpoint.Ln(arg)
	if err != nil {
		return nil, fmt.Errorf("ln(outcome count): %w", err)
	}
	return logN, nil
}

// sumExpOffset evaluates sum(exp(netSold[i]*logN/funding - offset)) with
// offset = max(netSold)*logN/funding - ExpLimit, so the largest exponent
// argument lands exactly on the domain ceiling. It returns the sum, the
// offset, and the term belonging to the focus outcome.
//
// The logN scaling keeps the cross-outcome terms from vanishing
// disproportionately for highly skewed position distributions; the shared
// offset cancels out of every ratio and is added back when a cost level is
// reconstructed.
func sumExpOffset(logN *big.Int, netSold []*big.Int, funding *big.Int, focus int) (sum, offset, focusTerm *big.Int, err error) {
	// Funding is strictly positive by market invariant; the explicit check
	// guards the offset division below.
	if logN.Sign() < 0 || funding.Sign() < 0 {
		return nil, nil, nil, fmt.Errorf("%w: negative logN or funding", ErrInvalidInput)
	}

	maxQ, err := fixedpoint.Max(netSold)
	if err != nil {
		return nil, nil, nil, err
	}

	offset, err = fixedpoint.Mul(maxQ, logN)
	if err != nil {
		return nil, nil, nil, err
	}
	offset, err = fixedpoint.Div(offset, funding)
	if err != nil {
		return nil, nil, nil, err
	}
	offset, err = fixedpoint.Sub(offset, fixedpoint.ExpLimit())
	if err != nil {
		return nil, nil, nil, err
	}

	sum = new(big.Int)
	for i, q := range netSold {
		arg, err := fixedpoint.Mul(q, logN)
		if err != nil {
			return nil, nil, nil, err
		}
		arg, err = fixedpoint.Div(arg, funding)
		if err != nil {
			return nil, nil, nil, err
		}
		arg, err = fixedpoint.Sub(arg, offset)
		if err != nil {
			return nil, nil, nil, err
		}
		term, err := fixedpoint.Exp(arg)
		if err != nil {
			return nil, nil, nil, err
		}
		sum, err = fixedpoint.Add(sum, term)
		if err != nil {
			return nil, nil, nil, err
		}
		if i == focus {
			focusTerm = term
		}
	}

	return sum, offset, focusTerm, nil
}

// costLevel reconstructs b*ln(sum(exp(q_i/b))) from the offset-shifted sum.
// The result carries one extra factor of 2^64 on top of the collateral base
// units; the pricing layer removes it with its ceiling/floor division.
func costLevel(logN *big.Int, netSold []*big.Int, funding *big.Int) (*big.Int, error) {
	sum, offset, _, err := sumExpOffset(logN, netSold, funding, 0)
	if err != nil {
		return nil, err
	}

	lvl, err := fixedpoint.Ln(sum)
	if err != nil {
		return nil, err
	}
	lvl, err = fixedpoint.Add(lvl, offset)
	if err != nil {
		return nil, err
	}
	lvl, err = fixedpoint.Mul(lvl, fixedpoint.Scale())
	if err != nil {
		return nil, err
	}
	lvl, err = fixedpoint.Div(lvl, logN)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Mul(lvl, funding)
}
