package fixedpoint

import (
	"errors"
	"math/big"
)

// Sentinel errors returned by the arithmetic primitives.
var (
	// ErrOverflow means the mathematically correct result cannot be
	// represented in the signed 256-bit range.
	ErrOverflow = errors.New("fixedpoint: result out of range")

	// ErrDomain means the argument lies outside the function's domain
	// (non-positive input to Ln, Exp argument above ExpLimit, or
	// division by zero).
	ErrDomain = errors.New("fixedpoint: argument outside domain")

	// ErrEmptyInput means a sequence operation received no values.
	ErrEmptyInput = errors.New("fixedpoint: empty input")
)

var (
	// scale is the fixed-point scaling constant, 2^64. A raw integer v
	// represents the real number v / 2^64.
	scale = new(big.Int).Lsh(big.NewInt(1), 64)

	// expLimit is the largest admissible Exp argument,
	// 2352680790717288641401 ≈ 127.54 * 2^64. e^127.54 * 2^64 ≈ 2^248,
	// which leaves headroom below the 256-bit ceiling for summing terms.
	expLimit, _ = new(big.Int).SetString("2352680790717288641401", 10)

	// ln2 is ln(2) * 2^64, rounded to nearest.
	ln2, _ = new(big.Int).SetString("12786308645202655660", 10)

	// maxFixed and minFixed bound the representable range.
	maxFixed = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	minFixed = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
)

// Scale returns the scaling constant 2^64 (a fresh copy).
func Scale() *big.Int { return new(big.Int).Set(scale) }

// ExpLimit returns the largest admissible Exp argument (a fresh copy).
func ExpLimit() *big.Int { return new(big.Int).Set(expLimit) }

// checkRange returns z unchanged if it fits the signed 256-bit range.
func checkRange(z *big.Int) (*big.Int, error) {
	if z.Cmp(maxFixed) > 0 || z.Cmp(minFixed) < 0 {
		return nil, ErrOverflow
	}
	return z, nil
}

// Add returns a + b.
func Add(a, b *big.Int) (*big.Int, error) {
	return checkRange(new(big.Int).Add(a, b))
}

// Sub returns a - b.
func Sub(a, b *big.Int) (*big.Int, error) {
	return checkRange(new(big.Int).Sub(a, b))
}

// Mul returns a * b. The product is a plain integer product; callers
// compose it with Div to keep track of the 2^64 scale explicitly, the
// same way the cost-level engine's formulas are written.
func Mul(a, b *big.Int) (*big.Int, error) {
	return checkRange(new(big.Int).Mul(a, b))
}

// Div returns a / b, truncated toward zero.
func Div(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, ErrDomain
	}
	return checkRange(new(big.Int).Quo(a, b))
}

// Max returns the maximum of a non-empty slice.
func Max(xs []*big.Int) (*big.Int, error) {
	if len(xs) == 0 {
		return nil, ErrEmptyInput
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x.Cmp(m) > 0 {
			m = x
		}
	}
	return new(big.Int).Set(m), nil
}
