package fixedpoint

import "math/big"

// Series lengths. With the exponential's argument reduced to [0, ln 2) and
// the logarithm's to |t| < 1/3, both series converge far past 64 fractional
// bits at these lengths; the dominant error is the one-ulp truncation of
// each fixed-point division, keeping the total relative error of Exp and Ln
// below 2^-32 (the bound the pricing layer's rounding policy relies on).
// The accompanying tests verify the bound against float64 references.
const (
	expTerms = 24
	lnTerms  = 32
)

// Exp returns e^x for a fixed-point x <= ExpLimit, truncated to the
// representation. Arguments far below zero legitimately round to 0;
// arguments above ExpLimit return ErrDomain.
//
// The argument is decomposed as x = k*ln2 + r with r in [0, ln2), so that
// e^x = 2^k * e^r; e^r is evaluated with a Horner-form Taylor series and
// the final result is a binary shift by k.
func Exp(x *big.Int) (*big.Int, error) {
	if x.Cmp(expLimit) > 0 {
		return nil, ErrDomain
	}

	// big.Int Div/Mod are Euclidean: r is in [0, ln2) even for negative x.
	k := new(big.Int).Div(x, ln2)
	r := new(big.Int).Mod(x, ln2)

	// e^r = 1 + r*(1 + r/2*(1 + r/3*(... (1 + r/N))))
	s := new(big.Int).Set(scale)
	t := new(big.Int)
	for n := int64(expTerms); n >= 1; n-- {
		t.Mul(r, s)
		t.Rsh(t, 64)
		t.Quo(t, big.NewInt(n))
		s.Add(t, scale)
	}

	if k.Sign() >= 0 {
		// x <= ExpLimit bounds k by 184, so the shift is small.
		return checkRange(s.Lsh(s, uint(k.Uint64())))
	}

	shift := new(big.Int).Neg(k)
	if shift.Cmp(big.NewInt(256)) > 0 {
		return big.NewInt(0), nil
	}
	return s.Rsh(s, uint(shift.Uint64())), nil
}

// Ln returns the natural logarithm of a strictly positive fixed-point x.
// Non-positive arguments return ErrDomain.
//
// x is normalized to m * 2^e with m in [1, 2), then
// ln(m) = 2*atanh(t) = 2*(t + t^3/3 + t^5/5 + ...) with t = (m-1)/(m+1),
// and ln(x) = e*ln2 + ln(m). |t| < 1/3, so the series converges quickly.
func Ln(x *big.Int) (*big.Int, error) {
	if x.Sign() <= 0 {
		return nil, ErrDomain
	}

	// Normalize so m represents a real value in [1, 2): 64 integer bits
	// of x shift into the exponent e, which may be negative.
	e := x.BitLen() - 65
	m := new(big.Int)
	if e >= 0 {
		m.Rsh(x, uint(e))
	} else {
		m.Lsh(x, uint(-e))
	}

	num := new(big.Int).Sub(m, scale)
	den := new(big.Int).Add(m, scale)
	t := num.Lsh(num, 64)
	t.Quo(t, den)

	t2 := new(big.Int).Mul(t, t)
	t2.Rsh(t2, 64)

	sum := new(big.Int).Set(t)
	term := new(big.Int).Set(t)
	d := new(big.Int)
	for k := int64(1); k < lnTerms; k++ {
		term.Mul(term, t2)
		term.Rsh(term, 64)
		if term.Sign() == 0 {
			break
		}
		sum.Add(sum, d.Quo(term, big.NewInt(2*k+1)))
	}
	sum.Lsh(sum, 1)

	res := new(big.Int).Mul(big.NewInt(int64(e)), ln2)
	return res.Add(res, sum), nil
}
