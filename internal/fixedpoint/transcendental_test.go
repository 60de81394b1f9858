package fixedpoint

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

// toFloat converts a fixed-point value to its real-number approximation.
func toFloat(x *big.Int) float64 {
	f := new(big.Float).SetInt(x)
	f.Quo(f, new(big.Float).SetInt(scale))
	v, _ := f.Float64()
	return v
}

// fromFloat converts a real number to its fixed-point representation.
func fromFloat(v float64) *big.Int {
	f := big.NewFloat(v)
	f.Mul(f, new(big.Float).SetInt(scale))
	x, _ := f.Int(nil)
	return x
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}

func TestExpAgainstFloatReference(t *testing.T) {
	// Quantization to 2^-64 dominates below roughly e^-40; restrict the
	// relative-error check to arguments whose result carries full precision.
	args := []float64{-10, -5, -1, -0.5, -0.1, 0, 0.1, 0.5, 1, 2, 10, 42.5, 100, 127}
	for _, a := range args {
		got, err := Exp(fromFloat(a))
		if err != nil {
			t.Fatalf("Exp(%v) returned error: %v", a, err)
		}
		want := math.Exp(a)
		if e := relErr(toFloat(got), want); e > 1e-9 {
			t.Errorf("Exp(%v) = %v, want %v (rel err %v)", a, toFloat(got), want, e)
		}
	}
}

func TestExpZero(t *testing.T) {
	got, err := Exp(big.NewInt(0))
	if err != nil {
		t.Fatalf("Exp(0) returned error: %v", err)
	}
	if got.Cmp(scale) != 0 {
		t.Errorf("Exp(0) = %v, want %v", got, scale)
	}
}

func TestExpDeepNegativeRoundsToZero(t *testing.T) {
	got, err := Exp(fromFloat(-200))
	if err != nil {
		t.Fatalf("Exp(-200) returned error: %v", err)
	}
	if got.Sign() != 0 {
		t.Errorf("Exp(-200) = %v, want 0", got)
	}
}

func TestExpLimitBoundary(t *testing.T) {
	t.Run("AtLimit", func(t *testing.T) {
		got, err := Exp(expLimit)
		if err != nil {
			t.Fatalf("Exp(ExpLimit) returned error: %v", err)
		}
		if got.Cmp(maxFixed) >= 0 {
			t.Errorf("Exp(ExpLimit) = %v exceeds representable range", got)
		}
		want := math.Exp(toFloat(expLimit))
		if e := relErr(toFloat(got), want); e > 1e-9 {
			t.Errorf("Exp(ExpLimit) rel err %v too large", e)
		}
	})

	t.Run("OneAboveLimit", func(t *testing.T) {
		x := new(big.Int).Add(expLimit, big.NewInt(1))
		_, err := Exp(x)
		if !errors.Is(err, ErrDomain) {
			t.Errorf("Exp(ExpLimit+1) error = %v, want ErrDomain", err)
		}
	})
}

func TestExpMonotonic(t *testing.T) {
	prev := big.NewInt(-1)
	for a := -20.0; a <= 20.0; a += 0.37 {
		got, err := Exp(fromFloat(a))
		if err != nil {
			t.Fatalf("Exp(%v) returned error: %v", a, err)
		}
		if got.Cmp(prev) < 0 {
			t.Fatalf("Exp not monotonic at %v: %v < %v", a, got, prev)
		}
		prev = got
	}
}

func TestLnAgainstFloatReference(t *testing.T) {
	args := []float64{0.001, 0.1, 0.5, 0.9, 1, 1.0001, 1.5, 2, math.E, 10, 1e6, 1e18, 1e40}
	for _, a := range args {
		got, err := Ln(fromFloat(a))
		if err != nil {
			t.Fatalf("Ln(%v) returned error: %v", a, err)
		}
		want := math.Log(a)
		diff := math.Abs(toFloat(got) - want)
		if diff > math.Max(1e-9*math.Abs(want), 1e-12) {
			t.Errorf("Ln(%v) = %v, want %v", a, toFloat(got), want)
		}
	}
}

func TestLnOfOneIsZero(t *testing.T) {
	got, err := Ln(new(big.Int).Set(scale))
	if err != nil {
		t.Fatalf("Ln(1) returned error: %v", err)
	}
	if got.Sign() != 0 {
		t.Errorf("Ln(1) = %v, want 0", got)
	}
}

func TestLnDomain(t *testing.T) {
	for _, x := range []*big.Int{big.NewInt(0), big.NewInt(-1)} {
		_, err := Ln(x)
		if !errors.Is(err, ErrDomain) {
			t.Errorf("Ln(%v) error = %v, want ErrDomain", x, err)
		}
	}
}

func TestLnSmallestRepresentable(t *testing.T) {
	// The smallest positive value, 2^-64, has an exact logarithm -64*ln2.
	got, err := Ln(big.NewInt(1))
	if err != nil {
		t.Fatalf("Ln(2^-64) returned error: %v", err)
	}
	want := -64 * math.Ln2
	if e := relErr(toFloat(got), want); e > 1e-12 {
		t.Errorf("Ln(2^-64) = %v, want %v", toFloat(got), want)
	}
}

func TestLnExpRoundTrip(t *testing.T) {
	for _, a := range []float64{-5, -1, 0.25, 1, 3.5, 20, 80} {
		y, err := Exp(fromFloat(a))
		if err != nil {
			t.Fatalf("Exp(%v) returned error: %v", a, err)
		}
		back, err := Ln(y)
		if err != nil {
			t.Fatalf("Ln(Exp(%v)) returned error: %v", a, err)
		}
		diff := math.Abs(toFloat(back) - a)
		if diff > math.Max(1e-9*math.Abs(a), 1e-12) {
			t.Errorf("Ln(Exp(%v)) = %v, want %v", a, toFloat(back), a)
		}
	}
}
