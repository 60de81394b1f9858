package fixedpoint

import (
	"errors"
	"math/big"
	"testing"
)

func TestAddSub(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		got, err := Add(big.NewInt(40), big.NewInt(2))
		if err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
		if got.Cmp(big.NewInt(42)) != 0 {
			t.Errorf("Add = %v, want 42", got)
		}
	})

	t.Run("AddOverflow", func(t *testing.T) {
		_, err := Add(maxFixed, big.NewInt(1))
		if !errors.Is(err, ErrOverflow) {
			t.Errorf("Add(max, 1) error = %v, want ErrOverflow", err)
		}
	})

	t.Run("SubUnderflow", func(t *testing.T) {
		_, err := Sub(minFixed, big.NewInt(1))
		if !errors.Is(err, ErrOverflow) {
			t.Errorf("Sub(min, 1) error = %v, want ErrOverflow", err)
		}
	})

	t.Run("SubNegativeResult", func(t *testing.T) {
		got, err := Sub(big.NewInt(2), big.NewInt(5))
		if err != nil {
			t.Fatalf("Sub returned error: %v", err)
		}
		if got.Cmp(big.NewInt(-3)) != 0 {
			t.Errorf("Sub = %v, want -3", got)
		}
	})
}

func TestMulDiv(t *testing.T) {
	t.Run("Mul", func(t *testing.T) {
		got, err := Mul(big.NewInt(-6), big.NewInt(7))
		if err != nil {
			t.Fatalf("Mul returned error: %v", err)
		}
		if got.Cmp(big.NewInt(-42)) != 0 {
			t.Errorf("Mul = %v, want -42", got)
		}
	})

	t.Run("MulOverflow", func(t *testing.T) {
		_, err := Mul(maxFixed, big.NewInt(2))
		if !errors.Is(err, ErrOverflow) {
			t.Errorf("Mul(max, 2) error = %v, want ErrOverflow", err)
		}
	})

	t.Run("DivTruncatesTowardZero", func(t *testing.T) {
		got, err := Div(big.NewInt(-7), big.NewInt(2))
		if err != nil {
			t.Fatalf("Div returned error: %v", err)
		}
		if got.Cmp(big.NewInt(-3)) != 0 {
			t.Errorf("Div(-7, 2) = %v, want -3", got)
		}
	})

	t.Run("DivByZero", func(t *testing.T) {
		_, err := Div(big.NewInt(1), big.NewInt(0))
		if !errors.Is(err, ErrDomain) {
			t.Errorf("Div(1, 0) error = %v, want ErrDomain", err)
		}
	})
}

func TestMax(t *testing.T) {
	t.Run("PicksLargest", func(t *testing.T) {
		xs := []*big.Int{big.NewInt(-5), big.NewInt(3), big.NewInt(1)}
		got, err := Max(xs)
		if err != nil {
			t.Fatalf("Max returned error: %v", err)
		}
		if got.Cmp(big.NewInt(3)) != 0 {
			t.Errorf("Max = %v, want 3", got)
		}
	})

	t.Run("AllNegative", func(t *testing.T) {
		xs := []*big.Int{big.NewInt(-5), big.NewInt(-3)}
		got, err := Max(xs)
		if err != nil {
			t.Fatalf("Max returned error: %v", err)
		}
		if got.Cmp(big.NewInt(-3)) != 0 {
			t.Errorf("Max = %v, want -3", got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Max(nil)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Max(nil) error = %v, want ErrEmptyInput", err)
		}
	})

	t.Run("ReturnsCopy", func(t *testing.T) {
		x := big.NewInt(9)
		got, err := Max([]*big.Int{x})
		if err != nil {
			t.Fatalf("Max returned error: %v", err)
		}
		got.SetInt64(0)
		if x.Cmp(big.NewInt(9)) != 0 {
			t.Errorf("Max mutated its input: %v", x)
		}
	})
}

func TestDoesNotMutateArguments(t *testing.T) {
	a := new(big.Int).Set(scale)
	b := big.NewInt(3)
	if _, err := Div(a, b); err != nil {
		t.Fatalf("Div returned error: %v", err)
	}
	if a.Cmp(scale) != 0 || b.Cmp(big.NewInt(3)) != 0 {
		t.Errorf("Div mutated arguments: a=%v b=%v", a, b)
	}
}
