package model

import (
	"fmt"
	"math/big"
	"strings"
)

// fracDigits is the precision used when rendering base-unit amounts as
// decimal token strings. 2^-64 ≈ 5.4e-20, so 20 digits are exact.
const fracDigits = 20

var (
	scale    = new(big.Int).Lsh(big.NewInt(1), 64)
	fracUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(fracDigits), nil)
)

// FormatAmount renders a base-unit amount as a decimal token string, e.g.
// "12.5". Trailing fractional zeros are trimmed.
func FormatAmount(x *big.Int) string {
	neg := x.Sign() < 0
	abs := new(big.Int).Abs(x)

	q, r := new(big.Int).QuoRem(abs, scale, new(big.Int))
	out := q.String()

	if r.Sign() != 0 {
		// frac = r * 10^fracDigits / 2^64, zero-padded.
		frac := r.Mul(r, fracUnit)
		frac.Quo(frac, scale)
		digits := fmt.Sprintf("%0*s", fracDigits, frac.String())
		digits = strings.TrimRight(digits, "0")
		if digits != "" {
			out += "." + digits
		}
	}

	if neg && out != "0" {
		out = "-" + out
	}
	return out
}

// ParseAmount parses a decimal token string into base units, truncating
// anything finer than 2^-64.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	if intPart == "" {
		intPart = "0"
	}

	x, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	x.Mul(x, scale)

	if fracPart != "" {
		if len(fracPart) > fracDigits {
			fracPart = fracPart[:fracDigits]
		}
		f, ok := new(big.Int).SetString(fracPart, 10)
		if !ok {
			return nil, fmt.Errorf("malformed amount %q", s)
		}
		// f / 10^len * 2^64
		pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(len(fracPart))), nil)
		f.Mul(f, scale)
		f.Quo(f, pow)
		x.Add(x, f)
	}

	if neg {
		x.Neg(x)
	}
	return x, nil
}

// isDigits reports whether s consists only of ASCII digits. The empty
// string is fine; presence is checked by the caller.
func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

