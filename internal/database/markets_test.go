package database

import (
	"math/big"
	"testing"
)

func TestParseAmounts(t *testing.T) {
	funding, netSold, err := parseAmounts(
		"1844674407370955161600",
		[]string{"0", "-18446744073709551616", "36893488147419103232"},
	)
	if err != nil {
		t.Fatalf("parseAmounts() error = %v", err)
	}

	wantFunding := new(big.Int).Lsh(big.NewInt(100), 64)
	if funding.Cmp(wantFunding) != 0 {
		t.Errorf("funding = %v, want %v", funding, wantFunding)
	}

	if len(netSold) != 3 {
		t.Fatalf("len(netSold) = %d, want 3", len(netSold))
	}
	if netSold[0].Sign() != 0 {
		t.Errorf("netSold[0] = %v, want 0", netSold[0])
	}
	wantNeg := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 64))
	if netSold[1].Cmp(wantNeg) != 0 {
		t.Errorf("netSold[1] = %v, want %v", netSold[1], wantNeg)
	}
}

func TestParseAmountsRejectsGarbage(t *testing.T) {
	tests := []struct {
		name    string
		funding string
		netSold []string
	}{
		{"bad funding", "1.5e10", []string{"0"}},
		{"empty funding", "", []string{"0"}},
		{"bad position", "100", []string{"0", "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseAmounts(tt.funding, tt.netSold); err == nil {
				t.Error("parseAmounts() error = nil, want error")
			}
		})
	}
}
