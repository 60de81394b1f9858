// Command quotecalc is a one-shot LMSR calculator for a market state
// given on the command line.
//
// Examples:
//
//	quotecalc -funding 100 -positions 0,0 -op price
//	quotecalc -funding 100 -positions 10,-5 -op cost -outcome 0 -count 10
//	quotecalc -funding 100 -positions 10,-5 -op profit -outcome 0 -count 3
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/openpredict/lmsr-pricer/internal/lmsr"
	"github.com/openpredict/lmsr-pricer/internal/model"
	"github.com/openpredict/lmsr-pricer/internal/version"
)

func main() {
	funding := flag.String("funding", "", "market funding in tokens, e.g. 100")
	positions := flag.String("positions", "", "comma-separated net outcome tokens sold, e.g. 10,-5")
	op := flag.String("op", "price", "operation: price, cost, or profit")
	outcome := flag.Int("outcome", 0, "outcome index for cost/profit")
	count := flag.String("count", "", "token count for cost/profit, e.g. 10.5")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	snap, err := buildSnapshot(*funding, *positions)
	if err != nil {
		fatalf("invalid market: %v", err)
	}

	switch *op {
	case "price":
		for i := 0; i < snap.OutcomeCount(); i++ {
			price, err := snap.MarginalPrice(i)
			if err != nil {
				fatalf("price outcome %d: %v", i, err)
			}
			fmt.Printf("outcome %d: %s\n", i, model.FormatAmount(price))
		}

	case "cost", "profit":
		c, err := model.ParseAmount(*count)
		if err != nil {
			fatalf("invalid count: %v", err)
		}
		var amount *big.Int
		if *op == "cost" {
			amount, err = snap.Cost(*outcome, c)
		} else {
			amount, err = snap.Profit(*outcome, c)
		}
		if err != nil {
			fatalf("%s: %v", *op, err)
		}
		fmt.Println(model.FormatAmount(amount))

	default:
		fatalf("unknown op %q", *op)
	}
}

// buildSnapshot parses the market state flags.
func buildSnapshot(funding, positions string) (*lmsr.Snapshot, error) {
	if funding == "" || positions == "" {
		return nil, fmt.Errorf("both -funding and -positions are required")
	}

	f, err := model.ParseAmount(funding)
	if err != nil {
		return nil, fmt.Errorf("funding: %w", err)
	}

	parts := strings.Split(positions, ",")
	netSold := make([]*big.Int, len(parts))
	for i, p := range parts {
		q, err := model.ParseAmount(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		netSold[i] = q
	}

	return lmsr.NewSnapshot(f, netSold), nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
