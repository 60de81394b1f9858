package database

import (
	"context"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openpredict/lmsr-pricer/internal/model"
)

// listMarketsSQL casts NUMERIC columns to text so positions larger than
// int64 survive the scan.
const listMarketsSQL = `
	SELECT ticker, title, outcome_names, funding::text,
	       array(SELECT q::text FROM unnest(net_sold) AS q),
	       status, created_ts, updated_at
	FROM markets
	ORDER BY ticker`

// MarketStore reads market rows from Postgres.
type MarketStore struct {
	pool *pgxpool.Pool
}

// NewMarketStore creates a market store on the given pool.
func NewMarketStore(pool *pgxpool.Pool) *MarketStore {
	return &MarketStore{pool: pool}
}

// ListMarkets returns all market rows.
func (s *MarketStore) ListMarkets(ctx context.Context) ([]model.Market, error) {
	rows, err := s.pool.Query(ctx, listMarketsSQL)
	if err != nil {
		return nil, fmt.Errorf("query markets: %w", err)
	}
	defer rows.Close()

	var out []model.Market
	for rows.Next() {
		var (
			m       model.Market
			funding string
			netSold []string
		)
		err := rows.Scan(&m.Ticker, &m.Title, &m.OutcomeNames, &funding,
			&netSold, &m.Status, &m.CreatedTS, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan market row: %w", err)
		}
		if m.Funding, m.NetSold, err = parseAmounts(funding, netSold); err != nil {
			return nil, fmt.Errorf("market %q: %w", m.Ticker, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate markets: %w", err)
	}
	return out, nil
}

// parseAmounts converts funding and per-outcome positions from their
// decimal text form.
func parseAmounts(funding string, netSold []string) (*big.Int, []*big.Int, error) {
	f, ok := new(big.Int).SetString(funding, 10)
	if !ok {
		return nil, nil, fmt.Errorf("bad funding %q", funding)
	}
	qs := make([]*big.Int, len(netSold))
	for i, s := range netSold {
		q, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, nil, fmt.Errorf("bad net position %q at outcome %d", s, i)
		}
		qs[i] = q
	}
	return f, qs, nil
}
