package market

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/openpredict/lmsr-pricer/internal/model"
)

// Entry is one market held by the registry. It implements lmsr.Market;
// reads and the fill path share one RWMutex so the pricing core always
// observes a consistent position vector while it snapshots.
type Entry struct {
	mu sync.RWMutex
	m  model.Market
}

func newEntry(m model.Market) *Entry {
	return &Entry{m: cloneMarket(m)}
}

// OutcomeCount implements lmsr.Market.
func (e *Entry) OutcomeCount() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.m.OutcomeNames), nil
}

// Funding implements lmsr.Market.
func (e *Entry) Funding() (*big.Int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.m.Funding), nil
}

// NetOutcomeTokensSold implements lmsr.Market.
func (e *Entry) NetOutcomeTokensSold(index int) (*big.Int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if index < 0 || index >= len(e.m.NetSold) {
		return nil, fmt.Errorf("outcome index %d out of range [0, %d)", index, len(e.m.NetSold))
	}
	return new(big.Int).Set(e.m.NetSold[index]), nil
}

// Snapshot returns a copy of the full market row (read-locked).
func (e *Entry) Snapshot() model.Market {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneMarket(e.m)
}

// applyFill adjusts one outcome's net position (write-locked).
func (e *Entry) applyFill(f model.Fill) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f.Outcome < 0 || f.Outcome >= len(e.m.NetSold) {
		return fmt.Errorf("outcome index %d out of range [0, %d)", f.Outcome, len(e.m.NetSold))
	}
	e.m.NetSold[f.Outcome].Add(e.m.NetSold[f.Outcome], f.Count)
	e.m.UpdatedAt = f.ExecutedAt
	return nil
}

// replace swaps in reconciled state from the database (write-locked).
func (e *Entry) replace(m model.Market) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.m = cloneMarket(m)
}

// cloneMarket deep-copies a market row, including its big.Int amounts.
func cloneMarket(m model.Market) model.Market {
	out := m
	out.OutcomeNames = append([]string(nil), m.OutcomeNames...)
	out.Funding = new(big.Int).Set(m.Funding)
	out.NetSold = make([]*big.Int, len(m.NetSold))
	for i, q := range m.NetSold {
		out.NetSold[i] = new(big.Int).Set(q)
	}
	return out
}
