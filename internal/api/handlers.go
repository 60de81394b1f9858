package api

import (
	"errors"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/openpredict/lmsr-pricer/internal/fixedpoint"
	"github.com/openpredict/lmsr-pricer/internal/lmsr"
	"github.com/openpredict/lmsr-pricer/internal/model"
)

// handleHealth reports liveness and, when wired, database health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := healthPayload{
		Status:  "ok",
		Markets: s.markets.Len(),
	}

	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			body.Status = "degraded"
			body.Database = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, body)
			return
		}
		body.Database = "ok"
	}

	writeJSON(w, http.StatusOK, body)
}

// handleListMarkets returns every known market.
func (s *Server) handleListMarkets(w http.ResponseWriter, r *http.Request) {
	rows := s.markets.List()
	body := marketListPayload{Markets: make([]marketPayload, 0, len(rows))}
	for _, m := range rows {
		body.Markets = append(body.Markets, toMarketPayload(m))
	}
	writeJSON(w, http.StatusOK, body)
}

// handleGetMarket returns one market row.
func (s *Server) handleGetMarket(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	m, ok := s.markets.MarketSnapshot(ticker)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown market")
		return
	}
	writeJSON(w, http.StatusOK, toMarketPayload(m))
}

// handlePrice returns the marginal price of every outcome.
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	snap, ok := s.markets.PricingSnapshot(ticker)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown market")
		return
	}

	body := pricePayload{Ticker: ticker}
	for i := 0; i < snap.OutcomeCount(); i++ {
		price, err := snap.MarginalPrice(i)
		if err != nil {
			s.writePricingError(w, ticker, err)
			return
		}
		body.Prices = append(body.Prices, model.FormatAmount(price))
	}
	writeJSON(w, http.StatusOK, body)
}

// handleCost quotes the charge for buying count tokens of one outcome.
func (s *Server) handleCost(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, func(snap *lmsr.Snapshot, outcome int, count *big.Int) (*big.Int, error) {
		return snap.Cost(outcome, count)
	})
}

// handleProfit quotes the proceeds for selling count tokens of one outcome.
func (s *Server) handleProfit(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, func(snap *lmsr.Snapshot, outcome int, count *big.Int) (*big.Int, error) {
		return snap.Profit(outcome, count)
	})
}

// handleTrade is the shared cost/profit handler.
func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request,
	eval func(*lmsr.Snapshot, int, *big.Int) (*big.Int, error)) {

	ticker := mux.Vars(r)["ticker"]
	snap, ok := s.markets.PricingSnapshot(ticker)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown market")
		return
	}

	outcome, err := strconv.Atoi(r.URL.Query().Get("outcome"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "outcome must be an integer")
		return
	}

	countStr := r.URL.Query().Get("count")
	count, err := model.ParseAmount(countStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "count must be a decimal token amount")
		return
	}

	amount, err := eval(snap, outcome, count)
	if err != nil {
		s.writePricingError(w, ticker, err)
		return
	}

	writeJSON(w, http.StatusOK, tradePayload{
		Ticker:  ticker,
		Outcome: outcome,
		Count:   countStr,
		Amount:  model.FormatAmount(amount),
	})
}

// writePricingError maps engine errors onto HTTP statuses.
func (s *Server) writePricingError(w http.ResponseWriter, ticker string, err error) {
	switch {
	case errors.Is(err, lmsr.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, lmsr.ErrInvalidMarket), errors.Is(err, fixedpoint.ErrOverflow):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("pricing failed", "ticker", ticker, "error", err)
		writeError(w, http.StatusInternalServerError, "pricing failed")
	}
}

// toMarketPayload converts a market row to its JSON shape.
func toMarketPayload(m model.Market) marketPayload {
	netSold := make([]string, len(m.NetSold))
	for i, q := range m.NetSold {
		netSold[i] = model.FormatAmount(q)
	}
	return marketPayload{
		Ticker:       m.Ticker,
		Title:        m.Title,
		OutcomeNames: m.OutcomeNames,
		Funding:      model.FormatAmount(m.Funding),
		NetSold:      netSold,
		Status:       m.Status,
		UpdatedAt:    m.UpdatedAt,
	}
}
