package api

// marketPayload is the JSON shape of one market row.
type marketPayload struct {
	Ticker       string   `json:"ticker"`
	Title        string   `json:"title"`
	OutcomeNames []string `json:"outcome_names"`
	Funding      string   `json:"funding"` // decimal tokens
	NetSold      []string `json:"net_sold"`
	Status       string   `json:"status"`
	UpdatedAt    int64    `json:"updated_at"`
}

// marketListPayload wraps the market list.
type marketListPayload struct {
	Markets []marketPayload `json:"markets"`
}

// pricePayload carries all marginal prices for one market.
type pricePayload struct {
	Ticker string   `json:"ticker"`
	Prices []string `json:"prices"` // fractions, "0".."1"
}

// tradePayload is the response to a cost or profit query.
type tradePayload struct {
	Ticker  string `json:"ticker"`
	Outcome int    `json:"outcome"`
	Count   string `json:"count"`  // decimal tokens, as requested
	Amount  string `json:"amount"` // decimal tokens: charge for cost, proceeds for profit
}

// healthPayload is the healthz response.
type healthPayload struct {
	Status   string `json:"status"`
	Markets  int    `json:"markets"`
	Database string `json:"database,omitempty"`
}

// errorPayload is the error response body.
type errorPayload struct {
	Error string `json:"error"`
}
