// Package api implements the HTTP query surface.
//
// Endpoints:
//   - GET /v1/markets                       list all markets
//   - GET /v1/markets/{ticker}              one market row
//   - GET /v1/markets/{ticker}/price        marginal price per outcome
//   - GET /v1/markets/{ticker}/cost         buy cost for outcome=&count=
//   - GET /v1/markets/{ticker}/profit       sell proceeds for outcome=&count=
//   - GET /healthz                          liveness and database health
//
// Amounts in requests and responses are decimal token strings; marginal
// prices are fractions in [0, 1].
package api
