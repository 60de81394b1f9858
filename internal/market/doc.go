// Package market maintains the in-memory registry of LMSR markets the
// pricer serves: each entry carries the market's funding and live net
// outcome positions behind a lock and implements the read-only collaborator
// surface the pricing core consumes.
//
// The registry is loaded from Postgres at startup and reconciled against it
// periodically; fills arriving between reconciliations are applied directly
// to the in-memory positions. Dirty tickers are announced on a change
// channel so the poller can reprice promptly.
package market
