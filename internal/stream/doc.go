// Package stream implements the websocket price feed.
//
// Clients connect to /v1/stream, optionally subscribe to a set of
// tickers, and receive a PriceUpdate payload every time a market is
// repriced. A client with no explicit subscriptions receives every
// market. Slow clients are disconnected rather than allowed to stall
// the broadcast loop.
package stream
