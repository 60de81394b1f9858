// Package writer implements the batch writer for the quote time series.
//
// The writer consumes priced quotes from the router buffer, accumulates
// them, and flushes to TimescaleDB either when the batch fills or on a
// timer. Inserts are append-only with ON CONFLICT DO NOTHING, so a replay
// after a crash never duplicates rows.
//
// Amounts are written as decimal strings into NUMERIC columns: marginal
// prices are 2^64-scaled fractions, unit costs are collateral base units.
package writer
