// Package database provides connection pool management and row access for
// PostgreSQL and TimescaleDB.
//
// The pricer reads and writes two stores:
//   - PostgreSQL: markets and their net outcome positions (relational data)
//   - TimescaleDB: the quote time series produced by the pricing loop
//
// Amounts (funding, positions, prices) are stored as NUMERIC and travel as
// decimal strings so the 256-bit range survives the round trip.
package database
