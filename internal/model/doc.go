// Package model defines shared data types used across the pricing service.
//
// Conventions:
//   - Amounts (funding, net positions, costs, proceeds): *big.Int in
//     collateral base units, 2^64 base units = one token.
//   - Prices: *big.Int fixed-point fractions in [0, 2^64].
//   - Timestamps: int64 microseconds since Unix epoch.
//   - IDs: string for market tickers, uuid.UUID for quote IDs.
package model
