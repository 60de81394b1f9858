// Package lmsr prices trades against a Logarithmic Market Scoring Rule
// automated market maker, using fixed-point integer arithmetic only.
//
// A market with n outcomes, funding b, and net outcome tokens sold q_i has
// cost level b*ln(sum(exp(q_i/b))); the cost of a trade is the difference
// in cost level across that trade. The exponentials are evaluated with a
// shared subtractive offset chosen so the largest term sits exactly at the
// exponential's domain ceiling, which avoids overflow without collapsing
// the smaller terms to zero.
//
// All operations are pure functions over a Snapshot, an immutable copy of
// the market state taken once per call. The before and after cost levels of
// a trade are always evaluated against the same snapshot, so interleaved
// mutation of the underlying market cannot produce an inconsistent
// comparison.
//
// Rounding is deliberately asymmetric in the maker's favor: costs round up
// and are clamped to one collateral unit per token, proceeds round down
// with no clamp. Callers must preserve this policy; it is what guarantees
// the maker never sells a share for more than one unit of collateral.
package lmsr
