// Package fixedpoint implements overflow-checked 256-bit fixed-point
// arithmetic with the scaling constant SCALE = 2^64, including the
// transcendental functions Exp and Ln needed by LMSR pricing.
//
// Conventions:
//   - Values are *big.Int, interpreted as real numbers multiplied by 2^64.
//   - The representable range is that of a signed 256-bit integer;
//     operations whose exact result falls outside it return ErrOverflow.
//   - Arithmetic is deterministic and integer-only. Division truncates
//     toward zero, matching the behavior the pricing layer's rounding
//     policy is built on.
//   - Functions never mutate their arguments and always return fresh values.
package fixedpoint
