// Package conv provides safe integer type conversion utilities.
//
// Use them where a platform int meets a fixed-width type, such as local
// labels stored in 32-bit posting lists. For conversions that are provably
// safe by domain constraints (e.g., loop indices), use direct type casts.
package conv
