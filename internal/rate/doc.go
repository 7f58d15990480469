// Package rate provides internal primitives used to build Redis-backed rate limit
// keys, errors, and limiter behavior for the login endpoint.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key prefix:
//   - lo: — login per network origin
//
// The counter is incremented before the threshold comparison, so an origin that
// has consumed its budget keeps incrementing but stays blocked until the window
// key expires.
//
// # What this package must NOT do
//
//   - Interpret credentials or touch the case store.
//   - Be imported outside the portalauth module.
package rate
