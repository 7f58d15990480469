// Package portalauth provides session-bound authorization for a beneficiary
// case-management portal: argon2id credential storage, Redis-backed sessions
// with a sliding inactivity window, per-origin login rate limiting, and a
// security audit pipeline.
//
// The package is designed for concurrent server workloads: Guard methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// portalauth is the public surface. It exposes [Guard], [Builder], [Config],
// and value types (CaseRecord, AuditEvent, MetricsSnapshot, etc.). All
// internal coordination — token generation, session encoding, rate limiting —
// lives under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Accept a case identifier from client input on any protected operation.
//     The case is always resolved from the server-side session; the only
//     client-supplied request value is the opaque session token.
//   - Reveal through its errors whether a case number exists. A wrong
//     password, an unknown case number, and a deactivated case all fail with
//     [ErrInvalidCredentials] on login and [ErrCaseNotFound] on authorized
//     access.
//   - Expose Redis clients, internal stores, or encoding details in its
//     public API.
//
// # Performance contract
//
// RequireCase is the hot path. It is allowed two Redis round-trips per call
// (session read plus idle-window refresh) and one record-store lookup. Login
// additionally pays the argon2id derivation, which dominates its latency.
package portalauth
