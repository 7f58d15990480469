// Package session provides Redis-backed session persistence and compact binary
// session encoding for the portal authorization hot path.
//
// # Binary encoding
//
// Sessions are stored in Redis as a compact binary format (schema version v1).
// The encoder is append-only: future versions add fields but never reinterpret
// old ones.
//
// # Lifecycle
//
// A session is written on successful login with the idle-window TTL, refreshed
// (last-seen timestamp and TTL) on every authorized request, and removed on
// logout, on anomaly-triggered destruction, or lazily when a read observes the
// idle window elapsed. A per-case index set supports destroying every session
// bound to a case in one call.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [Session] model. It
// does NOT verify credentials or enforce authorization policy — those
// responsibilities belong to the Guard.
//
// # What this package must NOT do
//
//   - Import portalauth or password (no upward imports).
//   - Perform application-level authorization decisions.
//   - Store credential material in [Session] fields.
package session
