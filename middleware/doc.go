// Package middleware exposes HTTP adapters for session-cookie enforcement
// built on top of portalauth.Guard resolution.
//
// [RequireCase] reads the dg_session cookie, calls Guard.RequireCase, and
// injects the resolved case record into the request context. Cookie helpers
// ([SetSessionCookie], [ClearSessionCookie], [SessionTokenFromRequest]) keep
// login and logout handlers free of cookie plumbing.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Guard calls. It does NOT
// implement authorization logic itself — all decisions are delegated to
// Guard.RequireCase.
//
// # What this package must NOT do
//
//   - Read case identifiers from the URL, form, or query string.
//   - Access Redis (the Guard handles I/O).
//   - Make authorization decisions beyond pass/redirect from
//     Guard.RequireCase.
package middleware
