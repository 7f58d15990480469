// Package internal contains helper utilities that are intentionally private to
// portalauth, including secure token generation and case-number alphabet helpers.
//
// # Sub-packages
//
//   - rate — core Redis-backed rate limit primitives for the login endpoint
//
// # What this package must NOT do
//
//   - Export types that appear in the public portalauth API.
//   - Be imported by any package outside the portalauth module.
package internal
