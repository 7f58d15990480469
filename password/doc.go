// Package password implements credential hashing and verification with Argon2id
// defaults for beneficiary case passwords.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// The leading algorithm identifier and version are explicit, so a future
// algorithm change is detected by parsing, never by prefix sniffing. If the
// stored hash was produced with weaker parameters, [Argon2.NeedsRehash]
// returns true so the caller can re-hash on the next successful verification.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Credential policy (minimum
// length, write-path hashing) is enforced by the Guard.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other portalauth package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
