// Package postgres implements the case-provider contract on a Postgres
// schema using pgx.
//
// Expected schema:
//
//	CREATE TABLE beneficiary_cases (
//	    case_id          uuid PRIMARY KEY,
//	    case_number      text NOT NULL UNIQUE,
//	    beneficiary_name text NOT NULL,
//	    credential_hash  text NOT NULL,
//	    is_active        boolean NOT NULL DEFAULT true,
//	    created_at       timestamptz NOT NULL,
//	    updated_at       timestamptz NOT NULL
//	);
//
//	CREATE TABLE staff_messages (
//	    message_id uuid PRIMARY KEY,
//	    case_id    uuid NOT NULL REFERENCES beneficiary_cases (case_id),
//	    body       text NOT NULL,
//	    sent_at    timestamptz NOT NULL,
//	    read_at    timestamptz
//	);
//
// The UNIQUE constraint on case_number is load-bearing: case-number
// uniqueness under concurrent creation is enforced here, not by
// pre-checking.
//
// # What this package must NOT do
//
//   - Store or log plaintext credentials. Only the PHC-encoded hash is
//     persisted.
//   - Own the pool lifecycle. Callers create and close the pgxpool.
package postgres
