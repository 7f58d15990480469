package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	portalauth "github.com/stephschuch819-blip/portalauth"
)

const uniqueViolationCode = "23505"

// Provider is a [portalauth.CaseProvider] backed by a Postgres case table.
//
// Provider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Provider struct {
	pool *pgxpool.Pool
}

// NewProvider returns a case provider that uses the given pool for
// persistence. The pool is owned by the caller.
func NewProvider(pool *pgxpool.Pool) *Provider {
	return &Provider{pool: pool}
}

// GetCaseByNumber returns the case for caseNumber, or
// [portalauth.ErrProviderCaseNotFound] if no row matches.
func (p *Provider) GetCaseByNumber(ctx context.Context, caseNumber string) (portalauth.CaseRecord, error) {
	const query = `
		SELECT case_id, case_number, beneficiary_name, credential_hash, is_active, created_at, updated_at
		FROM beneficiary_cases
		WHERE case_number = $1`

	return p.scanCase(p.pool.QueryRow(ctx, query, caseNumber))
}

// GetCaseByID returns the case for caseID, or
// [portalauth.ErrProviderCaseNotFound] if no row matches.
func (p *Provider) GetCaseByID(ctx context.Context, caseID string) (portalauth.CaseRecord, error) {
	const query = `
		SELECT case_id, case_number, beneficiary_name, credential_hash, is_active, created_at, updated_at
		FROM beneficiary_cases
		WHERE case_id = $1`

	return p.scanCase(p.pool.QueryRow(ctx, query, caseID))
}

// CreateCase inserts the record. The case_number unique constraint maps to
// [portalauth.ErrProviderDuplicateCaseNumber] so the caller's
// generate-and-retry loop can distinguish collisions from other failures.
func (p *Provider) CreateCase(ctx context.Context, record portalauth.CaseRecord) error {
	const query = `
		INSERT INTO beneficiary_cases
			(case_id, case_number, beneficiary_name, credential_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := p.pool.Exec(ctx, query,
		record.CaseID,
		record.CaseNumber,
		record.BeneficiaryName,
		record.CredentialHash,
		record.IsActive,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return portalauth.ErrProviderDuplicateCaseNumber
		}
		return err
	}
	return nil
}

// UpdateCredentialHash replaces the stored credential hash for caseID.
func (p *Provider) UpdateCredentialHash(ctx context.Context, caseID, credentialHash string) error {
	const query = `
		UPDATE beneficiary_cases
		SET credential_hash = $2, updated_at = now()
		WHERE case_id = $1`

	tag, err := p.pool.Exec(ctx, query, caseID, credentialHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return portalauth.ErrProviderCaseNotFound
	}
	return nil
}

// UnreadStaffMessageCount returns the number of staff messages the
// beneficiary has not yet read.
func (p *Provider) UnreadStaffMessageCount(ctx context.Context, caseID string) (int, error) {
	const query = `
		SELECT count(*)
		FROM staff_messages
		WHERE case_id = $1 AND read_at IS NULL`

	var count int
	if err := p.pool.QueryRow(ctx, query, caseID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (p *Provider) scanCase(row pgx.Row) (portalauth.CaseRecord, error) {
	var record portalauth.CaseRecord
	err := row.Scan(
		&record.CaseID,
		&record.CaseNumber,
		&record.BeneficiaryName,
		&record.CredentialHash,
		&record.IsActive,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return portalauth.CaseRecord{}, portalauth.ErrProviderCaseNotFound
		}
		return portalauth.CaseRecord{}, err
	}
	return record, nil
}
