package portalauth

import (
	"context"
	"time"
)

// CaseRecord is the beneficiary case as seen by the authorization layer.
//
// The record is owned by the external record store; this layer reads it on
// every authorization decision and writes only through the credential-hash
// path. An inactive case is treated as non-existent everywhere.
type CaseRecord struct {
	CaseID     string
	CaseNumber string

	BeneficiaryName string

	CredentialHash string
	IsActive       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CaseProvider is the record-storage collaborator contract. Implementations
// must be safe for concurrent use; the Guard calls them from every request
// handler.
//
// CreateCase must enforce case-number uniqueness and return
// [ErrProviderDuplicateCaseNumber] on a collision — the Guard's
// generate-and-retry loop depends on the constraint, not on pre-checking.
type CaseProvider interface {
	GetCaseByNumber(ctx context.Context, caseNumber string) (CaseRecord, error)
	GetCaseByID(ctx context.Context, caseID string) (CaseRecord, error)
	CreateCase(ctx context.Context, record CaseRecord) error
	UpdateCredentialHash(ctx context.Context, caseID, credentialHash string) error
	UnreadStaffMessageCount(ctx context.Context, caseID string) (int, error)
}
