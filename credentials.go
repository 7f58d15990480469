package portalauth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/stephschuch819-blip/portalauth/internal"
)

// SetCredential describes the setcredential operation and its observable behavior.
//
// SetCredential may return an error when input validation, dependency calls, or security checks fail.
// SetCredential does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// SetCredential is the only write path for credential material; every stored
// hash passes through it (or the rehash-on-login upgrade), so a plaintext
// credential can never reach the record store.
func (g *Guard) SetCredential(ctx context.Context, caseID, pw string) error {
	if g == nil || g.passwordHash == nil || g.caseProvider == nil {
		return ErrGuardNotReady
	}
	if len(pw) < g.config.Password.MinLength {
		return ErrPasswordPolicy
	}

	encoded, err := g.passwordHash.Hash(pw)
	if err != nil {
		return err
	}

	if err := g.caseProvider.UpdateCredentialHash(ctx, caseID, encoded); err != nil {
		if errors.Is(err, ErrProviderCaseNotFound) {
			return ErrCaseNotFound
		}
		return err
	}
	return nil
}

// NewCase describes the newcase operation and its observable behavior.
//
// NewCase may return an error when input validation, dependency calls, or security checks fail.
// NewCase does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The case number is drawn at random and uniqueness is delegated to the
// record store's constraint: on [ErrProviderDuplicateCaseNumber] a fresh
// number is drawn and the insert retried, bounded by
// Config.CaseNumber.MaxGenerateAttempts. Two concurrent calls can therefore
// never observe the same number.
func (g *Guard) NewCase(ctx context.Context, beneficiaryName, pw string) (CaseRecord, error) {
	if g == nil || g.passwordHash == nil || g.caseProvider == nil {
		return CaseRecord{}, ErrGuardNotReady
	}
	if len(pw) < g.config.Password.MinLength {
		return CaseRecord{}, ErrPasswordPolicy
	}

	encoded, err := g.passwordHash.Hash(pw)
	if err != nil {
		return CaseRecord{}, err
	}

	for attempt := 0; attempt < g.config.CaseNumber.MaxGenerateAttempts; attempt++ {
		caseNumber, err := g.generateCaseNumber()
		if err != nil {
			return CaseRecord{}, err
		}

		now := time.Now()
		record := CaseRecord{
			CaseID:          uuid.NewString(),
			CaseNumber:      caseNumber,
			BeneficiaryName: beneficiaryName,
			CredentialHash:  encoded,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		err = g.caseProvider.CreateCase(ctx, record)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, ErrProviderDuplicateCaseNumber) {
			return CaseRecord{}, err
		}
	}

	return CaseRecord{}, ErrCaseNumberExhausted
}

// generateCaseNumber draws one candidate case number, e.g. "DG-7KQ2M9".
func (g *Guard) generateCaseNumber() (string, error) {
	suffix, err := internal.NewCaseNumberSuffix(g.config.CaseNumber.SuffixLength)
	if err != nil {
		return "", err
	}
	return g.config.CaseNumber.Prefix + suffix, nil
}
