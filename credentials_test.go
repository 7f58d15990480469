package portalauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSetCredentialStoresHash(t *testing.T) {
	cfg := guardTestConfig()
	cp := newMockCaseProvider()
	record := seedCase(t, cfg, cp, "DG-AB12CD", "correcthorse1")

	guard, _, done := newTestGuard(t, cfg, cp)
	defer done()

	if err := guard.SetCredential(context.Background(), record.CaseID, "newpassword99"); err != nil {
		t.Fatalf("SetCredential failed: %v", err)
	}

	stored := cp.credentialHash(record.CaseID)
	if stored == "" || strings.Contains(stored, "newpassword99") {
		t.Fatal("expected stored credential to be hashed")
	}
	if !strings.HasPrefix(stored, "$argon2id$") {
		t.Fatalf("expected argon2id PHC hash, got %q", stored)
	}

	// The old credential no longer authenticates; the new one does.
	if _, err := guard.Login(context.Background(), "DG-AB12CD", "correcthorse1", "10.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	if _, err := guard.Login(context.Background(), "DG-AB12CD", "newpassword99", "10.0.0.2"); err != nil {
		t.Fatalf("new password should authenticate: %v", err)
	}
}

func TestSetCredentialEnforcesMinLength(t *testing.T) {
	cfg := guardTestConfig()
	cp := newMockCaseProvider()
	record := seedCase(t, cfg, cp, "DG-AB12CD", "correcthorse1")

	guard, _, done := newTestGuard(t, cfg, cp)
	defer done()

	if err := guard.SetCredential(context.Background(), record.CaseID, "short"); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}

	// The stored credential is untouched on rejection.
	if _, err := guard.Login(context.Background(), "DG-AB12CD", "correcthorse1", "10.0.0.1"); err != nil {
		t.Fatalf("original password should still authenticate: %v", err)
	}
}

func TestSetCredentialUnknownCase(t *testing.T) {
	cfg := guardTestConfig()
	cp := newMockCaseProvider()

	guard, _, done := newTestGuard(t, cfg, cp)
	defer done()

	if err := guard.SetCredential(context.Background(), "no-such-case", "newpassword99"); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
}

func TestNewCaseGeneratesPrefixedNumber(t *testing.T) {
	cfg := guardTestConfig()
	cp := newMockCaseProvider()

	guard, _, done := newTestGuard(t, cfg, cp)
	defer done()

	record, err := guard.NewCase(context.Background(), "Alice Example", "correcthorse1")
	if err != nil {
		t.Fatalf("NewCase failed: %v", err)
	}

	if !strings.HasPrefix(record.CaseNumber, "DG-") {
		t.Fatalf("expected DG- prefix, got %q", record.CaseNumber)
	}
	if len(record.CaseNumber) != len("DG-")+cfg.CaseNumber.SuffixLength {
		t.Fatalf("unexpected case number length: %q", record.CaseNumber)
	}
	for _, c := range strings.TrimPrefix(record.CaseNumber, "DG-") {
		if !strings.ContainsRune("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ", c) {
			t.Fatalf("character %q outside case number alphabet", c)
		}
	}
	if record.CaseID == "" {
		t.Fatal("expected generated case id")
	}
	if !record.IsActive {
		t.Fatal("new cases start active")
	}

	// The created case can log in immediately.
	if _, err := guard.Login(context.Background(), record.CaseNumber, "correcthorse1", "10.0.0.1"); err != nil {
		t.Fatalf("fresh case should authenticate: %v", err)
	}
}

func TestNewCaseEnforcesPasswordPolicy(t *testing.T) {
	cfg := guardTestConfig()
	cp := newMockCaseProvider()

	guard, _, done := newTestGuard(t, cfg, cp)
	defer done()

	if _, err := guard.NewCase(context.Background(), "Alice Example", "short"); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}
}

// duplicatingProvider forces case-number collisions for the first n creates.
type duplicatingProvider struct {
	*mockCaseProvider
	mu         sync.Mutex
	collisions int
	attempts   int
}

func (d *duplicatingProvider) CreateCase(ctx context.Context, record CaseRecord) error {
	d.mu.Lock()
	d.attempts++
	collide := d.attempts <= d.collisions
	d.mu.Unlock()

	if collide {
		return ErrProviderDuplicateCaseNumber
	}
	return d.mockCaseProvider.CreateCase(ctx, record)
}

func TestNewCaseRetriesOnDuplicateNumber(t *testing.T) {
	cfg := guardTestConfig()
	dp := &duplicatingProvider{mockCaseProvider: newMockCaseProvider(), collisions: 3}

	guard, _, done := newTestGuard(t, cfg, dp)
	defer done()

	record, err := guard.NewCase(context.Background(), "Alice Example", "correcthorse1")
	if err != nil {
		t.Fatalf("NewCase failed: %v", err)
	}
	if record.CaseNumber == "" {
		t.Fatal("expected a case number after retries")
	}
	if dp.attempts != 4 {
		t.Fatalf("expected 4 create attempts, got %d", dp.attempts)
	}
}

func TestNewCaseExhaustsRetryBudget(t *testing.T) {
	cfg := guardTestConfig()
	cfg.CaseNumber.MaxGenerateAttempts = 3
	dp := &duplicatingProvider{mockCaseProvider: newMockCaseProvider(), collisions: 100}

	guard, _, done := newTestGuard(t, cfg, dp)
	defer done()

	if _, err := guard.NewCase(context.Background(), "Alice Example", "correcthorse1"); !errors.Is(err, ErrCaseNumberExhausted) {
		t.Fatalf("expected ErrCaseNumberExhausted, got %v", err)
	}
}

// createCountingProvider counts CreateCase calls while keeping the mock's
// real uniqueness constraint.
type createCountingProvider struct {
	*mockCaseProvider
	creates atomic.Int64
}

func (c *createCountingProvider) CreateCase(ctx context.Context, record CaseRecord) error {
	c.creates.Add(1)
	return c.mockCaseProvider.CreateCase(ctx, record)
}

func TestNewCaseSaturatedNumberSpaceRetriesThroughCollisions(t *testing.T) {
	cfg := guardTestConfig()
	cfg.CaseNumber.SuffixLength = 1
	cfg.CaseNumber.MaxGenerateAttempts = 512

	cp := &createCountingProvider{mockCaseProvider: newMockCaseProvider()}

	// Occupy 30 of the 36 single-character numbers so most draws collide with
	// the store's uniqueness constraint and the retry loop does real work.
	occupied := "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"[:30]
	for i, ch := range occupied {
		cp.putCase(CaseRecord{
			CaseID:     fmt.Sprintf("case-seed-%d", i),
			CaseNumber: cfg.CaseNumber.Prefix + string(ch),
			IsActive:   true,
		})
	}

	guard, _, done := newTestGuard(t, cfg, cp)
	defer done()

	const remaining = 6
	seen := make(map[string]struct{}, remaining)
	for i := 0; i < remaining; i++ {
		record, err := guard.NewCase(context.Background(), "Saturation Beneficiary", "correcthorse1")
		if err != nil {
			t.Fatalf("create %d failed: %v", i+1, err)
		}
		if strings.ContainsRune(occupied, rune(record.CaseNumber[len(record.CaseNumber)-1])) {
			t.Fatalf("issued an occupied number: %s", record.CaseNumber)
		}
		if _, dup := seen[record.CaseNumber]; dup {
			t.Fatalf("duplicate case number issued: %s", record.CaseNumber)
		}
		seen[record.CaseNumber] = struct{}{}
	}

	if got := cp.creates.Load(); got <= remaining {
		t.Fatalf("expected duplicate-driven retries beyond %d creates, got %d", remaining, got)
	}
}

func TestNewCaseConcurrentCreatesDistinctNumbers(t *testing.T) {
	cfg := guardTestConfig()
	cp := newMockCaseProvider()

	guard, _, done := newTestGuard(t, cfg, cp)
	defer done()

	const workers = 24

	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record, err := guard.NewCase(context.Background(), "Concurrent Beneficiary", "correcthorse1")
			results[i] = record.CaseNumber
			errs[i] = err
		}(w)
	}
	wg.Wait()

	seen := make(map[string]struct{}, workers)
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d failed: %v", i, errs[i])
		}
		if _, dup := seen[results[i]]; dup {
			t.Fatalf("duplicate case number issued: %s", results[i])
		}
		seen[results[i]] = struct{}{}
	}
}
