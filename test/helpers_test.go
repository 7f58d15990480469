//go:build integration
// +build integration

package test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	portalauth "github.com/stephschuch819-blip/portalauth"
)

type memoryProvider struct {
	mu       sync.RWMutex
	cases    map[string]portalauth.CaseRecord
	byNumber map[string]string
	unread   map[string]int
}

func newMemoryProvider() *memoryProvider {
	return &memoryProvider{
		cases:    make(map[string]portalauth.CaseRecord),
		byNumber: make(map[string]string),
		unread:   make(map[string]int),
	}
}

func (m *memoryProvider) GetCaseByNumber(_ context.Context, caseNumber string) (portalauth.CaseRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byNumber[caseNumber]
	if !ok {
		return portalauth.CaseRecord{}, portalauth.ErrProviderCaseNotFound
	}
	return m.cases[id], nil
}

func (m *memoryProvider) GetCaseByID(_ context.Context, caseID string) (portalauth.CaseRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.cases[caseID]
	if !ok {
		return portalauth.CaseRecord{}, portalauth.ErrProviderCaseNotFound
	}
	return record, nil
}

func (m *memoryProvider) CreateCase(_ context.Context, record portalauth.CaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byNumber[record.CaseNumber]; ok {
		return portalauth.ErrProviderDuplicateCaseNumber
	}
	m.cases[record.CaseID] = record
	m.byNumber[record.CaseNumber] = record.CaseID
	return nil
}

func (m *memoryProvider) UpdateCredentialHash(_ context.Context, caseID, credentialHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.cases[caseID]
	if !ok {
		return portalauth.ErrProviderCaseNotFound
	}
	record.CredentialHash = credentialHash
	m.cases[caseID] = record
	return nil
}

func (m *memoryProvider) UnreadStaffMessageCount(_ context.Context, caseID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.unread[caseID], nil
}

func (m *memoryProvider) deactivate(caseID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record := m.cases[caseID]
	record.IsActive = false
	m.cases[caseID] = record
}

func newIntegrationGuard(t *testing.T) (*portalauth.Guard, *memoryProvider, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := portalauth.DefaultConfig()
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1

	provider := newMemoryProvider()

	guard, err := portalauth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithCaseProvider(provider).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		mr.Close()
		t.Fatalf("Build failed: %v", err)
	}

	return guard, provider, func() {
		guard.Close()
		_ = rdb.Close()
		mr.Close()
	}
}
