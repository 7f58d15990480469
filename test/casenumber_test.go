//go:build integration
// +build integration

package test

import (
	"context"
	"regexp"
	"sync"
	"testing"

	portalauth "github.com/stephschuch819-blip/portalauth"
)

// Ten thousand concurrent case creations against one conflict-enforcing store
// must yield ten thousand distinct well-formed numbers. The worker pool keeps
// argon2 memory bounded.
func TestCaseNumbersDistinctUnderHeavyConcurrentCreation(t *testing.T) {
	if testing.Short() {
		t.Skip("heavy concurrent creation test skipped in short mode")
	}

	guard, _, done := newIntegrationGuard(t)
	defer done()

	const (
		total   = 10000
		workers = 32
	)

	numberFormat := regexp.MustCompile(`^DG-[0-9A-Z]{6}$`)

	jobs := make(chan int)
	results := make([]string, total)
	errs := make([]error, total)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				record, err := guard.NewCase(context.Background(), "Load Beneficiary", "correcthorse1")
				results[i] = record.CaseNumber
				errs[i] = err
			}
		}()
	}
	for i := 0; i < total; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	seen := make(map[string]struct{}, total)
	for i := 0; i < total; i++ {
		if errs[i] != nil {
			t.Fatalf("create %d failed: %v", i, errs[i])
		}
		if !numberFormat.MatchString(results[i]) {
			t.Fatalf("malformed case number: %q", results[i])
		}
		if _, dup := seen[results[i]]; dup {
			t.Fatalf("duplicate case number issued: %s", results[i])
		}
		seen[results[i]] = struct{}{}
	}
}
