package portalauth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledByDefault(t *testing.T) {
	m := NewMetrics(MetricsConfig{})

	m.Inc(MetricLoginSuccess)
	m.Observe(MetricRequireCaseLatency, 10*time.Millisecond)

	if m.Enabled() {
		t.Fatal("expected metrics disabled")
	}
	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("disabled registry must not record")
	}

	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestMetricsCountersIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	for i := 0; i < 3; i++ {
		m.Inc(MetricLoginSuccess)
	}
	m.Inc(MetricLoginFailure)

	if got := m.Value(MetricLoginSuccess); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := m.Value(MetricLoginFailure); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}

	snap := m.Snapshot()
	if snap.Counters[MetricLoginSuccess] != 3 {
		t.Fatalf("snapshot mismatch: %+v", snap.Counters)
	}
}

func TestMetricsCountersConcurrent(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const workers = 16
	const perWorker = 1000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				m.Inc(MetricRequireCaseSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricRequireCaseSuccess); got != workers*perWorker {
		t.Fatalf("expected %d, got %d", workers*perWorker, got)
	}
}

func TestMetricsLatencyHistogramBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	samples := []time.Duration{
		2 * time.Millisecond,   // bucket 0
		8 * time.Millisecond,   // bucket 1
		40 * time.Millisecond,  // bucket 3
		900 * time.Millisecond, // bucket 7
	}
	for _, d := range samples {
		m.Observe(MetricRequireCaseLatency, d)
	}

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricRequireCaseLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %d", histBucketCount, len(buckets))
	}

	expected := map[int]uint64{0: 1, 1: 1, 3: 1, 7: 1}
	for i, count := range buckets {
		if count != expected[i] {
			t.Fatalf("bucket %d: expected %d, got %d", i, expected[i], count)
		}
	}
}

func TestMetricsSnapshotIsACopy(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricLoginSuccess)
	snap := m.Snapshot()
	m.Inc(MetricLoginSuccess)

	if snap.Counters[MetricLoginSuccess] != 1 {
		t.Fatalf("snapshot must be point-in-time, got %d", snap.Counters[MetricLoginSuccess])
	}
}

func TestGuardRecordsMetrics(t *testing.T) {
	cfg := guardTestConfig()
	cfg.Metrics.Enabled = true
	cfg.RateLimit.MaxLoginAttempts = 2

	cp := newMockCaseProvider()
	seedCase(t, cfg, cp, "DG-AB12CD", "correcthorse1")

	guard, _, done := newTestGuard(t, cfg, cp)
	defer done()

	if _, err := guard.Login(context.Background(), "DG-AB12CD", "wrong-password", "10.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	token, err := guard.Login(context.Background(), "DG-AB12CD", "correcthorse1", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := guard.Login(context.Background(), "DG-AB12CD", "correcthorse1", "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	if _, err := guard.RequireCase(context.Background(), token); err != nil {
		t.Fatalf("RequireCase failed: %v", err)
	}
	if _, err := guard.RequireCase(context.Background(), "bogus"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	snap := guard.MetricsSnapshot()
	checks := map[MetricID]uint64{
		MetricLoginSuccess:        1,
		MetricLoginFailure:        1,
		MetricLoginRateLimited:    1,
		MetricSessionCreated:      1,
		MetricRequireCaseSuccess:  1,
		MetricRequireCaseRejected: 1,
	}
	for id, want := range checks {
		if got := snap.Counters[id]; got != want {
			t.Fatalf("metric %d: expected %d, got %d", id, want, got)
		}
	}
}
