package internaldefs

import (
	portalauth "github.com/stephschuch819-blip/portalauth"
)

// CounterDef defines a public type used by the portal authorization layer.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   portalauth.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by the portal authorization layer.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   portalauth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the portal authorization layer.
var CounterDefs = []CounterDef{
	{ID: portalauth.MetricLoginSuccess, Name: "portalauth_login_success_total", Help: "Successful login attempts."},
	{ID: portalauth.MetricLoginFailure, Name: "portalauth_login_failure_total", Help: "Failed login attempts."},
	{ID: portalauth.MetricLoginRateLimited, Name: "portalauth_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: portalauth.MetricSessionCreated, Name: "portalauth_session_created_total", Help: "Created portal sessions."},
	{ID: portalauth.MetricSessionDestroyed, Name: "portalauth_session_destroyed_total", Help: "Destroyed portal sessions."},
	{ID: portalauth.MetricSuspiciousSession, Name: "portalauth_suspicious_session_total", Help: "Sessions destroyed because their case no longer resolves."},
	{ID: portalauth.MetricRequireCaseSuccess, Name: "portalauth_require_case_success_total", Help: "Authorized case resolutions."},
	{ID: portalauth.MetricRequireCaseRejected, Name: "portalauth_require_case_rejected_total", Help: "Rejected case resolutions."},
}

// HistogramDefs is an exported constant or variable used by the portal authorization layer.
var HistogramDefs = []HistogramDef{
	{ID: portalauth.MetricRequireCaseLatency, Name: "portalauth_require_case_latency_seconds", Help: "RequireCase latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the portal authorization layer.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the portal authorization layer.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
