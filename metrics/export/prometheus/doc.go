// Package prometheus provides Prometheus collectors for portal authorization metrics.
//
// [NewPrometheusExporter] accepts a [portalauth.Guard] and exposes an [http.Handler]
// that renders all guard counters and histograms in Prometheus text exposition format.
// Counter names are prefixed portalauth_*_total; the single histogram is
// portalauth_require_case_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate guard state.
package prometheus
