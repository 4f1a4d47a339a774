// Package metric provides Prometheus metrics for sigtok.
//
// Metrics include:
//
//   - Token issue/read counters
//   - Signature verification outcomes
//   - Content store operation counters and latency histograms
//   - HTTP request counters and latency histograms
//   - Go runtime and process collectors
//
// Metrics are exposed at /metrics in Prometheus text format.
package metric
