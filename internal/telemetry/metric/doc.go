// Package metric provides Prometheus metrics for AAAMesh.
//
//   - prometheus.go: the metric registry; it implements cluster.Metrics
//   - collector.go: a collector sampling the mirror size at scrape time
//
// Metrics are exposed at /metrics through Registry.Handler.
package metric
