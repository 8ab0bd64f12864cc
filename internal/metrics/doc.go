// Package metrics defines the Prometheus metrics exported by the music
// player and the observability HTTP server that serves them.
//
// All metrics are registered with the default registry at package load time
// using promauto. Call InitializeMetrics once at startup to pre-populate
// label combinations so every series is present from the first scrape.
package metrics
