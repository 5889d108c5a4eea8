// Package monitoring provides Prometheus metrics for the preview service.
//
// The session counters (ConnectionStatus) stay authoritative; these metrics
// mirror them for scraping alongside the usual HTTP request histograms.
package monitoring
