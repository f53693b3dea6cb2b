// Package metrics exposes the daemon's Prometheus collectors.
package metrics
