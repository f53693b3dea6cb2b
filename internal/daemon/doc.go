// Package daemon wires the subscriber, sweep loop, and metrics endpoint into
// a single-instance background service.
package daemon
