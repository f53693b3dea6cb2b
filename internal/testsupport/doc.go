// Package testsupport provides shared builders for handler tests: frozen
// clocks, recording sinks, discard loggers, and per-test configs.
package testsupport
