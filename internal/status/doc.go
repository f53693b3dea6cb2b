// Package status turns terminal and stage-change events into persisted job
// status, tracker card moves, and post-deploy hooks.
package status
