// Package events routes raw pub/sub messages to topic handlers: progress,
// status, pipeline errors, and the generic user-event envelope.
package events
