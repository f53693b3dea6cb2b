// Package store exposes the shared keyed hash records that hold per-stage and
// per-subtask progress state.
//
// All durable state the tracker derives lives here rather than in process
// memory, so the daemon can restart (or run twice, briefly) without losing or
// corrupting progress. Keys follow the job:<id>:<stage>[:<subtask>] layout
// and carry started/finished/percent fields.
package store
