// Package progress implements the progress/status aggregation state machine.
//
// Inbound percent/stage/subtask events are evaluated against an ordered
// decision table keyed on (percent, subtask, subtaskCount) and durable state
// in the shared store, never on assumed delivery order. The tuple comparison
// makes redelivery and reordering safe: a duplicated stage start simply
// re-stamps the started field, and intermediate percents fall through to the
// unconditional percent write.
//
// A periodic sweep estimates completion for long-running download stages by
// linear extrapolation and purges records stuck at 0% or 100%.
package progress
