package progress

// Event is a single progress report from the pipeline. Subtask and
// SubtaskCount are zero when a stage has no subtasks; the tracker's case
// analysis relies on that equivalence (0 == 0 selects the plain stage path).
type Event struct {
	JobID        string
	Stage        string
	Percent      int
	Host         string
	Subtask      int
	SubtaskCount int
}
