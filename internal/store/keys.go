package store

import (
	"fmt"
	"strings"
)

// JobKeyPrefix is the namespace all stage and subtask records live under.
const JobKeyPrefix = "job:"

// Field names shared by stage and subtask records.
const (
	FieldStarted  = "started"
	FieldFinished = "finished"
	FieldPercent  = "percent"
)

// StageKey builds the record key for a (job, stage) pair.
func StageKey(jobID, stage string) string {
	return fmt.Sprintf("job:%s:%s", jobID, stage)
}

// SubtaskKey builds the record key for a numbered subtask within a stage.
func SubtaskKey(jobID, stage string, subtask int) string {
	return fmt.Sprintf("job:%s:%s:%d", jobID, stage, subtask)
}

// ParseStageKey splits a stage record key into its job id and stage name.
// Subtask keys and foreign keys report ok=false.
func ParseStageKey(key string) (jobID, stage string, ok bool) {
	parts := strings.Split(key, ":")
	if len(parts) != 3 || parts[0] != "job" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
