package jobs

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status represents the lifecycle of a pipeline job.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusConverting  Status = "converting"
	StatusDeploying   Status = "deploying"
	StatusDeployed    Status = "deployed"
	StatusErrored     Status = "errored"
)

var allStatuses = []Status{
	StatusQueued,
	StatusDownloading,
	StatusConverting,
	StatusDeploying,
	StatusDeployed,
	StatusErrored,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseStatus validates a raw status code from the wire.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := statusSet[status]; !ok {
		return "", fmt.Errorf("unknown job status %q", raw)
	}
	return status, nil
}

var titleCaser = cases.Title(language.English)

// Label returns the human-readable form of the status used in comments and
// chat announcements.
func (s Status) Label() string {
	return titleCaser.String(string(s))
}

// IsTerminal reports whether the status ends the job's pipeline run.
func (s Status) IsTerminal() bool {
	return s == StatusDeployed || s == StatusErrored
}

// CreatorKind identifies the external system that owns a job's human-facing
// record.
type CreatorKind string

const (
	CreatorTracker CreatorKind = "tracker"
	CreatorOther   CreatorKind = "other"
)

// Record is the externally owned job record the watcher reads creator info
// from and writes status into.
type Record struct {
	ID          string
	Status      Status
	CreatorKind CreatorKind
	CreatorRef  string
}
