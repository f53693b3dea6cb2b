package events

import "strings"

// Topic identifies an inbound pub/sub channel class. The set is closed so
// handler wiring is checked at startup; unknown names at runtime degrade to
// a logged warning for forward compatibility.
type Topic string

const (
	TopicProgress Topic = "progress"
	TopicError    Topic = "error"
	TopicStatus   Topic = "status"
	TopicEvents   Topic = "events"
)

// Channel aliases published by newer pipeline components.
var topicAliases = map[string]Topic{
	"telemetry.progress": TopicProgress,
	"telemetry.status":   TopicStatus,
}

// ParseTopic resolves a raw channel name, honoring aliases.
func ParseTopic(name string) (Topic, bool) {
	trimmed := strings.TrimSpace(name)
	if alias, ok := topicAliases[trimmed]; ok {
		return alias, true
	}
	switch Topic(trimmed) {
	case TopicProgress, TopicError, TopicStatus, TopicEvents:
		return Topic(trimmed), true
	default:
		return "", false
	}
}
