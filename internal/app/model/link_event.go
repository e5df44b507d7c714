package model

import "time"

// LinkEvent is published after a short link is created or visited.
type LinkEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Slug       string    `json:"slug"`
	Target     string    `json:"target"`
	VisitCount int64     `json:"visit_count"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	LinkEventCreated = "created"
	LinkEventVisited = "visited"
)

const (
	LinkStreamName     = "LINKS"
	LinkStreamSubjects = "links.>"
	LinkStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)

// LinkEventSubject returns the JetStream subject for the given event type.
func LinkEventSubject(eventType string) string {
	return "links." + eventType
}
