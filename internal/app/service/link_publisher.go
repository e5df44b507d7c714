package service

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sifan077/slugurl/internal/app/model"
)

// LinkPublisher publishes link events to NATS JetStream.
type LinkPublisher struct {
	js nats.JetStreamContext
}

// NewLinkPublisher creates a new link event publisher.
func NewLinkPublisher(js nats.JetStreamContext) *LinkPublisher {
	return &LinkPublisher{js: js}
}

// EnsureStream creates the link event stream if it does not exist yet.
func (p *LinkPublisher) EnsureStream() error {
	if _, err := p.js.StreamInfo(model.LinkStreamName); err == nil {
		return nil
	}
	_, err := p.js.AddStream(&nats.StreamConfig{
		Name:     model.LinkStreamName,
		Subjects: []string{model.LinkStreamSubjects},
		MaxBytes: model.LinkStreamMaxBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// Publish publishes a link event to the stream.
func (p *LinkPublisher) Publish(eventType string, link model.ShortLink) error {
	data, err := encodeLinkEvent(eventType, link, time.Now())
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.LinkEventSubject(eventType), data)
	return err
}

func encodeLinkEvent(eventType string, link model.ShortLink, at time.Time) ([]byte, error) {
	event := model.LinkEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Slug:       link.Slug,
		Target:     link.Target,
		VisitCount: link.VisitCount,
		Timestamp:  at,
	}
	return json.Marshal(event)
}
