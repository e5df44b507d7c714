package service

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/sifan077/slugurl/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLinkEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	link := model.ShortLink{ID: 7, Slug: "abc123", Target: "https://example.com", VisitCount: 4}

	data, err := encodeLinkEvent(model.LinkEventVisited, link, at)
	require.NoError(t, err)

	var event model.LinkEvent
	require.NoError(t, json.Unmarshal(data, &event))

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, model.LinkEventVisited, event.Type)
	assert.Equal(t, "abc123", event.Slug)
	assert.Equal(t, "https://example.com", event.Target)
	assert.Equal(t, int64(4), event.VisitCount)
	assert.True(t, at.Equal(event.Timestamp))
}

func TestLinkEventSubject(t *testing.T) {
	assert.Equal(t, "links.created", model.LinkEventSubject(model.LinkEventCreated))
	assert.Equal(t, "links.visited", model.LinkEventSubject(model.LinkEventVisited))
}
