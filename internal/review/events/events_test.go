package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profilr/internal/review/models"
)

func TestNewReviewCreated(t *testing.T) {
	review := &models.Review{ID: "r1", Name: "Ada", Role: "Engineer", Comment: "Great", CreatedAt: time.Now().UTC()}
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.FixedZone("X", 7200))

	event := NewReviewCreated(review, now)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, TypeReviewCreated, event.Type)
	assert.Equal(t, time.UTC, event.OccurredAt.Location())
	assert.Equal(t, *review, event.Review)

	b, err := json.Marshal(event)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "review.created", decoded["type"])
	assert.Equal(t, "r1", decoded["review"].(map[string]any)["_id"])
}

func TestNewKafkaRequiresBrokers(t *testing.T) {
	_, err := NewKafka(nil, "reviews.created")
	assert.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishReviewCreated(context.Background(), ReviewCreated{}))
	assert.NotPanics(t, p.Close)
}
