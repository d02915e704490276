// Package events publishes review lifecycle events. Publishing is best-effort:
// a review is persisted whether or not its event is delivered.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"profilr/internal/review/models"
)

// TypeReviewCreated is the event type emitted after a review is persisted.
const TypeReviewCreated = "review.created"

// ReviewCreated is the wire payload of a review.created event.
type ReviewCreated struct {
	EventID    string        `json:"eventId"`
	Type       string        `json:"type"`
	OccurredAt time.Time     `json:"occurredAt"`
	Review     models.Review `json:"review"`
}

// NewReviewCreated builds the event for a persisted review.
func NewReviewCreated(review *models.Review, now time.Time) ReviewCreated {
	return ReviewCreated{
		EventID:    uuid.NewString(),
		Type:       TypeReviewCreated,
		OccurredAt: now.UTC(),
		Review:     *review,
	}
}

// Publisher delivers review events.
type Publisher interface {
	PublishReviewCreated(ctx context.Context, event ReviewCreated) error
	Close()
}

// NoopPublisher drops every event. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishReviewCreated(context.Context, ReviewCreated) error { return nil }

func (NoopPublisher) Close() {}
