package models

import (
	"time"

	dErrors "profilr/pkg/domain-errors"
)

// MessageFieldsRequired is returned whenever a required review field is absent.
const MessageFieldsRequired = "All fields are required"

// Review is a user-submitted testimonial.
//
// Invariants:
//   - Name, Role and Comment are non-empty
//   - CreatedAt is set once, at creation, by the service
//   - ID is assigned by the store on insert and never changes
//
// Reviews are never updated or deleted by this service.
type Review struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewReview validates the presence of every field and stamps the creation
// time. The ID is left empty for the store to assign.
func NewReview(name, role, comment string, now time.Time) (*Review, error) {
	if name == "" || role == "" || comment == "" {
		return nil, dErrors.New(dErrors.CodeValidation, MessageFieldsRequired)
	}
	return &Review{
		Name:      name,
		Role:      role,
		Comment:   comment,
		CreatedAt: now.UTC(),
	}, nil
}

// CreateReviewInput carries the client-supplied fields of a new review.
type CreateReviewInput struct {
	Name    string
	Role    string
	Comment string
}

// Newer reports whether a sorts before b in newest-first order. Equal
// timestamps fall back to descending ID, which matches insertion order for
// time-ordered identifiers.
func Newer(a, b *Review) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
