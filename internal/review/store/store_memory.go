package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"profilr/internal/review/models"
	"profilr/pkg/platform/sentinel"
)

// InMemoryStore keeps reviews in process memory. It backs the memory://
// scheme and the service and handler tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	reviews []*models.Review
	closed  bool
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, sentinel.ErrClosed
	}

	out := make([]*models.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		copied := *r
		out = append(out, &copied)
	}
	slices.SortStableFunc(out, func(a, b *models.Review) int {
		switch {
		case models.Newer(a, b):
			return -1
		case models.Newer(b, a):
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

func (s *InMemoryStore) Insert(_ context.Context, review *models.Review) (*models.Review, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate review id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, sentinel.ErrClosed
	}

	stored := *review
	stored.ID = id.String()
	s.reviews = append(s.reviews, &stored)

	result := stored
	return &result, nil
}

func (s *InMemoryStore) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
