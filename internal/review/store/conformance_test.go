package store_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"profilr/internal/review/models"
	"profilr/internal/review/store"
)

// ConformanceSuite is the behavior every backend shares. Backend suites embed
// it and assign Store in SetupTest with an emptied backend.
type ConformanceSuite struct {
	suite.Suite
	Store store.Store
}

func (s *ConformanceSuite) newReview(name string, at time.Time) *models.Review {
	r, err := models.NewReview(name, "Engineer", "Solid collaborator", at)
	s.Require().NoError(err)
	return r
}

func (s *ConformanceSuite) TestEmptyListIsEmptySlice() {
	reviews, err := s.Store.List(context.Background())
	s.Require().NoError(err)
	s.NotNil(reviews)
	s.Empty(reviews)
}

func (s *ConformanceSuite) TestInsertAssignsIDAndKeepsFields() {
	ctx := context.Background()
	at := time.Now().UTC()

	stored, err := s.Store.Insert(ctx, s.newReview("Ada", at))
	s.Require().NoError(err)
	s.NotEmpty(stored.ID)
	s.Equal("Ada", stored.Name)
	s.Equal("Engineer", stored.Role)
	s.Equal("Solid collaborator", stored.Comment)
	s.False(stored.CreatedAt.Before(at), "createdAt never predates the requested time")

	listed, err := s.Store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(stored.ID, listed[0].ID)
	s.True(stored.CreatedAt.Equal(listed[0].CreatedAt), "returned record matches the persisted one")
}

func (s *ConformanceSuite) TestIDsAreUnique() {
	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		stored, err := s.Store.Insert(ctx, s.newReview("Ada", time.Now()))
		s.Require().NoError(err)
		s.False(seen[stored.ID], "duplicate id %s", stored.ID)
		seen[stored.ID] = true
	}
}

func (s *ConformanceSuite) TestListIsNewestFirst() {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Inserted out of chronological order on purpose.
	for _, offset := range []int{2, 0, 3, 1} {
		_, err := s.Store.Insert(ctx, s.newReview(string(rune('a'+offset)), base.Add(time.Duration(offset)*time.Hour)))
		s.Require().NoError(err)
	}

	listed, err := s.Store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 4)
	names := make([]string, len(listed))
	for i, r := range listed {
		names[i] = r.Name
	}
	s.Equal([]string{"d", "c", "b", "a"}, names)
}

func (s *ConformanceSuite) TestEqualTimestampsListInReverseInsertionOrder() {
	ctx := context.Background()
	at := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		stored, err := s.Store.Insert(ctx, s.newReview(name, at))
		s.Require().NoError(err)
		ids = append(ids, stored.ID)
	}

	listed, err := s.Store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal([]string{ids[2], ids[1], ids[0]}, []string{listed[0].ID, listed[1].ID, listed[2].ID})
}
