//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"profilr/internal/review/events"
	"profilr/internal/review/models"
	"profilr/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaPublisherSuite) TestPublishedEventIsConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := "reviews.created.test"

	publisher, err := events.NewKafka([]string{s.redpanda.Broker}, topic)
	s.Require().NoError(err)
	defer publisher.Close()
	s.Require().NoError(publisher.EnsureTopic(ctx))
	s.Require().NoError(publisher.EnsureTopic(ctx), "existing topic is not an error")

	review := &models.Review{ID: "r-42", Name: "Ada", Role: "Engineer", Comment: "Great", CreatedAt: time.Now().UTC()}
	s.Require().NoError(publisher.PublishReviewCreated(ctx, events.NewReviewCreated(review, time.Now())))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().NotEmpty(records)

	s.Equal("r-42", string(records[0].Key))
	var got events.ReviewCreated
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(events.TypeReviewCreated, got.Type)
	s.Equal("Ada", got.Review.Name)
}
