package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"profilr/internal/platform/metrics"
	"profilr/internal/review/events"
	"profilr/internal/review/models"
	"profilr/internal/review/store"
	dErrors "profilr/pkg/domain-errors"
	"profilr/pkg/requestcontext"
)

// Connector hands out the process-wide store, connecting on first use.
type Connector interface {
	EnsureReady(ctx context.Context) (store.Store, error)
}

// Service lists and creates reviews.
type Service struct {
	connector Connector
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// New constructs a Service.
func New(connector Connector, opts ...Option) *Service {
	s := &Service{
		connector: connector,
		publisher: events.NoopPublisher{},
		logger:    slog.New(slog.DiscardHandler),
		tracer:    otel.Tracer("profilr/internal/review/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every review, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Review, error) {
	ctx, span := s.tracer.Start(ctx, "reviews.List")
	defer span.End()

	st, err := s.ready(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	reviews, err := st.List(ctx)
	if err != nil {
		return nil, fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reviews"))
	}
	span.SetAttributes(attribute.Int("reviews.count", len(reviews)))
	return reviews, nil
}

// Create validates input, persists a new review stamped with the request time
// and publishes a review.created event. Publishing failures are logged only.
func (s *Service) Create(ctx context.Context, in models.CreateReviewInput) (*models.Review, error) {
	ctx, span := s.tracer.Start(ctx, "reviews.Create")
	defer span.End()

	st, err := s.ready(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	review, err := models.NewReview(in.Name, in.Role, in.Comment, requestcontext.Now(ctx))
	if err != nil {
		return nil, fail(span, err)
	}

	stored, err := st.Insert(ctx, review)
	if err != nil {
		return nil, fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add review"))
	}
	span.SetAttributes(attribute.String("review.id", stored.ID))
	s.metrics.IncrementReviewsCreated()
	s.logger.InfoContext(ctx, "review created",
		"review_id", stored.ID,
		"request_id", requestcontext.RequestID(ctx),
	)

	s.publishCreated(ctx, stored)
	return stored, nil
}

func (s *Service) ready(ctx context.Context) (store.Store, error) {
	st, err := s.connector.EnsureReady(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "store unavailable")
	}
	return st, nil
}

func (s *Service) publishCreated(ctx context.Context, review *models.Review) {
	err := s.publisher.PublishReviewCreated(ctx, events.NewReviewCreated(review, requestcontext.Now(ctx)))
	s.metrics.ObserveEvent(err)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish review event",
			"review_id", review.ID,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}
