package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"profilr/internal/platform/config"
	"profilr/internal/platform/logger"
	"profilr/internal/platform/metrics"
	"profilr/internal/platform/middleware"
	"profilr/internal/review/connector"
	"profilr/internal/review/events"
	"profilr/internal/review/handler"
	"profilr/internal/review/service"
	"profilr/internal/review/store"
	httptransport "profilr/internal/transport/http"
	"profilr/pkg/platform/circuit"
)

const (
	publishFailureThreshold = 3
	publishCooldown         = 30 * time.Second
)

// app holds the process-wide dependencies shared by serve and lambda.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	metrics   *metrics.Metrics
	connector *connector.Connector
	publisher events.Publisher
	router    http.Handler
}

// buildApp wires every dependency without touching the database; the store
// connection is opened lazily by the first data request.
func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger) *app {
	m := metrics.New()

	conn := connector.New(
		func(ctx context.Context) (store.Store, error) {
			return store.Open(ctx, cfg.Store, log)
		},
		connector.WithLogger(log),
		connector.WithMetrics(m),
	)

	publisher := newPublisher(ctx, cfg.Events, log)

	reviews := service.New(conn,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithPublisher(publisher),
	)

	router := httptransport.NewRouter(
		log,
		m,
		middleware.NewOriginPolicy(cfg.CORS.AllowedOrigins),
		handler.NotFound,
		handler.New(reviews, log),
	)

	return &app{
		cfg:       cfg,
		logger:    log,
		metrics:   m,
		connector: conn,
		publisher: publisher,
		router:    router,
	}
}

// newPublisher returns a Kafka publisher when brokers are configured. Event
// publishing is optional, so any setup failure degrades to the no-op publisher.
func newPublisher(ctx context.Context, cfg config.Events, log *slog.Logger) events.Publisher {
	if !cfg.Enabled() {
		return events.NoopPublisher{}
	}
	kp, err := events.NewKafka(cfg.Brokers, cfg.Topic, events.WithLogger(log))
	if err != nil {
		log.WarnContext(ctx, "review events disabled", "error", err)
		return events.NoopPublisher{}
	}
	if err := kp.EnsureTopic(ctx); err != nil {
		log.WarnContext(ctx, "could not ensure review topic", "topic", cfg.Topic, "error", err)
	}
	breaker := circuit.New("kafka",
		circuit.WithFailureThreshold(publishFailureThreshold),
		circuit.WithCooldown(publishCooldown),
	)
	return events.NewGuarded(kp, breaker, log)
}

func (a *app) close(ctx context.Context) {
	a.publisher.Close()
	if err := a.connector.Close(ctx); err != nil {
		a.logger.WarnContext(ctx, "failed to close store", "error", err)
	}
}

func loadConfig() (config.Config, *slog.Logger) {
	cfg := config.FromViper(v)
	return cfg, logger.New(cfg)
}
