package events

import (
	"context"
	"errors"
	"log/slog"

	"profilr/pkg/platform/circuit"
)

// ErrCircuitOpen is returned while the breaker is skipping deliveries.
var ErrCircuitOpen = errors.New("event publisher circuit open")

// GuardedPublisher skips deliveries while its breaker is open, so a broker
// outage costs one delivery timeout per cooldown instead of one per review.
type GuardedPublisher struct {
	next    Publisher
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuarded(next Publisher, breaker *circuit.Breaker, logger *slog.Logger) *GuardedPublisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GuardedPublisher{next: next, breaker: breaker, logger: logger}
}

func (g *GuardedPublisher) PublishReviewCreated(ctx context.Context, event ReviewCreated) error {
	if !g.breaker.Allow() {
		return ErrCircuitOpen
	}

	err := g.next.PublishReviewCreated(ctx, event)
	if err != nil {
		if change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "event publisher circuit opened",
				"breaker", g.breaker.Name(),
				"error", err,
			)
		}
		return err
	}

	if change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "event publisher circuit closed", "breaker", g.breaker.Name())
	}
	return nil
}

func (g *GuardedPublisher) Close() {
	g.next.Close()
}
