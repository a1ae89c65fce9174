package audit

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the structured log. It is the fallback
// sink for deployments without Kafka and the default in tests.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher builds a slog-backed publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "audit event",
		"action", string(event.Action),
		"company_id", event.CompanyID.String(),
		"application_id", event.ApplicationID.String(),
		"kind", event.Kind,
		"actor_id", event.ActorID,
		"request_id", event.RequestID,
		"reason", event.Reason,
	)
	return nil
}
