package gateway

import (
	"context"
	"log/slog"

	notificationDomain "github.com/allisson/sampletrack/internal/notification/domain"
)

// LogGateway writes notifications to the log and reports them delivered.
type LogGateway struct {
	logger *slog.Logger
}

// Send logs the payload.
func (l *LogGateway) Send(
	_ context.Context,
	token string,
	payload *notificationDomain.Payload,
) (notificationDomain.DeliveryOutcome, error) {
	l.logger.Info("notification sent",
		slog.Int("token_length", len(token)),
		slog.String("title", payload.Title),
		slog.String("body", payload.Body),
	)
	return notificationDomain.DeliveryDelivered, nil
}

// NewLogGateway creates a LogGateway.
func NewLogGateway(logger *slog.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}
