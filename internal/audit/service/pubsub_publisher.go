package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub"  // registers mem:// topics
	_ "gocloud.dev/pubsub/natspubsub" // registers nats:// topics

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
)

// auditRecordMessage is the wire shape of a published audit record.
type auditRecordMessage struct {
	ID             string                    `json:"id"`
	PeriodYear     int                       `json:"period_year"`
	PeriodMonth    int                       `json:"period_month"`
	Actor          auditDomain.ActorSnapshot `json:"actor"`
	Action         string                    `json:"action"`
	SubjectDetails map[string]any            `json:"subject_details,omitempty"`
	OccurredAt     time.Time                 `json:"occurred_at"`
	Outcome        string                    `json:"outcome"`
	Error          *string                   `json:"error,omitempty"`
	DurationMs     int64                     `json:"duration_ms"`
	Signature      string                    `json:"signature,omitempty"`
}

// PubSubPublisher publishes audit records to a gocloud.dev pubsub topic.
type PubSubPublisher struct {
	topic *pubsub.Topic
}

// NewPubSubPublisher opens the topic identified by url, e.g. "mem://audit" or
// "nats://audit.records" (NATS_SERVER_URL selects the server).
func NewPubSubPublisher(ctx context.Context, url string) (*PubSubPublisher, error) {
	topic, err := pubsub.OpenTopic(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit topic: %w", err)
	}
	return &PubSubPublisher{topic: topic}, nil
}

// Publish sends the record as a JSON message.
func (p *PubSubPublisher) Publish(ctx context.Context, record *auditDomain.AuditRecord) error {
	msg := auditRecordMessage{
		ID:             record.ID,
		PeriodYear:     record.PeriodYear,
		PeriodMonth:    record.PeriodMonth,
		Actor:          record.Actor,
		Action:         record.Action,
		SubjectDetails: record.SubjectDetails,
		OccurredAt:     record.OccurredAt,
		Outcome:        string(record.Outcome),
		Error:          record.Error,
		DurationMs:     record.DurationMs,
	}
	if record.IsSigned {
		msg.Signature = base64.StdEncoding.EncodeToString(record.Signature)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record message: %w", err)
	}

	err = p.topic.Send(ctx, &pubsub.Message{
		Body: body,
		Metadata: map[string]string{
			"action":  record.Action,
			"outcome": string(record.Outcome),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish audit record: %w", err)
	}

	return nil
}

// Shutdown flushes pending messages and closes the topic.
func (p *PubSubPublisher) Shutdown(ctx context.Context) error {
	return p.topic.Shutdown(ctx)
}
