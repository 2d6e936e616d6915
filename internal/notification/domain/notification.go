// Package domain defines push notification payloads and delivery outcomes.
package domain

// Payload is the content sent to every device of a client.
type Payload struct {
	Title string
	Body  string
	Data  map[string]any
}

// DeliveryOutcome classifies the result of a single device send.
type DeliveryOutcome string

// Delivery outcomes.
const (
	DeliveryDelivered      DeliveryOutcome = "delivered"
	DeliveryInvalidToken   DeliveryOutcome = "invalid_token"
	DeliveryTransientError DeliveryOutcome = "transient_error"
)

// DispatchResult aggregates the per-device outcomes of one dispatch.
// SentCount + FailedCount equals the number of devices attempted.
type DispatchResult struct {
	SentCount         int
	FailedCount       int
	DeactivatedTokens []string
}
