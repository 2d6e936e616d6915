// Package usecase defines the notification dispatch interfaces.
package usecase

import (
	"context"

	"github.com/google/uuid"

	notificationDomain "github.com/allisson/sampletrack/internal/notification/domain"
)

// Gateway sends a payload to exactly one device token.
//
// A non-nil error means the outcome could not be determined; implementations
// wrap ErrGatewayUnreachable when the gateway itself could not be reached.
type Gateway interface {
	Send(ctx context.Context, token string, payload *notificationDomain.Payload) (notificationDomain.DeliveryOutcome, error)
}

// DispatchUseCase fans a payload out to every active device of a client.
type DispatchUseCase interface {
	// Dispatch sends one notification per active device. Per-device failures
	// are counted in the result and never returned as errors. ErrGatewayUnreachable
	// is returned together with the result only when every send failed to reach
	// the gateway.
	Dispatch(
		ctx context.Context,
		clientID uuid.UUID,
		payload *notificationDomain.Payload,
	) (*notificationDomain.DispatchResult, error)
}
