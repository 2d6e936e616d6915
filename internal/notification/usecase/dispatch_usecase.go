package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	deviceUseCase "github.com/allisson/sampletrack/internal/device/usecase"
	apperrors "github.com/allisson/sampletrack/internal/errors"
	notificationDomain "github.com/allisson/sampletrack/internal/notification/domain"
)

// Config bounds the dispatch fan-out.
type Config struct {
	// Concurrency is the maximum number of in-flight sends. Zero means unbounded.
	Concurrency int
	// SendTimeout bounds a single device send. Zero means no per-send deadline.
	SendTimeout time.Duration
}

// dispatchUseCase implements DispatchUseCase.
type dispatchUseCase struct {
	config  Config
	devices deviceUseCase.DeviceUseCase
	gateway Gateway
	logger  *slog.Logger
}

// Dispatch sends the payload to each active device of the client, one send per
// device, and deactivates tokens the gateway reports as invalid.
func (d *dispatchUseCase) Dispatch(
	ctx context.Context,
	clientID uuid.UUID,
	payload *notificationDomain.Payload,
) (*notificationDomain.DispatchResult, error) {
	if payload == nil {
		return nil, notificationDomain.ErrPayloadRequired
	}

	registrations, err := d.devices.ListActive(ctx, clientID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active devices")
	}

	result := &notificationDomain.DispatchResult{DeactivatedTokens: []string{}}
	if len(registrations) == 0 {
		return result, nil
	}

	var (
		mu          sync.Mutex
		unreachable int
		g           errgroup.Group
	)
	if d.config.Concurrency > 0 {
		g.SetLimit(d.config.Concurrency)
	}

	for _, registration := range registrations {
		token := registration.Token
		g.Go(func() error {
			outcome, err := d.send(ctx, token, payload)

			deactivated := false
			if err == nil && outcome == notificationDomain.DeliveryInvalidToken {
				if deactivateErr := d.devices.Deactivate(ctx, token); deactivateErr != nil {
					d.logger.Warn("failed to deactivate invalid device token",
						slog.String("client_id", clientID.String()),
						slog.String("token", maskToken(token)),
						slog.Any("error", deactivateErr),
					)
				} else {
					deactivated = true
				}
			}

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err != nil:
				result.FailedCount++
				if errors.Is(err, notificationDomain.ErrGatewayUnreachable) {
					unreachable++
				}
				d.logger.Warn("notification send failed",
					slog.String("client_id", clientID.String()),
					slog.String("token", maskToken(token)),
					slog.Any("error", err),
				)
			case outcome == notificationDomain.DeliveryDelivered:
				result.SentCount++
			case outcome == notificationDomain.DeliveryInvalidToken:
				result.FailedCount++
				if deactivated {
					result.DeactivatedTokens = append(result.DeactivatedTokens, token)
				}
			default:
				result.FailedCount++
				d.logger.Warn("notification send not delivered",
					slog.String("client_id", clientID.String()),
					slog.String("token", maskToken(token)),
					slog.String("outcome", string(outcome)),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(result.DeactivatedTokens)

	if unreachable == len(registrations) {
		return result, notificationDomain.ErrGatewayUnreachable
	}

	return result, nil
}

func (d *dispatchUseCase) send(
	ctx context.Context,
	token string,
	payload *notificationDomain.Payload,
) (notificationDomain.DeliveryOutcome, error) {
	if d.config.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.SendTimeout)
		defer cancel()
	}
	return d.gateway.Send(ctx, token, payload)
}

// maskToken keeps only the tail of a push token for logging.
func maskToken(token string) string {
	const visible = 6
	if len(token) <= visible {
		return "***"
	}
	return "***" + token[len(token)-visible:]
}

// NewDispatchUseCase creates a new DispatchUseCase.
func NewDispatchUseCase(
	config Config,
	devices deviceUseCase.DeviceUseCase,
	gateway Gateway,
	logger *slog.Logger,
) DispatchUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &dispatchUseCase{
		config:  config,
		devices: devices,
		gateway: gateway,
		logger:  logger,
	}
}
