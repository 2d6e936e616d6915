// Package gateway implements notification gateways: an HTTP push API client
// and a logging gateway for local runs.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	notificationDomain "github.com/allisson/sampletrack/internal/notification/domain"
)

// deviceNotRegistered is the ticket error reported for tokens that can no longer receive pushes.
const deviceNotRegistered = "DeviceNotRegistered"

// PushConfig holds the push API settings.
type PushConfig struct {
	URL          string
	AccessToken  string
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Timeout      time.Duration
}

type pushMessage struct {
	To    string         `json:"to"`
	Title string         `json:"title,omitempty"`
	Body  string         `json:"body,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
	Sound string         `json:"sound,omitempty"`
}

type pushTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details"`
}

type pushResponse struct {
	Data   []pushTicket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// PushGateway sends one message per request to an Expo compatible push API.
type PushGateway struct {
	config PushConfig
	client *retryablehttp.Client
	logger *slog.Logger
}

// Send posts a single message for token and classifies the ticket.
func (p *PushGateway) Send(
	ctx context.Context,
	token string,
	payload *notificationDomain.Payload,
) (notificationDomain.DeliveryOutcome, error) {
	body, err := json.Marshal([]pushMessage{{
		To:    token,
		Title: payload.Title,
		Body:  payload.Body,
		Data:  payload.Data,
		Sound: "default",
	}})
	if err != nil {
		return notificationDomain.DeliveryTransientError, fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, p.config.URL, body)
	if err != nil {
		return notificationDomain.DeliveryTransientError, fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.AccessToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return notificationDomain.DeliveryTransientError, ctxErr
		}
		return notificationDomain.DeliveryTransientError, errors.Join(notificationDomain.ErrGatewayUnreachable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return notificationDomain.DeliveryInvalidToken, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		p.logger.Warn("push api rejected request", slog.Int("status_code", resp.StatusCode))
		return notificationDomain.DeliveryTransientError, nil
	}

	var decoded pushResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return notificationDomain.DeliveryTransientError, fmt.Errorf("failed to decode push response: %w", err)
	}

	if len(decoded.Data) == 0 {
		for _, apiErr := range decoded.Errors {
			p.logger.Warn("push api error", slog.String("code", apiErr.Code), slog.String("message", apiErr.Message))
		}
		return notificationDomain.DeliveryTransientError, nil
	}

	ticket := decoded.Data[0]
	switch {
	case ticket.Status == "ok":
		return notificationDomain.DeliveryDelivered, nil
	case ticket.Details.Error == deviceNotRegistered:
		return notificationDomain.DeliveryInvalidToken, nil
	default:
		p.logger.Warn("push ticket error",
			slog.String("error", ticket.Details.Error),
			slog.String("message", ticket.Message),
		)
		return notificationDomain.DeliveryTransientError, nil
	}
}

// NewPushGateway creates a PushGateway. Connection failures and 5xx/429
// responses are retried up to MaxRetries times.
func NewPushGateway(config PushConfig, logger *slog.Logger) *PushGateway {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = config.MaxRetries
	if config.RetryWaitMin > 0 {
		client.RetryWaitMin = config.RetryWaitMin
	}
	if config.RetryWaitMax > 0 {
		client.RetryWaitMax = config.RetryWaitMax
	}
	if config.Timeout > 0 {
		client.HTTPClient.Timeout = config.Timeout
	}
	client.Logger = logger
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &PushGateway{
		config: config,
		client: client,
		logger: logger,
	}
}
