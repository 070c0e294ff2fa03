package callback

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/integration/common"
	pkghttp "github.com/futig/interview-backend/pkg/http"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector posts pipeline events to the configured webhook endpoint.
type Connector struct {
	config    config.CallbackConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.CallbackConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// SendAnalysisCompleted notifies the webhook that a session was analyzed.
// Delivery failures are logged and dropped.
func (c *Connector) SendAnalysisCompleted(ctx context.Context, data *entity.CallbackAnalysisData) {
	err := c.Send(ctx, uuid.NewString(), &entity.CallbackEvent{
		Event: entity.CallbackEventTypeAnalysisCompleted,
		Data:  data,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to send analysis completed callback", zap.Error(err))
	}
}

func (c *Connector) Send(ctx context.Context, requestID string, event *entity.CallbackEvent) error {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	callbackURL := c.config.CallbackEndpoint

	ctxzap.Debug(ctx, "sending callback event",
		zap.String("event_type", string(event.Event)),
		zap.String("callback_url", callbackURL),
		zap.String("request_id", requestID),
		zap.String("timestamp", event.Timestamp),
	)

	opts := []pkghttp.RequestOpt{
		pkghttp.WithHeader("X-Request-ID", requestID),
		pkghttp.WithURL(callbackURL),
	}

	retryOpts := append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(pkghttp.IsRetryable),
	)
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, "", event, nil, opts...)
	}, retryOpts...)
	if err != nil {
		return fmt.Errorf("send callback event %s to %s: %w", event.Event, callbackURL, err)
	}

	ctxzap.Info(ctx, "callback sent successfully",
		zap.String("event_type", string(event.Event)),
		zap.String("callback_url", callbackURL),
		zap.String("request_id", requestID),
	)
	return nil
}
