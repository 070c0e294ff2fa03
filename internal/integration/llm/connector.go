package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/integration/common"
	pkghttp "github.com/futig/interview-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	roleSystem = "system"
	roleUser   = "user"
)

// Connector talks to an OpenAI-compatible chat completions endpoint.
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Complete sends one chat completion and returns the raw text of the first choice.
func (c *Connector) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "requesting chat completion",
		zap.String("purpose", string(req.Purpose)),
		zap.String("model", req.Model),
		zap.Float64("temperature", req.Temperature),
		zap.Float64("top_p", req.TopP),
	)

	body := entity.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    buildMessages(req),
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   c.config.MaxTokens,
	}

	var resp entity.ChatCompletionResponse
	opts := append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(pkghttp.IsRetryable),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "chat completion attempt failed, retrying",
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	err := retry.Do(func() error {
		resp = entity.ChatCompletionResponse{}
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, body, &resp)
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("request chat completion: %w: %w", entity.ErrModelUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("request chat completion: %w: response has no choices", entity.ErrModelUnavailable)
	}

	text := resp.Choices[0].Message.Content
	ctxzap.Info(ctx, "chat completion received",
		zap.String("model", resp.Model),
		zap.String("finish_reason", resp.Choices[0].FinishReason),
		zap.Int("content_length", len(text)),
	)

	return text, nil
}

func buildMessages(req entity.CompletionRequest) []entity.ChatMessage {
	messages := make([]entity.ChatMessage, 0, 2)
	if strings.TrimSpace(req.SystemPrompt) != "" {
		messages = append(messages, entity.ChatMessage{Role: roleSystem, Content: req.SystemPrompt})
	}
	return append(messages, entity.ChatMessage{Role: roleUser, Content: req.UserPrompt})
}
