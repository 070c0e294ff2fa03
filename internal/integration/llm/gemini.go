package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiConnector calls the Gemini API through the genai SDK.
type GeminiConnector struct {
	client *genai.Client
	config config.LLMConnectorConfig
}

// NewGeminiConnector creates a Gemini client. A nil httpClient uses the SDK default;
// a non-empty cfg.Url overrides the API base URL.
func NewGeminiConnector(ctx context.Context, cfg config.LLMConnectorConfig, httpClient *http.Client) (*GeminiConnector, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.Url != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Url}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiConnector{
		client: client,
		config: cfg,
	}, nil
}

// Complete runs one GenerateContent call and returns the concatenated response text.
func (g *GeminiConnector) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "requesting gemini completion",
		zap.String("purpose", string(req.Purpose)),
		zap.String("model", req.Model),
		zap.Float64("temperature", req.Temperature),
		zap.Float64("top_p", req.TopP),
	)

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
		TopP:        genai.Ptr(float32(req.TopP)),
	}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	if g.config.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(g.config.MaxTokens)
	}

	var result *genai.GenerateContentResponse
	opts := append(g.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(isRetryableAPIError),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "gemini attempt failed, retrying",
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	err := retry.Do(func() error {
		var callErr error
		result, callErr = g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.UserPrompt), genCfg)
		return callErr
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w: %w", entity.ErrModelUnavailable, err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("generate content: %w: response has no candidates", entity.ErrModelUnavailable)
	}

	text := result.Text()
	ctxzap.Info(ctx, "gemini completion received",
		zap.String("model_version", result.ModelVersion),
		zap.Int("content_length", len(text)),
	)

	return text, nil
}

func isRetryableAPIError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}
	return false
}
