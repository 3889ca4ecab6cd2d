package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/metrics"
	"github.com/kailas-cloud/hoover/internal/nlp"
)

// Extractor is a key phrase and entity provider using the OpenAI-compatible chat API.
type Extractor struct {
	client   *openai.Client
	model    string
	user     string
	provider string
	logger   *zap.Logger
}

// Config holds the NLP provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	User     string
	Provider string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewExtractor creates an OpenAI-compatible NLP provider.
func NewExtractor(cfg *Config) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		user:     cfg.User,
		provider: cfg.Provider,
		logger:   logger,
	}
}

// KeyPhrases implements domain.Extractor.
func (e *Extractor) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	content, err := e.complete(ctx, nlp.KindKeyPhrases, nlp.KeyPhrasesPrompt, text)
	if err != nil {
		return nil, err
	}
	phrases, err := nlp.ParseKeyPhrases(content)
	if err != nil {
		metrics.NLPErrorsTotal.WithLabelValues(e.provider, nlp.KindKeyPhrases, "parse_error").Inc()
		return nil, err
	}
	return phrases, nil
}

// Entities implements domain.Extractor.
func (e *Extractor) Entities(ctx context.Context, text string) ([]domain.Entity, error) {
	content, err := e.complete(ctx, nlp.KindEntities, nlp.EntitiesPrompt, text)
	if err != nil {
		return nil, err
	}
	entities, err := nlp.ParseEntities(content)
	if err != nil {
		metrics.NLPErrorsTotal.WithLabelValues(e.provider, nlp.KindEntities, "parse_error").Inc()
		return nil, err
	}
	return entities, nil
}

// complete runs one JSON-mode chat completion and records transport-level metrics.
func (e *Extractor) complete(ctx context.Context, kind, prompt, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		User: e.user,
	}

	start := time.Now()

	resp, err := e.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.NLPRequestsTotal.WithLabelValues(e.provider, kind, "error").Inc()
		metrics.NLPErrorsTotal.WithLabelValues(e.provider, kind, "api_error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.NLPRequestsTotal.WithLabelValues(e.provider, kind, "error").Inc()
		metrics.NLPErrorsTotal.WithLabelValues(e.provider, kind, "empty_response").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrNLPUnavailable)
	}

	metrics.NLPRequestsTotal.WithLabelValues(e.provider, kind, "success").Inc()
	metrics.NLPRequestDuration.WithLabelValues(e.provider, kind).Observe(duration.Seconds())

	if total := resp.Usage.TotalTokens; total > 0 {
		metrics.NLPTokensTotal.WithLabelValues(e.provider, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.NLPTokensTotal.WithLabelValues(e.provider, "total").Add(float64(total))
		domain.UsageFromContext(ctx).AddTokens(total)
	}

	e.logger.Debug("nlp completion",
		zap.String("kind", kind),
		zap.Duration("duration", duration),
		zap.Int("tokens", resp.Usage.TotalTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Extractor) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrNLPUnavailable.
func parseAPIError(err error) error {
	wrap := domain.ErrNLPUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("nlp API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("nlp API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("nlp API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("nlp request: %w", err)
	}

	return fmt.Errorf("nlp request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
