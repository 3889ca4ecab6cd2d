// Package langchain provides a key phrase and entity extractor over any
// langchaingo chat model.
package langchain

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/metrics"
	"github.com/kailas-cloud/hoover/internal/nlp"
)

// Extractor implements domain.Extractor with a langchaingo model.
type Extractor struct {
	model    llms.Model
	provider string
	logger   *zap.Logger
}

// Config holds the langchaingo OpenAI-compatible backend settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// New creates an extractor backed by langchaingo's OpenAI-compatible client.
func New(cfg *Config) (*Extractor, error) {
	token := cfg.APIKey
	if token == "" {
		// local OpenAI-compatible servers accept any token
		token = "none"
	}
	opts := []lcopenai.Option{
		lcopenai.WithToken(token),
		lcopenai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, lcopenai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	model, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain model: %w", err)
	}
	return NewWithModel(model, cfg.Provider, cfg.Logger), nil
}

// NewWithModel wraps an existing model.
func NewWithModel(model llms.Model, provider string, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{model: model, provider: provider, logger: logger}
}

// KeyPhrases implements domain.Extractor.
func (e *Extractor) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	content, err := e.generate(ctx, nlp.KindKeyPhrases, nlp.KeyPhrasesPrompt, text)
	if err != nil {
		return nil, err
	}
	phrases, err := nlp.ParseKeyPhrases(content)
	if err != nil {
		metrics.NLPErrorsTotal.WithLabelValues(e.provider, nlp.KindKeyPhrases, "parse_error").Inc()
		e.logger.Warn("unparseable key phrase response", zap.String("response", content), zap.Error(err))
		return nil, err
	}
	return phrases, nil
}

// Entities implements domain.Extractor.
func (e *Extractor) Entities(ctx context.Context, text string) ([]domain.Entity, error) {
	content, err := e.generate(ctx, nlp.KindEntities, nlp.EntitiesPrompt, text)
	if err != nil {
		return nil, err
	}
	entities, err := nlp.ParseEntities(content)
	if err != nil {
		metrics.NLPErrorsTotal.WithLabelValues(e.provider, nlp.KindEntities, "parse_error").Inc()
		e.logger.Warn("unparseable entity response", zap.String("response", content), zap.Error(err))
		return nil, err
	}
	return entities, nil
}

func (e *Extractor) generate(ctx context.Context, kind, prompt, text string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, prompt),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}

	start := time.Now()
	resp, err := e.model.GenerateContent(ctx, content, llms.WithTemperature(0), llms.WithJSONMode())
	duration := time.Since(start)

	if err != nil {
		metrics.NLPRequestsTotal.WithLabelValues(e.provider, kind, "error").Inc()
		metrics.NLPErrorsTotal.WithLabelValues(e.provider, kind, "api_error").Inc()
		return "", fmt.Errorf("generate %s: %v: %w", kind, err, domain.ErrNLPUnavailable)
	}
	if resp == nil || len(resp.Choices) == 0 {
		metrics.NLPRequestsTotal.WithLabelValues(e.provider, kind, "error").Inc()
		metrics.NLPErrorsTotal.WithLabelValues(e.provider, kind, "empty_response").Inc()
		return "", fmt.Errorf("empty %s response: %w", kind, domain.ErrNLPUnavailable)
	}

	metrics.NLPRequestsTotal.WithLabelValues(e.provider, kind, "success").Inc()
	metrics.NLPRequestDuration.WithLabelValues(e.provider, kind).Observe(duration.Seconds())

	choice := resp.Choices[0]
	if tokens := totalTokens(choice.GenerationInfo); tokens > 0 {
		metrics.NLPTokensTotal.WithLabelValues(e.provider, "total").Add(float64(tokens))
		domain.UsageFromContext(ctx).AddTokens(tokens)
	}
	return choice.Content, nil
}

// totalTokens reads the token count the OpenAI backend reports in generation info.
func totalTokens(info map[string]any) int {
	switch v := info["TotalTokens"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
