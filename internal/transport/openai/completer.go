package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/medrag/internal/domain"
	"github.com/kailas-cloud/medrag/internal/metrics"
)

// Completer sends chat completion requests to an OpenAI-compatible service.
// One synchronous request per call, one user-role message, first choice
// returned verbatim. No retries: service errors propagate to the caller.
type Completer struct {
	client   *openai.Client
	provider string
	logger   *zap.Logger
}

// CompleterConfig holds the chat completion service settings.
type CompleterConfig struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Provider string
	Logger   *zap.Logger
}

// NewCompleter creates an OpenAI-compatible chat completion client.
func NewCompleter(cfg *CompleterConfig) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Completer{
		client:   openai.NewClientWithConfig(clientCfg),
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Complete sends the prompt as a single user message and returns the first
// completion's text with the reported token usage. An empty answer passes
// through unchanged.
func (c *Completer) Complete(ctx context.Context, model, prompt string) (string, domain.TokenStats, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.provider, model, "error").Inc()
		return "", domain.TokenStats{}, parseAPIError(err, domain.ErrGenerationService, "completion")
	}

	stats := domain.TokenStats{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.provider, model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(c.provider, model).Observe(duration.Seconds())
	metrics.CompletionTokensTotal.WithLabelValues(c.provider, model, "prompt").Add(float64(stats.PromptTokens))
	metrics.CompletionTokensTotal.WithLabelValues(c.provider, model, "completion").Add(float64(stats.CompletionTokens))
	metrics.CompletionTokensTotal.WithLabelValues(c.provider, model, "total").Add(float64(stats.TotalTokens))

	if len(resp.Choices) == 0 {
		// Usage was still reported, keep it for cost accounting.
		return "", stats, fmt.Errorf("empty completion response: %w", domain.ErrGenerationService)
	}

	return resp.Choices[0].Message.Content, stats, nil
}
