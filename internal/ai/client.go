// Package ai talks to an OpenAI-compatible completion API to write
// assessment narratives and to answer the trainer chat.
package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"

	"paggie/trainer-app/internal/instrumentation"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1/"
	DefaultModel   = "llama-3.3-70b-versatile"
	DefaultTimeout = 30 * time.Second

	operationAssessment = "assessment"
	operationChat       = "chat"
)

// Config configures NewClient. An empty APIKey disables remote calls.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client never returns errors to its callers: every failure degrades to a
// fallback text.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	metrics *instrumentation.Instrumentation
}

// NewClient builds a client. metrics may be nil.
func NewClient(cfg Config, metrics *instrumentation.Instrumentation) *Client {
	c := &Client{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		metrics: metrics,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		logrus.Warn("AI API key not configured, using manual analysis fallback")
		return c
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	api := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	c.api = &api
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.api != nil
}

func (c *Client) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params.Model = openai.ChatModel(c.model)

	logrus.WithFields(logrus.Fields{
		"model":         c.model,
		"message_count": len(params.Messages),
	}).Debug("sending chat completion request")

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"completion_tokens": completion.Usage.CompletionTokens,
		"prompt_tokens":     completion.Usage.PromptTokens,
		"total_tokens":      completion.Usage.TotalTokens,
	}).Debug("received chat completion response")

	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

func (c *Client) record(operation, outcome string) {
	if c.metrics == nil {
		return
	}
	c.metrics.CounterAICalls.WithLabelValues(operation, outcome).Inc()
}

func outcomeOf(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return instrumentation.OutcomeTimeout
	}
	return instrumentation.OutcomeError
}
