// Package reading turns a draw into AI-generated interpretation text via a
// remote chat-completion endpoint.
package reading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize caps the response body read to prevent memory exhaustion.
const maxResponseSize = 1 << 20 // 1MB

const completionsPath = "/chat/completions"

// Config holds the gateway settings.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.deepseek.com".
	BaseURL string

	// APIKey, when set, is sent as a Bearer token.
	APIKey string

	// Model is the chat-completion model name.
	Model string

	// Timeout bounds each HTTP attempt. Zero means DefaultTimeout; the
	// underlying client default is never silently inherited.
	Timeout time.Duration

	// MaxAttempts bounds retries of transport failures. Zero or one means
	// fire-once; server rejections are never retried.
	MaxAttempts int
}

// DefaultTimeout is applied when Config.Timeout is unset.
const DefaultTimeout = 60 * time.Second

// Client sends reading requests to a chat-completion API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. The configured timeout is left
// to that client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) {
		client.logger = logger
	}
}

// NewClient creates a gateway client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return c
}

// chatMessage is one request-side message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the outbound request body.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatResponse is the expected chat-completion response shape.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Reading sends the system and user prompts and returns the generated text.
// Failures map to the package error taxonomy. Only transport errors are
// retried, and only when MaxAttempts > 1.
func (c *Client) Reading(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	attempts := c.cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := c.complete(ctx, systemPrompt, userPrompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !IsTransport(err) || attempt == attempts {
			break
		}
		c.logger.Warn("reading request failed, retrying",
			"attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return "", &TransportError{err: ctx.Err()}
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}
	return "", lastErr
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + completionsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", &TransportError{err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ServerError{Status: resp.StatusCode, Body: string(raw)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.logger.Error("unparseable completion response",
			"status", resp.StatusCode, "body", string(raw))
		return "", &DecodeError{err: err}
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrNoContent
	}
	return parsed.Choices[0].Message.Content, nil
}
