package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-forge/internal/config"
	"github.com/yourusername/parlay-forge/internal/datasource"
	"github.com/yourusername/parlay-forge/internal/metrics"
)

// ChatClient generates a completion for a prompt. Implementations are
// constructed once at process start and injected; there are no
// package-level client singletons.
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
}

// chatRequest is the OpenAI-compatible completion request shape, also
// accepted by the x.ai API.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// HTTPChatClient calls an OpenAI-compatible chat completions endpoint
// through the shared rate-limited HTTP client.
type HTTPChatClient struct {
	httpClient *datasource.RateLimitedHTTPClient
	name       string
	baseURL    string
	apiKey     string
	model      string
	temp       float64
	maxTokens  int
	strictJSON bool
	logger     *logrus.Logger
}

// NewGrokClient creates a client for the x.ai chat completions API.
func NewGrokClient(cfg *config.AIProviderConfig, httpClient *datasource.RateLimitedHTTPClient, logger *logrus.Logger) *HTTPChatClient {
	return &HTTPChatClient{
		httpClient: httpClient,
		name:       "grok",
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		temp:       cfg.Temperature,
		maxTokens:  cfg.MaxTokens,
		logger:     logger,
	}
}

// NewOpenAIClient creates a client for the OpenAI chat completions API.
// OpenAI supports strict JSON mode, so responses are requested as
// json_object.
func NewOpenAIClient(cfg *config.AIProviderConfig, httpClient *datasource.RateLimitedHTTPClient, logger *logrus.Logger) *HTTPChatClient {
	return &HTTPChatClient{
		httpClient: httpClient,
		name:       "openai",
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		temp:       cfg.Temperature,
		maxTokens:  cfg.MaxTokens,
		strictJSON: true,
		logger:     logger,
	}
}

// Name returns the provider label used for alternation and metrics.
func (c *HTTPChatClient) Name() string {
	return c.name
}

// Complete sends one chat completion request and returns the raw text of
// the first choice.
func (c *HTTPChatClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temp,
		MaxTokens:   c.maxTokens,
	}
	if c.strictJSON {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues(c.name, "network_error").Inc()
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		metrics.AIRequestsTotal.WithLabelValues(c.name, "http_error").Inc()
		return "", fmt.Errorf("%w: %s returned status %d: %s", ErrGenerationFailed, c.name, resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		metrics.AIRequestsTotal.WithLabelValues(c.name, "decode_error").Inc()
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		metrics.AIRequestsTotal.WithLabelValues(c.name, "empty").Inc()
		return "", ErrEmptyResponse
	}

	metrics.AIRequestsTotal.WithLabelValues(c.name, "ok").Inc()
	metrics.AIRequestDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())

	c.logger.WithFields(logrus.Fields{
		"provider": c.name,
		"model":    c.model,
		"duration": time.Since(start),
	}).Debug("Chat completion finished")

	return chatResp.Choices[0].Message.Content, nil
}
