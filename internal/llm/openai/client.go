package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"support-backend/internal/llm"
	"support-backend/internal/shared/telemetry"
)

const (
	systemPromptStructured = "You are a customer-support operations assistant. Respond with JSON only. Output must match the schema exactly."
	systemPromptText       = "You are a customer-support operations assistant. Answer concisely."
)

// Client implements llm.Generator using OpenAI Chat Completions.
type Client struct {
	client *goopenai.Client
	model  string
}

// NewClient constructs a new OpenAI client. baseURL is optional.
func NewClient(apiKey, model, baseURL string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	cfg := goopenai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeoutFromEnv()}
	return &Client{
		client: goopenai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func timeoutFromEnv() time.Duration {
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return timeout
}

// GenerateObject requests a JSON value constrained by req.Schema.
func (c *Client) GenerateObject(ctx context.Context, req llm.ObjectRequest) (json.RawMessage, error) {
	format := &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject}
	if req.Schema != nil {
		format = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Name,
				Description: req.Description,
				Schema:      req.Schema,
			},
		}
	}

	content, err := c.complete(ctx, req.Name, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPromptStructured},
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		ResponseFormat: format,
	})
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("invalid JSON from OpenAI")
	}
	return json.RawMessage(content), nil
}

// GenerateText requests a free-text completion.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, "text", goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPromptText},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
}

func (c *Client) complete(ctx context.Context, label string, req goopenai.ChatCompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", fmt.Errorf("create openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	logUsage(c.model, label, resp.Usage)

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	return content, nil
}

func logUsage(model, label string, usage goopenai.Usage) {
	telemetry.Info("llm.response", map[string]any{
		"model":             model,
		"schema":            label,
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
	})
}

var _ llm.Generator = (*Client)(nil)
