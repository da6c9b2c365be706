// Package openai implements the AI collaborators (conversation generation
// and answer evaluation) against an OpenAI-compatible chat completion API.
package openai

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Config holds the connection settings for the chat completion API.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns settings for the public OpenAI endpoint.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 30 * time.Second,
	}
}

// Client wraps the chat completion API with JSON-object output handling.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	return &Client{
		api:     openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

// completeJSON runs one chat completion and unmarshals the response body
// into out. Models occasionally wrap JSON in a markdown fence even with
// response_format set, so the fence is stripped before unmarshalling.
func (c *Client) completeJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return errors.New("empty chat completion response")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return errors.Wrap(err, "decode chat completion body")
	}
	return nil
}

var codeFenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	if m := codeFenceRe.FindStringSubmatch(content); len(m) > 1 {
		return m[1]
	}
	return content
}
