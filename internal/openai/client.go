// Package openai provides a thin wrapper around the official OpenAI Go SDK for
// chat-completion answer generation.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrEmptyPrompt is returned when Complete is called with an empty prompt.
	ErrEmptyPrompt = errors.New("openai: prompt is empty")
	// ErrNoChoicesInResponse is returned when the API response contains no choices.
	ErrNoChoicesInResponse = errors.New("openai: no choices in response")
	// ErrEmptyCompletion is returned when the model returns no text.
	ErrEmptyCompletion = errors.New("openai: empty completion in response")
)

const defaultModel = openaisdk.ChatModelGPT4oMini

// Client calls the OpenAI chat completions API via the official SDK.
type Client struct {
	sdk   openaisdk.Client
	model openaisdk.ChatModel
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithModel sets the chat model name. Empty uses default.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = openaisdk.ChatModel(model)
		}
	}
}

// NewClient creates an OpenAI completion client using the official SDK.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{
		sdk:   openaisdk.NewClient(option.WithAPIKey(apiKey)),
		model: defaultModel,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Model returns the chat model name the client sends completions to.
func (c *Client) Model() string {
	return string(c.model)
}

// Complete returns the model's text answer for the given prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
		Model: c.model,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoicesInResponse
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}
