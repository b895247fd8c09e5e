package openai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("defaults to gpt-4o-mini", func(t *testing.T) {
		client := NewClient("sk-test")
		assert.Equal(t, string(defaultModel), client.Model())
	})

	t.Run("empty WithModel keeps the default", func(t *testing.T) {
		client := NewClient("sk-test", WithModel(""))
		assert.Equal(t, string(defaultModel), client.Model())
	})

	t.Run("WithModel overrides the default", func(t *testing.T) {
		client := NewClient("sk-test", WithModel("gpt-4o"))
		assert.Equal(t, "gpt-4o", client.Model())
	})
}

func TestClient_Complete(t *testing.T) {
	t.Run("empty prompt is rejected before any API call", func(t *testing.T) {
		client := NewClient("sk-test")

		_, err := client.Complete(context.Background(), "   ")
		assert.ErrorIs(t, err, ErrEmptyPrompt)
	})
}
