// Package googleai provides a thin wrapper around the Google Gen AI SDK (Gemini API)
// for embeddings and text generation.
package googleai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

var (
	// ErrEmptyInput is returned when CreateEmbedding is called with empty input.
	ErrEmptyInput = errors.New("googleai: input text is empty")
	// ErrInvalidDims is returned when dimensions is not positive.
	ErrInvalidDims = errors.New("googleai: embedding dimensions must be positive")
	// ErrNoEmbeddingInResponse is returned when the API response contains no embedding data.
	ErrNoEmbeddingInResponse = errors.New("googleai: no embedding in response")
	// ErrDimensionMismatch is returned when the response embedding length does not match configured dimensions.
	ErrDimensionMismatch = errors.New("googleai: embedding dimension mismatch")
	// ErrEmptyPrompt is returned when Complete is called with an empty prompt.
	ErrEmptyPrompt = errors.New("googleai: prompt is empty")
	// ErrEmptyCompletion is returned when the model returns no text.
	ErrEmptyCompletion = errors.New("googleai: empty completion in response")
)

const (
	defaultDimension       = 768
	defaultEmbeddingModel  = "text-embedding-004"
	defaultGenerationModel = "gemini-2.0-flash"
)

// Embedding task types. Indexing uses the document type and search uses the query
// type; the two embedding spaces are calibrated asymmetrically by the provider, so
// the modes must not be mixed up.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Client calls the Gemini API via the Google Gen AI SDK.
type Client struct {
	client          *genai.Client
	embeddingModel  string
	generationModel string
	dimensions      int
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithDimensions sets the requested embedding dimension (must match DB column).
func WithDimensions(dim int) ClientOption {
	return func(c *Client) {
		c.dimensions = dim
	}
}

// WithEmbeddingModel sets the embedding model name (e.g. text-embedding-004). Empty uses default.
func WithEmbeddingModel(model string) ClientOption {
	return func(c *Client) {
		c.embeddingModel = model
	}
}

// WithGenerationModel sets the generation model name (e.g. gemini-2.0-flash). Empty uses default.
func WithGenerationModel(model string) ClientOption {
	return func(c *Client) {
		c.generationModel = model
	}
}

// NewClient creates a Gemini client.
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("googleai client: %w", err)
	}

	client := &Client{
		client:          genaiClient,
		embeddingModel:  defaultEmbeddingModel,
		generationModel: defaultGenerationModel,
		dimensions:      defaultDimension,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// CreateEmbedding returns the embedding vector for the given text using the configured
// model and task type (TaskRetrievalDocument or TaskRetrievalQuery). The returned slice
// length equals the configured dimensions.
func (c *Client) CreateEmbedding(ctx context.Context, input, taskType string) ([]float32, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	if c.dimensions <= 0 || c.dimensions > math.MaxInt32 {
		return nil, ErrInvalidDims
	}

	model := c.embeddingModel
	if model == "" {
		model = defaultEmbeddingModel
	}

	contents := []*genai.Content{genai.NewContentFromText(input, genai.RoleUser)}
	//nolint:gosec // G115: c.dimensions is bounded above by math.MaxInt32
	dimInt32 := int32(c.dimensions)

	resp, err := c.client.Models.EmbedContent(ctx, model, contents, &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dimInt32,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embedding: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, ErrNoEmbeddingInResponse
	}

	emb := resp.Embeddings[0].Values
	if len(emb) != c.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(emb), c.dimensions)
	}

	out := make([]float32, len(emb))
	copy(out, emb)

	return out, nil
}

// Complete generates natural-language text for the given prompt using the configured
// generation model.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	model := c.generationModel
	if model == "" {
		model = defaultGenerationModel
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generation: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}
