package service

import "context"

// Embedding task modes. Indexing embeds with the document mode and search with the
// query mode; the provider calibrates the two spaces asymmetrically, so swapping
// them degrades ranking quality.
const (
	EmbedTaskDocument = "RETRIEVAL_DOCUMENT"
	EmbedTaskQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingClient generates embedding vectors for text.
// Implemented by provider-specific clients (e.g. Google Gemini).
type EmbeddingClient interface {
	CreateEmbedding(ctx context.Context, input, taskType string) ([]float32, error)
}

// GenerationClient produces natural-language text for a prompt.
// Implemented by provider-specific clients (e.g. Google Gemini, OpenAI).
type GenerationClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
