package service

import (
	"context"
	"errors"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscaldesk/hub/internal/models"
)

func indexedStore(docs []models.DocumentEmbedding) *mockEmbeddingStore {
	return &mockEmbeddingStore{
		countFunc: func(_ context.Context) (int, error) { return len(docs), nil },
		listFunc:  func(_ context.Context) ([]models.DocumentEmbedding, error) { return docs, nil },
	}
}

func TestSemanticAnswerService_Ask(t *testing.T) {
	t.Run("empty question returns validation envelope", func(t *testing.T) {
		svc := NewSemanticAnswerService(SemanticAnswerServiceParams{
			Embedder:  &mockEmbedder{},
			Store:     &mockEmbeddingStore{},
			Generator: &mockGenerator{},
		})

		answer := svc.Ask(context.Background(), "")

		assert.False(t, answer.Success)
		assert.Equal(t, models.MethodSemantic, answer.Method)
		assert.NotEmpty(t, answer.Error)
	})

	t.Run("empty index short-circuits without embedding or generating", func(t *testing.T) {
		embedderCalled := false
		generatorCalled := false
		svc := NewSemanticAnswerService(SemanticAnswerServiceParams{
			Embedder: &mockEmbedder{
				createFunc: func(_ context.Context, _, _ string) ([]float32, error) {
					embedderCalled = true

					return nil, nil
				},
			},
			Store: &mockEmbeddingStore{},
			Generator: &mockGenerator{
				completeFunc: func(_ context.Context, _ string) (string, error) {
					generatorCalled = true

					return "", nil
				},
			},
		})

		answer := svc.Ask(context.Background(), "fale sobre as notas")

		assert.False(t, embedderCalled)
		assert.False(t, generatorCalled)
		assert.False(t, answer.Success)
		assert.Equal(t, notIndexedMessage, answer.Answer)
		assert.Equal(t, "fale sobre as notas", answer.Question)
	})

	t.Run("count failure returns retrieval envelope", func(t *testing.T) {
		svc := NewSemanticAnswerService(SemanticAnswerServiceParams{
			Embedder: &mockEmbedder{},
			Store: &mockEmbeddingStore{
				countFunc: func(_ context.Context) (int, error) {
					return 0, errors.New("connection refused")
				},
			},
			Generator: &mockGenerator{},
		})

		answer := svc.Ask(context.Background(), "fale sobre as notas")

		assert.False(t, answer.Success)
		assert.Contains(t, answer.Error, "falha ao consultar os documentos indexados")
	})

	t.Run("embedding failure returns embedding envelope", func(t *testing.T) {
		svc := NewSemanticAnswerService(SemanticAnswerServiceParams{
			Embedder: &mockEmbedder{
				createFunc: func(_ context.Context, _, _ string) ([]float32, error) {
					return nil, errors.New("quota exceeded")
				},
			},
			Store: indexedStore([]models.DocumentEmbedding{
				{ID: 1, Content: "doc", Embedding: []float32{1, 0}},
			}),
			Generator: &mockGenerator{},
		})

		answer := svc.Ask(context.Background(), "fale sobre as notas")

		assert.False(t, answer.Success)
		assert.Contains(t, answer.Error, "falha ao vetorizar a pergunta")
	})

	t.Run("success ranks documents and returns truncated previews", func(t *testing.T) {
		docs := []models.DocumentEmbedding{
			{ID: 1, Content: "nota distante", Embedding: []float32{0, 1}},
			{ID: 2, Content: "nota exata", Embedding: []float32{1, 0},
				Metadata: map[string]any{"numero_nota": "NF-2"}},
			{ID: 3, Content: "nota próxima", Embedding: []float32{0.9, 0.1}},
		}

		var gotTask string

		svc := NewSemanticAnswerService(SemanticAnswerServiceParams{
			Embedder: &mockEmbedder{
				createFunc: func(_ context.Context, input, taskType string) ([]float32, error) {
					gotTask = taskType
					assert.Equal(t, "qual a nota mais cara?", input)

					return []float32{1, 0}, nil
				},
			},
			Store: indexedStore(docs),
			Generator: &mockGenerator{
				completeFunc: func(_ context.Context, prompt string) (string, error) {
					assert.Contains(t, prompt, "--- DOCUMENTO 1 (Relevância: 100.00%) ---")
					assert.Contains(t, prompt, "nota exata")

					return "A nota mais relevante é a NF-2.", nil
				},
			},
			TopK: 2,
		})

		answer := svc.Ask(context.Background(), "qual a nota mais cara?")

		require.True(t, answer.Success)
		assert.Equal(t, EmbedTaskQuery, gotTask)
		assert.Equal(t, "A nota mais relevante é a NF-2.", answer.Answer)
		assert.Equal(t, 2, answer.DocumentsRetrieved)
		require.Len(t, answer.Documents, 2)
		assert.Equal(t, "nota exata", answer.Documents[0].Content)
		assert.InDelta(t, 1.0, answer.Documents[0].Similarity, 1e-9)
		assert.Equal(t, map[string]any{"numero_nota": "NF-2"}, answer.Documents[0].Metadata)
		assert.Equal(t, "nota próxima", answer.Documents[1].Content)
	})

	t.Run("all documents dimension-mismatched returns not ready envelope", func(t *testing.T) {
		generatorCalled := false
		svc := NewSemanticAnswerService(SemanticAnswerServiceParams{
			Embedder: &mockEmbedder{
				createFunc: func(_ context.Context, _, _ string) ([]float32, error) {
					return []float32{1, 0}, nil
				},
			},
			Store: indexedStore([]models.DocumentEmbedding{
				{ID: 1, Content: "doc", Embedding: []float32{1, 0, 0}},
			}),
			Generator: &mockGenerator{
				completeFunc: func(_ context.Context, _ string) (string, error) {
					generatorCalled = true

					return "", nil
				},
			},
		})

		answer := svc.Ask(context.Background(), "fale sobre as notas")

		assert.False(t, generatorCalled)
		assert.False(t, answer.Success)
		assert.Equal(t, notIndexedMessage, answer.Answer)
	})

	t.Run("generation failure returns generation envelope", func(t *testing.T) {
		svc := NewSemanticAnswerService(SemanticAnswerServiceParams{
			Embedder: &mockEmbedder{
				createFunc: func(_ context.Context, _, _ string) ([]float32, error) {
					return []float32{1, 0}, nil
				},
			},
			Store: indexedStore([]models.DocumentEmbedding{
				{ID: 1, Content: "doc", Embedding: []float32{1, 0}},
			}),
			Generator: &mockGenerator{
				completeFunc: func(_ context.Context, _ string) (string, error) {
					return "", errors.New("model overloaded")
				},
			},
		})

		answer := svc.Ask(context.Background(), "fale sobre as notas")

		assert.False(t, answer.Success)
		assert.Contains(t, answer.Error, "falha ao gerar a resposta")
	})
}

func TestSemanticAnswerService_QueryEmbedding(t *testing.T) {
	t.Run("cache hit skips the embedder", func(t *testing.T) {
		cache, err := lru.New[string, []float32](8)
		require.NoError(t, err)

		calls := 0
		svc := NewSemanticAnswerService(SemanticAnswerServiceParams{
			Embedder: &mockEmbedder{
				createFunc: func(_ context.Context, _, _ string) ([]float32, error) {
					calls++

					return []float32{0.5, 0.5}, nil
				},
			},
			Store:      &mockEmbeddingStore{},
			Generator:  &mockGenerator{},
			QueryCache: cache,
		})

		first, err := svc.queryEmbedding(context.Background(), "mesma pergunta")
		require.NoError(t, err)

		second, err := svc.queryEmbedding(context.Background(), "mesma pergunta")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, calls)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		cache, err := lru.New[string, []float32](8)
		require.NoError(t, err)

		calls := 0
		svc := NewSemanticAnswerService(SemanticAnswerServiceParams{
			Embedder: &mockEmbedder{
				createFunc: func(_ context.Context, _, _ string) ([]float32, error) {
					calls++
					if calls == 1 {
						return nil, errors.New("transient")
					}

					return []float32{0.1}, nil
				},
			},
			Store:      &mockEmbeddingStore{},
			Generator:  &mockGenerator{},
			QueryCache: cache,
		})

		_, err = svc.queryEmbedding(context.Background(), "pergunta")
		require.Error(t, err)

		vec, err := svc.queryEmbedding(context.Background(), "pergunta")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1}, vec)
		assert.Equal(t, 2, calls)
	})
}
