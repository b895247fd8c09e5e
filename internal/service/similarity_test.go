package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscaldesk/hub/internal/models"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		v := []float32{0.3, 0.5, 0.2}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	})

	t.Run("zero vector scores 0 not NaN", func(t *testing.T) {
		score := CosineSimilarity([]float32{0, 0}, []float32{1, 1})
		assert.InDelta(t, 0.0, score, 1e-9)
	})

	t.Run("mismatched lengths score 0", func(t *testing.T) {
		assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}), 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := []float32{0.2, 0.7, 0.1}
		b := []float32{0.5, 0.1, 0.9}
		assert.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-12)
	})
}

func TestRankBySimilarity(t *testing.T) {
	doc := func(id int64, vec []float32) models.DocumentEmbedding {
		return models.DocumentEmbedding{ID: id, Embedding: vec}
	}

	t.Run("orders by descending score", func(t *testing.T) {
		query := []float32{1, 0}
		docs := []models.DocumentEmbedding{
			doc(1, []float32{0, 1}),
			doc(2, []float32{1, 0}),
			doc(3, []float32{0.9, 0.1}),
		}

		ranked := RankBySimilarity(query, docs, 3)
		require.Len(t, ranked, 3)
		assert.Equal(t, int64(2), ranked[0].Document.ID)
		assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
		assert.Equal(t, int64(3), ranked[1].Document.ID)
		assert.InDelta(t, 0.9939, ranked[1].Score, 1e-3)
		assert.Equal(t, int64(1), ranked[2].Document.ID)
	})

	t.Run("truncates to topK", func(t *testing.T) {
		query := []float32{1, 0}
		docs := []models.DocumentEmbedding{
			doc(1, []float32{1, 0}),
			doc(2, []float32{0.5, 0.5}),
			doc(3, []float32{0, 1}),
		}

		ranked := RankBySimilarity(query, docs, 2)
		assert.Len(t, ranked, 2)
	})

	t.Run("topK larger than corpus returns everything", func(t *testing.T) {
		ranked := RankBySimilarity([]float32{1, 0}, []models.DocumentEmbedding{doc(1, []float32{1, 0})}, 10)
		assert.Len(t, ranked, 1)
	})

	t.Run("empty store yields empty result", func(t *testing.T) {
		ranked := RankBySimilarity([]float32{1, 0}, nil, 5)
		assert.Empty(t, ranked)
	})

	t.Run("dimension-mismatched documents are skipped", func(t *testing.T) {
		query := []float32{1, 0}
		docs := []models.DocumentEmbedding{
			doc(1, []float32{1, 0, 0}),
			doc(2, []float32{0.8, 0.2}),
		}

		ranked := RankBySimilarity(query, docs, 5)
		require.Len(t, ranked, 1)
		assert.Equal(t, int64(2), ranked[0].Document.ID)
	})

	t.Run("ties keep storage order", func(t *testing.T) {
		query := []float32{1, 0}
		docs := []models.DocumentEmbedding{
			doc(1, []float32{2, 0}),
			doc(2, []float32{3, 0}),
		}

		ranked := RankBySimilarity(query, docs, 2)
		require.Len(t, ranked, 2)
		assert.Equal(t, int64(1), ranked[0].Document.ID)
		assert.Equal(t, int64(2), ranked[1].Document.ID)
	})
}
