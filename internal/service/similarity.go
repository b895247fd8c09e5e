package service

import (
	"math"
	"sort"

	"github.com/fiscaldesk/hub/internal/models"
)

// CosineSimilarity returns dot(a,b) / (||a|| * ||b||). When either norm is zero the
// result is defined as 0.0, never NaN. Vectors of different lengths score 0.0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RankBySimilarity scores every stored document against the query vector and returns
// the topK highest, descending by score; ties keep storage order (stable sort).
// Documents whose vector length differs from the query's are skipped rather than
// scored against an incompatible space. An empty store yields an empty result.
// Brute-force O(N·D); fine for an invoice corpus of this size.
func RankBySimilarity(query []float32, docs []models.DocumentEmbedding, topK int) []models.ScoredDocument {
	scored := make([]models.ScoredDocument, 0, len(docs))

	for _, doc := range docs {
		if len(doc.Embedding) != len(query) {
			continue
		}

		scored = append(scored, models.ScoredDocument{
			Document: doc,
			Score:    CosineSimilarity(query, doc.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}

	return scored
}
