package models

import "time"

// DocumentTypeInvoice tags embeddings built from invoices. The schema allows other
// document kinds; this is the only one the indexer produces today.
const DocumentTypeInvoice = "nota_fiscal"

// DocumentEmbedding represents one vectorization of one source record.
// At most one current embedding exists per (document, type): reindexing replaces,
// never appends.
type DocumentEmbedding struct {
	ID           int64          `json:"id"`
	DocumentID   *int64         `json:"document_id"` // nil when the source record was deleted
	DocumentType string         `json:"document_type"`
	Content      string         `json:"content"`
	Embedding    []float32      `json:"-"`
	Dimension    int            `json:"embedding_dimension"`
	Model        string         `json:"embedding_model"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ScoredDocument pairs a stored document embedding with its similarity to a query.
type ScoredDocument struct {
	Document DocumentEmbedding
	Score    float64
}

// RetrievedDocument is the envelope view of one semantic-search hit: a truncated
// preview for display plus the metadata snapshot and score. The untruncated content
// lives in the stored document.
type RetrievedDocument struct {
	Content    string         `json:"content"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata"`
}
