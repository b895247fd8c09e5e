package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/fiscaldesk/hub/internal/apperrors"
	"github.com/fiscaldesk/hub/internal/models"
)

// EmbeddingsRepository handles data access for the document_embeddings table.
type EmbeddingsRepository struct {
	db *pgxpool.Pool
}

// NewEmbeddingsRepository creates a new embeddings repository.
func NewEmbeddingsRepository(db *pgxpool.Pool) *EmbeddingsRepository {
	return &EmbeddingsRepository{db: db}
}

// Replace deletes every embedding for (document_id, document_type) and inserts the new
// row in a single transaction, so a concurrent reader never observes zero or two
// current embeddings for the same record. Enforces len(Embedding) == Dimension.
func (r *EmbeddingsRepository) Replace(ctx context.Context, emb models.DocumentEmbedding) error {
	if len(emb.Embedding) != emb.Dimension {
		return apperrors.NewValidationError("embedding",
			fmt.Sprintf("embedding length %d does not match declared dimension %d", len(emb.Embedding), emb.Dimension))
	}

	metadata, err := json.Marshal(emb.Metadata)
	if err != nil {
		return fmt.Errorf("marshal embedding metadata: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace embedding: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx,
		`DELETE FROM document_embeddings WHERE document_id = $1 AND document_type = $2`,
		emb.DocumentID, emb.DocumentType,
	)
	if err != nil {
		return fmt.Errorf("delete prior embeddings: %w", err)
	}

	now := time.Now()

	_, err = tx.Exec(ctx, `
		INSERT INTO document_embeddings
			(document_id, document_type, content, embedding, embedding_dimension, embedding_model, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		emb.DocumentID, emb.DocumentType, emb.Content, pgvector.NewVector(emb.Embedding),
		emb.Dimension, emb.Model, metadata, now,
	)
	if err != nil {
		return fmt.Errorf("insert embedding: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace embedding: %w", err)
	}

	return nil
}

// DeleteByDocument removes all embeddings for the given document.
func (r *EmbeddingsRepository) DeleteByDocument(ctx context.Context, documentID int64, documentType string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM document_embeddings WHERE document_id = $1 AND document_type = $2`,
		documentID, documentType,
	)
	if err != nil {
		return fmt.Errorf("delete embeddings: %w", err)
	}

	return nil
}

// ListAll returns every stored embedding in insertion order. The similarity ranker
// scans these in process; this is a full read, acceptable at this corpus size.
func (r *EmbeddingsRepository) ListAll(ctx context.Context) ([]models.DocumentEmbedding, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, document_id, document_type, content, embedding, embedding_dimension,
		       embedding_model, metadata, created_at, updated_at
		FROM document_embeddings
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}
	defer rows.Close()

	var results []models.DocumentEmbedding

	for rows.Next() {
		var (
			emb      models.DocumentEmbedding
			vec      pgvector.Vector
			metadata []byte
		)

		err := rows.Scan(&emb.ID, &emb.DocumentID, &emb.DocumentType, &emb.Content, &vec,
			&emb.Dimension, &emb.Model, &metadata, &emb.CreatedAt, &emb.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}

		emb.Embedding = vec.Slice()

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &emb.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal embedding metadata: %w", err)
			}
		}

		results = append(results, emb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	return results, nil
}

// Count returns the number of stored embeddings.
func (r *EmbeddingsRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM document_embeddings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}

	return count, nil
}
