package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/fiscaldesk/hub/internal/apperrors"
	"github.com/fiscaldesk/hub/internal/models"
)

// InvoiceReader provides the invoice read operations the indexer and the status
// report need.
type InvoiceReader interface {
	GetInvoice(ctx context.Context, id int64) (models.Invoice, error)
	ListInvoiceIDs(ctx context.Context) ([]int64, error)
	CountInvoices(ctx context.Context) (int, error)
}

// EmbeddingStore persists document embeddings with replace-not-append semantics.
type EmbeddingStore interface {
	Replace(ctx context.Context, emb models.DocumentEmbedding) error
	DeleteByDocument(ctx context.Context, documentID int64, documentType string) error
	ListAll(ctx context.Context) ([]models.DocumentEmbedding, error)
	Count(ctx context.Context) (int, error)
}

// IndexingService converts invoices into document embeddings. Each record indexes
// independently; bulk runs report partial success instead of aborting.
type IndexingService struct {
	invoices      InvoiceReader
	store         EmbeddingStore
	embedder      EmbeddingClient
	model         string
	dimensions    int
	limiter       *rate.Limiter
	maxConcurrent int
	logger        *slog.Logger
}

// IndexingServiceParams configures IndexingService. Limiter may be nil (no rate
// limiting); MaxConcurrent <= 0 means sequential.
type IndexingServiceParams struct {
	Invoices      InvoiceReader
	Store         EmbeddingStore
	Embedder      EmbeddingClient
	Model         string
	Dimensions    int
	Limiter       *rate.Limiter
	MaxConcurrent int
	Logger        *slog.Logger
}

// NewIndexingService creates an IndexingService.
func NewIndexingService(p IndexingServiceParams) *IndexingService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxConcurrent := p.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &IndexingService{
		invoices:      p.Invoices,
		store:         p.Store,
		embedder:      p.Embedder,
		model:         p.Model,
		dimensions:    p.Dimensions,
		limiter:       p.Limiter,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// IndexInvoice builds the invoice's document text, embeds it with the document task
// mode, and replaces any prior embedding for the record in one transaction. Indexing
// an already-indexed invoice is idempotent with respect to stored state.
func (s *IndexingService) IndexInvoice(ctx context.Context, id int64) error {
	invoice, err := s.invoices.GetInvoice(ctx, id)
	if err != nil {
		return fmt.Errorf("load invoice %d: %w", id, err)
	}

	content := buildInvoiceText(invoice)

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	vector, err := s.embedder.CreateEmbedding(ctx, content, EmbedTaskDocument)
	if err != nil {
		return apperrors.NewEmbeddingError(fmt.Sprintf("embed invoice %d", id), err)
	}

	// Catch provider drift before it lands in the store: a vector of the wrong
	// length would index fine but never rank (the searcher skips mismatched docs).
	if s.dimensions > 0 && len(vector) != s.dimensions {
		return apperrors.NewEmbeddingError(
			fmt.Sprintf("embed invoice %d: provider returned %d dimensions, configured %d",
				id, len(vector), s.dimensions), nil)
	}

	emb := models.DocumentEmbedding{
		DocumentID:   &invoice.ID,
		DocumentType: models.DocumentTypeInvoice,
		Content:      content,
		Embedding:    vector,
		Dimension:    len(vector),
		Model:        s.model,
		Metadata: map[string]any{
			"numero_nota":   invoice.Number,
			"fornecedor":    invoice.SupplierName,
			"valor_total":   invoice.TotalAmount,
			"classificacao": invoice.Classification,
		},
	}

	if err := s.store.Replace(ctx, emb); err != nil {
		return fmt.Errorf("store embedding for invoice %d: %w", id, err)
	}

	s.logger.Info("invoice indexed", "invoice_id", id, "model", s.model, "dimension", len(vector))

	return nil
}

// DeindexInvoice removes every embedding for the invoice.
func (s *IndexingService) DeindexInvoice(ctx context.Context, id int64) error {
	if err := s.store.DeleteByDocument(ctx, id, models.DocumentTypeInvoice); err != nil {
		return fmt.Errorf("deindex invoice %d: %w", id, err)
	}

	return nil
}

// IndexAll indexes every invoice, bounded-parallel and rate-limited. One record's
// failure never aborts the run: the report carries indexed and failed counts and
// Success stays true (partial success). Success is false only when the id listing
// itself fails.
func (s *IndexingService) IndexAll(ctx context.Context) models.IndexReport {
	ids, err := s.invoices.ListInvoiceIDs(ctx)
	if err != nil {
		s.logger.Error("bulk index: listing invoices failed", "error", err)

		return models.IndexReport{Success: false, Error: err.Error()}
	}

	var indexed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for _, id := range ids {
		g.Go(func() error {
			if err := s.IndexInvoice(gctx, id); err != nil {
				failed.Add(1)
				s.logger.Error("bulk index: invoice failed", "invoice_id", id, "error", err)

				return nil // keep going; outcomes are accumulated per record
			}

			indexed.Add(1)

			return nil
		})
	}

	_ = g.Wait() // workers never return errors

	s.logger.Info("bulk index finished",
		"total", len(ids), "indexed", indexed.Load(), "failed", failed.Load())

	return models.IndexReport{
		Success: true,
		Total:   len(ids),
		Indexed: int(indexed.Load()),
		Failed:  int(failed.Load()),
	}
}

// Status reports how much of the invoice corpus is embedded and with which model.
func (s *IndexingService) Status(ctx context.Context) (models.IndexStatus, error) {
	docs, err := s.store.Count(ctx)
	if err != nil {
		return models.IndexStatus{}, fmt.Errorf("count embeddings: %w", err)
	}

	invoices, err := s.invoices.CountInvoices(ctx)
	if err != nil {
		return models.IndexStatus{}, fmt.Errorf("count invoices: %w", err)
	}

	status := models.IndexStatus{
		DocumentsIndexed: docs,
		InvoiceCount:     invoices,
		Model:            s.model,
	}
	if invoices > 0 {
		status.Percentage = float64(docs) / float64(invoices) * 100
	}

	return status, nil
}

// buildInvoiceText renders an invoice as the deterministic document text that gets
// embedded: present fields in a fixed order, "Label: value" each, joined by " | ".
// Absent fields are omitted entirely, never rendered empty.
func buildInvoiceText(invoice models.Invoice) string {
	var parts []string

	if invoice.SupplierName != "" {
		parts = append(parts, "Fornecedor: "+invoice.SupplierName)
	}

	if invoice.SupplierTaxID != "" {
		parts = append(parts, "CNPJ: "+invoice.SupplierTaxID)
	}

	if invoice.Number != "" {
		parts = append(parts, "Nota Fiscal: "+invoice.Number)
	}

	if invoice.IssueDate != nil {
		parts = append(parts, "Data de Emissão: "+invoice.IssueDate.Format("02/01/2006"))
	}

	if invoice.TotalAmount != 0 {
		parts = append(parts, "Valor Total: "+formatBRL(invoice.TotalAmount))
	}

	if invoice.Classification != "" {
		parts = append(parts, "Classificação: "+invoice.Classification)
	}

	if len(invoice.ItemDescriptions) > 0 {
		parts = append(parts, "Produtos: "+strings.Join(invoice.ItemDescriptions, ", "))
	}

	return strings.Join(parts, " | ")
}
