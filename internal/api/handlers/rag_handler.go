package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fiscaldesk/hub/internal/api/response"
	"github.com/fiscaldesk/hub/internal/apperrors"
	"github.com/fiscaldesk/hub/internal/models"
	"github.com/fiscaldesk/hub/internal/service"
)

// AnswerService answers one question and always returns an envelope.
type AnswerService interface {
	Ask(ctx context.Context, question string) models.Answer
}

// IndexService exposes the indexing operations the handler needs.
type IndexService interface {
	IndexInvoice(ctx context.Context, id int64) error
	IndexAll(ctx context.Context) models.IndexReport
	Status(ctx context.Context) (models.IndexStatus, error)
}

// RAGHandler handles HTTP requests for the question-answering subsystem.
type RAGHandler struct {
	structured AnswerService
	semantic   AnswerService
	indexing   IndexService
}

// NewRAGHandler creates a new RAG handler.
func NewRAGHandler(structured, semantic AnswerService, indexing IndexService) *RAGHandler {
	return &RAGHandler{
		structured: structured,
		semantic:   semantic,
		indexing:   indexing,
	}
}

// AskRequest is the body for POST /v1/rag/ask.
type AskRequest struct {
	Question string `json:"question"`
	Method   string `json:"method"`
}

// Ask handles POST /v1/rag/ask. The answer envelope is returned with 200 whether or
// not the pipeline succeeded; only input validation maps to 400.
func (h *RAGHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		response.RespondBadRequest(w, "question is required and must be non-empty")

		return
	}

	svc, err := h.answerService(req.Method)
	if err != nil {
		response.RespondBadRequest(w, err.Error())

		return
	}

	response.RespondJSON(w, http.StatusOK, svc.Ask(r.Context(), question))
}

// answerService resolves the requested method to an orchestrator. The legacy names
// "simple" and "embeddings" remain accepted as aliases.
func (h *RAGHandler) answerService(method string) (AnswerService, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "", models.MethodStructured, "simple":
		return h.structured, nil
	case models.MethodSemantic, "embeddings":
		return h.semantic, nil
	default:
		return nil, errors.New(`method must be "structured" or "semantic"`)
	}
}

// ExamplesResponse is the response for GET /v1/rag/examples.
type ExamplesResponse struct {
	Success  bool     `json:"success"`
	Examples []string `json:"examples"`
	Methods  []string `json:"methods"`
}

// Examples handles GET /v1/rag/examples.
func (h *RAGHandler) Examples(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, ExamplesResponse{
		Success:  true,
		Examples: service.ExampleQuestions(),
		Methods:  []string{models.MethodStructured, models.MethodSemantic},
	})
}

// StatusResponse is the response for GET /v1/rag/status.
type StatusResponse struct {
	Success          bool               `json:"success"`
	AvailableMethods []string           `json:"available_methods"`
	IndexStatus      models.IndexStatus `json:"index_status"`
}

// Status handles GET /v1/rag/status.
func (h *RAGHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.indexing.Status(r.Context())
	if err != nil {
		response.RespondInternalServerError(w, "Failed to read index status")

		return
	}

	response.RespondJSON(w, http.StatusOK, StatusResponse{
		Success:          true,
		AvailableMethods: []string{models.MethodStructured, models.MethodSemantic},
		IndexStatus:      status,
	})
}

// IndexAll handles POST /v1/rag/index. Partial failure still responds 200 with the
// per-record counts.
func (h *RAGHandler) IndexAll(w http.ResponseWriter, r *http.Request) {
	report := h.indexing.IndexAll(r.Context())
	if !report.Success {
		response.RespondJSON(w, http.StatusInternalServerError, report)

		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

// IndexOne handles POST /v1/rag/index/{id}.
func (h *RAGHandler) IndexOne(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.RespondBadRequest(w, "id must be an integer")

		return
	}

	if err := h.indexing.IndexInvoice(r.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.RespondNotFound(w, err.Error())

			return
		}

		response.RespondInternalServerError(w, "Failed to index invoice: "+err.Error())

		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "nota fiscal " + strconv.FormatInt(id, 10) + " indexada com sucesso",
	})
}
