package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/fiscaldesk/hub/internal/apperrors"
	"github.com/fiscaldesk/hub/internal/models"
)

// notIndexedMessage is the answer returned before any document has been indexed.
const notIndexedMessage = "Não há documentos indexados no sistema. Por favor, indexe as notas fiscais primeiro."

// SemanticAnswerService answers questions by embedding them with the query task
// mode, ranking every stored document embedding by cosine similarity in process,
// and handing the top hits to generation.
type SemanticAnswerService struct {
	embedder   EmbeddingClient
	store      EmbeddingStore
	generator  GenerationClient
	topK       int
	queryCache *lru.Cache[string, []float32]
	loadGroup  singleflight.Group
	logger     *slog.Logger
}

// SemanticAnswerServiceParams configures SemanticAnswerService.
// QueryCache may be nil (no caching).
type SemanticAnswerServiceParams struct {
	Embedder   EmbeddingClient
	Store      EmbeddingStore
	Generator  GenerationClient
	TopK       int
	QueryCache *lru.Cache[string, []float32]
	Logger     *slog.Logger
}

const defaultTopK = 5

// NewSemanticAnswerService creates a SemanticAnswerService.
func NewSemanticAnswerService(p SemanticAnswerServiceParams) *SemanticAnswerService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	topK := p.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	return &SemanticAnswerService{
		embedder:   p.Embedder,
		store:      p.Store,
		generator:  p.Generator,
		topK:       topK,
		queryCache: p.QueryCache,
		logger:     logger,
	}
}

// Ask runs embed -> rank -> format -> generate and wraps the outcome in the uniform
// answer envelope. When nothing is indexed yet it short-circuits with a
// success=false "not indexed" envelope instead of spending a generation call.
func (s *SemanticAnswerService) Ask(ctx context.Context, question string) models.Answer {
	if strings.TrimSpace(question) == "" {
		return failureAnswer(question, models.MethodSemantic,
			apperrors.NewValidationError("question", "pergunta não pode estar vazia"))
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Error("semantic answer: counting documents failed", "error", err)

		return failureAnswer(question, models.MethodSemantic,
			apperrors.NewRetrievalError("falha ao consultar os documentos indexados", err))
	}

	if count == 0 {
		answer := failureAnswer(question, models.MethodSemantic,
			apperrors.NewNotReadyError("nenhum documento encontrado no banco de dados"))
		answer.Answer = notIndexedMessage

		return answer
	}

	queryVec, err := s.queryEmbedding(ctx, question)
	if err != nil {
		s.logger.Error("semantic answer: query embedding failed", "error", err)

		return failureAnswer(question, models.MethodSemantic,
			apperrors.NewEmbeddingError("falha ao vetorizar a pergunta", err))
	}

	docs, err := s.store.ListAll(ctx)
	if err != nil {
		s.logger.Error("semantic answer: listing documents failed", "error", err)

		return failureAnswer(question, models.MethodSemantic,
			apperrors.NewRetrievalError("falha ao carregar os documentos indexados", err))
	}

	ranked := RankBySimilarity(queryVec, docs, s.topK)
	if len(ranked) == 0 {
		// Documents exist but none share the query vector's dimension; the stored
		// vectors were produced by an incompatible embedding model.
		s.logger.Warn("semantic answer: no compatible documents", "stored", len(docs), "query_dim", len(queryVec))

		answer := failureAnswer(question, models.MethodSemantic,
			apperrors.NewNotReadyError("nenhum documento compatível com o modelo de embeddings atual"))
		answer.Answer = notIndexedMessage

		return answer
	}

	context := FormatDocumentsContext(ranked)
	prompt := buildSemanticPrompt(question, context)

	text, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("semantic answer: generation failed", "error", err)

		return failureAnswer(question, models.MethodSemantic,
			apperrors.NewGenerationError("falha ao gerar a resposta", err))
	}

	retrieved := make([]models.RetrievedDocument, len(ranked))
	for i, d := range ranked {
		retrieved[i] = models.RetrievedDocument{
			Content:    truncateContent(d.Document.Content),
			Similarity: d.Score,
			Metadata:   d.Document.Metadata,
		}
	}

	return models.Answer{
		Success:            true,
		Question:           question,
		Answer:             text,
		Method:             models.MethodSemantic,
		DocumentsRetrieved: len(ranked),
		Documents:          retrieved,
	}
}

// queryEmbedding embeds the question with the query task mode, deduplicating
// concurrent identical questions and caching recent ones when a cache is configured.
func (s *SemanticAnswerService) queryEmbedding(ctx context.Context, question string) ([]float32, error) {
	if s.queryCache == nil {
		return s.embedder.CreateEmbedding(ctx, question, EmbedTaskQuery)
	}

	if vec, ok := s.queryCache.Get(question); ok {
		return vec, nil
	}

	val, err, _ := s.loadGroup.Do(question, func() (any, error) {
		vec, loadErr := s.embedder.CreateEmbedding(ctx, question, EmbedTaskQuery)
		if loadErr != nil {
			return nil, fmt.Errorf("create embedding: %w", loadErr)
		}

		s.queryCache.Add(question, vec)

		return vec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	return val.([]float32), nil
}

func buildSemanticPrompt(question, context string) string {
	return fmt.Sprintf(`Você é um assistente financeiro especializado em análise de dados.
O usuário fez a seguinte pergunta sobre o sistema financeiro:

PERGUNTA: %s

Aqui estão os documentos mais relevantes encontrados no banco de dados (ordenados por relevância):

%s

Sua tarefa é fornecer uma resposta clara, objetiva e profissional:
- Responda diretamente a pergunta do usuário
- Use os dados fornecidos no contexto dos documentos
- Formate valores monetários corretamente (R$)
- Seja conciso mas completo
- Se houver insights interessantes nos dados, mencione-os
- Use bullet points quando apropriado para melhor legibilidade
- Indique o nível de confiança da resposta baseado na relevância dos documentos

RESPOSTA:`, question, context)
}
