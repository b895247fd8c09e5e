package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fiscaldesk/hub/internal/apperrors"
	"github.com/fiscaldesk/hub/internal/models"
)

// StructuredRetriever provides the fixed query catalog the structured orchestrator
// maps intents onto.
type StructuredRetriever interface {
	ListRecent(ctx context.Context) ([]models.Invoice, error)
	TopSuppliers(ctx context.Context) ([]models.SupplierSpend, error)
	SpendByClassification(ctx context.Context) ([]models.ClassificationSpend, error)
	SpendInPeriod(ctx context.Context, days int) (models.PeriodSpend, error)
	SearchBySupplier(ctx context.Context, term string) ([]models.Invoice, error)
	FinancialSummary(ctx context.Context) (models.FinancialSummary, error)
	SchemaDescription() string
}

// StructuredAnswerService answers questions by classifying intent, running the
// matching relational query, and handing the formatted rows to generation.
type StructuredAnswerService struct {
	retriever StructuredRetriever
	generator GenerationClient
	logger    *slog.Logger
}

// StructuredAnswerServiceParams configures StructuredAnswerService.
type StructuredAnswerServiceParams struct {
	Retriever StructuredRetriever
	Generator GenerationClient
	Logger    *slog.Logger
}

// NewStructuredAnswerService creates a StructuredAnswerService.
func NewStructuredAnswerService(p StructuredAnswerServiceParams) *StructuredAnswerService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &StructuredAnswerService{
		retriever: p.Retriever,
		generator: p.Generator,
		logger:    logger,
	}
}

// Ask runs classify -> retrieve -> format -> generate and wraps the outcome in the
// uniform answer envelope. Every failure converts at this boundary into a
// success=false envelope; the question and method tag are always echoed back.
func (s *StructuredAnswerService) Ask(ctx context.Context, question string) models.Answer {
	if strings.TrimSpace(question) == "" {
		return failureAnswer(question, models.MethodStructured,
			apperrors.NewValidationError("question", "pergunta não pode estar vazia"))
	}

	intent, params := ClassifyIntent(question)

	data, err := s.retrieve(ctx, intent, params)
	if err != nil {
		s.logger.Error("structured answer: retrieval failed", "intent", intent, "error", err)

		return failureAnswer(question, models.MethodStructured,
			apperrors.NewRetrievalError("falha ao consultar o banco de dados", err))
	}

	context := FormatStructuredContext(intent, data)
	prompt := buildStructuredPrompt(question, context)

	answer, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("structured answer: generation failed", "intent", intent, "error", err)

		return failureAnswer(question, models.MethodStructured,
			apperrors.NewGenerationError("falha ao gerar a resposta", err))
	}

	return models.Answer{
		Success:       true,
		Question:      question,
		Answer:        answer,
		Method:        models.MethodStructured,
		QueryType:     string(intent),
		DataRetrieved: data,
	}
}

// retrieve maps each intent to exactly one parameterized read query.
func (s *StructuredAnswerService) retrieve(ctx context.Context, intent Intent, params IntentParams) (any, error) {
	switch intent {
	case IntentTopSuppliers:
		return s.retriever.TopSuppliers(ctx)
	case IntentSpendByClassification:
		return s.retriever.SpendByClassification(ctx)
	case IntentSpendInPeriod:
		days := params.Days
		if days <= 0 {
			days = DefaultPeriodDays
		}

		return s.retriever.SpendInPeriod(ctx, days)
	case IntentSupplierSearch:
		return s.retriever.SearchBySupplier(ctx, params.Term)
	case IntentRecentInvoices:
		return s.retriever.ListRecent(ctx)
	case IntentSchemaDescription:
		return s.retriever.SchemaDescription(), nil
	case IntentGeneralSummary:
		return s.retriever.FinancialSummary(ctx)
	default:
		return s.retriever.FinancialSummary(ctx)
	}
}

// ExampleQuestions returns questions the system is known to answer well, for the
// examples endpoint.
func ExampleQuestions() []string {
	return []string{
		"Qual é o resumo financeiro geral?",
		"Quais são os maiores fornecedores?",
		"Qual o total de despesas dos últimos 30 dias?",
		"Mostre as despesas por classificação",
		"Liste as últimas notas fiscais processadas",
		"Qual é a estrutura do banco de dados?",
		"Busque notas do fornecedor [nome]",
		"Quanto foi gasto nos últimos 60 dias?",
	}
}

func buildStructuredPrompt(question, context string) string {
	return fmt.Sprintf(`Você é um assistente financeiro especializado em análise de dados.
O usuário fez a seguinte pergunta sobre o sistema financeiro:

PERGUNTA: %s

Aqui estão os dados relevantes do banco de dados:

%s

Sua tarefa é fornecer uma resposta clara, objetiva e profissional:
- Responda diretamente a pergunta do usuário
- Use os dados fornecidos no contexto
- Formate valores monetários corretamente (R$)
- Seja conciso mas completo
- Se houver insights interessantes nos dados, mencione-os
- Use bullet points quando apropriado para melhor legibilidade

RESPOSTA:`, question, context)
}

// failureAnswer wraps an error into the uniform envelope with a fallback answer.
func failureAnswer(question, method string, err error) models.Answer {
	return models.Answer{
		Success:  false,
		Question: question,
		Answer:   "Erro ao processar a pergunta: " + err.Error(),
		Method:   method,
		Error:    err.Error(),
	}
}
