package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name     string
		question string
		intent   Intent
		params   IntentParams
	}{
		{
			name:     "spend plus supplier words classify as top suppliers",
			question: "Qual o total gasto com fornecedores?",
			intent:   IntentTopSuppliers,
			params:   IntentParams{},
		},
		{
			name:     "spend plus classification words classify as spend by classification",
			question: "Quanto gastamos por categoria?",
			intent:   IntentSpendByClassification,
			params:   IntentParams{},
		},
		{
			name:     "spend plus period words extract the day count",
			question: "Quais as despesas nos últimos 60 dias?",
			intent:   IntentSpendInPeriod,
			params:   IntentParams{Days: 60},
		},
		{
			name:     "period question without a number falls back to 30 days",
			question: "Qual o total gasto no último mês?",
			intent:   IntentSpendInPeriod,
			params:   IntentParams{Days: DefaultPeriodDays},
		},
		{
			name:     "spend words alone classify as general summary",
			question: "Quanto foi gasto no total?",
			intent:   IntentGeneralSummary,
			params:   IntentParams{},
		},
		{
			name:     "supplier word without spend words classifies as supplier search",
			question: "Notas do fornecedor Acme",
			intent:   IntentSupplierSearch,
			params:   IntentParams{Term: "notas acme"},
		},
		{
			name:     "invoice words classify as recent invoices",
			question: "Liste as últimas notas fiscais",
			intent:   IntentRecentInvoices,
			params:   IntentParams{},
		},
		{
			name:     "summary words classify as general summary",
			question: "Me dê um resumo da situação",
			intent:   IntentGeneralSummary,
			params:   IntentParams{},
		},
		{
			name:     "schema words classify as schema description",
			question: "Qual a estrutura do sistema?",
			intent:   IntentSchemaDescription,
			params:   IntentParams{},
		},
		{
			name:     "no keyword match defaults to general summary",
			question: "Bom dia, tudo bem?",
			intent:   IntentGeneralSummary,
			params:   IntentParams{},
		},
		{
			name:     "top suppliers wins over period when both match",
			question: "Qual o total gasto com fornecedores nos últimos 90 dias?",
			intent:   IntentTopSuppliers,
			params:   IntentParams{},
		},
		{
			name:     "classification wins over period when both match",
			question: "Total por categoria no período",
			intent:   IntentSpendByClassification,
			params:   IntentParams{},
		},
		{
			name:     "matching is case-insensitive",
			question: "QUAL O TOTAL GASTO COM FORNECEDORES?",
			intent:   IntentTopSuppliers,
			params:   IntentParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, params := ClassifyIntent(tt.question)
			assert.Equal(t, tt.intent, intent)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestExtractPeriodDays(t *testing.T) {
	t.Run("first integer token wins", func(t *testing.T) {
		params := extractPeriodDays("gastos dos últimos 15 dias ou 45 dias")
		assert.Equal(t, 15, params.Days)
	})

	t.Run("no integer token defaults", func(t *testing.T) {
		params := extractPeriodDays("gastos do período recente")
		assert.Equal(t, DefaultPeriodDays, params.Days)
	})
}

func TestExtractSupplierTerm(t *testing.T) {
	t.Run("strips trigger words and short tokens", func(t *testing.T) {
		params := extractSupplierTerm("empresa distribuidora central de alimentos")
		assert.Equal(t, "distribuidora central alimentos", params.Term)
	})

	t.Run("only trigger words leaves an empty term", func(t *testing.T) {
		params := extractSupplierTerm("fornecedor empresa")
		assert.Equal(t, "", params.Term)
	})
}
