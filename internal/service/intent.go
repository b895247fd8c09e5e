package service

import (
	"strconv"
	"strings"
)

// Intent is the classified purpose of a question, drawn from a fixed enumeration.
type Intent string

// Query intents. The string values double as the query_type diagnostic in answers.
const (
	IntentTopSuppliers          Intent = "maiores_fornecedores"
	IntentSpendByClassification Intent = "por_classificacao"
	IntentSpendInPeriod         Intent = "total_periodo"
	IntentSupplierSearch        Intent = "buscar_fornecedor"
	IntentRecentInvoices        Intent = "listar_notas"
	IntentSchemaDescription     Intent = "esquema"
	IntentGeneralSummary        Intent = "resumo_geral"
)

// IntentParams carries the parameters extracted alongside an intent.
type IntentParams struct {
	// Days is the lookback window for IntentSpendInPeriod.
	Days int
	// Term is the search term for IntentSupplierSearch.
	Term string
}

// DefaultPeriodDays is used when a period question carries no integer token.
const DefaultPeriodDays = 30

// Keyword groups. A rule matches when every one of its groups has at least one
// substring hit in the lowercased question.
var (
	valueWords          = []string{"total", "quanto", "soma", "valor", "gasto", "despesa"}
	supplierWords       = []string{"fornecedor"}
	classificationWords = []string{"classificação", "classificacao", "categoria"}
	periodWords         = []string{"período", "periodo", "dias", "mês", "mes"}
	supplierSearchWords = []string{"fornecedor", "empresa"}
	invoiceWords        = []string{"nota", "notas", "fiscal", "fiscais"}
	summaryWords        = []string{"resumo", "overview", "visão geral", "visao geral"}
	schemaWords         = []string{"estrutura", "esquema", "tabelas", "banco"}
)

type intentRule struct {
	intent  Intent
	groups  [][]string
	extract func(q string) IntentParams
}

// intentRules is evaluated top to bottom; the first matching rule wins. The order is
// the contract: keyword overlap across groups (e.g. "fornecedor" appearing both in a
// spend question and a search question) resolves deterministically by position.
var intentRules = []intentRule{
	{intent: IntentTopSuppliers, groups: [][]string{valueWords, supplierWords}},
	{intent: IntentSpendByClassification, groups: [][]string{valueWords, classificationWords}},
	{intent: IntentSpendInPeriod, groups: [][]string{valueWords, periodWords}, extract: extractPeriodDays},
	{intent: IntentGeneralSummary, groups: [][]string{valueWords}},
	{intent: IntentSupplierSearch, groups: [][]string{supplierSearchWords}, extract: extractSupplierTerm},
	{intent: IntentRecentInvoices, groups: [][]string{invoiceWords}},
	{intent: IntentGeneralSummary, groups: [][]string{summaryWords}},
	{intent: IntentSchemaDescription, groups: [][]string{schemaWords}},
}

// ClassifyIntent maps a free-text question to an intent and extracted parameters.
// It never fails; questions matching no rule classify as IntentGeneralSummary.
func ClassifyIntent(question string) (Intent, IntentParams) {
	q := strings.ToLower(question)

	for _, rule := range intentRules {
		if !matchesAllGroups(q, rule.groups) {
			continue
		}

		params := IntentParams{}
		if rule.extract != nil {
			params = rule.extract(q)
		}

		return rule.intent, params
	}

	return IntentGeneralSummary, IntentParams{}
}

func matchesAllGroups(q string, groups [][]string) bool {
	for _, group := range groups {
		if !containsAny(q, group) {
			return false
		}
	}

	return true
}

func containsAny(q string, words []string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}

	return false
}

// extractPeriodDays takes the first integer-looking whitespace-delimited token,
// defaulting to DefaultPeriodDays.
func extractPeriodDays(q string) IntentParams {
	for _, token := range strings.Fields(q) {
		if days, err := strconv.Atoi(token); err == nil {
			return IntentParams{Days: days}
		}
	}

	return IntentParams{Days: DefaultPeriodDays}
}

// extractSupplierTerm strips the trigger words and keeps tokens longer than three
// runes as the search term.
func extractSupplierTerm(q string) IntentParams {
	cleaned := strings.ReplaceAll(q, "fornecedor", "")
	cleaned = strings.ReplaceAll(cleaned, "empresa", "")

	var kept []string

	for _, token := range strings.Fields(cleaned) {
		if len([]rune(token)) > 3 {
			kept = append(kept, token)
		}
	}

	return IntentParams{Term: strings.Join(kept, " ")}
}
