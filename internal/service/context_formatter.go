package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/fiscaldesk/hub/internal/models"
)

// contentPreviewLimit bounds the per-document preview in prompts and envelopes; the
// untruncated content stays on the stored document.
const contentPreviewLimit = 200

// Per-intent caps on how many rows reach the prompt, below the query caps.
const (
	supplierSearchContextLimit = 10
	recentInvoicesContextLimit = 15
)

// FormatStructuredContext renders retrieved structured data into the fixed-template
// context block for the given intent. Empty result sets render an explicit
// "no results" sentence, never an empty block.
func FormatStructuredContext(intent Intent, data any) string {
	switch intent {
	case IntentSchemaDescription:
		return fmt.Sprintf("CONTEXTO DO BANCO DE DADOS:\n%v", data)

	case IntentGeneralSummary:
		summary, ok := data.(models.FinancialSummary)
		if !ok {
			return fmt.Sprintf("%v", data)
		}

		return fmt.Sprintf(`RESUMO FINANCEIRO:
- Total de notas fiscais: %d
- Valor total geral: %s
- Valor últimos 30 dias: %s
- Total de fornecedores únicos: %d`,
			summary.InvoiceCount, formatBRL(summary.TotalAmount),
			formatBRL(summary.AmountLast30d), summary.UniqueSuppliers)

	case IntentSpendInPeriod:
		period, ok := data.(models.PeriodSpend)
		if !ok {
			return fmt.Sprintf("%v", data)
		}

		return fmt.Sprintf(`DESPESAS NO PERÍODO (%d dias):
- Quantidade de notas: %d
- Total de despesas: %s`,
			period.PeriodDays, period.InvoiceCount, formatBRL(period.TotalSpent))

	case IntentTopSuppliers:
		suppliers, ok := data.([]models.SupplierSpend)
		if !ok {
			return fmt.Sprintf("%v", data)
		}

		if len(suppliers) == 0 {
			return "Nenhum fornecedor encontrado no banco de dados."
		}

		var b strings.Builder

		b.WriteString("MAIORES FORNECEDORES:\n")
		for i, s := range suppliers {
			fmt.Fprintf(&b, "%d. %s (CNPJ: %s)\n", i+1, s.SupplierName, s.TaxID)
			fmt.Fprintf(&b, "   - Notas: %d\n", s.InvoiceCount)
			fmt.Fprintf(&b, "   - Total gasto: %s\n", formatBRL(s.TotalSpent))
		}

		return b.String()

	case IntentSpendByClassification:
		classes, ok := data.([]models.ClassificationSpend)
		if !ok {
			return fmt.Sprintf("%v", data)
		}

		if len(classes) == 0 {
			return "Nenhuma despesa classificada encontrada."
		}

		var b strings.Builder

		b.WriteString("DESPESAS POR CLASSIFICAÇÃO:\n")
		for i, c := range classes {
			fmt.Fprintf(&b, "%d. %s\n", i+1, c.Classification)
			fmt.Fprintf(&b, "   - Quantidade: %d\n", c.InvoiceCount)
			fmt.Fprintf(&b, "   - Total: %s\n", formatBRL(c.Total))
		}

		return b.String()

	case IntentSupplierSearch:
		invoices, ok := data.([]models.Invoice)
		if !ok {
			return fmt.Sprintf("%v", data)
		}

		if len(invoices) == 0 {
			return "Nenhuma nota fiscal encontrada para este fornecedor."
		}

		var b strings.Builder

		fmt.Fprintf(&b, "NOTAS FISCAIS ENCONTRADAS (%d):\n", len(invoices))
		for _, inv := range invoices[:min(len(invoices), supplierSearchContextLimit)] {
			fmt.Fprintf(&b, "- Nota %s: %s (%s) - %s\n",
				inv.Number, formatBRL(inv.TotalAmount), formatDate(inv.IssueDate), inv.Classification)
		}

		return b.String()

	case IntentRecentInvoices:
		invoices, ok := data.([]models.Invoice)
		if !ok {
			return fmt.Sprintf("%v", data)
		}

		if len(invoices) == 0 {
			return "Nenhuma nota fiscal encontrada."
		}

		var b strings.Builder

		fmt.Fprintf(&b, "ÚLTIMAS NOTAS FISCAIS (%d):\n", len(invoices))
		for _, inv := range invoices[:min(len(invoices), recentInvoicesContextLimit)] {
			fmt.Fprintf(&b, "- Nota %s: %s\n", inv.Number, inv.SupplierName)
			fmt.Fprintf(&b, "  Valor: %s - %s\n", formatBRL(inv.TotalAmount), formatDate(inv.IssueDate))
			fmt.Fprintf(&b, "  Classificação: %s\n", inv.Classification)
		}

		return b.String()

	default:
		return fmt.Sprintf("%v", data)
	}
}

// FormatDocumentsContext renders ranked semantic-search hits into the prompt context,
// numbered by relevance, each with its similarity as a percentage and a truncated
// content preview.
func FormatDocumentsContext(docs []models.ScoredDocument) string {
	if len(docs) == 0 {
		return "Nenhum documento relevante encontrado."
	}

	var parts []string

	for i, d := range docs {
		parts = append(parts, fmt.Sprintf("\n--- DOCUMENTO %d (Relevância: %.2f%%) ---", i+1, d.Score*100))
		parts = append(parts, truncateContent(d.Document.Content))

		if len(d.Document.Metadata) > 0 {
			parts = append(parts, fmt.Sprintf("Metadados: %v", d.Document.Metadata))
		}
	}

	return strings.Join(parts, "\n")
}

// truncateContent cuts content at contentPreviewLimit runes, marking the cut with an
// ellipsis.
func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= contentPreviewLimit {
		return content
	}

	return string(runes[:contentPreviewLimit]) + "..."
}

// formatBRL renders a monetary amount in Brazilian format, e.g. R$ 1.234,56.
func formatBRL(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}

	s := fmt.Sprintf("%.2f", v)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder

	if negative {
		b.WriteByte('-')
	}

	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	return "R$ " + b.String() + "," + fracPart
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format("02/01/2006")
}
