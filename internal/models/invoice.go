package models

import "time"

// Invoice is one processed fiscal document (nota fiscal). The surrounding application
// owns this record; this layer only reads it for retrieval and indexing.
type Invoice struct {
	ID               int64      `json:"id"`
	SupplierName     string     `json:"fornecedor"`
	SupplierTaxID    string     `json:"cnpj"`
	RecipientName    string     `json:"faturado"`
	RecipientTaxID   string     `json:"cpf_faturado,omitempty"`
	Number           string     `json:"numero_nota"`
	IssueDate        *time.Time `json:"data_emissao"`
	DueDate          *time.Time `json:"data_validade,omitempty"`
	TotalAmount      float64    `json:"valor_total"`
	InstallmentCount int        `json:"parcelas"`
	Classification   string     `json:"classificacao"`
	ProcessedAt      *time.Time `json:"data_processamento"`

	// Line-item descriptions, loaded only when the indexer builds document text.
	ItemDescriptions []string `json:"-"`
}

// SupplierSpend is one row of the top-suppliers ranking.
type SupplierSpend struct {
	SupplierName string  `json:"fornecedor"`
	TaxID        string  `json:"cnpj"`
	InvoiceCount int     `json:"quantidade_notas"`
	TotalSpent   float64 `json:"total_gasto"`
}

// ClassificationSpend is one row of the spend-by-classification ranking.
type ClassificationSpend struct {
	Classification string  `json:"classificacao"`
	InvoiceCount   int     `json:"quantidade"`
	Total          float64 `json:"total"`
}

// PeriodSpend aggregates expenses issued in the last PeriodDays days.
type PeriodSpend struct {
	PeriodDays   int     `json:"periodo_dias"`
	InvoiceCount int     `json:"quantidade_notas"`
	TotalSpent   float64 `json:"total_despesas"`
}

// FinancialSummary is the general overview aggregate.
type FinancialSummary struct {
	InvoiceCount    int     `json:"total_notas_fiscais"`
	TotalAmount     float64 `json:"valor_total_geral"`
	AmountLast30d   float64 `json:"valor_ultimos_30_dias"`
	UniqueSuppliers int     `json:"total_fornecedores_unicos"`
}
