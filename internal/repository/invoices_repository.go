package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fiscaldesk/hub/internal/apperrors"
	"github.com/fiscaldesk/hub/internal/models"
)

// Result caps for the retrieval queries. These bound the context handed to the
// generation step and are design constants, not user-configurable.
const (
	recentInvoicesLimit  = 50
	topSuppliersLimit    = 10
	classificationsLimit = 10
	supplierSearchLimit  = 20
)

// InvoicesRepository issues the fixed catalog of read-only queries against the
// invoice tables. It never writes; the surrounding application owns the schema.
type InvoicesRepository struct {
	db *pgxpool.Pool
}

// NewInvoicesRepository creates a new invoices repository.
func NewInvoicesRepository(db *pgxpool.Pool) *InvoicesRepository {
	return &InvoicesRepository{db: db}
}

// ListRecent returns the most recently issued invoices, newest first.
func (r *InvoicesRepository) ListRecent(ctx context.Context) ([]models.Invoice, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, razao_social_fornecedor, cnpj_fornecedor, nome_faturado, numero_nota,
		       data_emissao, valor_total, quantidade_parcelas, classificacao_despesa, data_processamento
		FROM nota_fiscal
		ORDER BY data_emissao DESC
		LIMIT $1`, recentInvoicesLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent invoices: %w", err)
	}
	defer rows.Close()

	return scanInvoices(rows)
}

// TopSuppliers returns suppliers ranked by total spend, highest first.
func (r *InvoicesRepository) TopSuppliers(ctx context.Context) ([]models.SupplierSpend, error) {
	rows, err := r.db.Query(ctx, `
		SELECT razao_social_fornecedor, cnpj_fornecedor,
		       COUNT(*) AS quantidade_notas,
		       COALESCE(SUM(valor_total), 0) AS total_gasto
		FROM nota_fiscal
		GROUP BY razao_social_fornecedor, cnpj_fornecedor
		ORDER BY total_gasto DESC
		LIMIT $1`, topSuppliersLimit)
	if err != nil {
		return nil, fmt.Errorf("top suppliers: %w", err)
	}
	defer rows.Close()

	var results []models.SupplierSpend

	for rows.Next() {
		var (
			row         models.SupplierSpend
			name, taxID *string
		)

		if err := rows.Scan(&name, &taxID, &row.InvoiceCount, &row.TotalSpent); err != nil {
			return nil, fmt.Errorf("scan supplier spend: %w", err)
		}

		row.SupplierName = deref(name)
		row.TaxID = deref(taxID)
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top suppliers: %w", err)
	}

	return results, nil
}

// SpendByClassification returns expense totals grouped by classification tag,
// highest total first.
func (r *InvoicesRepository) SpendByClassification(ctx context.Context) ([]models.ClassificationSpend, error) {
	rows, err := r.db.Query(ctx, `
		SELECT classificacao_despesa,
		       COUNT(*) AS quantidade,
		       COALESCE(SUM(valor_total), 0) AS total
		FROM nota_fiscal
		WHERE classificacao_despesa IS NOT NULL
		GROUP BY classificacao_despesa
		ORDER BY total DESC
		LIMIT $1`, classificationsLimit)
	if err != nil {
		return nil, fmt.Errorf("spend by classification: %w", err)
	}
	defer rows.Close()

	var results []models.ClassificationSpend

	for rows.Next() {
		var row models.ClassificationSpend

		if err := rows.Scan(&row.Classification, &row.InvoiceCount, &row.Total); err != nil {
			return nil, fmt.Errorf("scan classification spend: %w", err)
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating classifications: %w", err)
	}

	return results, nil
}

// SpendInPeriod aggregates invoices issued in the last days days. The window is
// computed against time.Now at every call, never cached.
func (r *InvoicesRepository) SpendInPeriod(ctx context.Context, days int) (models.PeriodSpend, error) {
	since := time.Now().AddDate(0, 0, -days)
	result := models.PeriodSpend{PeriodDays: days}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) AS quantidade_notas,
		       COALESCE(SUM(valor_total), 0) AS total_despesas
		FROM nota_fiscal
		WHERE data_emissao >= $1`, since,
	).Scan(&result.InvoiceCount, &result.TotalSpent)
	if err != nil {
		return models.PeriodSpend{}, fmt.Errorf("spend in period: %w", err)
	}

	return result, nil
}

// SearchBySupplier returns invoices whose supplier name matches the term,
// case-insensitively, newest first.
func (r *InvoicesRepository) SearchBySupplier(ctx context.Context, term string) ([]models.Invoice, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, razao_social_fornecedor, cnpj_fornecedor, nome_faturado, numero_nota,
		       data_emissao, valor_total, quantidade_parcelas, classificacao_despesa, data_processamento
		FROM nota_fiscal
		WHERE razao_social_fornecedor ILIKE $1
		ORDER BY data_emissao DESC
		LIMIT $2`, "%"+term+"%", supplierSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search by supplier: %w", err)
	}
	defer rows.Close()

	return scanInvoices(rows)
}

// FinancialSummary returns the general overview aggregate.
func (r *InvoicesRepository) FinancialSummary(ctx context.Context) (models.FinancialSummary, error) {
	since := time.Now().AddDate(0, 0, -30)

	var summary models.FinancialSummary

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(valor_total), 0),
		       COALESCE((SELECT SUM(valor_total) FROM nota_fiscal WHERE data_emissao >= $1), 0),
		       COUNT(DISTINCT cnpj_fornecedor)
		FROM nota_fiscal`, since,
	).Scan(&summary.InvoiceCount, &summary.TotalAmount, &summary.AmountLast30d, &summary.UniqueSuppliers)
	if err != nil {
		return models.FinancialSummary{}, fmt.Errorf("financial summary: %w", err)
	}

	return summary, nil
}

// GetInvoice returns one invoice with its line-item descriptions loaded.
// Returns apperrors.NotFoundError when no invoice exists with the given id.
func (r *InvoicesRepository) GetInvoice(ctx context.Context, id int64) (models.Invoice, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, razao_social_fornecedor, cnpj_fornecedor, nome_faturado, numero_nota,
		       data_emissao, valor_total, quantidade_parcelas, classificacao_despesa, data_processamento
		FROM nota_fiscal
		WHERE id = $1`, id)

	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Invoice{}, apperrors.NewNotFoundError("invoice", fmt.Sprintf("invoice %d not found", id))
		}

		return models.Invoice{}, fmt.Errorf("get invoice: %w", err)
	}

	items, err := r.db.Query(ctx,
		`SELECT descricao FROM produto_nota_fiscal WHERE nota_fiscal_id = $1 ORDER BY id`, id)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("get invoice items: %w", err)
	}
	defer items.Close()

	for items.Next() {
		var desc *string
		if err := items.Scan(&desc); err != nil {
			return models.Invoice{}, fmt.Errorf("scan invoice item: %w", err)
		}

		if d := deref(desc); d != "" {
			invoice.ItemDescriptions = append(invoice.ItemDescriptions, d)
		}
	}

	if err := items.Err(); err != nil {
		return models.Invoice{}, fmt.Errorf("iterating invoice items: %w", err)
	}

	return invoice, nil
}

// ListInvoiceIDs returns the ids of all invoices, oldest first. Used by bulk indexing.
func (r *InvoicesRepository) ListInvoiceIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM nota_fiscal ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list invoice ids: %w", err)
	}
	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan invoice id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice ids: %w", err)
	}

	return ids, nil
}

// CountInvoices returns the number of invoices in the store.
func (r *InvoicesRepository) CountInvoices(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM nota_fiscal`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}

	return count, nil
}

// SchemaDescription returns a textual description of the relational schema, used to
// answer structural questions without touching the data.
func (r *InvoicesRepository) SchemaDescription() string {
	return schemaDescription
}

const schemaDescription = `ESQUEMA DO BANCO DE DADOS:

1. Tabela 'pessoas':
   - Armazena fornecedores e clientes
   - Campos: id, tipo (CLIENTE-FORNECEDOR/FATURADO), razao_social, cpf_cnpj, data_cadastro

2. Tabela 'classificacao':
   - Categorias de despesas e receitas
   - Campos: id, tipo (DESPESA/RECEITA), descricao, data_cadastro

3. Tabela 'nota_fiscal':
   - Notas fiscais processadas
   - Campos: id, razao_social_fornecedor, cnpj_fornecedor, nome_faturado, cpf_faturado,
             numero_nota, data_emissao, data_validade, valor_total, quantidade_parcelas,
             classificacao_despesa, data_processamento

4. Tabela 'parcelas_contas':
   - Parcelas a pagar/receber
   - Campos: id, identificacao, numero_nota, data_emissao, data_vencimento,
             valor_total, data_cadastro

5. Tabela 'movimento_contas':
   - Movimentos contábeis
   - Campos: id, tipo (APAGAR/ARECEBER), parcela_id, fornecedor_cliente_id,
             faturado_id, valor, data_movimento`

// scanInvoices drains rows produced by the invoice projection queries.
func scanInvoices(rows pgx.Rows) ([]models.Invoice, error) {
	var results []models.Invoice

	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}

		results = append(results, invoice)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return results, nil
}

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var (
		invoice                    models.Invoice
		supplier, taxID, recipient *string
		number, classification     *string
		total                      *float64
		installments               *int
	)

	err := row.Scan(&invoice.ID, &supplier, &taxID, &recipient, &number,
		&invoice.IssueDate, &total, &installments, &classification, &invoice.ProcessedAt)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("scan invoice: %w", err)
	}

	invoice.SupplierName = deref(supplier)
	invoice.SupplierTaxID = deref(taxID)
	invoice.RecipientName = deref(recipient)
	invoice.Number = deref(number)
	invoice.Classification = deref(classification)

	if total != nil {
		invoice.TotalAmount = *total
	}

	if installments != nil {
		invoice.InstallmentCount = *installments
	}

	return invoice, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
