// seed loads a small set of sample invoices, suppliers and classifications so the
// question-answering endpoints have data to work with. Pass -clear to truncate the
// tables first. Intended for development and demo environments only.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/fiscaldesk/hub/pkg/database"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

type seedInvoice struct {
	supplier       string
	supplierTaxID  string
	recipient      string
	number         string
	issuedDaysAgo  int
	total          float64
	installments   int
	classification string
	items          []string
}

var seedInvoices = []seedInvoice{
	{
		supplier: "Distribuidora Alimentos Bom Preço Ltda", supplierTaxID: "12.345.678/0001-90",
		recipient: "Empresa Exemplo S.A.", number: "NF-1001", issuedDaysAgo: 5,
		total: 4850.75, installments: 2, classification: "ALIMENTACAO",
		items: []string{"Arroz tipo 1 5kg", "Feijão carioca 1kg", "Óleo de soja 900ml"},
	},
	{
		supplier: "TechSupply Informática ME", supplierTaxID: "98.765.432/0001-10",
		recipient: "Empresa Exemplo S.A.", number: "NF-1002", issuedDaysAgo: 12,
		total: 12300.00, installments: 3, classification: "EQUIPAMENTOS",
		items: []string{"Notebook 14 polegadas", "Monitor 24 polegadas", "Teclado sem fio"},
	},
	{
		supplier: "Transportadora Rota Sul Ltda", supplierTaxID: "11.222.333/0001-44",
		recipient: "Empresa Exemplo S.A.", number: "NF-1003", issuedDaysAgo: 20,
		total: 2150.00, installments: 1, classification: "TRANSPORTE",
		items: []string{"Frete São Paulo - Curitiba"},
	},
	{
		supplier: "Papelaria Central Ltda", supplierTaxID: "55.666.777/0001-88",
		recipient: "Empresa Exemplo S.A.", number: "NF-1004", issuedDaysAgo: 45,
		total: 680.50, installments: 1, classification: "MATERIAL_ESCRITORIO",
		items: []string{"Papel A4 resma", "Canetas esferográficas", "Grampeador"},
	},
	{
		supplier: "Distribuidora Alimentos Bom Preço Ltda", supplierTaxID: "12.345.678/0001-90",
		recipient: "Empresa Exemplo S.A.", number: "NF-1005", issuedDaysAgo: 60,
		total: 3200.00, installments: 2, classification: "ALIMENTACAO",
		items: []string{"Café torrado 500g", "Açúcar refinado 1kg"},
	},
	{
		supplier: "Energia Elétrica Paulista S.A.", supplierTaxID: "33.444.555/0001-22",
		recipient: "Empresa Exemplo S.A.", number: "NF-1006", issuedDaysAgo: 8,
		total: 1875.30, installments: 1, classification: "UTILIDADES",
		items: []string{"Fornecimento de energia elétrica - mês de referência"},
	},
}

type seedClassification struct {
	tipo      string
	descricao string
}

var seedClassifications = []seedClassification{
	{"DESPESA", "ALIMENTACAO"},
	{"DESPESA", "EQUIPAMENTOS"},
	{"DESPESA", "TRANSPORTE"},
	{"DESPESA", "MATERIAL_ESCRITORIO"},
	{"DESPESA", "UTILIDADES"},
	{"RECEITA", "VENDAS"},
}

func main() {
	os.Exit(run())
}

func run() int {
	clear := flag.Bool("clear", false, "truncate the tables before seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		slog.Error("DATABASE_URL is required")

		return exitFailure
	}

	ctx := context.Background()

	db, err := database.NewPostgresPool(ctx, databaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)

		return exitFailure
	}
	defer db.Close()

	if *clear {
		if err := clearTables(ctx, db); err != nil {
			slog.Error("Failed to clear tables", "error", err)

			return exitFailure
		}

		slog.Info("Tables cleared")
	}

	inserted, err := seed(ctx, db)
	if err != nil {
		slog.Error("Seeding failed", "error", err)

		return exitFailure
	}

	slog.Info("Seeding complete", "invoices", inserted)

	fmt.Printf("Inserted %d invoice(s).\n", inserted)

	return exitSuccess
}

func clearTables(ctx context.Context, db *pgxpool.Pool) error {
	tables := []string{
		"document_embeddings",
		"produto_nota_fiscal",
		"nota_fiscal",
		"movimento_classificacao",
		"movimento_contas",
		"parcelas_contas",
		"classificacao",
		"pessoas",
	}

	for _, table := range tables {
		if _, err := db.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	return nil
}

func seed(ctx context.Context, db *pgxpool.Pool) (int, error) {
	for _, c := range seedClassifications {
		_, err := db.Exec(ctx, `
			INSERT INTO classificacao (tipo, descricao)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, c.tipo, c.descricao)
		if err != nil {
			return 0, fmt.Errorf("insert classification %s: %w", c.descricao, err)
		}
	}

	inserted := 0

	for _, inv := range seedInvoices {
		_, err := db.Exec(ctx, `
			INSERT INTO pessoas (tipo, razao_social, cpf_cnpj)
			VALUES ('CLIENTE-FORNECEDOR', $1, $2)
			ON CONFLICT (cpf_cnpj) DO NOTHING`, inv.supplier, inv.supplierTaxID)
		if err != nil {
			return inserted, fmt.Errorf("insert supplier %s: %w", inv.supplier, err)
		}

		issued := time.Now().AddDate(0, 0, -inv.issuedDaysAgo)

		var invoiceID int64

		err = db.QueryRow(ctx, `
			INSERT INTO nota_fiscal
				(razao_social_fornecedor, cnpj_fornecedor, nome_faturado, numero_nota,
				 data_emissao, valor_total, quantidade_parcelas, classificacao_despesa)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			inv.supplier, inv.supplierTaxID, inv.recipient, inv.number,
			issued, inv.total, inv.installments, inv.classification,
		).Scan(&invoiceID)
		if err != nil {
			return inserted, fmt.Errorf("insert invoice %s: %w", inv.number, err)
		}

		for _, item := range inv.items {
			_, err := db.Exec(ctx, `
				INSERT INTO produto_nota_fiscal (nota_fiscal_id, descricao)
				VALUES ($1, $2)`, invoiceID, item)
			if err != nil {
				return inserted, fmt.Errorf("insert item for %s: %w", inv.number, err)
			}
		}

		installmentValue := inv.total / float64(inv.installments)

		for n := 1; n <= inv.installments; n++ {
			due := issued.AddDate(0, n, 0)

			_, err := db.Exec(ctx, `
				INSERT INTO parcelas_contas
					(identificacao, numero_nota, data_emissao, data_vencimento, valor_total)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (identificacao) DO NOTHING`,
				fmt.Sprintf("%s-%d/%d", inv.number, n, inv.installments),
				inv.number, issued, due, installmentValue)
			if err != nil {
				return inserted, fmt.Errorf("insert installment for %s: %w", inv.number, err)
			}
		}

		inserted++
	}

	return inserted, nil
}
