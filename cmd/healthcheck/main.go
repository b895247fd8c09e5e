// healthcheck verifies the deployment prerequisites: required environment
// variables, database connectivity, and the presence and row counts of the
// tables the API reads. Run it after provisioning or before a rollout.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
)

const (
	exitSuccess = 0
	exitFailure = 1

	checkTimeout = 10 * time.Second
)

var requiredVars = []string{"DATABASE_URL", "API_KEY", "GEMINI_API_KEY"}

var requiredTables = []string{
	"pessoas",
	"classificacao",
	"nota_fiscal",
	"produto_nota_fiscal",
	"parcelas_contas",
	"movimento_contas",
	"document_embeddings",
}

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	ok := checkEnvVariables()

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if !checkDatabase(ctx) {
		ok = false
	}

	if !ok {
		fmt.Println("\nHealth check FAILED")

		return exitFailure
	}

	fmt.Println("\nHealth check OK")

	return exitSuccess
}

func checkEnvVariables() bool {
	fmt.Println("Checking environment variables...")

	ok := true

	for _, name := range requiredVars {
		value := os.Getenv(name)
		if value == "" {
			fmt.Printf("  FAIL %s: not set\n", name)

			ok = false

			continue
		}

		fmt.Printf("  ok   %s: %s\n", name, maskValue(value))
	}

	return ok
}

func checkDatabase(ctx context.Context) bool {
	fmt.Println("\nChecking database...")

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		fmt.Printf("  FAIL open: %v\n", err)

		return false
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fmt.Printf("  FAIL ping: %v\n", err)

		return false
	}

	fmt.Println("  ok   connection established")

	ok := true

	for _, table := range requiredTables {
		var count int

		// Table names come from the fixed list above, never from input.
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
		if err != nil {
			fmt.Printf("  FAIL %s: %v\n", table, err)

			ok = false

			continue
		}

		fmt.Printf("  ok   %s: %d row(s)\n", table, count)
	}

	return ok
}

func maskValue(value string) string {
	if len(value) > 10 {
		return value[:10] + "..."
	}

	return value
}
