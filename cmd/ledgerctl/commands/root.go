package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/josh-kwaku/ledger-engine/internal/logging"
	"github.com/josh-kwaku/ledger-engine/internal/repository"
)

var (
	dbURL    string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operator tool for the ledger database",
	Long: `ledgerctl manages the ledger database outside the API process.

Commands:
  migrate  - apply schema migrations
  seed     - load sample accounts and transactions
  destroy  - delete all accounts, ledger entries and cached responses
  token    - mint a development access token for an owner`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		logging.Init("ledgerctl", logLevel, "development")
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (defaults to $DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
}

func databaseURL() (string, error) {
	if dbURL != "" {
		return dbURL, nil
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v, nil
	}
	return "", errors.New("database URL required: pass --db or set DATABASE_URL")
}

func openDB(ctx context.Context) (*sql.DB, error) {
	url, err := databaseURL()
	if err != nil {
		return nil, err
	}
	db, err := repository.NewPostgresDB(ctx, url, repository.PoolConfig{MaxOpenConns: 4})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return db, nil
}
