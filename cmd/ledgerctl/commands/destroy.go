package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josh-kwaku/ledger-engine/cmd/ledgerctl/output"
)

var confirmDestroy bool

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Delete all ledger data",
	Long: `Truncate accounts, ledger entries and the idempotency cache.
The schema itself is kept.

Examples:
  ledgerctl destroy --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmDestroy {
			output.Warning("This deletes every account and ledger entry. Re-run with --yes to confirm.")
			return errors.New("destroy not confirmed")
		}

		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := truncateAll(ctx, db); err != nil {
			return err
		}
		output.Success("All ledger data destroyed")
		return nil
	},
}

func init() {
	destroyCmd.Flags().BoolVar(&confirmDestroy, "yes", false, "Confirm deletion")
	rootCmd.AddCommand(destroyCmd)
}

// truncateAll bypasses the ledger immutability trigger: TRUNCATE does not
// fire row-level triggers.
func truncateAll(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx,
		`TRUNCATE ledger_entries, accounts, idempotency_cache`,
	); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}
