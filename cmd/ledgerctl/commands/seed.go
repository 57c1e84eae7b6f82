package commands

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/josh-kwaku/ledger-engine/cmd/ledgerctl/output"
	"github.com/josh-kwaku/ledger-engine/internal/domain"
	"github.com/josh-kwaku/ledger-engine/internal/repository"
	"github.com/josh-kwaku/ledger-engine/internal/service"
	"github.com/josh-kwaku/ledger-engine/internal/service/ledger"
)

//go:embed sample.json
var sampleData []byte

type sampleSet struct {
	Accounts []sampleAccount `json:"accounts"`
}

type sampleAccount struct {
	Name         string              `json:"name"`
	AccountType  domain.AccountType  `json:"account_type"`
	Transactions []sampleTransaction `json:"transactions"`
}

type sampleTransaction struct {
	Type        domain.OperationKind `json:"type"`
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description"`
}

var (
	seedReset   bool
	seedTimeout time.Duration
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample accounts and transactions",
	Long: `Open one account per sample owner and post the sample operations
through the transaction engine, so balances and ledger entries are
produced exactly as the API would produce them.

Examples:
  ledgerctl seed
  ledgerctl seed --reset   # destroy existing data first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var set sampleSet
		if err := json.Unmarshal(sampleData, &set); err != nil {
			return fmt.Errorf("parse sample data: %w", err)
		}

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repository.Migrate(ctx, db); err != nil {
			return err
		}
		if seedReset {
			if err := truncateAll(ctx, db); err != nil {
				return err
			}
			output.Info("Existing data cleared")
		}

		accountRepo := repository.NewAccountRepository(db)
		ledgerRepo := repository.NewLedgerRepository(db)
		accounts := service.NewAccountService(accountRepo)
		engine := ledger.NewEngine(
			db,
			accountRepo,
			ledgerRepo,
			ledger.NewGuard(ledgerRepo),
			ledger.UUIDGenerator{},
			nil,
			seedTimeout,
		)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tOWNER ID\tACCOUNT\tTYPE\tBALANCE")

		var posted int
		for _, sa := range set.Accounts {
			account, err := accounts.OpenAccount(ctx, uuid.New(), sa.AccountType)
			if err != nil {
				return fmt.Errorf("open account for %s: %w", sa.Name, err)
			}

			balance := account.Balance
			for _, st := range sa.Transactions {
				res, err := engine.Execute(ctx, ledger.Request{
					OwnerID:     account.OwnerID,
					Kind:        st.Type,
					Amount:      st.Amount,
					Description: st.Description,
				})
				if err != nil {
					output.Warning("%s: %s %s skipped: %v", sa.Name, st.Type, st.Amount.StringFixed(domain.AmountScale), err)
					continue
				}
				balance = res.Account.Balance
				posted++
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				sa.Name, account.OwnerID, account.AccountNumber, account.AccountType, balance.StringFixed(domain.AmountScale))
		}
		w.Flush()

		output.Success("Seeded %d accounts and %d transactions", len(set.Accounts), posted)
		output.Muted("Use `ledgerctl token --owner <OWNER ID>` to call the API as one of them.")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Destroy existing data before seeding")
	seedCmd.Flags().DurationVar(&seedTimeout, "tx-timeout", 5*time.Second, "Per-operation transaction timeout")
	rootCmd.AddCommand(seedCmd)
}
