package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
)

const replayedHeader = "Idempotent-Replayed"

// requestID returns id, or a fresh UUID when id is empty. Reusing an id
// replays the original outcome.
func requestID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

func printMutation(cmd *cobra.Command, data []byte, header http.Header) {
	if header.Get(replayedHeader) == "true" {
		fmt.Fprintln(cmd.ErrOrStderr(), "(replayed)")
	}
	printRaw(data)
}

func walletCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	var reqID string
	cmd.PersistentFlags().StringVar(&reqID, "request-id", "", "Idempotency key (generated when empty)")

	createCmd := &cobra.Command{
		Use:   "create <owner-id> <currency>",
		Short: "Open a wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, header, err := c.do(http.MethodPost, "/api/v1/wallets", map[string]string{
				"request_id": requestID(reqID),
				"owner_id":   args[0],
				"currency":   args[1],
			})
			if err != nil {
				return err
			}
			printMutation(cmd, data, header)
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <wallet-id>",
		Short: "Show a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := c.do(http.MethodGet, "/api/v1/wallets/"+args[0], nil)
			if err != nil {
				return err
			}
			printRaw(data)
			return nil
		},
	}

	movement := func(use, short, action string) *cobra.Command {
		var description string
		mc := &cobra.Command{
			Use:   use + " <wallet-id> <amount> <currency>",
			Short: short,
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[1])
				if err != nil {
					return err
				}

				data, header, err := c.do(http.MethodPost, "/api/v1/wallets/"+args[0]+"/"+action, map[string]any{
					"request_id":  requestID(reqID),
					"amount":      amount,
					"currency":    args[2],
					"description": description,
				})
				if err != nil {
					return err
				}
				printMutation(cmd, data, header)
				return nil
			},
		}
		mc.Flags().StringVar(&description, "description", "", "Free-text description")
		return mc
	}

	var transferDescription string
	transferCmd := &cobra.Command{
		Use:   "transfer <from-wallet-id> <to-wallet-id> <amount> <currency>",
		Short: "Move money between wallets",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}

			data, header, err := c.do(http.MethodPost, "/api/v1/wallets/transfer", map[string]any{
				"request_id":     requestID(reqID),
				"from_wallet_id": args[0],
				"to_wallet_id":   args[1],
				"amount":         amount,
				"currency":       args[3],
				"description":    transferDescription,
			})
			if err != nil {
				return err
			}
			printMutation(cmd, data, header)
			return nil
		},
	}
	transferCmd.Flags().StringVar(&transferDescription, "description", "", "Free-text description")

	var limit, offset int
	transactionsCmd := &cobra.Command{
		Use:   "transactions <wallet-id>",
		Short: "List a wallet's transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/wallets/%s/transactions?limit=%d&offset=%d", args[0], limit, offset), nil)
			if err != nil {
				return err
			}
			return printTransactions(cmd, data)
		},
	}
	transactionsCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	transactionsCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	cmd.AddCommand(createCmd, getCmd,
		movement("deposit", "Credit a wallet", "deposit"),
		movement("withdraw", "Debit a wallet", "withdraw"),
		transferCmd, transactionsCmd)

	return cmd
}

func printTransactions(cmd *cobra.Command, data []byte) error {
	var txs []struct {
		ID            string `json:"id"`
		Type          string `json:"type"`
		Status        string `json:"status"`
		Amount        string `json:"amount"`
		Currency      string `json:"currency"`
		FailureReason string `json:"failure_reason"`
	}
	if err := json.Unmarshal(data, &txs); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tAMOUNT\tREASON")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\n", tx.ID, tx.Type, tx.Status, tx.Amount, tx.Currency, truncate(tx.FailureReason, 40))
	}
	return w.Flush()
}

func blacklistCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Blacklist management",
	}

	var reason string
	addCmd := &cobra.Command{
		Use:   "add <wallet-id>",
		Short: "Suspend a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := c.do(http.MethodPost, "/api/v1/management/blacklist", map[string]string{
				"wallet_id": args[0],
				"reason":    reason,
			})
			if err != nil {
				return err
			}
			printRaw(data)
			return nil
		},
	}
	addCmd.Flags().StringVar(&reason, "reason", "", "Why the wallet is suspended")

	removeCmd := &cobra.Command{
		Use:   "remove <wallet-id>",
		Short: "Reactivate a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := c.do(http.MethodDelete, "/api/v1/management/blacklist/"+args[0], nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wallet %s removed from blacklist\n", args[0])
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List suspended wallets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := c.do(http.MethodGet, "/api/v1/management/blacklist", nil)
			if err != nil {
				return err
			}
			printRaw(data)
			return nil
		},
	}

	cmd.AddCommand(addCmd, removeCmd, listCmd)
	return cmd
}

func reconcileCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Compare wallet balances with the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := c.do(http.MethodGet, "/api/v1/management/reconciliation", nil)
			if err != nil {
				return err
			}

			var report struct {
				TotalWallets     int               `json:"total_wallets"`
				Discrepancies    []json.RawMessage `json:"discrepancies"`
				LedgerConsistent bool              `json:"ledger_consistent"`
				LedgerError      string            `json:"ledger_error"`
			}
			if err := json.Unmarshal(data, &report); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wallets checked: %d\n", report.TotalWallets)
			fmt.Fprintf(out, "Discrepancies: %d\n", len(report.Discrepancies))
			fmt.Fprintf(out, "Ledger consistent: %v\n", report.LedgerConsistent)

			if len(report.Discrepancies) > 0 || !report.LedgerConsistent {
				if report.LedgerError != "" {
					fmt.Fprintln(out, report.LedgerError)
				}
				return fmt.Errorf("reconciliation FAILED")
			}

			fmt.Fprintln(out, "Reconciliation PASSED")
			return nil
		},
	}
}

// migrateCmd runs schema migrations directly against DATABASE_URL.
func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	run := func(up bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})
			migrator := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log)
			if up {
				return migrator.Up()
			}
			return migrator.Down()
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", Args: cobra.NoArgs, RunE: run(true)},
		&cobra.Command{Use: "down", Short: "Roll back the last migration", Args: cobra.NoArgs, RunE: run(false)},
	)

	return cmd
}
