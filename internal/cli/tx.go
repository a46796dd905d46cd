package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	txAddCmd.Flags().Int64Var(&txAmount, "amount", 0, "Amount in cents (required)")
	txAddCmd.Flags().StringVar(&txCategory, "category", "", "Category, e.g. groceries")
	txAddCmd.Flags().StringVar(&txNote, "note", "", "Free-form note")
	txAddCmd.Flags().BoolVar(&txIncome, "income", false, "Record income instead of an expense")
	_ = txAddCmd.MarkFlagRequired("amount")

	txListCmd.Flags().IntVar(&txLimit, "limit", 20, "Number of transactions to show")

	txCmd.AddCommand(txAddCmd)
	txCmd.AddCommand(txListCmd)
	txCmd.AddCommand(txBalanceCmd)
	rootCmd.AddCommand(txCmd)
}

var (
	txAmount   int64
	txCategory string
	txNote     string
	txIncome   bool
	txLimit    int
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Record and list ledger transactions",
}

type wireTransaction struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note"`
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := "expense"
		if txIncome {
			kind = "income"
		}
		body := map[string]any{
			"kind":         kind,
			"category":     txCategory,
			"amount_cents": txAmount,
			"note":         txNote,
		}
		var tx wireTransaction
		if err := apiDo("POST", "/api/transactions", body, &tx); err != nil {
			return err
		}
		fmt.Printf("Recorded %s of %s (%s)\n", tx.Kind, formatCents(tx.AmountCents), tx.ID)
		return nil
	},
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Transactions []wireTransaction `json:"transactions"`
		}
		path := fmt.Sprintf("/api/transactions?limit=%d", txLimit)
		if err := apiDo("GET", path, nil, &resp); err != nil {
			return err
		}
		if len(resp.Transactions) == 0 {
			fmt.Println("No transactions yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tKIND\tCATEGORY\tAMOUNT\tNOTE")
		for _, tx := range resp.Transactions {
			when := tx.Timestamp
			if t, err := time.Parse(time.RFC3339, tx.Timestamp); err == nil {
				when = t.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				when, tx.Kind, tx.Category, formatCents(tx.AmountCents), tx.Note)
		}
		return w.Flush()
	},
}

var txBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current cash balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			BalanceCents int64 `json:"balance_cents"`
		}
		if err := apiDo("GET", "/api/balance", nil, &resp); err != nil {
			return err
		}
		fmt.Printf("Balance: %s\n", formatCents(resp.BalanceCents))
		return nil
	},
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
