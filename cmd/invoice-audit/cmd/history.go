package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerguard/invoice-audit/pkg/config"
	"github.com/ledgerguard/invoice-audit/pkg/history"
)

// historyCmd groups history inspection and maintenance.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear the invoice history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices in history",
	Run:   runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all history and baselines",
	Long: `Clear the full invoice history, including both aggregate tables.
This cannot be undone; every baseline starts over from zero samples.`,
	Run: runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func openStore() *history.Store {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	storage, err := history.NewStorage(cfg.History.Path)
	exitOnError(err, "failed to open history storage")
	return history.NewStore(storage)
}

func runHistoryList(cmd *cobra.Command, args []string) {
	store := openStore()

	state, err := store.Load()
	exitOnError(err, "failed to load history")

	if len(state.Invoices) == 0 {
		fmt.Println("History is empty.")
		return
	}

	for _, inv := range state.Invoices {
		vendor := "-"
		if inv.Metadata.Vendor != nil {
			vendor = *inv.Metadata.Vendor
		}
		number := "-"
		if inv.Metadata.InvoiceNumber != nil {
			number = *inv.Metadata.InvoiceNumber
		}
		fmt.Printf("%s  %-20s  vendor=%-20s  number=%-12s  items=%d\n",
			inv.ProcessedDate.Format("2006-01-02 15:04"),
			inv.Filename, vendor, number, len(inv.LineItems))
	}
	fmt.Printf("\n%d invoice(s) in history\n", len(state.Invoices))
}

func runHistoryClear(cmd *cobra.Command, args []string) {
	store := openStore()

	err := store.Clear()
	exitOnError(err, "failed to clear history")

	fmt.Println("History cleared.")
}
