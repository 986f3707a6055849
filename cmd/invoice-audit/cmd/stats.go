package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgerguard/invoice-audit/pkg/config"
	"github.com/ledgerguard/invoice-audit/pkg/db"
	"github.com/ledgerguard/invoice-audit/pkg/history"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display processing statistics",
	Long: `Display statistics about processed invoices and the history baselines.

Shows:
- Total number of processed invoices and how many were flagged
- Number of distinct items and vendors with baselines
- Last processing timestamp

Example:
  invoice-audit stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	storage, err := history.NewStorage(cfg.History.Path)
	exitOnError(err, "failed to open history storage")
	store := history.NewStore(storage)

	state, err := store.Load()
	exitOnError(err, "failed to load history")

	conn, err := db.Open(cfg.Audit.DBPath)
	exitOnError(err, "failed to open audit database")
	defer conn.Close()

	auditStats, err := db.NewAuditLog(conn).GetStats()
	exitOnError(err, "failed to get audit statistics")

	fmt.Println("\n=== Invoice Audit Statistics ===")
	fmt.Printf("Invoices in history:   %d\n", len(state.Invoices))
	fmt.Printf("Distinct items:        %d\n", len(state.ItemAverages))
	fmt.Printf("Distinct vendors:      %d\n", len(state.VendorAverages))
	fmt.Printf("Processed (audit log): %d\n", auditStats.TotalProcessed)
	fmt.Printf("Flagged (audit log):   %d\n", auditStats.TotalFlagged)

	if auditStats.LastProcessed.Valid {
		fmt.Printf("Last processed:        %s\n", auditStats.LastProcessed.String)
	} else {
		fmt.Printf("Last processed:        (never)\n")
	}

	fmt.Println()
}
