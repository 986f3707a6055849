package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerguard/invoice-audit/pkg/config"
	"github.com/ledgerguard/invoice-audit/pkg/db"
	"github.com/ledgerguard/invoice-audit/pkg/extract"
	"github.com/ledgerguard/invoice-audit/pkg/history"
	"github.com/ledgerguard/invoice-audit/pkg/processor"
	"github.com/ledgerguard/invoice-audit/pkg/report"
)

var (
	dryRun        bool
	detectionMode string
	pctThreshold  float64
	minSamples    int
)

// processCmd represents the process command.
var processCmd = &cobra.Command{
	Use:   "process <file...>",
	Short: "Process invoice documents and report discrepancies",
	Long: `Process one or more invoice documents (PDF or plain text).

This command:
1. Extracts text from each document
2. Parses it into a structured invoice
3. Compares values against the historical baselines
4. Appends the invoice to history and rebuilds the aggregates
5. Prints a discrepancy report per document

Example:
  invoice-audit process invoices/acme-march.pdf
  invoice-audit process --dry-run *.txt
  invoice-audit process --mode stddev --min-samples 5 invoice.txt`,
	Args: cobra.MinimumNArgs(1),
	Run:  runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "detect without persisting to history")
	processCmd.Flags().StringVar(&detectionMode, "mode", "", "detection mode: percentage, stddev, or both")
	processCmd.Flags().Float64Var(&pctThreshold, "percentage-threshold", 0, "relative deviation threshold (0.15 = 15%)")
	processCmd.Flags().IntVar(&minSamples, "min-samples", 0, "minimum historical samples before comparing")
}

func runProcess(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	detection := cfg.Detection
	if detectionMode != "" {
		detection.Mode = detectionMode
	}
	if pctThreshold > 0 {
		detection.PercentageThreshold = pctThreshold
	}
	if minSamples > 0 {
		detection.MinSamples = minSamples
	}

	storage, err := history.NewStorage(cfg.History.Path)
	exitOnError(err, "failed to open history storage")
	store := history.NewStore(storage)

	var audit *db.AuditLog
	if !dryRun {
		conn, err := db.Open(cfg.Audit.DBPath)
		exitOnError(err, "failed to open audit database")
		defer conn.Close()
		audit = db.NewAuditLog(conn)
	}

	proc := processor.New(store, audit, detection)
	proc.DryRun = dryRun

	flagged := 0
	for _, path := range args {
		slog.Info("processing invoice", "file", path, "dry_run", dryRun)

		text, err := extract.FromFile(path)
		exitOnError(err, fmt.Sprintf("failed to extract text from %s", path))

		outcome, err := proc.Process(filepath.Base(path), text)
		exitOnError(err, fmt.Sprintf("failed to process %s", path))

		fmt.Print(report.Render(filepath.Base(path), outcome.Invoice, outcome.Result))
		fmt.Println()

		if outcome.Result.HasDiscrepancies {
			flagged++
		}
	}

	slog.Info("processing complete", "files", len(args), "flagged", flagged)
}
