package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerguard/invoice-audit/internal/api"
	"github.com/ledgerguard/invoice-audit/pkg/config"
	"github.com/ledgerguard/invoice-audit/pkg/db"
	"github.com/ledgerguard/invoice-audit/pkg/history"
	"github.com/ledgerguard/invoice-audit/pkg/processor"
)

var servePort int

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the invoice audit HTTP API",
	Long: `Run the HTTP API exposing the processing pipeline.

Endpoints:
  POST   /api/v1/invoices    process an uploaded document or raw text
  GET    /api/v1/invoices    list history records
  GET    /api/v1/aggregates  current per-item and per-vendor baselines
  DELETE /api/v1/history     clear all history
  GET    /health             health check

Example:
  invoice-audit serve --port 8080`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	storage, err := history.NewStorage(cfg.History.Path)
	exitOnError(err, "failed to open history storage")
	store := history.NewStore(storage)

	conn, err := db.Open(cfg.Audit.DBPath)
	exitOnError(err, "failed to open audit database")
	defer conn.Close()

	proc := processor.New(store, db.NewAuditLog(conn), cfg.Detection)

	addr := fmt.Sprintf(":%d", port)
	slog.Info("starting invoice audit API", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(proc, store),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	exitOnError(server.ListenAndServe(), "server stopped")
}
