// Package processor orchestrates the per-invoice pipeline: parse the
// extracted text, detect discrepancies against the current aggregates,
// append the invoice to history, rebuild the aggregate tables, and
// record the outcome in the audit log.
package processor

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ledgerguard/invoice-audit/pkg/db"
	"github.com/ledgerguard/invoice-audit/pkg/detector"
	"github.com/ledgerguard/invoice-audit/pkg/history"
	"github.com/ledgerguard/invoice-audit/pkg/models"
	"github.com/ledgerguard/invoice-audit/pkg/parser"
	"github.com/ledgerguard/invoice-audit/pkg/stats"
)

// Processor runs the detection pipeline. The audit log is optional;
// without one, outcomes are only returned, not recorded.
type Processor struct {
	store  *history.Store
	audit  *db.AuditLog
	config detector.Config

	// DryRun detects without appending to history or recomputing
	// aggregates, so repeated runs on the same file stay comparable.
	DryRun bool
}

// New creates a Processor. audit may be nil.
func New(store *history.Store, audit *db.AuditLog, cfg detector.Config) *Processor {
	return &Processor{
		store:  store,
		audit:  audit,
		config: cfg,
	}
}

// Outcome bundles everything produced for one invoice.
type Outcome struct {
	Invoice *models.ParsedInvoice `json:"invoice"`
	Record  *models.InvoiceRecord `json:"record,omitempty"`
	Result  *detector.Result      `json:"result"`
}

// Process runs the pipeline for one invoice's extracted text. Detection
// always runs against the aggregates as they were before this invoice
// was appended, so an invoice never dilutes its own baseline.
func (p *Processor) Process(filename, text string) (*Outcome, error) {
	invoice := parser.Parse(text)

	state, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	result := detector.Detect(invoice, state.Aggregates(), p.config)
	outcome := &Outcome{Invoice: invoice, Result: result}

	if p.DryRun {
		slog.Debug("dry run, skipping persistence", "filename", filename)
		return outcome, nil
	}

	record, err := p.store.Append(filename, invoice)
	if err != nil {
		return nil, fmt.Errorf("failed to append invoice to history: %w", err)
	}
	outcome.Record = record

	if err := p.refreshAggregates(); err != nil {
		return nil, err
	}

	if p.audit != nil {
		if err := p.recordAudit(filename, record, result); err != nil {
			// The invoice is already in history; losing the audit row
			// is logged rather than failing the whole run.
			slog.Warn("failed to record audit entry", "filename", filename, "error", err)
		}
	}

	return outcome, nil
}

// refreshAggregates rebuilds both aggregate tables from the full
// history and persists them. Cost is linear in total line items.
func (p *Processor) refreshAggregates() error {
	state, err := p.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	agg := stats.Recompute(state)
	state.ItemAverages = agg.ItemAverages
	state.VendorAverages = agg.VendorAverages

	if err := p.store.Save(state); err != nil {
		return fmt.Errorf("failed to save aggregates: %w", err)
	}
	return nil
}

func (p *Processor) recordAudit(filename string, record *models.InvoiceRecord, result *detector.Result) error {
	return p.audit.Record(db.AuditRecord{
		RecordID:      record.ID,
		Filename:      filename,
		InvoiceNumber: nullString(record.Metadata.InvoiceNumber),
		Vendor:        nullString(record.Metadata.Vendor),
		FindingCount:  result.DiscrepancyCount,
		MaxSeverity:   maxSeverity(result.Discrepancies),
	})
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func maxSeverity(findings []models.Finding) sql.NullString {
	rank := map[models.Severity]int{
		models.SeverityLow:    1,
		models.SeverityMedium: 2,
		models.SeverityHigh:   3,
	}

	var top models.Severity
	for _, f := range findings {
		if rank[f.Severity] > rank[top] {
			top = f.Severity
		}
	}
	if top == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(top), Valid: true}
}
