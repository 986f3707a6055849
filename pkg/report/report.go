// Package report renders detection results as human-readable text. It
// contains no decision logic; everything it prints comes from the
// parser and detector output.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ledgerguard/invoice-audit/pkg/detector"
	"github.com/ledgerguard/invoice-audit/pkg/models"
)

// Render produces a plain-text discrepancy report for one processed
// invoice.
func Render(filename string, invoice *models.ParsedInvoice, result *detector.Result) string {
	var b strings.Builder

	b.WriteString("=== Invoice Discrepancy Report ===\n")
	fmt.Fprintf(&b, "File:      %s\n", filename)
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	b.WriteString("\n")

	b.WriteString("Invoice\n")
	fmt.Fprintf(&b, "  Number: %s\n", orDash(invoice.Metadata.InvoiceNumber))
	fmt.Fprintf(&b, "  Date:   %s\n", orDash(invoice.Metadata.InvoiceDate))
	fmt.Fprintf(&b, "  Vendor: %s\n", orDash(invoice.Metadata.Vendor))
	fmt.Fprintf(&b, "  Line items: %d\n", len(invoice.LineItems))
	writeTotals(&b, invoice.Totals)
	b.WriteString("\n")

	if !result.HasDiscrepancies {
		b.WriteString("No discrepancies found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Discrepancies (%d)\n", result.DiscrepancyCount)
	for _, f := range result.Discrepancies {
		writeFinding(&b, f)
	}

	return b.String()
}

func writeTotals(b *strings.Builder, totals models.Totals) {
	if totals.Subtotal != nil {
		fmt.Fprintf(b, "  Subtotal: %.2f\n", *totals.Subtotal)
	}
	if totals.Tax != nil {
		fmt.Fprintf(b, "  Tax:      %.2f\n", *totals.Tax)
	}
	if totals.Total != nil {
		fmt.Fprintf(b, "  Total:    %.2f\n", *totals.Total)
	}
}

func writeFinding(b *strings.Builder, f models.Finding) {
	switch f.Type {
	case models.FindingLineItem:
		line := 0
		if f.LineIndex != nil {
			line = *f.LineIndex + 1
		}
		fmt.Fprintf(b, "  [%s] line %d %q %s: %.2f (historical avg %.2f over %d samples, %+.1f%% / %.2f sd)\n",
			strings.ToUpper(string(f.Severity)), line, f.Description, f.Field,
			f.CurrentValue, f.HistoricalAverage, f.HistoricalCount,
			f.PercentageVariance*100, f.StdDevVariance)
	case models.FindingTotal:
		fmt.Fprintf(b, "  [%s] vendor %q %s: %.2f (historical avg %.2f over %d samples, %+.1f%% / %.2f sd)\n",
			strings.ToUpper(string(f.Severity)), f.Vendor, f.Field,
			f.CurrentValue, f.HistoricalAverage, f.HistoricalCount,
			f.PercentageVariance*100, f.StdDevVariance)
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
