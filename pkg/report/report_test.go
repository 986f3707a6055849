package report

import (
	"strings"
	"testing"

	"github.com/ledgerguard/invoice-audit/pkg/detector"
	"github.com/ledgerguard/invoice-audit/pkg/models"
)

func strPtr(s string) *string { return &s }

func TestRenderCleanInvoice(t *testing.T) {
	invoice := &models.ParsedInvoice{
		Metadata: models.InvoiceMetadata{
			InvoiceNumber: strPtr("INV-001"),
			Vendor:        strPtr("Acme Corp"),
		},
	}
	result := &detector.Result{Discrepancies: []models.Finding{}}

	out := Render("march.pdf", invoice, result)

	for _, want := range []string{"march.pdf", "INV-001", "Acme Corp", "No discrepancies found."} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFindings(t *testing.T) {
	idx := 0
	invoice := &models.ParsedInvoice{
		LineItems: []models.LineItem{
			{Description: "Widget Large", Quantity: 10, UnitPrice: 7, Amount: 70},
		},
	}
	result := &detector.Result{
		HasDiscrepancies: true,
		DiscrepancyCount: 2,
		Discrepancies: []models.Finding{
			{
				Type:               models.FindingLineItem,
				LineIndex:          &idx,
				Field:              "unit_price",
				Description:        "Widget Large",
				CurrentValue:       7,
				HistoricalAverage:  5,
				PercentageVariance: 0.4,
				Severity:           models.SeverityHigh,
				HistoricalCount:    5,
			},
			{
				Type:               models.FindingTotal,
				Field:              "total",
				Vendor:             "Acme Corp",
				CurrentValue:       200,
				HistoricalAverage:  100,
				PercentageVariance: 1,
				Severity:           models.SeverityHigh,
				HistoricalCount:    4,
			},
		},
	}

	out := Render("march.pdf", invoice, result)

	for _, want := range []string{
		"Discrepancies (2)",
		"[HIGH]",
		`line 1 "Widget Large" unit_price`,
		`vendor "Acme Corp" total`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "No discrepancies found.") {
		t.Error("flagged report claims no discrepancies")
	}
}

func TestRenderMissingMetadata(t *testing.T) {
	out := Render("bare.txt", &models.ParsedInvoice{}, &detector.Result{})

	if !strings.Contains(out, "Number: -") || !strings.Contains(out, "Vendor: -") {
		t.Errorf("expected dashes for missing metadata:\n%s", out)
	}
}
