package stats

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/ledgerguard/invoice-audit/pkg/models"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "widget large", "widget large"},
		{"mixed case", "Widget Large", "widget large"},
		{"punctuation stripped", "Widget,  Large", "widget large"},
		{"internal whitespace collapsed", "widget   \t large", "widget large"},
		{"leading and trailing trimmed", "  widget large  ", "widget large"},
		{"symbols stripped", "widget (large) - blue!", "widget large blue"},
		{"digits kept", "widget 2000", "widget 2000"},
		{"empty", "", ""},
		{"only punctuation", "***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeKey(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeKey(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeKeyEquivalence(t *testing.T) {
	if NormalizeKey("Widget,  Large") != NormalizeKey("widget large") {
		t.Errorf("expected %q and %q to normalize to the same key", "Widget,  Large", "widget large")
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name       string
		samples    []float64
		wantMean   float64
		wantStdDev float64
		wantCount  int
	}{
		{"empty", nil, 0, 0, 0},
		{"empty slice", []float64{}, 0, 0, 0},
		{"single sample", []float64{5}, 5, 0, 1},
		{"identical samples", []float64{10, 10, 10}, 10, 0, 3},
		{"population stddev", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5, 2, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.samples)
			if got.Count != tt.wantCount {
				t.Errorf("Count = %d, expected %d", got.Count, tt.wantCount)
			}
			if math.Abs(got.Mean-tt.wantMean) > 1e-9 {
				t.Errorf("Mean = %v, expected %v", got.Mean, tt.wantMean)
			}
			if math.Abs(got.StdDev-tt.wantStdDev) > 1e-9 {
				t.Errorf("StdDev = %v, expected %v", got.StdDev, tt.wantStdDev)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func testState() *models.HistoryState {
	state := models.NewHistoryState()
	for i := 0; i < 3; i++ {
		state.Invoices = append(state.Invoices, models.InvoiceRecord{
			ID:            "inv-" + string(rune('a'+i)),
			Filename:      "invoice.txt",
			ProcessedDate: time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
			Metadata: models.InvoiceMetadata{
				Vendor: strPtr("Acme Corp"),
			},
			LineItems: []models.LineItem{
				{Description: "Widget, Large", Quantity: 10, UnitPrice: 5, Amount: 50},
			},
			Totals: models.Totals{
				Subtotal: floatPtr(50),
				Tax:      floatPtr(5),
				Total:    floatPtr(55),
			},
		})
	}
	return state
}

func TestRecompute(t *testing.T) {
	agg := Recompute(testState())

	item, ok := agg.ItemAverages["widget large"]
	if !ok {
		t.Fatalf("expected aggregate under normalized key %q, keys: %v", "widget large", agg.ItemAverages)
	}
	if item.OriginalName != "Widget, Large" {
		t.Errorf("OriginalName = %q, expected first-seen raw description", item.OriginalName)
	}
	if item.Count != 3 {
		t.Errorf("Count = %d, expected 3", item.Count)
	}
	if item.AvgUnitPrice != 5 || item.UnitPriceStdDev != 0 {
		t.Errorf("unit price stats = %v/%v, expected 5/0", item.AvgUnitPrice, item.UnitPriceStdDev)
	}

	vendor, ok := agg.VendorAverages["Acme Corp"]
	if !ok {
		t.Fatalf("expected vendor aggregate for Acme Corp")
	}
	if vendor.Count != 3 || vendor.AvgTotal != 55 || vendor.AvgSubtotal != 50 || vendor.AvgTax != 5 {
		t.Errorf("vendor aggregate = %+v, expected count 3, totals 55/50/5", vendor)
	}
}

func TestRecomputeUnknownVendor(t *testing.T) {
	state := models.NewHistoryState()
	state.Invoices = []models.InvoiceRecord{
		{Totals: models.Totals{Total: floatPtr(100)}},
	}

	agg := Recompute(state)

	if _, ok := agg.VendorAverages[UnknownVendor]; !ok {
		t.Errorf("expected invoices without a vendor to bucket under %q", UnknownVendor)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	state := testState()

	first := Recompute(state)
	second := Recompute(state)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Recompute is not idempotent on unchanged history:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestRecomputeEmptyHistory(t *testing.T) {
	agg := Recompute(models.NewHistoryState())

	if len(agg.ItemAverages) != 0 || len(agg.VendorAverages) != 0 {
		t.Errorf("expected empty aggregates for empty history, got %+v", agg)
	}
}
