// Package models defines the shared data model for invoice parsing,
// historical aggregation, and discrepancy detection.
package models

import "time"

// InvoiceMetadata holds the header fields extracted from an invoice.
// Fields that could not be extracted stay nil; values are kept exactly
// as captured (no normalization).
type InvoiceMetadata struct {
	InvoiceNumber *string `json:"invoice_number"`
	InvoiceDate   *string `json:"invoice_date"`
	Vendor        *string `json:"vendor"`
}

// LineItem is a single extracted invoice line. A line is only accepted
// when all three numeric fields parsed successfully, so none of them
// are nullable.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// Totals holds the summary amounts extracted from an invoice. Each field
// is independently optional.
type Totals struct {
	Subtotal *float64 `json:"subtotal"`
	Tax      *float64 `json:"tax"`
	Total    *float64 `json:"total"`
}

// ParsedInvoice is the output of the parser: best-effort structure plus
// the raw text it was extracted from. Absent fields are nil/empty, never
// an error.
type ParsedInvoice struct {
	Metadata  InvoiceMetadata `json:"metadata"`
	LineItems []LineItem      `json:"line_items"`
	Totals    Totals          `json:"totals"`
	RawText   string          `json:"raw_text,omitempty"`
}

// InvoiceRecord is a parsed invoice accepted into history. Created by the
// history store at append time and never mutated afterwards.
type InvoiceRecord struct {
	ID            string          `json:"id"`
	Filename      string          `json:"filename"`
	ProcessedDate time.Time       `json:"processed_date"`
	Metadata      InvoiceMetadata `json:"metadata"`
	LineItems     []LineItem      `json:"line_items"`
	Totals        Totals          `json:"totals"`
}

// ItemAggregate holds the running statistics for one distinct line item,
// keyed by its normalized description. Count is the number of unit-price
// samples contributing to the aggregate.
type ItemAggregate struct {
	OriginalName    string  `json:"original_name"`
	AvgUnitPrice    float64 `json:"avg_unit_price"`
	UnitPriceStdDev float64 `json:"unit_price_std_dev"`
	AvgQuantity     float64 `json:"avg_quantity"`
	QuantityStdDev  float64 `json:"quantity_std_dev"`
	AvgAmount       float64 `json:"avg_amount"`
	AmountStdDev    float64 `json:"amount_std_dev"`
	Count           int     `json:"count"`
}

// VendorAggregate holds the running statistics for one vendor's invoice
// totals, keyed by the raw vendor string ("Unknown" when absent).
// Count is the number of total samples contributing.
type VendorAggregate struct {
	AvgTotal       float64 `json:"avg_total"`
	TotalStdDev    float64 `json:"total_std_dev"`
	AvgSubtotal    float64 `json:"avg_subtotal"`
	SubtotalStdDev float64 `json:"subtotal_std_dev"`
	AvgTax         float64 `json:"avg_tax"`
	TaxStdDev      float64 `json:"tax_std_dev"`
	Count          int     `json:"count"`
}

// Aggregates bundles both derived tables. They are always rebuilt
// together from the full history, never patched incrementally.
type Aggregates struct {
	ItemAverages   map[string]ItemAggregate   `json:"item_averages"`
	VendorAverages map[string]VendorAggregate `json:"vendor_averages"`
}

// HistoryState is the whole persisted state: the append-only invoice
// list plus the derived aggregate tables. Owned by the history store;
// all access goes through its load/save operations.
type HistoryState struct {
	Invoices       []InvoiceRecord            `json:"invoices"`
	ItemAverages   map[string]ItemAggregate   `json:"item_averages"`
	VendorAverages map[string]VendorAggregate `json:"vendor_averages"`
	LastUpdated    *time.Time                 `json:"last_updated"`
}

// NewHistoryState returns an empty but valid state.
func NewHistoryState() *HistoryState {
	return &HistoryState{
		Invoices:       []InvoiceRecord{},
		ItemAverages:   map[string]ItemAggregate{},
		VendorAverages: map[string]VendorAggregate{},
	}
}

// Aggregates returns the state's aggregate tables as a bundle.
func (s *HistoryState) Aggregates() *Aggregates {
	return &Aggregates{
		ItemAverages:   s.ItemAverages,
		VendorAverages: s.VendorAverages,
	}
}

// FindingType distinguishes line-item findings from invoice-total findings.
type FindingType string

const (
	FindingLineItem FindingType = "line_item"
	FindingTotal    FindingType = "total"
)

// Severity classifies how far a flagged value exceeds its threshold.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Finding is one field flagged as anomalous relative to its historical
// baseline. Produced fresh per detection call and not persisted by the
// core.
type Finding struct {
	Type               FindingType `json:"type"`
	LineIndex          *int        `json:"line_index,omitempty"`
	Field              string      `json:"field"`
	Description        string      `json:"description,omitempty"`
	Vendor             string      `json:"vendor,omitempty"`
	CurrentValue       float64     `json:"current_value"`
	HistoricalAverage  float64     `json:"historical_average"`
	PercentageVariance float64     `json:"percentage_variance"`
	StdDevVariance     float64     `json:"std_dev_variance"`
	Severity           Severity    `json:"severity"`
	HistoricalCount    int         `json:"historical_count"`
}
