// Package parser converts raw extracted invoice text into a structured
// record. Extraction is pattern-based and best-effort: fields that do
// not match stay nil and malformed lines are skipped, never errors, so
// downstream detection still gets whatever could be recovered.
package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerguard/invoice-audit/pkg/models"
)

var (
	invoiceNumberRe = regexp.MustCompile(`(?i)invoice\s*(?:number|num|no\.?|#)?\s*[:#]\s*([A-Za-z0-9][A-Za-z0-9/-]*)`)
	invoiceDateRe   = regexp.MustCompile(`(?i)(?:invoice\s+)?date\s*:?\s*(\d{4}-\d{2}-\d{2}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|[A-Za-z]+\s+\d{1,2},?\s+\d{4})`)
	vendorRe        = regexp.MustCompile(`(?im)^\s*(?:vendor|from|supplier|sold\s+by|bill\s+from)\s*:\s*(.+)$`)

	// description, 2+ spaces, integer quantity, unit price, amount.
	lineItemSpaceRe = regexp.MustCompile(`^(.+?)\s{2,}(\d+)\s+[$€£]?([\d,]+(?:\.\d+)?)\s+[$€£]?([\d,]+(?:\.\d+)?)\s*$`)
	lineItemCommaRe = regexp.MustCompile(`^(.+?),\s*(\d+),\s*[$€£]?([\d,]+(?:\.\d+)?),\s*[$€£]?([\d,]+(?:\.\d+)?)\s*$`)

	subtotalRe = regexp.MustCompile(`(?i)sub[\s-]?total\s*:?\s*[$€£]?([\d,]+(?:\.\d+)?)`)
	taxRe      = regexp.MustCompile(`(?i)\b(?:tax|vat|gst)\s*(?:\([\d.]+%\))?\s*:?\s*[$€£]?([\d,]+(?:\.\d+)?)`)
	totalRe    = regexp.MustCompile(`(?i)\btotal\s*(?:due|amount)?\s*:?\s*[$€£]?([\d,]+(?:\.\d+)?)`)
)

// Parse extracts metadata, line items, and totals from invoice text.
// It is a pure function with no failure modes: unmatched fields come
// back nil and non-matching lines are dropped silently.
func Parse(text string) *models.ParsedInvoice {
	return &models.ParsedInvoice{
		Metadata:  parseMetadata(text),
		LineItems: parseLineItems(text),
		Totals:    parseTotals(text),
		RawText:   text,
	}
}

func parseMetadata(text string) models.InvoiceMetadata {
	var meta models.InvoiceMetadata

	if m := invoiceNumberRe.FindStringSubmatch(text); m != nil {
		num := strings.TrimSpace(m[1])
		meta.InvoiceNumber = &num
	}
	if m := invoiceDateRe.FindStringSubmatch(text); m != nil {
		date := strings.TrimSpace(m[1])
		meta.InvoiceDate = &date
	}
	// Vendor is captured to end of line and trimmed; matching against
	// history is done later on the raw string, so no normalization here.
	if m := vendorRe.FindStringSubmatch(text); m != nil {
		vendor := strings.TrimSpace(m[1])
		if vendor != "" {
			meta.Vendor = &vendor
		}
	}

	return meta
}

// parseLineItems scans line by line with no cross-line state. Each line
// is tried against the whitespace-delimited pattern first, then the
// comma-delimited one. A match is accepted only when all three numeric
// fields parse; otherwise the line is skipped without comment.
func parseLineItems(text string) []models.LineItem {
	var items []models.LineItem

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		m := lineItemSpaceRe.FindStringSubmatch(line)
		if m == nil {
			m = lineItemCommaRe.FindStringSubmatch(line)
		}
		if m == nil {
			continue
		}

		quantity, okQty := parseNumber(m[2])
		unitPrice, okPrice := parseNumber(m[3])
		amount, okAmount := parseNumber(m[4])
		if !okQty || !okPrice || !okAmount {
			continue
		}

		items = append(items, models.LineItem{
			Description: strings.TrimSpace(m[1]),
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Amount:      amount,
		})
	}

	return items
}

func parseTotals(text string) models.Totals {
	var totals models.Totals

	if m := subtotalRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseNumber(m[1]); ok {
			totals.Subtotal = &v
		}
	}
	if m := taxRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseNumber(m[1]); ok {
			totals.Tax = &v
		}
	}
	if m := totalRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseNumber(m[1]); ok {
			totals.Total = &v
		}
	}

	return totals
}

// parseNumber parses a currency-ish number with thousands separators
// stripped. Decimal parsing keeps "1,234.56" exact before the float
// conversion.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}
