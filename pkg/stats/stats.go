// Package stats rebuilds the per-item and per-vendor aggregate tables
// from the full invoice history.
package stats

import (
	"math"
	"regexp"
	"strings"

	"github.com/ledgerguard/invoice-audit/pkg/models"
)

// UnknownVendor is the bucket used for invoices with no extracted vendor.
const UnknownVendor = "Unknown"

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeKey canonicalizes an item description so that formatting
// variants of the same item share one aggregation bucket. The detector
// uses the same function for lookups; the two must never diverge.
func NormalizeKey(description string) string {
	key := strings.ToLower(description)
	key = nonWordRe.ReplaceAllString(key, "")
	key = whitespaceRe.ReplaceAllString(key, " ")
	return strings.TrimSpace(key)
}

// Stats is the population mean and standard deviation of a sample series.
type Stats struct {
	Mean   float64
	StdDev float64
	Count  int
}

// Calculate computes population statistics (divide by N, not N-1).
// An empty series yields all zeros rather than dividing by zero.
func Calculate(samples []float64) Stats {
	n := len(samples)
	if n == 0 {
		return Stats{}
	}

	var sum float64
	for _, v := range samples {
		sum += v
	}
	mean := sum / float64(n)

	var sqDiff float64
	for _, v := range samples {
		d := v - mean
		sqDiff += d * d
	}

	return Stats{
		Mean:   mean,
		StdDev: math.Sqrt(sqDiff / float64(n)),
		Count:  n,
	}
}

type itemSamples struct {
	originalName string
	unitPrices   []float64
	quantities   []float64
	amounts      []float64
}

type vendorSamples struct {
	totals    []float64
	subtotals []float64
	taxes     []float64
}

// Recompute rebuilds both aggregate tables from scratch over the full
// invoice history. It is deterministic and idempotent; the caller is
// responsible for persisting the result and for deciding how often to
// trigger it, since the cost grows linearly with history size.
func Recompute(state *models.HistoryState) *models.Aggregates {
	items := map[string]*itemSamples{}
	vendors := map[string]*vendorSamples{}

	for _, inv := range state.Invoices {
		for _, li := range inv.LineItems {
			key := NormalizeKey(li.Description)
			if key == "" {
				continue
			}
			bucket, ok := items[key]
			if !ok {
				bucket = &itemSamples{originalName: li.Description}
				items[key] = bucket
			}
			bucket.unitPrices = append(bucket.unitPrices, li.UnitPrice)
			bucket.quantities = append(bucket.quantities, li.Quantity)
			bucket.amounts = append(bucket.amounts, li.Amount)
		}

		vendorName := UnknownVendor
		if inv.Metadata.Vendor != nil && *inv.Metadata.Vendor != "" {
			vendorName = *inv.Metadata.Vendor
		}
		bucket, ok := vendors[vendorName]
		if !ok {
			bucket = &vendorSamples{}
			vendors[vendorName] = bucket
		}
		if inv.Totals.Total != nil {
			bucket.totals = append(bucket.totals, *inv.Totals.Total)
		}
		if inv.Totals.Subtotal != nil {
			bucket.subtotals = append(bucket.subtotals, *inv.Totals.Subtotal)
		}
		if inv.Totals.Tax != nil {
			bucket.taxes = append(bucket.taxes, *inv.Totals.Tax)
		}
	}

	agg := &models.Aggregates{
		ItemAverages:   make(map[string]models.ItemAggregate, len(items)),
		VendorAverages: make(map[string]models.VendorAggregate, len(vendors)),
	}

	for key, bucket := range items {
		unitPrice := Calculate(bucket.unitPrices)
		quantity := Calculate(bucket.quantities)
		amount := Calculate(bucket.amounts)
		agg.ItemAverages[key] = models.ItemAggregate{
			OriginalName:    bucket.originalName,
			AvgUnitPrice:    unitPrice.Mean,
			UnitPriceStdDev: unitPrice.StdDev,
			AvgQuantity:     quantity.Mean,
			QuantityStdDev:  quantity.StdDev,
			AvgAmount:       amount.Mean,
			AmountStdDev:    amount.StdDev,
			Count:           unitPrice.Count,
		}
	}

	for name, bucket := range vendors {
		total := Calculate(bucket.totals)
		subtotal := Calculate(bucket.subtotals)
		tax := Calculate(bucket.taxes)
		agg.VendorAverages[name] = models.VendorAggregate{
			AvgTotal:       total.Mean,
			TotalStdDev:    total.StdDev,
			AvgSubtotal:    subtotal.Mean,
			SubtotalStdDev: subtotal.StdDev,
			AvgTax:         tax.Mean,
			TaxStdDev:      tax.StdDev,
			Count:          total.Count,
		}
	}

	return agg
}
