// Package detector decides, per field, whether invoice values deviate
// abnormally from their historical baselines. Detection is pure: it
// reads the aggregate tables the caller passes in and never touches
// storage or triggers recomputation.
package detector

import (
	"math"

	"github.com/ledgerguard/invoice-audit/pkg/models"
	"github.com/ledgerguard/invoice-audit/pkg/stats"
)

// Result is the outcome of one detection pass over one invoice.
type Result struct {
	HasDiscrepancies bool             `json:"has_discrepancies"`
	DiscrepancyCount int              `json:"discrepancy_count"`
	Discrepancies    []models.Finding `json:"discrepancies"`
	Config           Config           `json:"config"`
}

// Detect compares a parsed invoice against the current aggregate tables
// under the given configuration and returns every flagged field. Items
// and vendors below the minimum sample count are skipped entirely: a
// cold start never produces findings.
func Detect(invoice *models.ParsedInvoice, aggregates *models.Aggregates, cfg Config) *Result {
	cfg = cfg.normalized()
	findings := []models.Finding{}

	if cfg.CheckLineItems && aggregates != nil {
		findings = append(findings, checkLineItems(invoice, aggregates.ItemAverages, cfg)...)
	}
	if cfg.CheckTotals && aggregates != nil {
		findings = append(findings, checkTotals(invoice, aggregates.VendorAverages, cfg)...)
	}

	return &Result{
		HasDiscrepancies: len(findings) > 0,
		DiscrepancyCount: len(findings),
		Discrepancies:    findings,
		Config:           cfg,
	}
}

func checkLineItems(invoice *models.ParsedInvoice, itemAverages map[string]models.ItemAggregate, cfg Config) []models.Finding {
	var findings []models.Finding

	for i, item := range invoice.LineItems {
		agg, ok := itemAverages[stats.NormalizeKey(item.Description)]
		if !ok || agg.Count < cfg.MinSamples {
			continue
		}

		index := i
		fields := []struct {
			name    string
			current float64
			mean    float64
			stdDev  float64
		}{
			{"unit_price", item.UnitPrice, agg.AvgUnitPrice, agg.UnitPriceStdDev},
			{"quantity", item.Quantity, agg.AvgQuantity, agg.QuantityStdDev},
			{"amount", item.Amount, agg.AvgAmount, agg.AmountStdDev},
		}

		for _, f := range fields {
			v, flagged := checkValue(f.current, f.mean, f.stdDev, cfg)
			if !flagged {
				continue
			}
			findings = append(findings, models.Finding{
				Type:               models.FindingLineItem,
				LineIndex:          &index,
				Field:              f.name,
				Description:        item.Description,
				CurrentValue:       f.current,
				HistoricalAverage:  f.mean,
				PercentageVariance: v.percentage,
				StdDevVariance:     v.stdDev,
				Severity:           v.severity,
				HistoricalCount:    agg.Count,
			})
		}
	}

	return findings
}

// checkTotals compares invoice totals against the vendor's history.
// Vendor lookup is exact-string, unlike the normalized item lookup, and
// tax is aggregated but deliberately never compared; both behaviors are
// kept as observed in production.
func checkTotals(invoice *models.ParsedInvoice, vendorAverages map[string]models.VendorAggregate, cfg Config) []models.Finding {
	if invoice.Metadata.Vendor == nil || *invoice.Metadata.Vendor == "" {
		return nil
	}
	vendor := *invoice.Metadata.Vendor

	agg, ok := vendorAverages[vendor]
	if !ok || agg.Count < cfg.MinSamples {
		return nil
	}

	var findings []models.Finding
	fields := []struct {
		name    string
		current *float64
		mean    float64
		stdDev  float64
	}{
		{"total", invoice.Totals.Total, agg.AvgTotal, agg.TotalStdDev},
		{"subtotal", invoice.Totals.Subtotal, agg.AvgSubtotal, agg.SubtotalStdDev},
	}

	for _, f := range fields {
		if f.current == nil {
			continue
		}
		v, flagged := checkValue(*f.current, f.mean, f.stdDev, cfg)
		if !flagged {
			continue
		}
		findings = append(findings, models.Finding{
			Type:               models.FindingTotal,
			Field:              f.name,
			Vendor:             vendor,
			CurrentValue:       *f.current,
			HistoricalAverage:  f.mean,
			PercentageVariance: v.percentage,
			StdDevVariance:     v.stdDev,
			Severity:           v.severity,
			HistoricalCount:    agg.Count,
		})
	}

	return findings
}

type variance struct {
	percentage float64
	stdDev     float64
	severity   models.Severity
}

// checkValue evaluates one field against its baseline. A zero (or
// negative) historical mean means there is no comparable baseline for
// that field, not a deviation target.
func checkValue(current, mean, stdDev float64, cfg Config) (variance, bool) {
	if mean <= 0 {
		return variance{}, false
	}

	v := variance{percentage: math.Abs(current-mean) / mean}
	if stdDev > 0 {
		v.stdDev = math.Abs(current-mean) / stdDev
	}

	var flagged bool
	switch cfg.Mode {
	case ModePercentage:
		flagged = v.percentage > cfg.PercentageThreshold
	case ModeStdDev:
		flagged = v.stdDev > cfg.StdDevThreshold
	default:
		// Either signal alone is sufficient.
		flagged = v.percentage > cfg.PercentageThreshold ||
			(stdDev > 0 && v.stdDev > cfg.StdDevThreshold)
	}

	v.severity = severityFor(v, cfg)
	return v, flagged
}

// severityFor grades how far past threshold the value landed. It is
// computed for every evaluated field but only surfaced on flagged ones.
func severityFor(v variance, cfg Config) models.Severity {
	switch {
	case v.percentage > 2*cfg.PercentageThreshold || v.stdDev > 1.5*cfg.StdDevThreshold:
		return models.SeverityHigh
	case v.percentage > 1.5*cfg.PercentageThreshold || v.stdDev > 1.2*cfg.StdDevThreshold:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}
