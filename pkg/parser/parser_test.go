package parser

import "testing"

const sampleInvoice = `ACME SUPPLIES
Invoice Number: INV-2024-0042
Date: 2024-03-15
Vendor: Acme Corp

Widget Large  10  $5.00  $50.00
Gadget Mini  2  $12.50  $25.00
Sprocket, 4, $1.25, $5.00

Subtotal: $80.00
Tax: $8.00
Total: $88.00
`

func TestParseMetadata(t *testing.T) {
	inv := Parse(sampleInvoice)

	if inv.Metadata.InvoiceNumber == nil || *inv.Metadata.InvoiceNumber != "INV-2024-0042" {
		t.Errorf("InvoiceNumber = %v, expected INV-2024-0042", inv.Metadata.InvoiceNumber)
	}
	if inv.Metadata.InvoiceDate == nil || *inv.Metadata.InvoiceDate != "2024-03-15" {
		t.Errorf("InvoiceDate = %v, expected 2024-03-15", inv.Metadata.InvoiceDate)
	}
	if inv.Metadata.Vendor == nil || *inv.Metadata.Vendor != "Acme Corp" {
		t.Errorf("Vendor = %v, expected Acme Corp", inv.Metadata.Vendor)
	}
}

func TestParseMetadataMissing(t *testing.T) {
	inv := Parse("just some text with no invoice fields")

	if inv.Metadata.InvoiceNumber != nil {
		t.Errorf("InvoiceNumber = %v, expected nil", *inv.Metadata.InvoiceNumber)
	}
	if inv.Metadata.InvoiceDate != nil {
		t.Errorf("InvoiceDate = %v, expected nil", *inv.Metadata.InvoiceDate)
	}
	if inv.Metadata.Vendor != nil {
		t.Errorf("Vendor = %v, expected nil", *inv.Metadata.Vendor)
	}
}

func TestParseLineItems(t *testing.T) {
	inv := Parse(sampleInvoice)

	if len(inv.LineItems) != 3 {
		t.Fatalf("got %d line items, expected 3: %+v", len(inv.LineItems), inv.LineItems)
	}

	first := inv.LineItems[0]
	if first.Description != "Widget Large" {
		t.Errorf("Description = %q, expected Widget Large", first.Description)
	}
	if first.Quantity != 10 || first.UnitPrice != 5 || first.Amount != 50 {
		t.Errorf("numeric fields = %v/%v/%v, expected 10/5/50", first.Quantity, first.UnitPrice, first.Amount)
	}

	comma := inv.LineItems[2]
	if comma.Description != "Sprocket" || comma.Quantity != 4 || comma.UnitPrice != 1.25 || comma.Amount != 5 {
		t.Errorf("comma-delimited item = %+v, expected Sprocket 4/1.25/5", comma)
	}
}

func TestParseLineItemsSkipsMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing amount", "Widget Large  10  $5.00"},
		{"non-numeric quantity", "Widget Large  ten  $5.00  $50.00"},
		{"free text", "Thank you for your business"},
		{"header row", "Description  Qty  Price  Amount"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Parse(tt.line)
			if len(inv.LineItems) != 0 {
				t.Errorf("Parse(%q) accepted %d line items, expected 0", tt.line, len(inv.LineItems))
			}
		})
	}
}

func TestParseLineItemThousandsSeparators(t *testing.T) {
	inv := Parse("Industrial Press  2  $1,250.00  $2,500.00")

	if len(inv.LineItems) != 1 {
		t.Fatalf("got %d line items, expected 1", len(inv.LineItems))
	}
	item := inv.LineItems[0]
	if item.UnitPrice != 1250 || item.Amount != 2500 {
		t.Errorf("unit price/amount = %v/%v, expected 1250/2500", item.UnitPrice, item.Amount)
	}
}

func TestParseTotals(t *testing.T) {
	inv := Parse(sampleInvoice)

	if inv.Totals.Subtotal == nil || *inv.Totals.Subtotal != 80 {
		t.Errorf("Subtotal = %v, expected 80", inv.Totals.Subtotal)
	}
	if inv.Totals.Tax == nil || *inv.Totals.Tax != 8 {
		t.Errorf("Tax = %v, expected 8", inv.Totals.Tax)
	}
	if inv.Totals.Total == nil || *inv.Totals.Total != 88 {
		t.Errorf("Total = %v, expected 88", inv.Totals.Total)
	}
}

func TestParseTotalsIndependent(t *testing.T) {
	inv := Parse("Total: $99.50")

	if inv.Totals.Total == nil || *inv.Totals.Total != 99.5 {
		t.Errorf("Total = %v, expected 99.5", inv.Totals.Total)
	}
	if inv.Totals.Subtotal != nil {
		t.Errorf("Subtotal = %v, expected nil", *inv.Totals.Subtotal)
	}
	if inv.Totals.Tax != nil {
		t.Errorf("Tax = %v, expected nil", *inv.Totals.Tax)
	}
}

func TestParseSubtotalNotMistakenForTotal(t *testing.T) {
	inv := Parse("Subtotal: $80.00")

	if inv.Totals.Subtotal == nil || *inv.Totals.Subtotal != 80 {
		t.Errorf("Subtotal = %v, expected 80", inv.Totals.Subtotal)
	}
	if inv.Totals.Total != nil {
		t.Errorf("Total = %v, expected nil when only a subtotal is present", *inv.Totals.Total)
	}
}

func TestParseEmptyText(t *testing.T) {
	inv := Parse("")

	if inv == nil {
		t.Fatal("Parse returned nil")
	}
	if len(inv.LineItems) != 0 {
		t.Errorf("got %d line items from empty text, expected 0", len(inv.LineItems))
	}
}
