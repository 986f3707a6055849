package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func newTestAuditLog(t *testing.T) *AuditLog {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewAuditLog(conn)
}

func TestRecordAndRecent(t *testing.T) {
	audit := newTestAuditLog(t)

	records := []AuditRecord{
		{RecordID: "a-1", Filename: "clean.pdf", FindingCount: 0},
		{
			RecordID:      "a-2",
			Filename:      "flagged.pdf",
			InvoiceNumber: sql.NullString{String: "INV-002", Valid: true},
			Vendor:        sql.NullString{String: "Acme Corp", Valid: true},
			FindingCount:  3,
			MaxSeverity:   sql.NullString{String: "high", Valid: true},
		},
	}
	for _, r := range records {
		if err := audit.Record(r); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	recent, err := audit.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d records, expected 2", len(recent))
	}

	// Newest first.
	if recent[0].RecordID != "a-2" {
		t.Errorf("first record = %q, expected a-2", recent[0].RecordID)
	}
	if recent[0].MaxSeverity.String != "high" {
		t.Errorf("MaxSeverity = %q, expected high", recent[0].MaxSeverity.String)
	}
	if recent[1].InvoiceNumber.Valid {
		t.Errorf("expected null invoice number for clean.pdf, got %q", recent[1].InvoiceNumber.String)
	}
}

func TestGetStats(t *testing.T) {
	audit := newTestAuditLog(t)

	stats, err := audit.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalProcessed != 0 || stats.TotalFlagged != 0 {
		t.Errorf("empty log stats = %+v, expected zeros", stats)
	}

	if err := audit.Record(AuditRecord{RecordID: "a-1", Filename: "clean.pdf", FindingCount: 0}); err != nil {
		t.Fatal(err)
	}
	if err := audit.Record(AuditRecord{RecordID: "a-2", Filename: "flagged.pdf", FindingCount: 2}); err != nil {
		t.Fatal(err)
	}

	stats, err = audit.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalProcessed != 2 {
		t.Errorf("TotalProcessed = %d, expected 2", stats.TotalProcessed)
	}
	if stats.TotalFlagged != 1 {
		t.Errorf("TotalFlagged = %d, expected 1", stats.TotalFlagged)
	}
	if !stats.LastProcessed.Valid {
		t.Error("expected LastProcessed to be set")
	}
}
