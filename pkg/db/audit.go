package db

import (
	"database/sql"
	"fmt"
	"time"
)

// AuditRecord is one row of the processed-invoices audit log.
type AuditRecord struct {
	ID            int64
	RecordID      string
	Filename      string
	InvoiceNumber sql.NullString
	Vendor        sql.NullString
	FindingCount  int
	MaxSeverity   sql.NullString
	ProcessedAt   time.Time
}

// AuditLog manages audit trail operations.
type AuditLog struct {
	conn *Connection
}

// NewAuditLog creates a new AuditLog instance.
func NewAuditLog(conn *Connection) *AuditLog {
	return &AuditLog{conn: conn}
}

// Record appends an entry for a processed invoice.
func (a *AuditLog) Record(record AuditRecord) error {
	query := `
		INSERT INTO processed_invoices (record_id, filename, invoice_number, vendor, finding_count, max_severity)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := a.conn.Exec(query,
		record.RecordID,
		record.Filename,
		record.InvoiceNumber,
		record.Vendor,
		record.FindingCount,
		record.MaxSeverity,
	)

	if err != nil {
		return fmt.Errorf("failed to record processed invoice: %w", err)
	}

	return nil
}

// Recent retrieves the most recently processed invoices, newest first.
func (a *AuditLog) Recent(limit int) ([]AuditRecord, error) {
	query := `
		SELECT id, record_id, filename, invoice_number, vendor, finding_count, max_severity, processed_at
		FROM processed_invoices
		ORDER BY processed_at DESC, id DESC
		LIMIT ?
	`

	rows, err := a.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var records []AuditRecord
	for rows.Next() {
		var record AuditRecord
		if err := rows.Scan(
			&record.ID,
			&record.RecordID,
			&record.Filename,
			&record.InvoiceNumber,
			&record.Vendor,
			&record.FindingCount,
			&record.MaxSeverity,
			&record.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Stats represents audit log statistics.
type Stats struct {
	TotalProcessed int64
	TotalFlagged   int64
	LastProcessed  sql.NullString
}

// GetStats retrieves audit log statistics.
func (a *AuditLog) GetStats() (*Stats, error) {
	var stats Stats

	err := a.conn.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(CASE WHEN finding_count > 0 THEN 1 END),
			MAX(processed_at)
		FROM processed_invoices
	`).Scan(&stats.TotalProcessed, &stats.TotalFlagged, &stats.LastProcessed)

	if err != nil {
		return nil, fmt.Errorf("failed to get audit stats: %w", err)
	}

	return &stats, nil
}
