// Package db provides the SQLite audit trail of processed invoices.
// The audit log is the surrounding service's record of work; it is
// separate from the history state blob the detection core reads.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Audit log of every processed invoice and its detection outcome.
CREATE TABLE IF NOT EXISTS processed_invoices (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    record_id TEXT NOT NULL,           -- ID assigned by the history store
    filename TEXT NOT NULL,
    invoice_number TEXT,               -- As extracted, may be empty
    vendor TEXT,                       -- As extracted, may be empty
    finding_count INTEGER NOT NULL,
    max_severity TEXT,                 -- 'low', 'medium', 'high', or ''
    processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_processed_invoices_vendor
    ON processed_invoices(vendor);

CREATE INDEX IF NOT EXISTS idx_processed_invoices_processed_at
    ON processed_invoices(processed_at);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
