// Package history persists the append-only invoice history and its
// derived aggregate tables as a single state blob behind a storage port.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerguard/invoice-audit/pkg/models"
)

// Storage abstracts the persistence medium for the history state. The
// contract requires only that a save is atomic from the reader's
// perspective and that a missing or corrupt prior state loads as an
// empty valid state rather than an error.
type Storage interface {
	Load() (*models.HistoryState, error)
	Save(state *models.HistoryState) error
}

// NewStorage picks a backend from the path: .db/.bolt paths open a
// bbolt database, everything else is treated as a JSON file.
func NewStorage(path string) (Storage, error) {
	if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".bolt") {
		return NewBoltStorage(path)
	}
	return NewFileStorage(path), nil
}

// Store owns the history state lifecycle on top of a storage backend.
// It assumes a single writer; concurrent appends from multiple
// processes must be serialized by the caller.
type Store struct {
	storage Storage
	now     func() time.Time
}

// NewStore creates a Store over the given backend.
func NewStore(storage Storage) *Store {
	return &Store{
		storage: storage,
		now:     time.Now,
	}
}

// Load returns the current history state. A missing or unreadable prior
// state comes back as an empty valid state; the backend logs the
// degradation.
func (s *Store) Load() (*models.HistoryState, error) {
	return s.storage.Load()
}

// Save stamps lastUpdated and writes the whole state. Write failures
// propagate: silently losing a write would corrupt the audit trail.
func (s *Store) Save(state *models.HistoryState) error {
	now := s.now().UTC()
	state.LastUpdated = &now
	if err := s.storage.Save(state); err != nil {
		return fmt.Errorf("failed to save history state: %w", err)
	}
	return nil
}

// Append loads the current state, stores the invoice as a new record
// with a fresh unique ID and the current timestamp, saves, and returns
// the stored record.
func (s *Store) Append(filename string, invoice *models.ParsedInvoice) (*models.InvoiceRecord, error) {
	state, err := s.Load()
	if err != nil {
		return nil, err
	}

	record := models.InvoiceRecord{
		ID:            newRecordID(s.now()),
		Filename:      filename,
		ProcessedDate: s.now().UTC(),
		Metadata:      invoice.Metadata,
		LineItems:     invoice.LineItems,
		Totals:        invoice.Totals,
	}
	state.Invoices = append(state.Invoices, record)

	if err := s.Save(state); err != nil {
		return nil, err
	}
	return &record, nil
}

// Clear replaces the persisted state with an empty one. This is the
// only way records ever leave the history.
func (s *Store) Clear() error {
	return s.Save(models.NewHistoryState())
}

// newRecordID combines a millisecond timestamp with a random suffix so
// IDs stay unique under rapid appends from a single process.
func newRecordID(t time.Time) string {
	return fmt.Sprintf("%d-%s", t.UnixMilli(), uuid.NewString()[:8])
}
