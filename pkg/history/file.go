package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ledgerguard/invoice-audit/pkg/models"
)

// FileStorage persists the history state as a single JSON file.
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed storage at the given path. The
// file is created on first save.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the state file. A missing file is a normal first run; a
// corrupt one is logged and degraded to an empty state so the detection
// pipeline stays available.
func (f *FileStorage) Load() (*models.HistoryState, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("history file unreadable, starting from empty state", "path", f.path, "error", err)
		}
		return models.NewHistoryState(), nil
	}

	var state models.HistoryState
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("history file corrupt, starting from empty state", "path", f.path, "error", err)
		return models.NewHistoryState(), nil
	}

	normalizeState(&state)
	return &state, nil
}

// Save writes the whole state atomically: marshal, write to a temp file
// in the same directory, then rename over the target so a reader never
// observes a partial write.
func (f *FileStorage) Save(state *models.HistoryState) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write history state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp history file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}

// normalizeState fills nil collections left by older or hand-edited
// state files so callers can index without guards.
func normalizeState(state *models.HistoryState) {
	if state.Invoices == nil {
		state.Invoices = []models.InvoiceRecord{}
	}
	if state.ItemAverages == nil {
		state.ItemAverages = map[string]models.ItemAggregate{}
	}
	if state.VendorAverages == nil {
		state.VendorAverages = map[string]models.VendorAggregate{}
	}
}
