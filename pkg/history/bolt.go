package history

import (
	"encoding/json"
	"fmt"
	"log/slog"

	bolt "go.etcd.io/bbolt"

	"github.com/ledgerguard/invoice-audit/pkg/models"
)

const (
	historyBucket = "history"
	stateKey      = "state"
)

// BoltStorage persists the history state as a single JSON blob in a
// bbolt bucket. Bolt's transactions give the whole-state write
// atomicity the store contract requires.
type BoltStorage struct {
	db *bolt.DB
}

// NewBoltStorage opens (or creates) a bbolt database at the given path
// and ensures the history bucket exists.
func NewBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history bucket: %w", err)
	}

	return &BoltStorage{db: db}, nil
}

// Close closes the underlying database.
func (b *BoltStorage) Close() error {
	return b.db.Close()
}

// Load reads the state blob. A missing or undecodable blob degrades to
// an empty valid state; decode failures are logged, not raised.
func (b *BoltStorage) Load() (*models.HistoryState, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(stateKey)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		slog.Warn("history database unreadable, starting from empty state", "error", err)
		return models.NewHistoryState(), nil
	}
	if data == nil {
		return models.NewHistoryState(), nil
	}

	var state models.HistoryState
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("history state corrupt, starting from empty state", "error", err)
		return models.NewHistoryState(), nil
	}

	normalizeState(&state)
	return &state, nil
}

// Save writes the whole state blob in one transaction.
func (b *BoltStorage) Save(state *models.HistoryState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal history state: %w", err)
	}

	err = b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", historyBucket)
		}
		return bucket.Put([]byte(stateKey), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write history state: %w", err)
	}
	return nil
}
