// Package history stores recent transcripts in a local Badger database so
// they can be re-copied from the tray menu.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/enesbasbug/Local-Voice-Dictation/internal/types"
)

// keyPrefix orders entries by creation time so a reverse scan yields
// newest-first.
const keyPrefix = "t:"

// Store is a transcript history backed by Badger.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// New opens (or creates) the history database at path.
func New(path string, ttl time.Duration) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores a transcript and returns the entry. ID and CreatedAt are
// assigned here when unset.
func (s *Store) Add(entry types.HistoryEntry) (types.HistoryEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return entry, fmt.Errorf("marshal history entry: %w", err)
	}

	key := fmt.Appendf(nil, "%s%020d:%s", keyPrefix, entry.CreatedAt.UnixNano(), entry.ID)

	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key, value)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return entry, fmt.Errorf("store history entry: %w", err)
	}
	return entry, nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) ([]types.HistoryEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	var entries []types.HistoryEntry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		// Seek past the last possible key of the prefix, then walk backwards.
		seek := append(append([]byte{}, prefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(entries) < n; it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var entry types.HistoryEntry
				if err := json.Unmarshal(v, &entry); err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given ID, or false if absent or expired.
func (s *Store) Get(id string) (types.HistoryEntry, bool, error) {
	// IDs are suffixes of the timestamp-ordered keys; a short scan is fine
	// at history sizes.
	entries, err := s.Recent(1 << 16)
	if err != nil {
		return types.HistoryEntry{}, false, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, true, nil
		}
	}
	return types.HistoryEntry{}, false, nil
}

// Clear removes all stored transcripts.
func (s *Store) Clear() error {
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
