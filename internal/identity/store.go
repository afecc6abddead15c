// Package identity persists the mapping from transient task identifiers to
// durable ledger IDs.
//
// Keys are opaque strings drawn from several namespaces (raw tool-call ids,
// session-scoped "sess_task_N" keys, and legacy unscoped "task_N" keys); many
// keys may point at the same durable ID. A mapping is immutable once written:
// a later insert with the same key and a different durable ID is rejected and
// the original wins. Mappings are never deleted in normal operation.
//
// The store reads the file fresh on every call. Invocations are independent
// short-lived processes, potentially from different sessions, so an in-memory
// cache would only serve stale data.
package identity

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Store is a file-backed transient-key to durable-ID table.
type Store struct {
	path string
}

// NewStore returns a store persisting to the given JSON file. The file need
// not exist yet; a missing file reads as an empty table.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Resolve tries each candidate key in order and returns the first durable ID
// found. The second return is false when no key resolves.
func (s *Store) Resolve(keys ...string) (string, bool, error) {
	table, err := s.load()
	if err != nil {
		return "", false, err
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if id, ok := table[key]; ok {
			return id, true, nil
		}
	}
	return "", false, nil
}

// Register inserts a mapping from each key to durableID in one
// load-then-rewrite pass. Keys that already map to a different durable ID are
// left untouched (first writer wins) and returned as conflicts; keys that
// already map to the same durable ID are silently accepted.
func (s *Store) Register(durableID string, keys ...string) ([]string, error) {
	table, err := s.load()
	if err != nil {
		return nil, err
	}

	var conflicts []string
	changed := false
	for _, key := range keys {
		if key == "" {
			continue
		}
		existing, ok := table[key]
		if ok && existing != durableID {
			slog.Warn("identity mapping conflict, keeping existing",
				"key", key, "existing", existing, "rejected", durableID)
			conflicts = append(conflicts, key)
			continue
		}
		if !ok {
			table[key] = durableID
			changed = true
		}
	}

	if !changed {
		return conflicts, nil
	}
	if err := s.save(table); err != nil {
		return conflicts, err
	}
	return conflicts, nil
}

// Entries returns a copy of the full mapping table.
func (s *Store) Entries() (map[string]string, error) {
	return s.load()
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read identity map: %w", err)
	}

	table := map[string]string{}
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse identity map: %w", err)
	}
	return table, nil
}

func (s *Store) save(table map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create identity map directory: %w", err)
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal identity map: %w", err)
	}
	data = append(data, '\n')

	// Write atomically via temp file
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write identity map: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename identity map: %w", err)
	}
	return nil
}
