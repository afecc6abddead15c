// Package sidecar persists task attributes the ledger's single-line grammar
// cannot express: the untruncated description, priority, category, and
// timestamps. Entries are keyed by durable ledger ID in one YAML file and
// are loosely synchronized with the ledger; a ledger entry without a sidecar
// entry is legal.
package sidecar

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Priorities accepted by the store. Anything else is dropped, not stored.
var validPriorities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

// Categories accepted by the store. Anything else is dropped, not stored.
var validCategories = map[string]bool{
	"feature":        true,
	"bug_fix":        true,
	"refactoring":    true,
	"documentation":  true,
	"security":       true,
	"performance":    true,
	"ui_ux":          true,
	"infrastructure": true,
	"testing":        true,
}

// Entry holds the structured metadata for one ledger task.
type Entry struct {
	Description string    `yaml:"description"`
	Priority    string    `yaml:"priority,omitempty"`
	Category    string    `yaml:"category,omitempty"`
	CreatedAt   time.Time `yaml:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at"`
}

// Attributes is the caller-supplied portion of an entry.
type Attributes struct {
	Description string
	Priority    string
	Category    string
}

// Store is a file-backed metadata table keyed by durable ID.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a store persisting to the given YAML file.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Put upserts the entry for durableID. The description is stored
// unconditionally and untruncated; priority and category outside their
// closed enumerations are silently dropped. created_at is set on first write
// and preserved thereafter; updated_at always refreshes. Timestamps are UTC.
func (s *Store) Put(durableID string, attrs Attributes) error {
	table, err := s.load()
	if err != nil {
		return err
	}

	now := s.now().UTC()
	entry := Entry{
		Description: attrs.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing, ok := table[durableID]; ok {
		entry.CreatedAt = existing.CreatedAt
	}

	if validPriorities[attrs.Priority] {
		entry.Priority = attrs.Priority
	} else if attrs.Priority != "" {
		slog.Debug("dropping out-of-enumeration priority", "task", durableID, "priority", attrs.Priority)
	}
	if validCategories[attrs.Category] {
		entry.Category = attrs.Category
	} else if attrs.Category != "" {
		slog.Debug("dropping out-of-enumeration category", "task", durableID, "category", attrs.Category)
	}

	table[durableID] = entry
	return s.save(table)
}

// Get returns the entry for durableID, if present.
func (s *Store) Get(durableID string) (Entry, bool, error) {
	table, err := s.load()
	if err != nil {
		return Entry{}, false, err
	}
	entry, ok := table[durableID]
	return entry, ok, nil
}

func (s *Store) load() (map[string]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read task metadata: %w", err)
	}

	table := map[string]Entry{}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse task metadata: %w", err)
	}
	return table, nil
}

func (s *Store) save(table map[string]Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	data, err := yaml.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal task metadata: %w", err)
	}

	// Write atomically via temp file
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write task metadata: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename task metadata: %w", err)
	}
	return nil
}
