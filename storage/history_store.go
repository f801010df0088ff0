// storage/history_store.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"nutriscan/logger"
	"nutriscan/models"
)

// HistoryStore persists scan records as one JSON array, newest first.
// Entries are addressed by their position in the array. Every update
// rewrites the whole file, so concurrent writers race last-writer-wins.
type HistoryStore struct {
	path string
}

func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// Load returns all entries, newest first. Missing, empty or corrupt files
// read as an empty history.
func (s *HistoryStore) Load() []models.HistoryEntry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("history file unreadable, reading as empty", "path", s.path, "error", err)
		}
		return []models.HistoryEntry{}
	}
	if len(data) == 0 {
		return []models.HistoryEntry{}
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("history file corrupt, reading as empty", "path", s.path, "error", err)
		return []models.HistoryEntry{}
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries
}

// Prepend inserts e at the front and rewrites the file.
func (s *HistoryStore) Prepend(e models.HistoryEntry) error {
	entries := append([]models.HistoryEntry{e}, s.Load()...)
	return s.write(entries)
}

// Get returns the entry at position id, 0 being the newest scan.
func (s *HistoryStore) Get(id int) (models.HistoryEntry, bool) {
	entries := s.Load()
	if id < 0 || id >= len(entries) {
		return models.HistoryEntry{}, false
	}
	return entries[id], true
}

func (s *HistoryStore) write(entries []models.HistoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
