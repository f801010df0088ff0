// storage/profile_store.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"nutriscan/logger"
	"nutriscan/models"
)

// ProfileStore persists the single user profile as one JSON document.
// Reads and writes cover the whole file; concurrent writers race
// last-writer-wins.
type ProfileStore struct {
	path string
}

func NewProfileStore(path string) *ProfileStore {
	return &ProfileStore{path: path}
}

// DefaultProfile is the profile used until the user saves their own.
func DefaultProfile() models.Profile {
	return models.Profile{
		Weight:        70,
		Height:        170,
		Age:           30,
		Gender:        "male",
		ActivityLevel: "moderate",
		Goal:          "maintain",
		CreatedAt:     time.Now().Format(time.RFC3339),
	}
}

// Load returns the stored profile. A missing or unreadable file produces the
// default profile, which is persisted so later reads see the same record.
func (s *ProfileStore) Load() models.Profile {
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		var p models.Profile
		if jsonErr := json.Unmarshal(data, &p); jsonErr == nil {
			return p
		}
		logger.Warn("profile file corrupt, resetting to defaults", "path", s.path)
	case os.IsNotExist(err):
		logger.Debug("profile file missing, creating default", "path", s.path)
	default:
		logger.Warn("profile file unreadable, using defaults", "path", s.path, "error", err)
	}

	p := DefaultProfile()
	if err := s.Save(p); err != nil {
		logger.Warn("could not persist default profile", "path", s.path, "error", err)
	}
	return p
}

// Save overwrites the profile file.
func (s *ProfileStore) Save(p models.Profile) error {
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
