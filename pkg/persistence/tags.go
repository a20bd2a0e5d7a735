package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the tag file format.
const StateVersion = 1

// TagState is a snapshot of every entity's tag set, keyed by entity id.
type TagState struct {
	// Version is the tag file format version.
	Version int `json:"version"`

	// SavedAt is when the snapshot was taken.
	SavedAt time.Time `json:"saved_at"`

	// Nodes maps node ids to their tags.
	Nodes map[string][]string `json:"nodes,omitempty"`

	// Channels maps channel ids to their tags, getters and setters
	// alike.
	Channels map[string][]string `json:"channels,omitempty"`
}

// TagStore manages persistence of tag state to a JSON file.
type TagStore struct {
	mu   sync.Mutex
	path string
}

// NewTagStore creates a new tag store.
func NewTagStore(path string) *TagStore {
	return &TagStore{path: path}
}

// Save persists the tag snapshot to disk.
func (s *TagStore) Save(state *TagState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the tag snapshot from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *TagStore) Load() (*TagState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &TagState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// Clear removes the tag file.
func (s *TagStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
