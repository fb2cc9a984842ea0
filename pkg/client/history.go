package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const historyLimit = 50

// HistoryEntry records a room the local user created or joined. The server
// keeps no accounts, so this is the only way back to a link once the browser
// tab is gone.
type HistoryEntry struct {
	RoomID        string    `json:"room_id"`
	Title         string    `json:"title"`
	Kind          string    `json:"kind"`
	ParticipantID string    `json:"participant_id,omitempty"`
	SavedAt       time.Time `json:"saved_at"`
}

// History is a file-backed, newest-first list of room links, capped at
// historyLimit entries. Entries are keyed by room id; re-adding a room
// moves it to the front.
type History struct {
	mu   sync.Mutex
	path string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

// DefaultHistoryPath places the history file under the user config dir.
func DefaultHistoryPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve config dir: %w", err)
	}
	return filepath.Join(dir, "slotboard", name+".json"), nil
}

func (h *History) Add(entry HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load()
	if err != nil {
		return err
	}

	if entry.SavedAt.IsZero() {
		entry.SavedAt = time.Now()
	}

	filtered := make([]HistoryEntry, 0, len(entries)+1)
	filtered = append(filtered, entry)
	for _, e := range entries {
		if e.RoomID == entry.RoomID {
			continue
		}
		filtered = append(filtered, e)
	}

	if len(filtered) > historyLimit {
		filtered = filtered[:historyLimit]
	}

	return h.save(filtered)
}

func (h *History) Remove(roomID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load()
	if err != nil {
		return err
	}

	filtered := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.RoomID == roomID {
			continue
		}
		filtered = append(filtered, e)
	}

	if len(filtered) == len(entries) {
		return nil
	}
	return h.save(filtered)
}

// List returns entries newest first. A missing file is an empty history.
func (h *History) List() ([]HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

func (h *History) load() ([]HistoryEntry, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("could not read history file: %w", err)
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt file is advisory data, start over rather than fail.
		return []HistoryEntry{}, nil
	}
	return entries, nil
}

func (h *History) save(entries []HistoryEntry) error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("could not create history dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode history: %w", err)
	}

	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("could not write history file: %w", err)
	}
	return os.Rename(tmp, h.path)
}
