package client

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()
	return NewHistory(filepath.Join(t.TempDir(), "rooms.json"))
}

func TestHistoryEmptyWhenFileMissing(t *testing.T) {
	h := newTestHistory(t)

	entries, err := h.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() = %d entries, want 0", len(entries))
	}
}

func TestHistoryAddAndList(t *testing.T) {
	h := newTestHistory(t)

	if err := h.Add(HistoryEntry{RoomID: "room-1", Title: "Team offsite", Kind: "availability"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := h.Add(HistoryEntry{RoomID: "room-2", Title: "Interviews", Kind: "booking"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	entries, err := h.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() = %d entries, want 2", len(entries))
	}
	if entries[0].RoomID != "room-2" {
		t.Errorf("newest entry = %q, want %q", entries[0].RoomID, "room-2")
	}
	if entries[0].SavedAt.IsZero() {
		t.Error("SavedAt was not stamped")
	}
}

func TestHistoryReAddMovesToFront(t *testing.T) {
	h := newTestHistory(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := h.Add(HistoryEntry{RoomID: id}); err != nil {
			t.Fatalf("Add(%q) error = %v", id, err)
		}
	}
	if err := h.Add(HistoryEntry{RoomID: "a"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	entries, err := h.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() = %d entries, want 3", len(entries))
	}
	if entries[0].RoomID != "a" {
		t.Errorf("front entry = %q, want %q", entries[0].RoomID, "a")
	}
}

func TestHistoryRemove(t *testing.T) {
	h := newTestHistory(t)

	if err := h.Add(HistoryEntry{RoomID: "keep"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := h.Add(HistoryEntry{RoomID: "drop"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := h.Remove("drop"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	entries, err := h.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].RoomID != "keep" {
		t.Errorf("List() = %+v, want single entry %q", entries, "keep")
	}

	// Removing an unknown id is a no-op.
	if err := h.Remove("missing"); err != nil {
		t.Errorf("Remove(missing) error = %v", err)
	}
}

func TestHistoryCapsAtLimit(t *testing.T) {
	h := newTestHistory(t)

	for i := 0; i < historyLimit+10; i++ {
		if err := h.Add(HistoryEntry{RoomID: string(rune('A' + i%26)) + string(rune('a' + i/26))}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	entries, err := h.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) > historyLimit {
		t.Errorf("List() = %d entries, want at most %d", len(entries), historyLimit)
	}
}

func TestHistoryCorruptFileStartsOver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rooms.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	h := NewHistory(path)
	entries, err := h.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() = %d entries, want 0", len(entries))
	}
}
