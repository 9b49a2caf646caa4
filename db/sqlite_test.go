package db

import (
	"path/filepath"
	"testing"

	"sentioai/models"
)

func newTestStore(t *testing.T) *SQLiteClient {
	t.Helper()
	store, err := NewSQLiteClient(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewSQLiteClient returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInsertAssignsDefaults(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	entry := &models.JournalEntry{
		Emotion:    "happy",
		Confidence: 92.5,
		EntryText:  "Got some great news today.",
	}
	if err := store.InsertEntry(entry); err != nil {
		t.Fatalf("InsertEntry returned error: %v", err)
	}

	if entry.ID == "" {
		t.Fatal("expected generated entry ID")
	}
	if entry.Timestamp == "" || entry.ReadableTime == "" {
		t.Fatal("expected generated timestamps")
	}
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	entry := &models.JournalEntry{
		ID:         "fixed-id",
		Emotion:    "neutral",
		Confidence: 50,
		EntryText:  "first",
	}
	if err := store.InsertEntry(entry); err != nil {
		t.Fatalf("InsertEntry returned error: %v", err)
	}

	dup := &models.JournalEntry{
		ID:         "fixed-id",
		Emotion:    "neutral",
		Confidence: 50,
		EntryText:  "second",
	}
	if err := store.InsertEntry(dup); err == nil {
		t.Fatal("expected duplicate-id error")
	}
}

func TestGetAllEntriesChronological(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	first := &models.JournalEntry{
		Timestamp:  "2026-08-25T09:00:00Z",
		Emotion:    "sad",
		Confidence: 70,
		EntryText:  "rough morning",
	}
	second := &models.JournalEntry{
		Timestamp:  "2026-08-25T18:00:00Z",
		Emotion:    "happy",
		Confidence: 88,
		EntryText:  "much better evening",
	}
	// Insert out of order; reads must come back chronological.
	if err := store.InsertEntry(second); err != nil {
		t.Fatalf("InsertEntry returned error: %v", err)
	}
	if err := store.InsertEntry(first); err != nil {
		t.Fatalf("InsertEntry returned error: %v", err)
	}

	entries, err := store.GetAllEntries()
	if err != nil {
		t.Fatalf("GetAllEntries returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].EntryText != "rough morning" || entries[1].EntryText != "much better evening" {
		t.Fatalf("entries out of order: %q, %q", entries[0].EntryText, entries[1].EntryText)
	}
}

func TestGetEntriesByEmotion(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	for _, e := range []*models.JournalEntry{
		{Emotion: "happy", Confidence: 90, EntryText: "a"},
		{Emotion: "sad", Confidence: 60, EntryText: "b"},
		{Emotion: "happy", Confidence: 85, EntryText: "c"},
	} {
		if err := store.InsertEntry(e); err != nil {
			t.Fatalf("InsertEntry returned error: %v", err)
		}
	}

	happy, err := store.GetEntriesByEmotion("happy")
	if err != nil {
		t.Fatalf("GetEntriesByEmotion returned error: %v", err)
	}
	if len(happy) != 2 {
		t.Fatalf("expected 2 happy entries, got %d", len(happy))
	}
	for _, e := range happy {
		if e.Emotion != "happy" {
			t.Fatalf("filter leaked emotion %q", e.Emotion)
		}
	}
}
