package journal

import (
	"path/filepath"
	"testing"

	"github.com/ayberk/groupora/internal/models"
	"github.com/ayberk/groupora/pkg/logger"
)

func openTestJournal(t *testing.T) *Journal {
	logger.Init(false)

	path := filepath.Join(t.TempDir(), "test.journal")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_AppendAndReadAll(t *testing.T) {
	j := openTestJournal(t)

	first := NewEntry(1, 7, "", models.ReactionLiked, 1)
	second := NewEntry(1, 7, models.ReactionLiked, models.ReactionDisliked, -1)

	for _, entry := range []Entry{first, second} {
		if err := j.Append(entry); err != nil {
			t.Fatalf("Failed to append entry: %v", err)
		}
	}

	entries, err := j.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read journal: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].EntryID != first.EntryID {
		t.Fatalf("Expected %s first, got %s", first.EntryID, entries[0].EntryID)
	}
	if entries[1].From != models.ReactionLiked || entries[1].To != models.ReactionDisliked {
		t.Fatalf("Transition not preserved: %+v", entries[1])
	}
	if entries[1].Delta != -1 {
		t.Fatalf("Expected delta -1, got %d", entries[1].Delta)
	}
}

func TestJournal_AppendAfterCompact(t *testing.T) {
	j := openTestJournal(t)

	var ids []string
	for i := 0; i < 3; i++ {
		entry := NewEntry(uint(i+1), 7, "", models.ReactionLiked, 1)
		ids = append(ids, entry.EntryID)
		if err := j.Append(entry); err != nil {
			t.Fatalf("Failed to append: %v", err)
		}
	}

	// Drop the first two verified entries
	if err := j.Compact(ids[:2]); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	remaining, err := j.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read after compact: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("Expected 1 entry after compact, got %d", len(remaining))
	}
	if remaining[0].EntryID != ids[2] {
		t.Fatalf("Expected %s to survive, got %s", ids[2], remaining[0].EntryID)
	}

	// Appends must land in the rewritten file
	late := NewEntry(9, 7, models.ReactionDisliked, models.ReactionLiked, 1)
	if err := j.Append(late); err != nil {
		t.Fatalf("Failed to append after compact: %v", err)
	}

	entries, err := j.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[1].EntryID != late.EntryID {
		t.Fatalf("Expected %s last, got %s", late.EntryID, entries[1].EntryID)
	}
}

func TestJournal_MultipleCompactions(t *testing.T) {
	j := openTestJournal(t)

	var ids []string
	for i := 0; i < 5; i++ {
		entry := NewEntry(uint(i+1), 3, "", models.ReactionDisliked, 0)
		ids = append(ids, entry.EntryID)
		if err := j.Append(entry); err != nil {
			t.Fatalf("Failed to append: %v", err)
		}
	}

	j.Compact(ids[:2])
	extra := NewEntry(6, 3, "", models.ReactionLiked, 1)
	j.Append(extra)
	j.Compact(ids[2:4])

	entries, err := j.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].EntryID != ids[4] || entries[1].EntryID != extra.EntryID {
		t.Fatalf("Unexpected survivors: %+v", entries)
	}
}
