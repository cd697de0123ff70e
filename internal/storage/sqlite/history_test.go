// ABOUTME: Tests for append-only history persistence
// ABOUTME: Covers idempotent append, recent ordering, substring search, and clear

package sqlite

import (
	"fmt"
	"testing"
	"time"

	"github.com/harper/translate-standalone/internal/models"
)

func record(projectID, id, content string, offset time.Duration) *models.HistoryRecord {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &models.HistoryRecord{
		ID:        id,
		ProjectID: projectID,
		Timestamp: base.Add(offset),
		Role:      models.RoleUser,
		Content:   content,
	}
}

func TestAppend_Idempotent(t *testing.T) {
	store := NewHistoryStore(testDB(t))

	r := record(DefaultProjectID, "msg_1", "hello", 0)
	if err := store.Append(r); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	// Same id again is a no-op, not an error.
	if err := store.Append(r); err != nil {
		t.Fatalf("Append() duplicate error = %v", err)
	}

	records, err := store.Recent(DefaultProjectID, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}
}

func TestRecent_NewestInChronologicalOrder(t *testing.T) {
	store := NewHistoryStore(testDB(t))

	for i := 0; i < 5; i++ {
		r := record(DefaultProjectID, fmt.Sprintf("msg_%d", i), fmt.Sprintf("message %d", i), time.Duration(i)*time.Minute)
		if err := store.Append(r); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.Recent(DefaultProjectID, 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	// The newest three, oldest first.
	want := []string{"message 2", "message 3", "message 4"}
	for i, r := range records {
		if r.Content != want[i] {
			t.Errorf("records[%d] = %q, want %q", i, r.Content, want[i])
		}
	}
}

func TestSearchHistory(t *testing.T) {
	store := NewHistoryStore(testDB(t))

	contents := []string{
		"the Elder Council convened at dusk",
		"a wyrm circled the tower",
		"nothing of note happened",
	}
	for i, c := range contents {
		if err := store.Append(record(DefaultProjectID, fmt.Sprintf("msg_%d", i), c, time.Duration(i)*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.SearchHistory("Elder Council", 10)
	if err != nil {
		t.Fatalf("SearchHistory() error = %v", err)
	}
	if len(records) != 1 || records[0].Content != contents[0] {
		t.Errorf("records = %v", records)
	}

	records, err = store.SearchHistory("no such phrase", 10)
	if err != nil {
		t.Fatalf("SearchHistory() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %v, want none", records)
	}
}

func TestSearchHistory_LimitApplied(t *testing.T) {
	store := NewHistoryStore(testDB(t))

	for i := 0; i < 8; i++ {
		if err := store.Append(record(DefaultProjectID, fmt.Sprintf("msg_%d", i), "repeated phrase", time.Duration(i)*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.SearchHistory("repeated", 3)
	if err != nil {
		t.Fatalf("SearchHistory() error = %v", err)
	}
	if len(records) != 3 {
		t.Errorf("records = %d, want 3", len(records))
	}
}

func TestClear_ScopedToProject(t *testing.T) {
	store := NewHistoryStore(testDB(t))

	if err := store.Append(record("proj-a", "msg_a", "keep me? no", 0)); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(record("proj-b", "msg_b", "keep me? yes", 0)); err != nil {
		t.Fatal(err)
	}

	if err := store.Clear("proj-a"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	records, err := store.Recent("proj-a", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("proj-a records = %d, want 0", len(records))
	}

	records, err = store.Recent("proj-b", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("proj-b records = %d, clear must be scoped", len(records))
	}
}
