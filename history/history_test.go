package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/enesbasbug/Local-Voice-Dictation/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Add(types.HistoryEntry{Text: "hello world"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if entry.ID == "" {
		t.Error("expected an assigned ID")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("expected an assigned CreatedAt")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		_, err := s.Add(types.HistoryEntry{
			Text:      fmt.Sprintf("entry %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	entries, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	for i, want := range []string{"entry 4", "entry 3", "entry 2"} {
		if entries[i].Text != want {
			t.Errorf("entries[%d].Text = %q, want %q", i, entries[i].Text, want)
		}
	}
}

func TestRecentFewerThanRequested(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add(types.HistoryEntry{Text: "only one"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
}

func TestGet(t *testing.T) {
	s := newTestStore(t)

	added, err := s.Add(types.HistoryEntry{Text: "find me", Language: "en"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, ok, err := s.Get(added.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected entry to be found")
	}
	if got.Text != "find me" || got.Language != "en" {
		t.Errorf("got %+v", got)
	}

	_, ok, err = s.Get("no-such-id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected missing ID to report not found")
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.Add(types.HistoryEntry{Text: "x"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d after Clear, want 0", len(entries))
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := New(dir, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Add(types.HistoryEntry{Text: "persisted"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = New(dir, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	entries, err := s.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Text != "persisted" {
		t.Errorf("entries = %+v", entries)
	}
}
