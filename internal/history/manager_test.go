package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/conorfennell/betweenus/internal/domain"
	"github.com/conorfennell/betweenus/internal/storage"
)

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("storage.Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewManager(db, opts...)
}

func TestMarkPlayed(t *testing.T) {
	m := newTestManager(t)

	for _, text := range []string{"A", "A", "B"} {
		if err := m.MarkPlayed(domain.Level1, text); err != nil {
			t.Fatalf("MarkPlayed() error: %v", err)
		}
	}
	played, err := m.Played(domain.Level1)
	if err != nil {
		t.Fatalf("Played() error: %v", err)
	}
	if len(played) != 2 {
		t.Fatalf("Expected 2 played texts, got %v", played)
	}
	if _, ok := played["A"]; !ok {
		t.Error("Expected A to be played")
	}

	if err := m.MarkPlayed(domain.Level2, "C"); err != nil {
		t.Fatalf("MarkPlayed() error: %v", err)
	}
	if err := m.ResetLevel(domain.Level1); err != nil {
		t.Fatalf("ResetLevel() error: %v", err)
	}
	if played, _ := m.Played(domain.Level1); len(played) != 0 {
		t.Errorf("Expected level1 history cleared, got %v", played)
	}
	if played, _ := m.Played(domain.Level2); len(played) != 1 {
		t.Errorf("Expected level2 history kept, got %v", played)
	}

	if err := m.ResetPlayedHistory(); err != nil {
		t.Fatalf("ResetPlayedHistory() error: %v", err)
	}
	if played, _ := m.Played(domain.Level2); len(played) != 0 {
		t.Errorf("Expected all history cleared, got %v", played)
	}
}

func TestToggleFavorite(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	card := domain.Card{Kind: domain.KindQuestion, Text: "X"}

	before, _ := m.Favorites()

	added, err := m.ToggleFavorite(card, domain.Level1)
	if err != nil || !added {
		t.Fatalf("Expected first toggle to add, got (%v, %v)", added, err)
	}
	if ok, _ := m.IsFavorite("X"); !ok {
		t.Error("Expected X to be a favorite")
	}

	added, err = m.ToggleFavorite(card, domain.Level1)
	if err != nil || added {
		t.Fatalf("Expected second toggle to remove, got (%v, %v)", added, err)
	}
	after, _ := m.Favorites()
	if len(after) != len(before) {
		t.Errorf("Expected favorites to return to %d entries, got %d", len(before), len(after))
	}

	t.Run("non-question cards are ignored", func(t *testing.T) {
		for _, c := range []domain.Card{
			{Kind: domain.KindWildcard, Text: "W"},
			{Kind: domain.KindDigDeeper, Text: "D"},
		} {
			added, err := m.ToggleFavorite(c, domain.Level1)
			if err != nil || added {
				t.Errorf("Expected %v to be ignored, got (%v, %v)", c.Kind, added, err)
			}
		}
		if favs, _ := m.Favorites(); len(favs) != 0 {
			t.Errorf("Expected no favorites, got %+v", favs)
		}
	})

	t.Run("insertion order", func(t *testing.T) {
		for _, text := range []string{"one", "two"} {
			if _, err := m.ToggleFavorite(domain.Card{Kind: domain.KindQuestion, Text: text}, domain.Level2); err != nil {
				t.Fatalf("ToggleFavorite() error: %v", err)
			}
		}
		favs, _ := m.Favorites()
		if len(favs) != 2 || favs[0].Text != "one" || favs[1].Text != "two" || favs[0].Level != domain.Level2 {
			t.Errorf("Unexpected favorites %+v", favs)
		}
		if !favs[0].SavedAt.Before(favs[1].SavedAt) {
			t.Error("Expected SavedAt to come from the clock")
		}
	})
}

func TestCustomQuestions(t *testing.T) {
	m := newTestManager(t)

	for _, tc := range []struct {
		text  string
		added bool
	}{
		{"  What do you want more of?  ", true},
		{"", false},
		{"   \t ", false},
		{"What do you want less of?", true},
	} {
		added, err := m.AddCustomQuestion(tc.text)
		if err != nil {
			t.Fatalf("AddCustomQuestion(%q) error: %v", tc.text, err)
		}
		if added != tc.added {
			t.Errorf("AddCustomQuestion(%q) = %v, want %v", tc.text, added, tc.added)
		}
	}

	qs, err := m.CustomQuestions()
	if err != nil {
		t.Fatalf("CustomQuestions() error: %v", err)
	}
	if len(qs) != 2 || qs[0] != "What do you want more of?" {
		t.Fatalf("Unexpected custom questions %q", qs)
	}

	if err := m.RemoveCustomQuestion(0); err != nil {
		t.Fatalf("RemoveCustomQuestion() error: %v", err)
	}
	if err := m.RemoveCustomQuestion(-1); err != nil {
		t.Fatalf("RemoveCustomQuestion(-1) error: %v", err)
	}
	qs, _ = m.CustomQuestions()
	if len(qs) != 1 || qs[0] != "What do you want less of?" {
		t.Errorf("Unexpected custom questions after remove %q", qs)
	}
}

func TestImportCustomQuestions(t *testing.T) {
	m := newTestManager(t)
	path := filepath.Join(t.TempDir(), "ours.md")
	if err := os.WriteFile(path, []byte("Q: Where should we go next?\n\nQ: What should we stop doing?\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	n, err := m.ImportCustomQuestions(path)
	if err != nil {
		t.Fatalf("ImportCustomQuestions() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 imported, got %d", n)
	}
	if qs, _ := m.CustomQuestions(); len(qs) != 2 || qs[1] != "What should we stop doing?" {
		t.Errorf("Unexpected custom questions %q", qs)
	}

	if _, err := m.ImportCustomQuestions(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestRecordNoteRoundTrip(t *testing.T) {
	date := time.Date(2026, 2, 14, 21, 30, 0, 0, time.UTC)
	m := newTestManager(t, WithClock(func() time.Time { return date }))

	entry := domain.NoteEntry{
		Player1: "I loved the question about our first trip.\nLet's go back.",
		Name1:   "Sam",
		Player2: "  Thank you for listening ",
		Name2:   "Alex",
	}
	rec, err := m.RecordNote(entry)
	if err != nil {
		t.Fatalf("RecordNote() error: %v", err)
	}
	if rec.ID == "" {
		t.Error("Expected the note to get an ID")
	}

	notes, err := m.Notes()
	if err != nil {
		t.Fatalf("Notes() error: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("Expected 1 note, got %d", len(notes))
	}
	got := notes[0]
	if got.Player1 != entry.Player1 || got.Name1 != entry.Name1 || got.Player2 != entry.Player2 || got.Name2 != entry.Name2 {
		t.Errorf("Note did not round trip: %+v", got)
	}
	if got.Legacy() || got.ID != rec.ID || !got.Date.Equal(date) {
		t.Errorf("Unexpected note metadata %+v", got)
	}
}
