// Package history manages the collections that outlive a single session:
// played-card history, favorites, custom questions, and notes.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/betweenus/internal/domain"
	"github.com/conorfennell/betweenus/internal/knol"
	"github.com/conorfennell/betweenus/internal/parser"
)

// Store is the persistence the manager reads and writes through.
type Store interface {
	PlayedTexts(level domain.LevelID) ([]string, error)
	AddPlayed(level domain.LevelID, text string) error
	ClearPlayed(level domain.LevelID) error
	ClearAllPlayed() error

	Favorites() ([]domain.Favorite, error)
	HasFavorite(text string) (bool, error)
	AddFavorite(f domain.Favorite) error
	RemoveFavorite(text string) error

	CustomQuestions() ([]string, error)
	AddCustomQuestion(text string) error
	RemoveCustomQuestion(index int) error

	Notes() ([]domain.Note, error)
	AppendNote(n domain.Note) error
}

// Manager applies the collection rules on top of a Store.
type Manager struct {
	store Store
	now   func() time.Time
	newID func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used for favorites and notes.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager over store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MarkPlayed records text as served for level. It is idempotent.
func (m *Manager) MarkPlayed(level domain.LevelID, text string) error {
	return m.store.AddPlayed(level, text)
}

// Played returns the set of texts already served for level.
func (m *Manager) Played(level domain.LevelID) (map[string]struct{}, error) {
	texts, err := m.store.PlayedTexts(level)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(texts))
	for _, t := range texts {
		set[t] = struct{}{}
	}
	return set, nil
}

// ResetLevel clears the history of one level.
func (m *Manager) ResetLevel(level domain.LevelID) error {
	return m.store.ClearPlayed(level)
}

// ResetPlayedHistory clears the history of every level.
func (m *Manager) ResetPlayedHistory() error {
	return m.store.ClearAllPlayed()
}

// ToggleFavorite saves card if it is not a favorite yet and removes it
// otherwise. Only questions can be favorited; other cards are ignored. It
// reports whether the card is a favorite afterwards.
func (m *Manager) ToggleFavorite(card domain.Card, level domain.LevelID) (bool, error) {
	if !card.IsQuestion() {
		return false, nil
	}
	saved, err := m.store.HasFavorite(card.Text)
	if err != nil {
		return false, err
	}
	if saved {
		return false, m.store.RemoveFavorite(card.Text)
	}
	return true, m.store.AddFavorite(domain.Favorite{Text: card.Text, Level: level, SavedAt: m.now()})
}

// IsFavorite reports whether text is saved.
func (m *Manager) IsFavorite(text string) (bool, error) {
	return m.store.HasFavorite(text)
}

// Favorites returns saved questions in insertion order.
func (m *Manager) Favorites() ([]domain.Favorite, error) {
	return m.store.Favorites()
}

// AddCustomQuestion appends text to the custom list. Blank text is ignored;
// the returned flag reports whether anything was added.
func (m *Manager) AddCustomQuestion(text string) (bool, error) {
	clean, ok := knol.Clean(text)
	if !ok {
		return false, nil
	}
	if err := m.store.AddCustomQuestion(clean); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveCustomQuestion removes the question at index; out of range is a no-op.
func (m *Manager) RemoveCustomQuestion(index int) error {
	return m.store.RemoveCustomQuestion(index)
}

// CustomQuestions returns the user's questions in order.
func (m *Manager) CustomQuestions() ([]string, error) {
	return m.store.CustomQuestions()
}

// ImportCustomQuestions appends every prompt of a markdown pack to the
// custom list and returns how many were added.
func (m *Manager) ImportCustomQuestions(path string) (int, error) {
	prompts, err := parser.ParseFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to import custom questions from %s: %w", path, err)
	}
	added := 0
	for _, p := range prompts {
		ok, err := m.AddCustomQuestion(p.Text)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// RecordNote appends a two-player note and returns it.
func (m *Manager) RecordNote(entry domain.NoteEntry) (domain.Note, error) {
	n := domain.Note{
		ID:      m.newID(),
		Player1: entry.Player1,
		Name1:   entry.Name1,
		Player2: entry.Player2,
		Name2:   entry.Name2,
		Date:    m.now(),
	}
	if err := m.store.AppendNote(n); err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

// Notes returns every note, legacy ones included, oldest first.
func (m *Manager) Notes() ([]domain.Note, error) {
	return m.store.Notes()
}
