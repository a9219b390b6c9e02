package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/conorfennell/betweenus/internal/domain"
	"github.com/conorfennell/betweenus/internal/knol"
)

// PlayedTexts returns the question texts already served for a level.
func (db *DB) PlayedTexts(level domain.LevelID) ([]string, error) {
	rows, err := db.conn.Query(`SELECT text FROM played WHERE level = ?`, string(level))
	if err != nil {
		return nil, fmt.Errorf("failed to get played cards for level %s: %w", level, err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan played row for level %s: %w", level, err)
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}

// AddPlayed records a served question. Recording it twice is a no-op.
func (db *DB) AddPlayed(level domain.LevelID, text string) error {
	_, err := db.conn.Exec(`
		INSERT OR IGNORE INTO played (level, key, text) VALUES (?, ?, ?)
	`, string(level), knol.Key(text), text)
	if err != nil {
		return fmt.Errorf("failed to mark card played for level %s: %w", level, err)
	}
	return nil
}

// ClearPlayed forgets the played history of one level.
func (db *DB) ClearPlayed(level domain.LevelID) error {
	if _, err := db.conn.Exec(`DELETE FROM played WHERE level = ?`, string(level)); err != nil {
		return fmt.Errorf("failed to clear played cards for level %s: %w", level, err)
	}
	return nil
}

// ClearAllPlayed forgets the played history of every level.
func (db *DB) ClearAllPlayed() error {
	if _, err := db.conn.Exec(`DELETE FROM played`); err != nil {
		return fmt.Errorf("failed to clear played cards: %w", err)
	}
	return nil
}

// Favorites returns saved questions in the order they were saved.
func (db *DB) Favorites() ([]domain.Favorite, error) {
	rows, err := db.conn.Query(`SELECT text, level, saved_at FROM favorites ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}
	defer rows.Close()

	var favs []domain.Favorite
	for rows.Next() {
		var (
			f       domain.Favorite
			level   string
			savedAt int64
		)
		if err := rows.Scan(&f.Text, &level, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		f.Level = domain.LevelID(level)
		f.SavedAt = time.UnixMilli(savedAt)
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

// HasFavorite reports whether the exact text is saved.
func (db *DB) HasFavorite(text string) (bool, error) {
	var one int
	err := db.conn.QueryRow(`SELECT 1 FROM favorites WHERE key = ?`, knol.Key(text)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up favorite: %w", err)
	}
	return true, nil
}

// AddFavorite appends a favorite. A text already saved is left untouched.
func (db *DB) AddFavorite(f domain.Favorite) error {
	_, err := db.conn.Exec(`
		INSERT OR IGNORE INTO favorites (key, text, level, saved_at) VALUES (?, ?, ?, ?)
	`, knol.Key(f.Text), f.Text, string(f.Level), f.SavedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes the favorite with the exact text, if any.
func (db *DB) RemoveFavorite(text string) error {
	if _, err := db.conn.Exec(`DELETE FROM favorites WHERE key = ?`, knol.Key(text)); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// CustomQuestions returns the user's questions in the order they were added.
func (db *DB) CustomQuestions() ([]string, error) {
	rows, err := db.conn.Query(`SELECT text FROM custom_questions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to get custom questions: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan custom question row: %w", err)
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}

// AddCustomQuestion appends a question to the custom list.
func (db *DB) AddCustomQuestion(text string) error {
	if _, err := db.conn.Exec(`INSERT INTO custom_questions (text) VALUES (?)`, text); err != nil {
		return fmt.Errorf("failed to add custom question: %w", err)
	}
	return nil
}

// RemoveCustomQuestion deletes the question at the given position of the
// ordered list. An index outside the list is a no-op.
func (db *DB) RemoveCustomQuestion(index int) error {
	if index < 0 {
		return nil
	}
	_, err := db.conn.Exec(`
		DELETE FROM custom_questions
		WHERE seq = (SELECT seq FROM custom_questions ORDER BY seq LIMIT 1 OFFSET ?)
	`, index)
	if err != nil {
		return fmt.Errorf("failed to remove custom question %d: %w", index, err)
	}
	return nil
}
