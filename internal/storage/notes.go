package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/conorfennell/betweenus/internal/domain"
)

// noteRecord is the stored JSON form of a note. Legacy notes only set Text.
type noteRecord struct {
	Text    string    `json:"text,omitempty"`
	Player1 string    `json:"player1,omitempty"`
	Name1   string    `json:"name1,omitempty"`
	Player2 string    `json:"player2,omitempty"`
	Name2   string    `json:"name2,omitempty"`
	Date    time.Time `json:"date"`
}

// Notes returns every note in the order it was written. Rows whose payload
// cannot be decoded, or that carry neither shape, are skipped.
func (db *DB) Notes() ([]domain.Note, error) {
	rows, err := db.conn.Query(`SELECT id, payload FROM notes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		var rec noteRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			continue
		}
		if rec.Text == "" && rec.Player1 == "" && rec.Player2 == "" {
			continue
		}
		notes = append(notes, domain.Note{
			ID:      id,
			Text:    rec.Text,
			Player1: rec.Player1,
			Name1:   rec.Name1,
			Player2: rec.Player2,
			Name2:   rec.Name2,
			Date:    rec.Date,
		})
	}
	return notes, rows.Err()
}

// AppendNote stores a note after the existing ones.
func (db *DB) AppendNote(n domain.Note) error {
	payload, err := json.Marshal(noteRecord{
		Text:    n.Text,
		Player1: n.Player1,
		Name1:   n.Name1,
		Player2: n.Player2,
		Name2:   n.Name2,
		Date:    n.Date.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode note %s: %w", n.ID, err)
	}
	if _, err := db.conn.Exec(`INSERT INTO notes (id, payload) VALUES (?, ?)`, n.ID, string(payload)); err != nil {
		return fmt.Errorf("failed to append note %s: %w", n.ID, err)
	}
	return nil
}
