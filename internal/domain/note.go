package domain

import "time"

// Note is an entry in the notes vault. Older installs wrote a single Text;
// current notes carry one message per player.
type Note struct {
	ID      string
	Text    string
	Player1 string
	Name1   string
	Player2 string
	Name2   string
	Date    time.Time
}

// Legacy reports whether the note uses the single-text shape.
func (n Note) Legacy() bool {
	return n.Player1 == "" && n.Player2 == "" && n.Text != ""
}

// NoteEntry is what the two players type on the final card.
type NoteEntry struct {
	Player1 string
	Name1   string
	Player2 string
	Name2   string
}
