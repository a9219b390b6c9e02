package domain

import "time"

// CardKind distinguishes the three kinds of card a deck can hold.
type CardKind int

const (
	KindQuestion CardKind = iota
	KindWildcard
	KindDigDeeper
)

func (k CardKind) String() string {
	switch k {
	case KindWildcard:
		return "wildcard"
	case KindDigDeeper:
		return "dig-deeper"
	default:
		return "question"
	}
}

// Card is a single prompt in a deck. Its Text is its identity for played
// history and favorites.
type Card struct {
	Kind       CardKind
	Text       string
	Color      string
	ColorLight string
	// SetLabel is only set for ordered decks ("Set I", "Set II", "Set III").
	SetLabel string
	// TimerSeconds is the response window of a timed wildcard; 0 means untimed.
	TimerSeconds int
}

// Question builds a question card styled with the level's colors.
func Question(text string, level LevelData) Card {
	return Card{Kind: KindQuestion, Text: text, Color: level.Color, ColorLight: level.ColorLight}
}

// Wildcard builds a wildcard card from a pool entry.
func Wildcard(p Prompt) Card {
	return Card{Kind: KindWildcard, Text: p.Text, TimerSeconds: p.TimerSeconds}
}

// DigDeeper builds a follow-up prompt card.
func DigDeeper(text string) Card {
	return Card{Kind: KindDigDeeper, Text: text}
}

// IsQuestion reports whether the card counts towards played history and can be favorited.
func (c Card) IsQuestion() bool {
	return c.Kind == KindQuestion
}

// Prompt is an entry of a special pool. Only wildcards use TimerSeconds.
type Prompt struct {
	Text         string
	TimerSeconds int
}

// Favorite records a saved question.
type Favorite struct {
	Text    string
	Level   LevelID
	SavedAt time.Time
}

// Progress is the small slice of a session that survives a restart.
type Progress struct {
	Level            LevelID
	TotalCardsPlayed int
	SavedAt          time.Time
}

// Settings are the user toggles, persisted independently of any session.
type Settings struct {
	QuickPlay    bool
	ScreenDimmed bool
	SoundEnabled bool
}
