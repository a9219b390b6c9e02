package session

import (
	"github.com/conorfennell/betweenus/internal/domain"
)

// Level status labels shown in the menu.
const (
	StatusInProgress = "In progress"
	StatusDone       = "Done"
)

// Snapshot is a read-only copy of everything the presentation layer needs.
type Snapshot struct {
	Screen     Screen
	Level      domain.LevelID
	LevelBadge string
	// LevelInfo is the level's catalog entry without its cards.
	LevelInfo   domain.LevelData
	CatalogSize int

	// Card is the current card; HasCard is false outside of play or once
	// the deck is exhausted.
	Card       domain.Card
	HasCard    bool
	CardNumber int
	IsFavorite bool

	Cursor              int
	DeckSize            int
	CardsPlayed         int
	TotalCardsPlayed    int
	MinCards            int
	DigDeepersRemaining int
	TimerRemaining      int

	Revealed     bool
	Animating    bool
	CanProceed   bool
	CanDigDeeper bool
	CanContinue  bool

	FinalPrompt string
	// EndTotal is the number of cards played over the whole game, kept for
	// the end screen after the session itself is cleared.
	EndTotal int

	Settings    domain.Settings
	LevelStatus map[domain.LevelID]string
}

// Snapshot returns the current state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Screen:              g.screen,
		Level:               g.sess.Level,
		LevelInfo:           g.level,
		Cursor:              g.sess.Cursor,
		DeckSize:            len(g.sess.Deck),
		CardsPlayed:         g.sess.CardsPlayed,
		TotalCardsPlayed:    g.sess.TotalCardsPlayed,
		DigDeepersRemaining: g.sess.DigDeepersRemaining,
		TimerRemaining:      g.sess.TimerRemaining,
		Revealed:            g.sess.Revealed,
		Animating:           g.sess.Animating,
		CanContinue:         g.sess.Level != "",
		FinalPrompt:         g.finalPrompt,
		EndTotal:            g.endTotal,
		Settings:            g.settings,
		LevelStatus:         g.levelStatus(),
	}
	if g.sess.Level != "" {
		s.LevelBadge = g.sess.Level.Badge()
		s.MinCards = g.sess.Level.MinCards(g.settings.QuickPlay)
	}
	s.CatalogSize = len(g.level.Cards)
	s.LevelInfo.Cards = nil

	inPlay := g.screen == ScreenPlaying || g.screen == ScreenMenu
	if inPlay {
		s.CanProceed = g.CanProceed()
		s.CanDigDeeper = g.canDigDeeper()
	}
	if card, ok := g.current(); ok {
		s.Card = card
		s.HasCard = true
		s.CardNumber = g.sess.CardsPlayed + 1
		if card.IsQuestion() {
			fav, err := g.history.IsFavorite(card.Text)
			if err != nil {
				g.log.Warn("Failed to look up favorite", "error", err)
			}
			s.IsFavorite = fav
		}
	}
	return s
}

// levelStatus labels the menu entries: the current level is in progress,
// and the levels before it on the main path are done.
func (g *Game) levelStatus() map[domain.LevelID]string {
	status := make(map[domain.LevelID]string)
	cur := g.sess.Level
	if cur == "" {
		return status
	}
	status[cur] = StatusInProgress

	reached := -1
	for i, l := range domain.MainLevels {
		if l == cur {
			reached = i
		}
	}
	if cur == domain.Bonus {
		reached = len(domain.MainLevels)
	}
	for i := 0; i < reached; i++ {
		status[domain.MainLevels[i]] = StatusDone
	}
	return status
}
