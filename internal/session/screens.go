package session

import (
	"strings"

	"github.com/conorfennell/betweenus/internal/domain"
)

// Screen identifies what the presentation layer should show.
type Screen string

const (
	ScreenWelcome         Screen = "welcome"
	ScreenLevelIntro      Screen = "level-intro"
	ScreenPlaying         Screen = "playing"
	ScreenLevelComplete   Screen = "level-complete"
	ScreenFinalCard       Screen = "final-card"
	ScreenEnd             Screen = "end"
	ScreenMenu            Screen = "menu"
	ScreenNotesVault      Screen = "notes-vault"
	ScreenFavorites       Screen = "favorites"
	ScreenCustomQuestions Screen = "custom-questions"
)

// utility reports whether s is one of the screens opened on top of Menu or Welcome.
func (s Screen) utility() bool {
	return s == ScreenNotesVault || s == ScreenFavorites || s == ScreenCustomQuestions
}

// SelectLevel shows the intro of level id, dropping any deck in play. It
// fails if the level cannot be played: unknown, missing from the catalog, or
// custom with no questions.
func (g *Game) SelectLevel(id domain.LevelID) error {
	data, err := g.levelData(id)
	if err != nil {
		return err
	}
	g.cancelPending()
	g.sess = Session{Level: id, TotalCardsPlayed: g.sess.TotalCardsPlayed}
	g.level = data
	g.stack = nil
	g.screen = ScreenLevelIntro
	g.notify()
	return nil
}

// Continue shows the intro of the level saved in progress.
func (g *Game) Continue() error {
	if g.sess.Level == "" {
		return ErrNoProgress
	}
	return g.SelectLevel(g.sess.Level)
}

// NextLevel moves from a completed level1 or level2 to the next intro.
func (g *Game) NextLevel() error {
	if g.screen != ScreenLevelComplete {
		return nil
	}
	next, ok := g.sess.Level.Next()
	if !ok {
		return nil
	}
	return g.SelectLevel(next)
}

// GoToBonus offers the bonus round after level3.
func (g *Game) GoToBonus() error {
	if g.screen != ScreenLevelComplete || g.sess.Level != domain.Level3 {
		return nil
	}
	return g.SelectLevel(domain.Bonus)
}

// GoToFinalCard skips straight to the final card after level3.
func (g *Game) GoToFinalCard() {
	if g.screen != ScreenLevelComplete || g.sess.Level != domain.Level3 {
		return
	}
	g.enterFinalCard()
	g.notify()
}

// SaveNote records what the players wrote on the final card and ends the
// game. A note where both messages are blank is not recorded.
func (g *Game) SaveNote(entry domain.NoteEntry) {
	if g.screen != ScreenFinalCard {
		return
	}
	if strings.TrimSpace(entry.Player1) != "" || strings.TrimSpace(entry.Player2) != "" {
		if _, err := g.history.RecordNote(entry); err != nil {
			g.log.Warn("Failed to record note", "error", err)
		}
	}
	g.enterEnd()
	g.notify()
}

// SkipNote ends the game without a note.
func (g *Game) SkipNote() {
	if g.screen != ScreenFinalCard {
		return
	}
	g.enterEnd()
	g.notify()
}

func (g *Game) enterEnd() {
	g.cancelPending()
	g.endTotal = g.sess.TotalCardsPlayed
	g.clearProgress()
	g.level = domain.LevelData{}
	g.stack = nil
	g.screen = ScreenEnd
	g.log.Info("Game over", "total_cards_played", g.endTotal)
}

// Reset forgets the session and returns to the welcome screen. Played
// history, favorites, custom questions, settings, and notes are kept.
func (g *Game) Reset() {
	g.cancelPending()
	g.clearProgress()
	g.level = domain.LevelData{}
	g.finalPrompt = ""
	g.endTotal = 0
	g.stack = nil
	g.screen = ScreenWelcome
	g.notify()
}

// OpenMenu shows the menu over the card being played.
func (g *Game) OpenMenu() {
	if g.screen != ScreenPlaying {
		return
	}
	g.stopTimer()
	g.push(ScreenMenu)
	g.notify()
}

// CloseMenu returns to the card.
func (g *Game) CloseMenu() {
	if g.screen != ScreenMenu {
		return
	}
	g.pop()
	g.notify()
}

// OpenScreen opens a utility screen (notes vault, favorites, custom
// questions) from the menu or the welcome screen.
func (g *Game) OpenScreen(s Screen) {
	if !s.utility() || (g.screen != ScreenMenu && g.screen != ScreenWelcome) {
		return
	}
	g.push(s)
	g.notify()
}

// Back leaves the menu or a utility screen for the screen it was opened from.
func (g *Game) Back() {
	if g.screen != ScreenMenu && !g.screen.utility() {
		return
	}
	g.pop()
	g.notify()
}

func (g *Game) push(s Screen) {
	g.stack = append(g.stack, g.screen)
	g.screen = s
}

func (g *Game) pop() {
	if len(g.stack) == 0 {
		g.screen = ScreenWelcome
		return
	}
	g.screen = g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
}
