package session

import (
	"time"

	"github.com/conorfennell/betweenus/internal/deck"
	"github.com/conorfennell/betweenus/internal/domain"
)

// StartLevel deals a fresh deck for id and starts playing it.
func (g *Game) StartLevel(id domain.LevelID) error {
	data, err := g.levelData(id)
	if err != nil {
		return err
	}
	g.cancelPending()

	played, err := g.history.Played(id)
	if err != nil {
		g.log.Warn("Failed to load played history", "level", id, "error", err)
	}
	res := deck.Build(data, deck.OptionsFor(id, g.settings.QuickPlay), played, g.catalog.Wildcards(), g.rng)
	if res.HistoryReset && len(played) > 0 {
		if err := g.history.ResetLevel(id); err != nil {
			g.log.Warn("Failed to reset played history", "level", id, "error", err)
		}
	}

	g.sess = Session{
		Level:               id,
		Deck:                res.Cards,
		TotalCardsPlayed:    g.sess.TotalCardsPlayed,
		DigDeepersRemaining: id.DigDeeperBudget(),
	}
	g.level = data
	g.stack = nil
	g.screen = ScreenPlaying
	g.log.Info("Level started", "level", id, "cards", len(res.Cards), "history_reset", res.HistoryReset)

	if len(g.sess.Deck) == 0 {
		g.completeLevel()
	}
	g.notify()
	return nil
}

// BeginLevel starts the level shown on the intro screen.
func (g *Game) BeginLevel() error {
	if g.screen != ScreenLevelIntro {
		return nil
	}
	return g.StartLevel(g.sess.Level)
}

func (g *Game) playing() bool {
	return g.screen == ScreenPlaying && !g.sess.Animating && g.sess.Cursor < len(g.sess.Deck)
}

func (g *Game) current() (domain.Card, bool) {
	if g.screen != ScreenPlaying || g.sess.Cursor >= len(g.sess.Deck) {
		return domain.Card{}, false
	}
	return g.sess.Deck[g.sess.Cursor], true
}

// Reveal shows the current card. It does nothing while the previous card is
// still animating away or when the card is already showing.
func (g *Game) Reveal() {
	if !g.playing() || g.sess.Revealed {
		return
	}
	g.sess.Revealed = true
	if card := g.sess.Deck[g.sess.Cursor]; card.Kind == domain.KindWildcard && card.TimerSeconds > 0 {
		g.startTimer(card.TimerSeconds)
	}
	g.notify()
}

// Flip is the single tap on the card: reveal it, or move on if it is
// already revealed.
func (g *Game) Flip() {
	if g.sess.Revealed {
		g.Advance()
		return
	}
	g.Reveal()
}

// Advance consumes the revealed card and moves to the next one.
func (g *Game) Advance() {
	if !g.playing() || !g.sess.Revealed {
		return
	}
	g.step()
	g.notify()
}

// PlayDigDeeper inserts a follow-up prompt after the current card and moves
// onto it. It does nothing once the level's budget is spent.
func (g *Game) PlayDigDeeper() {
	if !g.canDigDeeper() {
		return
	}
	cards, ok := deck.InsertDigDeeper(g.sess.Deck, g.sess.Cursor, g.catalog.DigDeeperPrompts(), g.rng)
	if !ok {
		return
	}
	g.sess.DigDeepersRemaining--
	g.sess.Deck = cards
	g.step()
	g.notify()
}

func (g *Game) canDigDeeper() bool {
	return g.playing() && g.sess.DigDeepersRemaining > 0 && len(g.catalog.DigDeeperPrompts()) > 0
}

// step consumes the current card and schedules the next one to show.
func (g *Game) step() {
	card := g.sess.Deck[g.sess.Cursor]
	if card.IsQuestion() {
		if err := g.history.MarkPlayed(g.sess.Level, card.Text); err != nil {
			g.log.Warn("Failed to mark card played", "level", g.sess.Level, "error", err)
		}
	}
	g.stopTimer()
	g.sess.CardsPlayed++
	g.sess.TotalCardsPlayed++
	g.sess.Cursor++
	g.sess.Revealed = false
	g.sess.Animating = true
	g.cancelSettle = g.sched.AfterFunc(g.revealDelay, g.settle)
}

func (g *Game) settle() {
	g.cancelSettle = nil
	g.sess.Animating = false
	if g.inLevel() && g.sess.Cursor >= len(g.sess.Deck) {
		g.completeLevel()
	}
	g.notify()
}

// inLevel reports whether a deck is being played, either on screen or
// under the menu and the screens opened from it.
func (g *Game) inLevel() bool {
	if g.screen == ScreenPlaying {
		return true
	}
	for _, s := range g.stack {
		if s == ScreenPlaying {
			return true
		}
	}
	return false
}

// CanProceed reports whether enough cards were played to leave the level early.
func (g *Game) CanProceed() bool {
	return g.sess.Level != "" && g.sess.CardsPlayed >= g.sess.Level.MinCards(g.settings.QuickPlay)
}

// Proceed ends the level before the deck runs out.
func (g *Game) Proceed() {
	if g.screen != ScreenPlaying || g.sess.Animating || !g.CanProceed() {
		return
	}
	g.completeLevel()
	g.notify()
}

func (g *Game) completeLevel() {
	g.stopTimer()
	g.stack = nil
	g.log.Info("Level complete", "level", g.sess.Level, "cards_played", g.sess.CardsPlayed)
	if g.sess.Level.IsMain() {
		g.screen = ScreenLevelComplete
		g.saveProgress()
		return
	}
	g.enterFinalCard()
}

func (g *Game) enterFinalCard() {
	g.cancelPending()
	g.finalPrompt = ""
	if prompts := g.catalog.FinalCardPrompts(); len(prompts) > 0 {
		g.finalPrompt = prompts[g.rng.Intn(len(prompts))]
	}
	g.stack = nil
	g.screen = ScreenFinalCard
	g.saveProgress()
}

func (g *Game) startTimer(seconds int) {
	g.stopTimer()
	g.sess.TimerRemaining = seconds
	g.cancelTick = g.sched.AfterFunc(time.Second, g.tick)
}

func (g *Game) tick() {
	g.cancelTick = nil
	if g.sess.TimerRemaining <= 0 {
		return
	}
	g.sess.TimerRemaining--
	if g.sess.TimerRemaining > 0 {
		g.cancelTick = g.sched.AfterFunc(time.Second, g.tick)
	}
	g.notify()
}

func (g *Game) stopTimer() {
	if g.cancelTick != nil {
		g.cancelTick()
		g.cancelTick = nil
	}
	g.sess.TimerRemaining = 0
}

// ToggleFavorite saves or unsaves the current card if it is a question.
func (g *Game) ToggleFavorite() {
	card, ok := g.current()
	if !ok || !card.IsQuestion() {
		return
	}
	if _, err := g.history.ToggleFavorite(card, g.sess.Level); err != nil {
		g.log.Warn("Failed to toggle favorite", "error", err)
	}
	g.notify()
}

// AddCustomQuestion appends a question to the custom list. Blank text is
// ignored.
func (g *Game) AddCustomQuestion(text string) bool {
	added, err := g.history.AddCustomQuestion(text)
	if err != nil {
		g.log.Warn("Failed to add custom question", "error", err)
	}
	g.notify()
	return added
}

// RemoveCustomQuestion removes the custom question at index.
func (g *Game) RemoveCustomQuestion(index int) {
	if err := g.history.RemoveCustomQuestion(index); err != nil {
		g.log.Warn("Failed to remove custom question", "index", index, "error", err)
	}
	g.notify()
}

// ResetPlayedHistory forgets which questions were served on every level.
func (g *Game) ResetPlayedHistory() {
	if err := g.history.ResetPlayedHistory(); err != nil {
		g.log.Warn("Failed to reset played history", "error", err)
	}
	g.notify()
}

// SetQuickPlay toggles quick play. It applies to the minimum-card checks
// right away and to history resets from the next deck on.
func (g *Game) SetQuickPlay(on bool) {
	g.updateSettings(func(s *domain.Settings) { s.QuickPlay = on })
}

// SetScreenDimmed toggles the dimmed screen.
func (g *Game) SetScreenDimmed(on bool) {
	g.updateSettings(func(s *domain.Settings) { s.ScreenDimmed = on })
}

// SetSoundEnabled toggles sound.
func (g *Game) SetSoundEnabled(on bool) {
	g.updateSettings(func(s *domain.Settings) { s.SoundEnabled = on })
}

func (g *Game) updateSettings(fn func(*domain.Settings)) {
	fn(&g.settings)
	if err := g.store.SaveSettings(g.settings); err != nil {
		g.log.Warn("Failed to save settings", "error", err)
	}
	g.notify()
}
