package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/conorfennell/betweenus/internal/domain"
	"github.com/conorfennell/betweenus/internal/history"
	"github.com/conorfennell/betweenus/internal/session"
)

const helpText = `Commands:
  level <id>        pick a level (level1 level2 level3 bonus spicy anniversary custom)
  continue          resume the saved level
  begin             start the level on the intro screen
  <enter> | flip    reveal the card, or move on once it is showing
  dig               play a Dig Deeper card
  proceed           finish the level early
  fav               save or unsave the current question
  menu | close      open or close the menu
  open <screen>     notes | favorites | custom
  back              leave the menu or a utility screen
  next | bonus | final
                    choices after a level is complete
  note <name>: <message> | <name>: <message>
  skip              end without a note
  add <question>    add a custom question
  remove <n>        remove custom question n
  quick|dim|sound on|off
  forget            reset played history
  reset             back to the welcome screen
  quit`

// terminal renders snapshots as text and turns input lines into game operations.
type terminal struct {
	game *session.Game
	hist *history.Manager
	out  io.Writer
	last session.Snapshot
}

func newTerminal(game *session.Game, hist *history.Manager, out io.Writer) *terminal {
	return &terminal{game: game, hist: hist, out: out}
}

// handle runs one input line and reports whether the user asked to quit.
func (t *terminal) handle(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "", "flip":
		t.game.Flip()
	case "reveal":
		t.game.Reveal()
	case "advance":
		t.game.Advance()
	case "dig":
		t.game.PlayDigDeeper()
	case "proceed":
		t.game.Proceed()
	case "fav":
		t.game.ToggleFavorite()
	case "level":
		t.report(t.game.SelectLevel(domain.LevelID(arg)))
	case "continue":
		t.report(t.game.Continue())
	case "begin":
		t.report(t.game.BeginLevel())
	case "next":
		t.report(t.game.NextLevel())
	case "bonus":
		t.report(t.game.GoToBonus())
	case "final":
		t.game.GoToFinalCard()
	case "note":
		entry, ok := parseNote(arg)
		if !ok {
			fmt.Fprintln(t.out, "usage: note <name>: <message> | <name>: <message>")
			return false
		}
		t.game.SaveNote(entry)
	case "skip":
		t.game.SkipNote()
	case "menu":
		t.game.OpenMenu()
	case "close":
		t.game.CloseMenu()
	case "back":
		t.game.Back()
	case "open":
		s, ok := utilityScreens[arg]
		if !ok {
			fmt.Fprintln(t.out, "usage: open notes|favorites|custom")
			return false
		}
		t.game.OpenScreen(s)
	case "add":
		if !t.game.AddCustomQuestion(arg) {
			fmt.Fprintln(t.out, "Nothing to add.")
		}
	case "remove":
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintln(t.out, "usage: remove <n>")
			return false
		}
		t.game.RemoveCustomQuestion(n - 1)
	case "quick", "dim", "sound":
		on, ok := parseToggle(arg)
		if !ok {
			fmt.Fprintf(t.out, "usage: %s on|off\n", cmd)
			return false
		}
		switch cmd {
		case "quick":
			t.game.SetQuickPlay(on)
		case "dim":
			t.game.SetScreenDimmed(on)
		case "sound":
			t.game.SetSoundEnabled(on)
		}
	case "forget":
		t.game.ResetPlayedHistory()
	case "reset":
		t.game.Reset()
	case "help":
		fmt.Fprintln(t.out, helpText)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(t.out, "Unknown command %q, try help.\n", cmd)
	}
	return false
}

var utilityScreens = map[string]session.Screen{
	"notes":     session.ScreenNotesVault,
	"favorites": session.ScreenFavorites,
	"custom":    session.ScreenCustomQuestions,
}

func (t *terminal) report(err error) {
	if err != nil {
		fmt.Fprintf(t.out, "Error: %v\n", err)
	}
}

func parseToggle(s string) (bool, bool) {
	switch s {
	case "on":
		return true, true
	case "off":
		return false, true
	}
	return false, false
}

// parseNote reads "Sam: see you | Alex: yes". Either side may be empty and
// a side without a colon has no name.
func parseNote(s string) (domain.NoteEntry, bool) {
	if strings.TrimSpace(s) == "" {
		return domain.NoteEntry{}, false
	}
	first, second, _ := strings.Cut(s, "|")
	var e domain.NoteEntry
	e.Name1, e.Player1 = splitSpeaker(first)
	e.Name2, e.Player2 = splitSpeaker(second)
	return e, true
}

func splitSpeaker(s string) (name, message string) {
	name, message, ok := strings.Cut(s, ":")
	if !ok {
		return "", strings.TrimSpace(s)
	}
	return strings.TrimSpace(name), strings.TrimSpace(message)
}

// render prints the snapshot. A countdown tick only prints the time left.
func (t *terminal) render(s session.Snapshot) {
	prev := t.last
	t.last = s
	if s.Screen == session.ScreenPlaying && prev.Screen == s.Screen &&
		prev.Cursor == s.Cursor && prev.Revealed == s.Revealed &&
		prev.Animating == s.Animating && prev.IsFavorite == s.IsFavorite &&
		prev.TimerRemaining != s.TimerRemaining {
		fmt.Fprintf(t.out, "  %ds\n", s.TimerRemaining)
		return
	}
	if s.Screen == session.ScreenPlaying && s.Animating {
		return
	}

	w := t.out
	switch s.Screen {
	case session.ScreenWelcome:
		fmt.Fprintln(w, "== Between Us ==")
		if s.CanContinue {
			fmt.Fprintf(w, "continue: %s (%d cards so far)\n", s.LevelBadge, s.TotalCardsPlayed)
		}
		fmt.Fprintln(w, "Pick a level with: level <id>. Type help for commands.")
	case session.ScreenLevelIntro:
		fmt.Fprintf(w, "== %s: %s ==\n", s.LevelBadge, s.LevelInfo.Name)
		if s.LevelInfo.Subtitle != "" {
			fmt.Fprintln(w, s.LevelInfo.Subtitle)
		}
		if s.LevelInfo.Description != "" {
			fmt.Fprintln(w, s.LevelInfo.Description)
		}
		fmt.Fprintf(w, "%d cards. Type begin.\n", s.CatalogSize)
	case session.ScreenPlaying:
		t.renderCard(s)
	case session.ScreenLevelComplete:
		fmt.Fprintf(w, "== %s complete: %d cards ==\n", s.LevelBadge, s.CardsPlayed)
		if s.Level == domain.Level3 {
			fmt.Fprintln(w, "bonus: the 36 questions, final: the last card")
		} else {
			fmt.Fprintln(w, "next: on to the next level")
		}
	case session.ScreenFinalCard:
		fmt.Fprintln(w, "== One last card ==")
		fmt.Fprintln(w, s.FinalPrompt)
		fmt.Fprintln(w, "note <name>: <message> | <name>: <message>, or skip")
	case session.ScreenEnd:
		fmt.Fprintf(w, "== The end: %d cards together ==\n", s.EndTotal)
	case session.ScreenMenu:
		t.renderMenu(s)
	case session.ScreenNotesVault:
		t.renderNotes()
	case session.ScreenFavorites:
		t.renderFavorites()
	case session.ScreenCustomQuestions:
		t.renderCustom()
	}
}

func (t *terminal) renderCard(s session.Snapshot) {
	w := t.out
	if !s.HasCard {
		return
	}
	header := fmt.Sprintf("[%s] card %d", s.LevelBadge, s.CardNumber)
	if s.Card.SetLabel != "" {
		header += " · " + s.Card.SetLabel
	}
	if !s.Revealed {
		fmt.Fprintf(w, "%s: %s, press enter\n", header, s.Card.Kind)
		return
	}
	fmt.Fprintf(w, "%s\n  %s\n", header, s.Card.Text)
	if s.TimerRemaining > 0 {
		fmt.Fprintf(w, "  %ds\n", s.TimerRemaining)
	}
	var hints []string
	if s.IsFavorite {
		hints = append(hints, "saved")
	}
	if s.CanDigDeeper {
		hints = append(hints, "dig")
	}
	if s.CanProceed {
		hints = append(hints, "proceed")
	}
	if len(hints) > 0 {
		fmt.Fprintf(w, "  (%s)\n", strings.Join(hints, ", "))
	}
}

func (t *terminal) renderMenu(s session.Snapshot) {
	w := t.out
	fmt.Fprintln(w, "== Menu ==")
	for _, id := range domain.AllLevels {
		line := "  " + string(id)
		if status, ok := s.LevelStatus[id]; ok {
			line += " (" + status + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "quick play %s, dimmed %s, sound %s\n",
		onOff(s.Settings.QuickPlay), onOff(s.Settings.ScreenDimmed), onOff(s.Settings.SoundEnabled))
	fmt.Fprintln(w, "open notes|favorites|custom, close")
}

func (t *terminal) renderNotes() {
	w := t.out
	fmt.Fprintln(w, "== Notes ==")
	notes, err := t.hist.Notes()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if len(notes) == 0 {
		fmt.Fprintln(w, "  nothing yet")
	}
	for _, n := range notes {
		date := n.Date.Format("2 Jan 2006")
		if n.Legacy() {
			fmt.Fprintf(w, "  %s  %s\n", date, n.Text)
			continue
		}
		fmt.Fprintf(w, "  %s\n", date)
		if n.Player1 != "" {
			fmt.Fprintf(w, "    %s: %s\n", orDefault(n.Name1, "Player 1"), n.Player1)
		}
		if n.Player2 != "" {
			fmt.Fprintf(w, "    %s: %s\n", orDefault(n.Name2, "Player 2"), n.Player2)
		}
	}
}

func (t *terminal) renderFavorites() {
	w := t.out
	fmt.Fprintln(w, "== Favorites ==")
	favs, err := t.hist.Favorites()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if len(favs) == 0 {
		fmt.Fprintln(w, "  nothing yet")
	}
	for _, f := range favs {
		fmt.Fprintf(w, "  [%s] %s\n", f.Level.Badge(), f.Text)
	}
}

func (t *terminal) renderCustom() {
	w := t.out
	fmt.Fprintln(w, "== Your questions ==")
	qs, err := t.hist.CustomQuestions()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if len(qs) == 0 {
		fmt.Fprintln(w, "  nothing yet, add <question>")
	}
	for i, q := range qs {
		fmt.Fprintf(w, "  %d. %s\n", i+1, q)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
