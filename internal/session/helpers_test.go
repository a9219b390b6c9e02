package session

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/conorfennell/betweenus/internal/catalog"
	"github.com/conorfennell/betweenus/internal/domain"
	"github.com/conorfennell/betweenus/internal/history"
	"github.com/conorfennell/betweenus/internal/storage"
)

// manualScheduler queues callbacks until the test runs them.
type manualScheduler struct {
	queue []*scheduledCall
}

type scheduledCall struct {
	delay    time.Duration
	fn       func()
	canceled bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	c := &scheduledCall{delay: d, fn: fn}
	s.queue = append(s.queue, c)
	return func() { c.canceled = true }
}

// runNext runs the oldest live callback and reports whether there was one.
func (s *manualScheduler) runNext() bool {
	for len(s.queue) > 0 {
		c := s.queue[0]
		s.queue = s.queue[1:]
		if c.canceled {
			continue
		}
		c.fn()
		return true
	}
	return false
}

// runAll runs callbacks until none are left, including ones they schedule.
func (s *manualScheduler) runAll() {
	for s.runNext() {
	}
}

func (s *manualScheduler) pending() int {
	n := 0
	for _, c := range s.queue {
		if !c.canceled {
			n++
		}
	}
	return n
}

type testEnv struct {
	game  *Game
	db    *storage.DB
	hist  *history.Manager
	sched *manualScheduler
	cat   *catalog.Catalog
	now   time.Time
}

func questions(prefix string, n int) []string {
	cards := make([]string, n)
	for i := range cards {
		cards[i] = fmt.Sprintf("%s question %02d", prefix, i)
	}
	return cards
}

func testCatalog() *catalog.Catalog {
	levels := map[domain.LevelID]domain.LevelData{
		domain.Level1: {Name: "Perception", Color: "#e8a87c", Cards: questions("l1", 30)},
		domain.Level2: {Name: "Connection", Color: "#85cdca", Cards: questions("l2", 30)},
		domain.Level3: {Name: "Reflection", Color: "#41b3a3", Cards: questions("l3", 30)},
		domain.Bonus:  {Name: "The 36 Questions", Color: "#c38d9e", Cards: questions("bonus", 36)},
		domain.Spicy:  {Name: "Spicy", Color: "#e27d60", Cards: questions("spicy", 6)},
	}
	wildcards := []domain.Prompt{
		{Text: "Hold hands in silence.", TimerSeconds: 3},
		{Text: "Swap seats."},
	}
	return catalog.New(levels, wildcards, []string{"Why do you think that is?"}, []string{"Write each other a note."})
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("storage.Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:    db,
		sched: &manualScheduler{},
		cat:   testCatalog(),
		now:   time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC),
	}
	env.hist = history.NewManager(db, history.WithClock(env.clock))
	env.game = env.newGame()
	return env
}

func (e *testEnv) clock() time.Time {
	return e.now
}

// newGame builds a fresh game over the same store, as a restart would.
func (e *testEnv) newGame() *Game {
	return New(e.cat, e.db, e.hist, Options{
		Scheduler: e.sched,
		Rand:      rand.New(rand.NewSource(1)),
		Now:       e.clock,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func (e *testEnv) start(t *testing.T, id domain.LevelID) {
	t.Helper()
	if err := e.game.StartLevel(id); err != nil {
		t.Fatalf("StartLevel(%s) error: %v", id, err)
	}
}

// playCard reveals and consumes the current card and lets the transition finish.
func (e *testEnv) playCard() {
	e.game.Reveal()
	e.game.Advance()
	e.sched.runAll()
}

func (e *testEnv) playCards(n int) {
	for i := 0; i < n; i++ {
		e.playCard()
	}
}
