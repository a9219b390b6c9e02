// Package session holds the live play state and the screen flow around it.
//
// A Game is not safe for concurrent use. Every operation, including the
// callbacks handed to the Scheduler, must run on the same goroutine.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/conorfennell/betweenus/internal/domain"
	"github.com/conorfennell/betweenus/internal/history"
)

var (
	ErrUnknownLevel      = errors.New("unknown level")
	ErrNoCustomQuestions = errors.New("no custom questions")
	ErrNoProgress        = errors.New("no saved progress")
)

// Defaults used when Options leaves a field zero.
const (
	DefaultRevealDelay = 150 * time.Millisecond
	DefaultProgressTTL = 24 * time.Hour
)

// Catalog is the read-only card content.
type Catalog interface {
	Level(id domain.LevelID) (domain.LevelData, bool)
	Wildcards() []domain.Prompt
	DigDeeperPrompts() []string
	FinalCardPrompts() []string
}

// Store persists progress and settings.
type Store interface {
	LoadProgress() (*domain.Progress, error)
	SaveProgress(p domain.Progress) error
	ClearProgress() error
	LoadSettings() (domain.Settings, error)
	SaveSettings(s domain.Settings) error
}

// Options configure a Game.
type Options struct {
	Scheduler Scheduler
	Rand      *rand.Rand
	Now       func() time.Time
	Logger    *slog.Logger
	// RevealDelay is how long the next card stays hidden after an advance.
	RevealDelay time.Duration
	// ProgressTTL is how old saved progress may be and still be resumed.
	ProgressTTL time.Duration
}

// Session is the state of the level being played.
type Session struct {
	Level               domain.LevelID
	Deck                []domain.Card
	Cursor              int
	CardsPlayed         int
	TotalCardsPlayed    int
	DigDeepersRemaining int
	Revealed            bool
	Animating           bool
	TimerRemaining      int
}

// Game drives a session through the screens.
type Game struct {
	catalog Catalog
	store   Store
	history *history.Manager
	sched   Scheduler
	rng     *rand.Rand
	now     func() time.Time
	log     *slog.Logger

	revealDelay time.Duration
	progressTTL time.Duration

	settings    domain.Settings
	sess        Session
	level       domain.LevelData
	screen      Screen
	stack       []Screen
	finalPrompt string
	endTotal    int

	cancelSettle func()
	cancelTick   func()
	subscribers  []func(Snapshot)
}

// New creates a game on the welcome screen, restoring settings and any
// saved progress that is still fresh.
func New(catalog Catalog, store Store, hist *history.Manager, opts Options) *Game {
	g := &Game{
		catalog:     catalog,
		store:       store,
		history:     hist,
		sched:       opts.Scheduler,
		rng:         opts.Rand,
		now:         opts.Now,
		log:         opts.Logger,
		revealDelay: opts.RevealDelay,
		progressTTL: opts.ProgressTTL,
		screen:      ScreenWelcome,
	}
	if g.sched == nil {
		g.sched = NewLoopScheduler()
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	if g.revealDelay <= 0 {
		g.revealDelay = DefaultRevealDelay
	}
	if g.progressTTL <= 0 {
		g.progressTTL = DefaultProgressTTL
	}

	if s, err := store.LoadSettings(); err != nil {
		g.log.Warn("Failed to load settings", "error", err)
	} else {
		g.settings = s
	}
	g.loadProgress()
	return g
}

// Subscribe registers fn to receive a snapshot after every operation.
func (g *Game) Subscribe(fn func(Snapshot)) {
	g.subscribers = append(g.subscribers, fn)
}

func (g *Game) notify() {
	if len(g.subscribers) == 0 {
		return
	}
	snap := g.Snapshot()
	for _, fn := range g.subscribers {
		fn(snap)
	}
}

func (g *Game) loadProgress() {
	p, err := g.store.LoadProgress()
	if err != nil {
		g.log.Warn("Failed to load progress", "error", err)
		return
	}
	if p == nil {
		return
	}
	if age := g.now().Sub(p.SavedAt); age > g.progressTTL {
		g.log.Debug("Ignoring stale progress", "level", p.Level, "age", age)
		return
	}
	if _, ok := g.catalog.Level(p.Level); !ok {
		g.log.Debug("Ignoring progress for a level missing from the catalog", "level", p.Level)
		return
	}
	g.sess.Level = p.Level
	g.sess.TotalCardsPlayed = p.TotalCardsPlayed
}

func (g *Game) saveProgress() {
	p := domain.Progress{Level: g.sess.Level, TotalCardsPlayed: g.sess.TotalCardsPlayed, SavedAt: g.now()}
	if err := g.store.SaveProgress(p); err != nil {
		g.log.Warn("Failed to save progress", "level", p.Level, "error", err)
	}
}

func (g *Game) clearProgress() {
	if err := g.store.ClearProgress(); err != nil {
		g.log.Warn("Failed to clear progress", "error", err)
	}
	g.sess = Session{}
}

// levelData resolves id against the catalog. The custom level takes its
// cards from the user's custom questions.
func (g *Game) levelData(id domain.LevelID) (domain.LevelData, error) {
	if !id.Valid() {
		return domain.LevelData{}, fmt.Errorf("%w: %q", ErrUnknownLevel, id)
	}
	data, ok := g.catalog.Level(id)
	if !ok {
		return domain.LevelData{}, fmt.Errorf("%w: %q is not in the catalog", ErrUnknownLevel, id)
	}
	if id == domain.Custom {
		qs, err := g.history.CustomQuestions()
		if err != nil {
			g.log.Warn("Failed to load custom questions", "error", err)
		}
		if len(qs) == 0 {
			return domain.LevelData{}, ErrNoCustomQuestions
		}
		data.Cards = qs
	}
	return data, nil
}

// cancelPending drops the settle callback and the wildcard countdown.
func (g *Game) cancelPending() {
	if g.cancelSettle != nil {
		g.cancelSettle()
		g.cancelSettle = nil
	}
	g.sess.Animating = false
	g.stopTimer()
}
