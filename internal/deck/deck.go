// Package deck builds the ordered card sequence for a level session.
package deck

import (
	"math/rand"

	"github.com/conorfennell/betweenus/internal/domain"
)

// WildcardEvery is the number of questions between two wildcards.
const WildcardEvery = 5

// Below these many unplayed questions, a level's history is reset.
const (
	MinUnplayed      = 15
	MinUnplayedQuick = 5
)

// Mode selects the construction algorithm.
type Mode int

const (
	// Shuffled filters out played questions, shuffles, and mixes in wildcards.
	Shuffled Mode = iota
	// Ordered keeps catalog order and labels the cards by set.
	Ordered
)

// Options control how a deck is built.
type Options struct {
	Mode      Mode
	Wildcards bool
	QuickPlay bool
}

// OptionsFor returns the options a level is played with.
func OptionsFor(id domain.LevelID, quickPlay bool) Options {
	mode := Shuffled
	if id.Ordered() {
		mode = Ordered
	}
	return Options{Mode: mode, Wildcards: id.WildcardsEnabled(), QuickPlay: quickPlay}
}

// Result is a built deck.
type Result struct {
	Cards []domain.Card
	// HistoryReset is set when too few unplayed questions were left and the
	// full catalog was used. The caller should clear the level's history.
	HistoryReset bool
}

// Build turns a level's catalog entry into a deck. played holds the texts
// already served for this level; wildcards is the pool to draw from.
func Build(level domain.LevelData, opts Options, played map[string]struct{}, wildcards []domain.Prompt, rng *rand.Rand) Result {
	if opts.Mode == Ordered {
		return Result{Cards: buildOrdered(level)}
	}

	all := unique(level.Cards)
	eligible := make([]string, 0, len(all))
	for _, text := range all {
		if _, seen := played[text]; !seen {
			eligible = append(eligible, text)
		}
	}

	var res Result
	threshold := MinUnplayed
	if opts.QuickPlay {
		threshold = MinUnplayedQuick
	}
	if len(eligible) < threshold {
		eligible = all
		res.HistoryReset = true
	}

	questions := append([]string(nil), eligible...)
	Shuffle(rng, len(questions), func(i, j int) { questions[i], questions[j] = questions[j], questions[i] })

	var pool []domain.Prompt
	if opts.Wildcards {
		pool = append(pool, wildcards...)
		Shuffle(rng, len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}

	cards := make([]domain.Card, 0, len(questions)+len(questions)/WildcardEvery)
	next := 0
	for i, text := range questions {
		cards = append(cards, domain.Question(text, level))
		if (i+1)%WildcardEvery == 0 && next < len(pool) {
			cards = append(cards, domain.Wildcard(pool[next]))
			next++
		}
	}
	res.Cards = cards
	return res
}

var setLabels = [3]string{"Set I", "Set II", "Set III"}

func buildOrdered(level domain.LevelData) []domain.Card {
	n := len(level.Cards)
	cards := make([]domain.Card, 0, n)
	for i, text := range level.Cards {
		c := domain.Question(text, level)
		c.SetLabel = setLabels[i*3/n]
		cards = append(cards, c)
	}
	return cards
}

// Shuffle is a Fisher–Yates shuffle: for i from the last index down to 1,
// swap i with a uniformly chosen index in [0, i].
func Shuffle(rng *rand.Rand, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, rng.Intn(i+1))
	}
}

// InsertDigDeeper splices one prompt, chosen uniformly from prompts, right
// after cursor. It reports false and returns cards unchanged when the pool
// is empty or cursor is not on a card.
func InsertDigDeeper(cards []domain.Card, cursor int, prompts []string, rng *rand.Rand) ([]domain.Card, bool) {
	if len(prompts) == 0 || cursor < 0 || cursor >= len(cards) {
		return cards, false
	}
	card := domain.DigDeeper(prompts[rng.Intn(len(prompts))])

	out := make([]domain.Card, 0, len(cards)+1)
	out = append(out, cards[:cursor+1]...)
	out = append(out, card)
	out = append(out, cards[cursor+1:]...)
	return out, true
}

func unique(texts []string) []string {
	seen := make(map[string]struct{}, len(texts))
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
