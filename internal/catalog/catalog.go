// Package catalog loads the read-only card content: per-level questions and
// display metadata plus the wildcard, Dig Deeper, and final-card pools.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/conorfennell/betweenus/internal/domain"
	"github.com/conorfennell/betweenus/internal/parser"
)

type levelEntry struct {
	Name        string   `koanf:"name" validate:"required"`
	Color       string   `koanf:"color" validate:"required"`
	ColorLight  string   `koanf:"color_light"`
	Subtitle    string   `koanf:"subtitle"`
	Description string   `koanf:"description"`
	Cards       []string `koanf:"cards" validate:"dive,required"`
	// Source names a markdown prompt pack, relative to the catalog file,
	// whose prompts are appended to Cards.
	Source string `koanf:"source"`
}

type wildcardEntry struct {
	Text         string `koanf:"text" validate:"required"`
	TimerSeconds int    `koanf:"timer_seconds" validate:"gte=0"`
}

type catalogFile struct {
	Levels    map[string]levelEntry `koanf:"levels" validate:"required,dive"`
	Wildcards []wildcardEntry       `koanf:"wildcards" validate:"dive"`
	DigDeeper []string              `koanf:"dig_deeper" validate:"dive,required"`
	FinalCard []string              `koanf:"final_card" validate:"dive,required"`
}

// Catalog is an immutable set of levels and prompt pools.
type Catalog struct {
	levels    map[domain.LevelID]domain.LevelData
	wildcards []domain.Prompt
	digDeeper []string
	finalCard []string
}

// New builds a catalog from already loaded content.
func New(levels map[domain.LevelID]domain.LevelData, wildcards []domain.Prompt, digDeeper, finalCard []string) *Catalog {
	c := &Catalog{
		levels:    make(map[domain.LevelID]domain.LevelData, len(levels)),
		wildcards: append([]domain.Prompt(nil), wildcards...),
		digDeeper: append([]string(nil), digDeeper...),
		finalCard: append([]string(nil), finalCard...),
	}
	for id, l := range levels {
		l.Cards = append([]string(nil), l.Cards...)
		c.levels[id] = l
	}
	return c
}

// Load reads a YAML catalog from path and validates it.
func Load(path string) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var raw catalogFile
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	levels := make(map[domain.LevelID]domain.LevelData, len(raw.Levels))
	var errs []error
	for key, entry := range raw.Levels {
		id := domain.LevelID(key)
		if !id.Valid() {
			errs = append(errs, fmt.Errorf("unknown level %q", key))
			continue
		}
		cards := entry.Cards
		if entry.Source != "" {
			prompts, err := parser.ParseFile(filepath.Join(dir, entry.Source))
			if err != nil {
				errs = append(errs, fmt.Errorf("level %s: parsing %s: %w", key, entry.Source, err))
				continue
			}
			cards = append(cards, parser.Texts(prompts)...)
		}
		if id != domain.Custom && len(cards) == 0 {
			errs = append(errs, fmt.Errorf("level %s has no cards", key))
			continue
		}
		levels[id] = domain.LevelData{
			Name:        entry.Name,
			Color:       entry.Color,
			ColorLight:  entry.ColorLight,
			Subtitle:    entry.Subtitle,
			Description: entry.Description,
			Cards:       cards,
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, errors.Join(errs...))
	}

	wildcards := make([]domain.Prompt, 0, len(raw.Wildcards))
	for _, w := range raw.Wildcards {
		wildcards = append(wildcards, domain.Prompt{Text: w.Text, TimerSeconds: w.TimerSeconds})
	}

	return New(levels, wildcards, raw.DigDeeper, raw.FinalCard), nil
}

// Level returns the entry for id. The custom level falls back to default
// styling when the catalog does not describe it; its cards always come from
// the user's custom questions.
func (c *Catalog) Level(id domain.LevelID) (domain.LevelData, bool) {
	l, ok := c.levels[id]
	if !ok && id == domain.Custom {
		return domain.LevelData{Name: "Your Questions", Color: "#8e7cc3", ColorLight: "#d9d2e9"}, true
	}
	return l, ok
}

// Wildcards returns a copy of the wildcard pool.
func (c *Catalog) Wildcards() []domain.Prompt {
	return append([]domain.Prompt(nil), c.wildcards...)
}

// DigDeeperPrompts returns a copy of the Dig Deeper pool.
func (c *Catalog) DigDeeperPrompts() []string {
	return append([]string(nil), c.digDeeper...)
}

// FinalCardPrompts returns a copy of the final-card pool.
func (c *Catalog) FinalCardPrompts() []string {
	return append([]string(nil), c.finalCard...)
}
