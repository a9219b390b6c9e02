// Package config loads the betweenus settings from a YAML file, BETWEENUS_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "BETWEENUS_"

// DefaultFile is read when --config is not given. It may be absent.
const DefaultFile = "betweenus.yaml"

// Config is the resolved configuration.
type Config struct {
	DB      string `koanf:"db" validate:"required"`
	Catalog string `koanf:"catalog" validate:"required"`
	// CatalogRepo is a git URL synced into ContentDir before the catalog is
	// loaded. A relative Catalog is then resolved inside ContentDir.
	CatalogRepo string `koanf:"catalog-repo"`
	ContentDir  string `koanf:"content-dir" validate:"required_with=CatalogRepo"`

	// Seed fixes the shuffle; zero seeds from the clock.
	Seed        int64         `koanf:"seed"`
	RevealDelay time.Duration `koanf:"reveal-delay" validate:"gte=0"`
	ProgressTTL time.Duration `koanf:"progress-ttl" validate:"gte=0"`
	LogLevel    string        `koanf:"log-level" validate:"oneof=debug info warn error"`

	ImportQuestions string `koanf:"import-questions"`
	ResetHistory    bool   `koanf:"reset-history"`
}

// CatalogPath is where the catalog file is read from.
func (c Config) CatalogPath() string {
	if c.CatalogRepo != "" && !filepath.IsAbs(c.Catalog) {
		return filepath.Join(c.ContentDir, c.Catalog)
	}
	return c.Catalog
}

// SlogLevel converts LogLevel for a slog handler.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func newFlagSet(name string) *pflag.FlagSet {
	f := pflag.NewFlagSet(name, pflag.ContinueOnError)
	f.String("config", DefaultFile, "Path to a YAML config file")
	f.String("db", "betweenus.db", "Path to the SQLite database file")
	f.String("catalog", "catalog.yaml", "Path to the card catalog")
	f.String("catalog-repo", "", "Git repository to sync the catalog from")
	f.String("content-dir", "content", "Local checkout of --catalog-repo")
	f.Int64("seed", 0, "Shuffle seed (0 uses the clock)")
	f.Duration("reveal-delay", 150*time.Millisecond, "How long the next card stays hidden after an advance")
	f.Duration("progress-ttl", 24*time.Hour, "How long saved progress can be resumed")
	f.String("log-level", "info", "Log level: debug, info, warn or error")
	f.String("import-questions", "", "Markdown file of custom questions to import")
	f.Bool("reset-history", false, "Forget which questions were played, then start")
	return f
}

// Load parses args (without the program name) and merges every source into
// a validated Config.
func Load(name string, args []string) (Config, error) {
	flags := newFlagSet(name)
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	k := koanf.New(".")

	path, _ := flags.GetString("config")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// Only the default file is optional.
		if flags.Changed("config") || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Usage returns the flag help text.
func Usage(name string) string {
	return newFlagSet(name).FlagUsages()
}
