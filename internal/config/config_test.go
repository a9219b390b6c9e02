package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "betweenus.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("betweenus", nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DB != "betweenus.db" || cfg.Catalog != "catalog.yaml" || cfg.LogLevel != "info" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.RevealDelay != 150*time.Millisecond || cfg.ProgressTTL != 24*time.Hour {
		t.Errorf("Unexpected default durations %v %v", cfg.RevealDelay, cfg.ProgressTTL)
	}
	if cfg.Seed != 0 || cfg.ResetHistory || cfg.CatalogRepo != "" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
}

func TestLoadPriority(t *testing.T) {
	path := writeConfig(t, `
db: file.db
catalog: file-catalog.yaml
log-level: debug
reveal-delay: 1s
seed: 7
`)

	testCases := []struct {
		name    string
		env     map[string]string
		args    []string
		wantDB  string
		wantLvl string
		wantCat string
	}{
		{
			name:    "file",
			wantDB:  "file.db",
			wantLvl: "debug",
			wantCat: "file-catalog.yaml",
		},
		{
			name:    "env over file",
			env:     map[string]string{"BETWEENUS_DB": "env.db", "BETWEENUS_LOG_LEVEL": "warn"},
			wantDB:  "env.db",
			wantLvl: "warn",
			wantCat: "file-catalog.yaml",
		},
		{
			name:    "flags over env",
			env:     map[string]string{"BETWEENUS_DB": "env.db"},
			args:    []string{"--db", "flag.db", "--catalog", "flag.yaml"},
			wantDB:  "flag.db",
			wantLvl: "debug",
			wantCat: "flag.yaml",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := Load("betweenus", append([]string{"--config", path}, tc.args...))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.DB != tc.wantDB || cfg.LogLevel != tc.wantLvl || cfg.Catalog != tc.wantCat {
				t.Errorf("Got db=%q log-level=%q catalog=%q", cfg.DB, cfg.LogLevel, cfg.Catalog)
			}
			if cfg.RevealDelay != time.Second || cfg.Seed != 7 {
				t.Errorf("Expected file values to survive, got %v %d", cfg.RevealDelay, cfg.Seed)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	testCases := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{name: "missing explicit file", args: []string{"--config", "nope.yaml"}, want: "load config file"},
		{name: "bad log level", args: []string{"--log-level", "loud"}, want: "invalid config"},
		{name: "empty db", args: []string{"--db", ""}, want: "invalid config"},
		{name: "negative delay", env: map[string]string{"BETWEENUS_REVEAL_DELAY": "-1s"}, want: "invalid config"},
		{name: "repo without content dir", args: []string{"--catalog-repo", "https://example.com/cards.git", "--content-dir", ""}, want: "invalid config"},
		{name: "unknown flag", args: []string{"--colour"}, want: "unknown flag"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("betweenus", tc.args)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Expected an error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCatalogPath(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "local", cfg: Config{Catalog: "cards/catalog.yaml", ContentDir: "content"}, want: "cards/catalog.yaml"},
		{name: "synced", cfg: Config{Catalog: "catalog.yaml", CatalogRepo: "git@example.com:cards.git", ContentDir: "content"}, want: filepath.Join("content", "catalog.yaml")},
		{name: "synced absolute", cfg: Config{Catalog: "/etc/catalog.yaml", CatalogRepo: "git@example.com:cards.git", ContentDir: "content"}, want: "/etc/catalog.yaml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.CatalogPath(); got != tc.want {
				t.Errorf("CatalogPath() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	testCases := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tc := range testCases {
		if got := (Config{LogLevel: tc.level}).SlogLevel(); got != tc.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tc.level, got, tc.want)
		}
	}
}
