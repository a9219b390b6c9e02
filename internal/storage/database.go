package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/conorfennell/betweenus/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// LoadProgress returns the saved progress, or nil if there is none or the
// stored row names a level the game no longer knows.
func (db *DB) LoadProgress() (*domain.Progress, error) {
	var (
		level   string
		total   int
		savedAt int64
	)
	row := db.conn.QueryRow(`
		SELECT current_level, total_cards_played, saved_at
		FROM progress WHERE id = 1
	`)
	if err := row.Scan(&level, &total, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	id := domain.LevelID(level)
	if !id.Valid() || total < 0 {
		return nil, nil
	}
	return &domain.Progress{
		Level:            id,
		TotalCardsPlayed: total,
		SavedAt:          time.UnixMilli(savedAt),
	}, nil
}

// SaveProgress replaces the saved progress.
func (db *DB) SaveProgress(p domain.Progress) error {
	_, err := db.conn.Exec(`
		INSERT INTO progress (id, current_level, total_cards_played, saved_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_level = excluded.current_level,
			total_cards_played = excluded.total_cards_played,
			saved_at = excluded.saved_at
	`, string(p.Level), p.TotalCardsPlayed, p.SavedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save progress for level %s: %w", p.Level, err)
	}
	return nil
}

// ClearProgress removes the saved progress.
func (db *DB) ClearProgress() error {
	if _, err := db.conn.Exec(`DELETE FROM progress`); err != nil {
		return fmt.Errorf("failed to clear progress: %w", err)
	}
	return nil
}

const (
	settingQuickPlay    = "quick_play_mode"
	settingScreenDimmed = "screen_dimmed"
	settingSound        = "sound_enabled"
)

// LoadSettings reads the user toggles. Missing or unreadable values are false.
func (db *DB) LoadSettings() (domain.Settings, error) {
	rows, err := db.conn.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	defer rows.Close()

	var s domain.Settings
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return domain.Settings{}, fmt.Errorf("failed to scan settings row: %w", err)
		}
		on, _ := strconv.ParseBool(value)
		switch key {
		case settingQuickPlay:
			s.QuickPlay = on
		case settingScreenDimmed:
			s.ScreenDimmed = on
		case settingSound:
			s.SoundEnabled = on
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	return s, nil
}

// SaveSettings writes all user toggles.
func (db *DB) SaveSettings(s domain.Settings) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin settings update: %w", err)
	}
	defer tx.Rollback()

	values := map[string]bool{
		settingQuickPlay:    s.QuickPlay,
		settingScreenDimmed: s.ScreenDimmed,
		settingSound:        s.SoundEnabled,
	}
	for key, on := range values {
		if _, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, strconv.FormatBool(on)); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}
