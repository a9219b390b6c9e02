package storage

const schema = `
-- Single-row table holding the resumable part of a session.
CREATE TABLE IF NOT EXISTS progress (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    current_level TEXT NOT NULL,
    total_cards_played INTEGER NOT NULL DEFAULT 0,
    saved_at INTEGER NOT NULL -- unix milliseconds
);

-- Question texts already served, per level. 'key' is the SHA-256 of the text.
CREATE TABLE IF NOT EXISTS played (
    level TEXT NOT NULL,
    key TEXT NOT NULL,
    text TEXT NOT NULL,
    PRIMARY KEY (level, key)
);

CREATE TABLE IF NOT EXISTS favorites (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    key TEXT NOT NULL UNIQUE,
    text TEXT NOT NULL,
    level TEXT NOT NULL,
    saved_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS custom_questions (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Notes are stored as JSON so both the legacy and two-player shapes fit.
CREATE TABLE IF NOT EXISTS notes (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL,
    payload TEXT NOT NULL
);
`
