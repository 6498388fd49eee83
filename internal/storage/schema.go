package storage

const schema = `
-- One row per draw session. 'cards' holds the drawn card refs as JSON:
-- [{"card_id": 0, "is_upright": true}, ...]. 'reading' stays NULL until the
-- gateway delivers the generated text.
CREATE TABLE IF NOT EXISTS history (
    id        TEXT PRIMARY KEY,
    question  TEXT NOT NULL,
    timestamp REAL NOT NULL,
    cards     TEXT NOT NULL,
    reading   TEXT
);

CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp);

-- Favorited card ids. Card text is resolved against the live catalog on
-- read, so nothing here goes stale when the deck changes.
CREATE TABLE IF NOT EXISTS favorites (
    card_id  INTEGER PRIMARY KEY,
    added_at DATETIME NOT NULL
);

-- Singleton row holding the daily-draw streak position.
CREATE TABLE IF NOT EXISTS streak (
    id        INTEGER PRIMARY KEY CHECK (id = 1),
    last_draw TEXT NOT NULL,
    days      INTEGER NOT NULL DEFAULT 0
);

-- Per-date daily-draw bookkeeping, keyed by local calendar date yyyy-MM-dd.
CREATE TABLE IF NOT EXISTS daily_records (
    date    TEXT PRIMARY KEY,
    cards   TEXT,
    reading TEXT,
    skipped INTEGER NOT NULL DEFAULT 0
);
`
