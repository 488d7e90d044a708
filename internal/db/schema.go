package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS books (
    id TEXT PRIMARY KEY,
    title TEXT,
    chapter_count INTEGER,
    analyzed_at TEXT
);

CREATE TABLE IF NOT EXISTS book_profiles (
    book_id TEXT PRIMARY KEY,
    dominant_mood TEXT,
    title_mood TEXT,
    average_energy INTEGER,
    tempo TEXT,
    mood_distribution TEXT,
    recommended_tags TEXT
);

CREATE TABLE IF NOT EXISTS chapter_analyses (
    book_id TEXT,
    chapter_index INTEGER,
    chapter_id TEXT,
    chapter_title TEXT,
    primary_mood TEXT,
    secondary_mood TEXT,
    scene_score INTEGER,
    emotion_score INTEGER,
    energy INTEGER,
    tempo TEXT,
    music_tags TEXT,
    genres TEXT,
    PRIMARY KEY (book_id, chapter_index)
);

CREATE TABLE IF NOT EXISTS chapter_tracks (
    book_id TEXT,
    chapter_index INTEGER,
    mapping TEXT,
    PRIMARY KEY (book_id, chapter_index)
);
`

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
