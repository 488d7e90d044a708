package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"book_music/internal/analysis"
	"book_music/internal/mood"
	"book_music/internal/tracks"
)

// SaveBookAnalysis replaces the stored analysis for one book. The
// profile and every chapter row are written in a single transaction.
func SaveBookAnalysis(dbPath, bookID string, a analysis.BookAnalysis) error {
	conn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM books WHERE id = ?`, bookID); err != nil {
		return fmt.Errorf("clear book: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM book_profiles WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM chapter_analyses WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("clear chapters: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO books(id, title, chapter_count, analyzed_at) VALUES(?,?,?,?)`,
		bookID, a.Profile.Title, len(a.Chapters), a.GeneratedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	distribution, err := json.Marshal(a.Profile.MoodDistribution)
	if err != nil {
		return fmt.Errorf("marshal mood distribution: %w", err)
	}
	tags, err := json.Marshal(a.Profile.RecommendedTags)
	if err != nil {
		return fmt.Errorf("marshal recommended tags: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO book_profiles(book_id, dominant_mood, title_mood, average_energy, tempo, mood_distribution, recommended_tags)
		 VALUES(?,?,?,?,?,?,?)`,
		bookID, string(a.Profile.DominantMood), string(a.Profile.TitleMood),
		a.Profile.AverageEnergy, a.Profile.Tempo, string(distribution), string(tags),
	); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	for i, ch := range a.Chapters {
		musicTags, err := json.Marshal(ch.MusicTags)
		if err != nil {
			return fmt.Errorf("marshal music tags: %w", err)
		}
		genres, err := json.Marshal(ch.RecommendedGenres)
		if err != nil {
			return fmt.Errorf("marshal genres: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT INTO chapter_analyses(book_id, chapter_index, chapter_id, chapter_title, primary_mood, secondary_mood,
			 scene_score, emotion_score, energy, tempo, music_tags, genres)
			 VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
			bookID, i, ch.ChapterID, ch.ChapterTitle, string(ch.PrimaryMood), string(ch.SecondaryMood),
			ch.SceneScore, ch.EmotionScore, ch.Energy, ch.Tempo, string(musicTags), string(genres),
		); err != nil {
			return fmt.Errorf("insert chapter %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LoadBookAnalysis reads a stored analysis back. The second return is
// false when the book has never been analyzed.
func LoadBookAnalysis(dbPath, bookID string) (analysis.BookAnalysis, bool, error) {
	var out analysis.BookAnalysis

	conn, err := Open(dbPath)
	if err != nil {
		return out, false, err
	}
	defer conn.Close()

	var analyzedAt string
	var chapterCount int
	err = conn.QueryRow(`SELECT title, chapter_count, analyzed_at FROM books WHERE id = ?`, bookID).
		Scan(&out.Profile.Title, &chapterCount, &analyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return out, false, nil
	}
	if err != nil {
		return out, false, fmt.Errorf("load book: %w", err)
	}
	if ts, parseErr := time.Parse(time.RFC3339, analyzedAt); parseErr == nil {
		out.GeneratedAt = ts
	}

	var dominant, titleMood, distribution, tags string
	err = conn.QueryRow(
		`SELECT dominant_mood, title_mood, average_energy, tempo, mood_distribution, recommended_tags
		 FROM book_profiles WHERE book_id = ?`, bookID).
		Scan(&dominant, &titleMood, &out.Profile.AverageEnergy, &out.Profile.Tempo, &distribution, &tags)
	if err != nil {
		return out, false, fmt.Errorf("load profile: %w", err)
	}
	out.Profile.DominantMood = mood.Mood(dominant)
	out.Profile.TitleMood = mood.Mood(titleMood)
	if err := json.Unmarshal([]byte(distribution), &out.Profile.MoodDistribution); err != nil {
		return out, false, fmt.Errorf("decode mood distribution: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &out.Profile.RecommendedTags); err != nil {
		return out, false, fmt.Errorf("decode recommended tags: %w", err)
	}

	rows, err := conn.Query(
		`SELECT chapter_id, chapter_title, primary_mood, secondary_mood, scene_score, emotion_score, energy, tempo, music_tags, genres
		 FROM chapter_analyses WHERE book_id = ? ORDER BY chapter_index`, bookID)
	if err != nil {
		return out, false, fmt.Errorf("load chapters: %w", err)
	}
	defer rows.Close()

	out.Chapters = make([]analysis.ChapterAnalysis, 0, chapterCount)
	for rows.Next() {
		var ch analysis.ChapterAnalysis
		var primary, secondary, musicTags, genres string
		if err := rows.Scan(&ch.ChapterID, &ch.ChapterTitle, &primary, &secondary,
			&ch.SceneScore, &ch.EmotionScore, &ch.Energy, &ch.Tempo, &musicTags, &genres); err != nil {
			return out, false, fmt.Errorf("scan chapter: %w", err)
		}
		ch.PrimaryMood = mood.Mood(primary)
		ch.SecondaryMood = mood.Mood(secondary)
		if err := json.Unmarshal([]byte(musicTags), &ch.MusicTags); err != nil {
			return out, false, fmt.Errorf("decode music tags: %w", err)
		}
		if err := json.Unmarshal([]byte(genres), &ch.RecommendedGenres); err != nil {
			return out, false, fmt.Errorf("decode genres: %w", err)
		}
		out.Chapters = append(out.Chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return out, false, fmt.Errorf("iterate chapters: %w", err)
	}
	return out, true, nil
}

// SaveChapterMappings replaces the stored track mappings for one book.
func SaveChapterMappings(dbPath, bookID string, mappings []tracks.ChapterMapping) error {
	conn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chapter_tracks WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("clear mappings: %w", err)
	}
	for i, m := range mappings {
		payload, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal mapping %d: %w", i, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO chapter_tracks(book_id, chapter_index, mapping) VALUES(?,?,?)`,
			bookID, i, string(payload),
		); err != nil {
			return fmt.Errorf("insert mapping %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LoadChapterMappings reads stored track mappings in chapter order.
// A book without mappings yields an empty slice.
func LoadChapterMappings(dbPath, bookID string) ([]tracks.ChapterMapping, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.Query(`SELECT mapping FROM chapter_tracks WHERE book_id = ? ORDER BY chapter_index`, bookID)
	if err != nil {
		return nil, fmt.Errorf("load mappings: %w", err)
	}
	defer rows.Close()

	out := []tracks.ChapterMapping{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		var m tracks.ChapterMapping
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			return nil, fmt.Errorf("decode mapping: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mappings: %w", err)
	}
	return out, nil
}

// CountRows reports the row count of a table.
func CountRows(dbPath, table string) (int, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return countRowsConn(conn, table)
}

func countRowsConn(conn *sql.DB, table string) (int, error) {
	row := conn.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}
