package tracks

import (
	"fmt"
	"sort"
	"strings"

	"book_music/internal/analysis"
	"book_music/internal/book"
)

const (
	exactTagPoints   = 5
	partialTagPoints = 3
	tempoPoints      = 3
)

// TrackCountForWords maps a chapter's rough word count to how many tracks its
// playlist should hold.
func TrackCountForWords(wordCount int) int {
	switch {
	case wordCount < 2000:
		return 1
	case wordCount < 5000:
		return 2
	case wordCount < 8000:
		return 3
	case wordCount < 12000:
		return 4
	default:
		return 5
	}
}

// SelectForChapter scores every pool track against the chapter's music tags,
// energy and tempo, and returns the best min(count, poolSize) tracks in score
// order. The returned order is the playback sequence. An empty pool returns
// an empty slice; callers treat "no music" as a normal state.
func SelectForChapter(a analysis.ChapterAnalysis, pool []Track, ch book.Chapter) []Track {
	if len(pool) == 0 {
		return []Track{}
	}

	type scored struct {
		track Track
		score int
	}
	ranked := make([]scored, 0, len(pool))
	for _, t := range pool {
		ranked = append(ranked, scored{track: t, score: scoreTrack(a, t)})
	}
	// Stable keeps pool order on ties.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	count := TrackCountForWords(ch.WordCount())
	if count > len(ranked) {
		count = len(ranked)
	}
	out := make([]Track, 0, count)
	for _, s := range ranked[:count] {
		out = append(out, s.track)
	}
	return out
}

func scoreTrack(a analysis.ChapterAnalysis, t Track) int {
	score := 0
	for _, chapterTag := range a.MusicTags {
		ct := strings.ToLower(chapterTag)
		for _, trackTag := range t.Tags {
			tt := strings.ToLower(trackTag)
			switch {
			case ct == tt:
				score += exactTagPoints
			case strings.Contains(ct, tt) || strings.Contains(tt, ct):
				score += partialTagPoints
			}
		}
	}

	if t.Energy > 0 {
		diff := t.Energy - a.Energy
		if diff < 0 {
			diff = -diff
		}
		switch diff {
		case 0:
			score += 5
		case 1:
			score += 3
		case 2:
			score += 1
		}
	}

	if t.Tempo != "" && t.Tempo == a.Tempo {
		score += tempoPoints
	}
	return score
}

// TrackRef is the persisted reference to one selected track.
type TrackRef struct {
	TrackID       string `json:"trackId"`
	TrackTitle    string `json:"trackTitle"`
	TrackURL      string `json:"trackUrl"`
	TrackArtist   string `json:"trackArtist"`
	TrackDuration int    `json:"trackDuration"`
}

// ChapterMapping is the ordered track assignment for one chapter.
type ChapterMapping struct {
	BookID       string     `json:"bookId"`
	ChapterID    string     `json:"chapterId"`
	ChapterTitle string     `json:"chapterTitle"`
	PrimaryMood  string     `json:"primaryMood"`
	Tracks       []TrackRef `json:"tracks"`
	TrackCount   int        `json:"trackCount"`
	Reasoning    string     `json:"reasoning"`
}

// GenerateChapterMappings selects tracks for every chapter of a book. Analyses
// are positional: analyses[i] belongs to book.Chapters[i]. An empty pool
// produces mappings with zero tracks rather than an error.
func GenerateChapterMappings(b book.Book, analyses []analysis.ChapterAnalysis, pool []Track) []ChapterMapping {
	out := make([]ChapterMapping, 0, len(analyses))
	for i, a := range analyses {
		var ch book.Chapter
		if i < len(b.Chapters) {
			ch = b.Chapters[i]
		}
		selected := SelectForChapter(a, pool, ch)
		refs := make([]TrackRef, 0, len(selected))
		for _, t := range selected {
			refs = append(refs, TrackRef{
				TrackID:       t.ID,
				TrackTitle:    t.Title,
				TrackURL:      t.URL,
				TrackArtist:   t.Artist,
				TrackDuration: t.Duration,
			})
		}
		out = append(out, ChapterMapping{
			BookID:       b.ID,
			ChapterID:    a.ChapterID,
			ChapterTitle: a.ChapterTitle,
			PrimaryMood:  string(a.PrimaryMood),
			Tracks:       refs,
			TrackCount:   len(refs),
			Reasoning:    fmt.Sprintf("%s mood detected, energy: %d/5, %d tracks selected", a.PrimaryMood, a.Energy, len(refs)),
		})
	}
	return out
}
