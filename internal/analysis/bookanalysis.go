package analysis

import (
	"math"
	"strings"
	"time"

	"book_music/internal/book"
	"book_music/internal/mood"
)

// BookProfile aggregates the per-chapter analyses of one book.
type BookProfile struct {
	Title            string            `json:"title"`
	DominantMood     mood.Mood         `json:"dominantMood"`
	TitleMood        mood.Mood         `json:"titleMood"`
	AverageEnergy    int               `json:"averageEnergy"`
	MoodDistribution map[mood.Mood]int `json:"moodDistribution"`
	RecommendedTags  []string          `json:"recommendedTags"`
	Tempo            string            `json:"tempo"`
}

// BookAnalysis is the full derived record persisted per book.
type BookAnalysis struct {
	Profile     BookProfile       `json:"bookProfile"`
	Chapters    []ChapterAnalysis `json:"chapterAnalyses"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// AnalyzeBook runs the chapter analyzer over every chapter in order and
// derives the book profile from the results.
func AnalyzeBook(b book.Book) BookAnalysis {
	chapters := make([]ChapterAnalysis, 0, len(b.Chapters))
	for _, ch := range b.Chapters {
		chapters = append(chapters, AnalyzeChapter(ch))
	}
	return BookAnalysis{
		Profile:     buildProfile(b, chapters),
		Chapters:    chapters,
		GeneratedAt: time.Now().UTC(),
	}
}

func buildProfile(b book.Book, chapters []ChapterAnalysis) BookProfile {
	distribution := make(map[mood.Mood]int, len(mood.Order))
	firstSeen := make([]mood.Mood, 0, len(mood.Order))
	totalEnergy := 0
	for _, ca := range chapters {
		if distribution[ca.PrimaryMood] == 0 {
			firstSeen = append(firstSeen, ca.PrimaryMood)
		}
		distribution[ca.PrimaryMood]++
		totalEnergy += ca.Energy
	}

	dominant := mood.Peaceful
	best := 0
	for _, m := range firstSeen {
		if distribution[m] > best {
			best = distribution[m]
			dominant = m
		}
	}

	avgEnergy := 1
	if len(chapters) > 0 {
		avgEnergy = int(math.Round(float64(totalEnergy) / float64(len(chapters))))
	}

	titleMood := titleMoodFor(b.Title)
	if titleMood == "" {
		titleMood = dominant
	}

	return BookProfile{
		Title:            b.Title,
		DominantMood:     dominant,
		TitleMood:        titleMood,
		AverageEnergy:    avgEnergy,
		MoodDistribution: distribution,
		RecommendedTags:  mood.GetProfile(dominant).Tags,
		Tempo:            tempoForEnergy(avgEnergy),
	}
}

// titleMoodFor finds the first mood whose emotion keyword appears as a
// substring of the lowercased title. Substring on purpose: titles are short
// and word-boundary matching would miss compounds like "Heartbreak Ridge".
func titleMoodFor(title string) mood.Mood {
	lower := strings.ToLower(title)
	for _, m := range mood.Order {
		for _, kw := range mood.EmotionLexicon[m] {
			if strings.Contains(lower, kw) {
				return m
			}
		}
	}
	return ""
}

func tempoForEnergy(energy int) string {
	switch {
	case energy > 3:
		return mood.TempoUpbeat
	case energy > 2:
		return mood.TempoModerate
	default:
		return mood.TempoSlow
	}
}
