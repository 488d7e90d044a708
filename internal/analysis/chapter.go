package analysis

import (
	"strings"

	"book_music/internal/book"
	"book_music/internal/mood"
)

// ChapterAnalysis is the derived per-chapter mood and music metadata. Computed
// once per chapter and cached by the caller.
type ChapterAnalysis struct {
	ChapterID         string    `json:"chapterId"`
	ChapterTitle      string    `json:"chapterTitle"`
	PrimaryMood       mood.Mood `json:"primaryMood"`
	SecondaryMood     mood.Mood `json:"secondaryMood,omitempty"`
	SceneScore        int       `json:"sceneScore"`
	EmotionScore      int       `json:"emotionScore"`
	MusicTags         []string  `json:"musicTags"`
	Energy            int       `json:"energy"`
	Tempo             string    `json:"tempo"`
	RecommendedGenres []string  `json:"recommendedGenres"`
}

const secondaryTagLimit = 2

// AnalyzeChapter scores a chapter's title and body against both lexicons and
// attaches the music attributes of the winning mood. It never fails: any
// scoring problem yields the peaceful fallback so a bad chapter cannot block
// rendering.
func AnalyzeChapter(ch book.Chapter) (out ChapterAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			out = fallbackAnalysis(ch)
		}
	}()

	text := strings.ToLower(ch.Title + " " + ch.Content)
	scene := mood.Score(text, mood.SceneLexicon, 3)
	emotion := mood.Score(text, mood.EmotionLexicon, 1)
	ranked := mood.Ranking(scene, emotion)

	primary := mood.Peaceful
	var secondary mood.Mood
	if len(ranked) > 0 {
		primary = ranked[0].Mood
	}
	if len(ranked) > 1 {
		secondary = ranked[1].Mood
	}

	profile := mood.GetProfile(primary)
	tags := append([]string{}, profile.Tags...)
	if secondary != "" {
		extra := mood.GetProfile(secondary).Tags
		if len(extra) > secondaryTagLimit {
			extra = extra[:secondaryTagLimit]
		}
		tags = append(tags, extra...)
	}

	return ChapterAnalysis{
		ChapterID:         chapterID(ch),
		ChapterTitle:      ch.Title,
		PrimaryMood:       primary,
		SecondaryMood:     secondary,
		SceneScore:        scene[primary],
		EmotionScore:      emotion[primary],
		MusicTags:         dedupe(tags),
		Energy:            profile.Energy,
		Tempo:             profile.Tempo,
		RecommendedGenres: mood.Genres(primary),
	}
}

func fallbackAnalysis(ch book.Chapter) ChapterAnalysis {
	return ChapterAnalysis{
		ChapterID:         chapterID(ch),
		ChapterTitle:      ch.Title,
		PrimaryMood:       mood.Peaceful,
		SceneScore:        0,
		EmotionScore:      0,
		MusicTags:         []string{"calm", "peaceful", "ambient"},
		Energy:            1,
		Tempo:             mood.TempoSlow,
		RecommendedGenres: []string{"ambient", "calm"},
	}
}

func chapterID(ch book.Chapter) string {
	if ch.ID != "" {
		return ch.ID
	}
	return ch.Title
}

func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
