package analysis

import (
	"reflect"
	"strings"
	"testing"

	"book_music/internal/book"
	"book_music/internal/mood"
)

func TestAnalyzeChapterSceneBeatsEmotion(t *testing.T) {
	ch := book.Chapter{
		ID:      "ch-1",
		Title:   "The Descent",
		Content: strings.Repeat("the dungeon ", 5) + "and a single word of love",
	}
	a := AnalyzeChapter(ch)
	if a.PrimaryMood != mood.Dark {
		t.Fatalf("expected dark primary, got %s", a.PrimaryMood)
	}
	if a.SceneScore != 15 {
		t.Fatalf("expected scene score 15, got %d", a.SceneScore)
	}
	if a.SecondaryMood != mood.Romantic {
		t.Fatalf("expected romantic secondary, got %s", a.SecondaryMood)
	}
	if a.Energy != 4 || a.Tempo != mood.TempoSlow {
		t.Fatalf("unexpected music attributes: energy=%d tempo=%s", a.Energy, a.Tempo)
	}
}

func TestAnalyzeChapterSecondaryTags(t *testing.T) {
	ch := book.Chapter{
		ID:      "ch-2",
		Title:   "",
		Content: "dungeon dungeon dungeon garden rose",
	}
	a := AnalyzeChapter(ch)
	if a.PrimaryMood != mood.Dark || a.SecondaryMood != mood.Romantic {
		t.Fatalf("unexpected moods: %s/%s", a.PrimaryMood, a.SecondaryMood)
	}
	// Primary's 4 tags plus the first 2 of the secondary profile.
	want := []string{"dark", "atmospheric", "tense", "ominous", "romantic", "gentle"}
	if !reflect.DeepEqual(a.MusicTags, want) {
		t.Fatalf("unexpected tags: %v", a.MusicTags)
	}
}

func TestAnalyzeChapterEmptyBodyFallsBackToPeaceful(t *testing.T) {
	a := AnalyzeChapter(book.Chapter{ID: "ch-3", Title: "", Content: ""})
	want := ChapterAnalysis{
		ChapterID:         "ch-3",
		PrimaryMood:       mood.Peaceful,
		MusicTags:         []string{"calm", "peaceful", "ambient", "nature"},
		Energy:            1,
		Tempo:             mood.TempoSlow,
		RecommendedGenres: []string{"ambient", "nature sounds", "meditation"},
	}
	if a.PrimaryMood != want.PrimaryMood || a.Energy != want.Energy || a.Tempo != want.Tempo {
		t.Fatalf("unexpected fallback analysis: %+v", a)
	}
	if a.SceneScore != 0 || a.EmotionScore != 0 {
		t.Fatalf("expected zero scores, got scene=%d emotion=%d", a.SceneScore, a.EmotionScore)
	}
	if len(a.MusicTags) == 0 {
		t.Fatalf("music tags must never be empty")
	}
}

func TestAnalyzeChapterNeverPanics(t *testing.T) {
	long := strings.Repeat("storm rain night shadow ", 10000)
	for _, content := range []string{"", " ", "<p>unclosed <div", long} {
		a := AnalyzeChapter(book.Chapter{ID: "x", Content: content})
		if len(a.MusicTags) == 0 {
			t.Fatalf("empty music tags for content %q", content[:min(20, len(content))])
		}
	}
}

func TestAnalyzeBookProfile(t *testing.T) {
	b := book.Book{
		ID:    "bk-1",
		Title: "A Quiet Longing",
		Chapters: []book.Chapter{
			{ID: "1", Content: "dungeon crypt tomb storm"},
			{ID: "2", Content: "dungeon shadow midnight fog"},
			{ID: "3", Content: "garden rose sunset moonlight"},
		},
	}
	ba := AnalyzeBook(b)
	if len(ba.Chapters) != 3 {
		t.Fatalf("expected 3 chapter analyses, got %d", len(ba.Chapters))
	}
	p := ba.Profile
	if p.DominantMood != mood.Dark {
		t.Fatalf("expected dark dominant, got %s", p.DominantMood)
	}
	if p.MoodDistribution[mood.Dark] != 2 || p.MoodDistribution[mood.Romantic] != 1 {
		t.Fatalf("unexpected distribution: %v", p.MoodDistribution)
	}
	// "longing" is a romantic emotion keyword appearing in the title.
	if p.TitleMood != mood.Romantic {
		t.Fatalf("expected romantic title mood, got %s", p.TitleMood)
	}
	// Energies 4,4,2 average to round(10/3)=3 which maps to moderate tempo.
	if p.AverageEnergy != 3 || p.Tempo != mood.TempoModerate {
		t.Fatalf("unexpected energy/tempo: %d/%s", p.AverageEnergy, p.Tempo)
	}
}

func TestAnalyzeBookDominantTieBreakFirstSeen(t *testing.T) {
	b := book.Book{
		ID:    "bk-2",
		Title: "Untitled",
		Chapters: []book.Chapter{
			{ID: "1", Content: "garden rose sunset"},
			{ID: "2", Content: "dungeon crypt tomb"},
		},
	}
	p := AnalyzeBook(b).Profile
	if p.DominantMood != mood.Romantic {
		t.Fatalf("expected first-seen romantic to win the tie, got %s", p.DominantMood)
	}
}

func TestAnalyzeBookNoChapters(t *testing.T) {
	p := AnalyzeBook(book.Book{ID: "bk-3", Title: "Empty"}).Profile
	if p.DominantMood != mood.Peaceful || p.AverageEnergy != 1 || p.Tempo != mood.TempoSlow {
		t.Fatalf("unexpected empty-book profile: %+v", p)
	}
}
