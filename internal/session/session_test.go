package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"book_music/internal/analysis"
	"book_music/internal/book"
	"book_music/internal/config"
	"book_music/internal/db"
	"book_music/internal/mood"
	"book_music/internal/playback"
	"book_music/internal/pool"
	"book_music/internal/tracks"
	"book_music/internal/workspace"
)

type fakeSource struct {
	withVocals bool
}

func (f *fakeSource) TracksForMood(_ context.Context, m mood.Mood, limit int) ([]tracks.Track, error) {
	out := []tracks.Track{
		{ID: fmt.Sprintf("%s_0", m), Title: fmt.Sprintf("%s zero", m), Tags: []string{string(m)}},
		{ID: fmt.Sprintf("%s_1", m), Title: fmt.Sprintf("%s one", m), Tags: []string{string(m)}},
	}
	if f.withVocals {
		out = append(out, tracks.Track{
			ID:    fmt.Sprintf("%s_vocal", m),
			Title: fmt.Sprintf("%s song", m),
			Tags:  []string{string(m), "vocals"},
		})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// testBook builds a single-chapter book whose text reads dark for the
// first thirty words and joyful for the last thirty, so that a
// two-page split produces a mood shift at page 2.
func testBook() book.Book {
	page1 := append([]string{"dungeon", "shadow", "darkness", "fear", "terror", "dread"}, filler(24)...)
	page2 := append([]string{"joy", "laugh", "smile", "cheer", "delight", "happy"}, filler(24)...)
	content := strings.Join(append(page1, page2...), " ")
	return book.Book{
		Title: "The Hollow Keep",
		Chapters: []book.Chapter{
			{ID: "ch-1", Title: "The Gate", Content: content, Order: 1},
		},
	}
}

func filler(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "word"
	}
	return out
}

func newSession(t *testing.T, cfg config.Settings, dbPath string, src pool.Source) *Session {
	t.Helper()
	var loader *pool.Loader
	if src != nil {
		loader = pool.NewLoader(src, nil, 15, 0, nil)
	}
	return New(cfg, dbPath, loader, nil)
}

func TestOpenComputesAnalysisAndMappings(t *testing.T) {
	s := newSession(t, config.Default(), "", nil)

	var poolEvents []PoolStatusUpdated
	s.OnPoolStatusUpdated(func(ev PoolStatusUpdated) { poolEvents = append(poolEvents, ev) })

	if err := s.Open(context.Background(), testBook()); err != nil {
		t.Fatalf("open: %v", err)
	}

	a := s.Analysis()
	if len(a.Chapters) != 1 {
		t.Fatalf("expected 1 chapter analysis, got %d", len(a.Chapters))
	}
	if a.Chapters[0].PrimaryMood != mood.Dark {
		t.Fatalf("chapter mood = %s, want dark", a.Chapters[0].PrimaryMood)
	}

	mappings := s.Mappings()
	if len(mappings) != 1 {
		t.Fatalf("expected 1 mapping, got %d", len(mappings))
	}
	if mappings[0].TrackCount != 0 {
		t.Fatalf("empty pool should map 0 tracks, got %d", mappings[0].TrackCount)
	}
	if len(poolEvents) != 1 || poolEvents[0].TrackCount != 0 {
		t.Fatalf("pool status events = %+v", poolEvents)
	}
}

func TestOpenRejectsEmptyBook(t *testing.T) {
	s := newSession(t, config.Default(), "", nil)
	if err := s.Open(context.Background(), book.Book{Title: "Empty"}); err == nil {
		t.Fatal("expected error for book without chapters")
	}
}

func TestOpenLoadsStoredAnalysis(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")
	b := testBook()
	bookID := workspace.BookID(b.Title)

	stored := analysis.BookAnalysis{
		Profile: analysis.BookProfile{
			Title:            b.Title,
			DominantMood:     mood.Magical,
			AverageEnergy:    3,
			MoodDistribution: map[mood.Mood]int{mood.Magical: 1},
			RecommendedTags:  []string{"mystical"},
			Tempo:            mood.TempoModerate,
		},
		Chapters: []analysis.ChapterAnalysis{
			{ChapterID: "ch-1", PrimaryMood: mood.Magical, MusicTags: []string{"mystical"}, Energy: 3, Tempo: mood.TempoModerate},
		},
		GeneratedAt: time.Now().UTC(),
	}
	if err := db.SaveBookAnalysis(dbPath, bookID, stored); err != nil {
		t.Fatalf("seed analysis: %v", err)
	}

	s := newSession(t, config.Default(), dbPath, nil)
	if err := s.Open(context.Background(), b); err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := s.Analysis().Profile.DominantMood; got != mood.Magical {
		t.Fatalf("stored analysis should win, got dominant mood %s", got)
	}
}

func TestOpenRecomputesOnChapterCountMismatch(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")
	b := testBook()
	bookID := workspace.BookID(b.Title)

	stale := analysis.BookAnalysis{
		Profile: analysis.BookProfile{
			Title:            b.Title,
			DominantMood:     mood.Magical,
			MoodDistribution: map[mood.Mood]int{},
			RecommendedTags:  []string{},
		},
		Chapters: []analysis.ChapterAnalysis{
			{ChapterID: "a", MusicTags: []string{}, RecommendedGenres: []string{}},
			{ChapterID: "b", MusicTags: []string{}, RecommendedGenres: []string{}},
		},
		GeneratedAt: time.Now().UTC(),
	}
	if err := db.SaveBookAnalysis(dbPath, bookID, stale); err != nil {
		t.Fatalf("seed stale analysis: %v", err)
	}

	s := newSession(t, config.Default(), dbPath, nil)
	if err := s.Open(context.Background(), b); err != nil {
		t.Fatalf("open: %v", err)
	}
	a := s.Analysis()
	if len(a.Chapters) != 1 || a.Chapters[0].PrimaryMood != mood.Dark {
		t.Fatalf("mismatched chapter count should trigger recompute, got %+v", a.Profile)
	}
}

func TestEnterChapterBuildsPlaylist(t *testing.T) {
	s := newSession(t, config.Default(), "", &fakeSource{})

	var events []ChapterMusicChanged
	s.OnChapterMusicChanged(func(ev ChapterMusicChanged) { events = append(events, ev) })

	if err := s.Open(context.Background(), testBook()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EnterChapter(0, 1); err != nil {
		t.Fatalf("enter chapter: %v", err)
	}

	playlist := s.Playlist()
	if len(playlist) != 2*len(mood.Order) {
		t.Fatalf("playlist should hold whole pool, got %d tracks", len(playlist))
	}
	// The recommended dark track leads; no track appears twice.
	if playlist[0].Tags[0] != "dark" {
		t.Fatalf("playlist should lead with a dark track, got %+v", playlist[0])
	}
	seen := map[string]bool{}
	for _, tr := range playlist {
		if seen[tr.ID] {
			t.Fatalf("duplicate track %s in playlist", tr.ID)
		}
		seen[tr.ID] = true
	}

	if len(events) != 1 || events[0].Mood != mood.Dark || events[0].ChapterIndex != 0 {
		t.Fatalf("chapter music events = %+v", events)
	}

	current, ok := s.CurrentTrack()
	if !ok || current.ID != playlist[0].ID {
		t.Fatalf("current track should be playlist head, got %+v ok=%t", current, ok)
	}
}

func TestEnterChapterOutOfRange(t *testing.T) {
	s := newSession(t, config.Default(), "", nil)
	if err := s.Open(context.Background(), testBook()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EnterChapter(5, 1); err == nil {
		t.Fatal("expected error for out-of-range chapter")
	}
}

func TestTurnPageEmitsTrackSwitchAtShift(t *testing.T) {
	s := newSession(t, config.Default(), "", &fakeSource{})

	var switches []TrackSwitch
	s.OnTrackSwitch(func(ev TrackSwitch) { switches = append(switches, ev) })

	if err := s.Open(context.Background(), testBook()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EnterChapter(0, 2); err != nil {
		t.Fatalf("enter chapter: %v", err)
	}

	sections, ok := s.Sections()
	if !ok || sections.TotalShifts != 1 {
		t.Fatalf("expected one shift in two-page chapter, got %+v ok=%t", sections, ok)
	}

	decision, err := s.TurnPage(playback.PageEvent{OldPage: 1, NewPage: 2, ChapterIndex: 0})
	if err != nil {
		t.Fatalf("turn page: %v", err)
	}
	if !decision.Switch || decision.SwitchTo != 1 {
		t.Fatalf("crossing the shift should advance the track, got %+v", decision)
	}
	if len(switches) != 1 {
		t.Fatalf("expected one track switch event, got %d", len(switches))
	}
	ev := switches[0]
	if ev.FromTrack != 0 || ev.ToTrack != 1 || ev.Page != 2 {
		t.Fatalf("switch event = %+v", ev)
	}
	if ev.ShiftPoint == nil || ev.ShiftPoint.ToMood != mood.Joyful {
		t.Fatalf("switch should carry the joyful shift point, got %+v", ev.ShiftPoint)
	}
	if ev.Track.ID == "" {
		t.Fatalf("switch event should carry the target track")
	}
}

func TestTurnPageDisabledBySetting(t *testing.T) {
	cfg := config.Default()
	cfg.Playback.PageBasedMusicSwitch = false
	s := newSession(t, cfg, "", &fakeSource{})

	if err := s.Open(context.Background(), testBook()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EnterChapter(0, 2); err != nil {
		t.Fatalf("enter chapter: %v", err)
	}
	decision, err := s.TurnPage(playback.PageEvent{OldPage: 1, NewPage: 2, ChapterIndex: 0})
	if err != nil {
		t.Fatalf("turn page: %v", err)
	}
	if decision.Switch {
		t.Fatalf("disabled switching must never switch, got %+v", decision)
	}
}

func TestTurnPageWrongChapter(t *testing.T) {
	s := newSession(t, config.Default(), "", nil)
	if err := s.Open(context.Background(), testBook()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EnterChapter(0, 1); err != nil {
		t.Fatalf("enter chapter: %v", err)
	}
	if _, err := s.TurnPage(playback.PageEvent{OldPage: 1, NewPage: 2, ChapterIndex: 3}); err == nil {
		t.Fatal("expected error for mismatched chapter index")
	}
}

func TestEnterChapterReanalyzesOnPageCountChange(t *testing.T) {
	s := newSession(t, config.Default(), "", nil)
	if err := s.Open(context.Background(), testBook()); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := s.EnterChapter(0, 1); err != nil {
		t.Fatalf("enter chapter: %v", err)
	}
	sections, _ := s.Sections()
	if len(sections.Sections) != 1 {
		t.Fatalf("single page should yield one section, got %d", len(sections.Sections))
	}

	if err := s.EnterChapter(0, 2); err != nil {
		t.Fatalf("re-enter chapter: %v", err)
	}
	sections, _ = s.Sections()
	if len(sections.Sections) != 2 {
		t.Fatalf("repagination should rebuild sections, got %d", len(sections.Sections))
	}
}

func TestInstrumentalOnlyFiltersVocalTracks(t *testing.T) {
	s := newSession(t, config.Default(), "", &fakeSource{withVocals: true})
	if err := s.Open(context.Background(), testBook()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EnterChapter(0, 1); err != nil {
		t.Fatalf("enter chapter: %v", err)
	}
	for _, tr := range s.Playlist() {
		for _, tag := range tr.Tags {
			if tag == "vocals" {
				t.Fatalf("vocal track %s should be filtered out", tr.ID)
			}
		}
	}
}
