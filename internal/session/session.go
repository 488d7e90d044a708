package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"book_music/internal/analysis"
	"book_music/internal/book"
	"book_music/internal/config"
	"book_music/internal/db"
	"book_music/internal/mood"
	"book_music/internal/playback"
	"book_music/internal/pool"
	"book_music/internal/shift"
	"book_music/internal/tracks"
	"book_music/internal/workspace"
)

// LogFn receives progress lines from the session.
type LogFn func(level, stage, message, detail string)

// ChapterMusicChanged fires when a chapter is entered and its playlist
// has been built.
type ChapterMusicChanged struct {
	ChapterIndex int
	Mood         mood.Mood
	Playlist     []tracks.Track
	Shifts       shift.Result
}

// PoolStatusUpdated fires after the track pool is (re)loaded.
type PoolStatusUpdated struct {
	TrackCount int
}

// TrackSwitch fires when page navigation changes the playing track.
type TrackSwitch struct {
	ChapterIndex int
	Page         int
	FromTrack    int
	ToTrack      int
	Track        tracks.Track
	Restored     bool
	ShiftPoint   *shift.Point
}

type sectionEntry struct {
	pages  int
	result shift.Result
}

// Session orchestrates one reading run: book analysis, the shared
// track pool, per-chapter playlists and page-level track switching.
type Session struct {
	mu     sync.Mutex
	id     string
	cfg    config.Settings
	dbPath string
	loader *pool.Loader
	log    LogFn

	book     book.Book
	bookID   string
	analysis analysis.BookAnalysis
	pool     []tracks.Track
	mappings []tracks.ChapterMapping

	chapterIndex int
	playlist     []tracks.Track
	history      *playback.History
	sections     map[int]sectionEntry

	onChapterMusic []func(ChapterMusicChanged)
	onPoolStatus   []func(PoolStatusUpdated)
	onTrackSwitch  []func(TrackSwitch)
}

// New creates a session. dbPath may be empty to skip persistence and
// loader may be nil to run without a track pool.
func New(cfg config.Settings, dbPath string, loader *pool.Loader, log LogFn) *Session {
	if log == nil {
		log = func(string, string, string, string) {}
	}
	return &Session{
		id:           "session-" + uuid.NewString(),
		cfg:          cfg,
		dbPath:       dbPath,
		loader:       loader,
		log:          log,
		chapterIndex: -1,
		sections:     map[int]sectionEntry{},
	}
}

// ID returns the unique run identifier.
func (s *Session) ID() string { return s.id }

// OnChapterMusicChanged registers a chapter event handler.
func (s *Session) OnChapterMusicChanged(fn func(ChapterMusicChanged)) {
	if fn != nil {
		s.onChapterMusic = append(s.onChapterMusic, fn)
	}
}

// OnPoolStatusUpdated registers a pool event handler.
func (s *Session) OnPoolStatusUpdated(fn func(PoolStatusUpdated)) {
	if fn != nil {
		s.onPoolStatus = append(s.onPoolStatus, fn)
	}
}

// OnTrackSwitch registers a track-switch event handler.
func (s *Session) OnTrackSwitch(fn func(TrackSwitch)) {
	if fn != nil {
		s.onTrackSwitch = append(s.onTrackSwitch, fn)
	}
}

// Open analyzes the book (serving a stored analysis when one matches),
// loads the track pool and builds the chapter-to-track mappings.
func (s *Session) Open(ctx context.Context, b book.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(b.Chapters) == 0 {
		return fmt.Errorf("book %q has no chapters", b.Title)
	}

	s.bookID = b.ID
	if s.bookID == "" {
		s.bookID = workspace.BookID(b.Title)
	}
	b.ID = s.bookID
	s.book = b

	s.analysis = s.loadOrAnalyze(b)
	s.log("ANALYSIS", "BOOK", "Book analysis ready",
		fmt.Sprintf("id=%s chapters=%d dominant=%s", s.bookID, len(s.analysis.Chapters), s.analysis.Profile.DominantMood))

	s.pool = []tracks.Track{}
	if s.loader != nil {
		loaded, err := s.loader.Load(ctx)
		if err != nil {
			s.log("RISK", "POOL", "Track pool load failed", err.Error())
		} else {
			s.pool = loaded
		}
	}
	if s.cfg.Playback.InstrumentalOnly {
		s.pool = filterInstrumental(s.pool)
	}
	s.emitPoolStatus(PoolStatusUpdated{TrackCount: len(s.pool)})

	s.mappings = tracks.GenerateChapterMappings(b, s.analysis.Chapters, s.pool)
	if s.dbPath != "" {
		if err := db.SaveChapterMappings(s.dbPath, s.bookID, s.mappings); err != nil {
			s.log("RISK", "DB", "Mapping save failed", err.Error())
		}
	}

	s.chapterIndex = -1
	s.history = nil
	s.sections = map[int]sectionEntry{}
	return nil
}

// loadOrAnalyze serves the persisted analysis when it still matches the
// book's chapter count, recomputing and re-persisting otherwise.
func (s *Session) loadOrAnalyze(b book.Book) analysis.BookAnalysis {
	if s.dbPath != "" {
		stored, found, err := db.LoadBookAnalysis(s.dbPath, s.bookID)
		if err != nil {
			s.log("RISK", "DB", "Analysis load failed", err.Error())
		} else if found && len(stored.Chapters) == len(b.Chapters) {
			s.log("INFO", "DB", "Analysis loaded from store", s.bookID)
			return stored
		}
	}

	computed := analysis.AnalyzeBook(b)
	if s.dbPath != "" {
		if err := db.SaveBookAnalysis(s.dbPath, s.bookID, computed); err != nil {
			s.log("RISK", "DB", "Analysis save failed", err.Error())
		}
	}
	return computed
}

// EnterChapter builds the playlist for a chapter and resets playback to
// its first track. totalPages is the reader's current pagination of the
// chapter; a changed page count invalidates the cached shift analysis.
func (s *Session) EnterChapter(index, totalPages int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.book.Chapters) {
		return fmt.Errorf("chapter index %d out of range [0,%d)", index, len(s.book.Chapters))
	}
	if totalPages < 1 {
		totalPages = 1
	}

	ch := s.book.Chapters[index]
	chAnalysis := s.analysis.Chapters[index]

	entry, ok := s.sections[index]
	if !ok || entry.pages != totalPages {
		result := shift.AnalyzeChapterSections(ch.Content, chAnalysis.PrimaryMood, totalPages, s.cfg.Playback.MaxShiftsPerChapter)
		entry = sectionEntry{pages: totalPages, result: result}
		s.sections[index] = entry
		s.log("ANALYSIS", "SHIFT", "Chapter sections analyzed",
			fmt.Sprintf("chapter=%d pages=%d shifts=%d", index, totalPages, result.TotalShifts))
	}

	s.playlist = buildPlaylist(chAnalysis, s.pool, ch)
	s.chapterIndex = index
	s.history = playback.NewHistory(index, len(s.playlist), entry.result)

	ev := ChapterMusicChanged{
		ChapterIndex: index,
		Mood:         chAnalysis.PrimaryMood,
		Playlist:     s.playlist,
		Shifts:       entry.result,
	}
	for _, fn := range s.onChapterMusic {
		fn(ev)
	}
	return nil
}

// TurnPage routes a page navigation through the playback history and
// emits a TrackSwitch when the playing track changes. Page-based
// switching can be disabled in settings.
func (s *Session) TurnPage(ev playback.PageEvent) (playback.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.Playback.PageBasedMusicSwitch {
		return playback.Decision{}, nil
	}
	if s.history == nil {
		return playback.Decision{}, fmt.Errorf("no chapter entered")
	}
	if ev.ChapterIndex != s.chapterIndex {
		return playback.Decision{}, fmt.Errorf("page event for chapter %d, current chapter is %d", ev.ChapterIndex, s.chapterIndex)
	}

	from := s.history.CurrentTrack()
	decision := s.history.HandleNavigation(ev)
	if decision.Switch {
		out := TrackSwitch{
			ChapterIndex: s.chapterIndex,
			Page:         ev.NewPage,
			FromTrack:    from,
			ToTrack:      decision.SwitchTo,
			Restored:     decision.Restored,
			ShiftPoint:   decision.ShiftPoint,
		}
		if decision.SwitchTo >= 0 && decision.SwitchTo < len(s.playlist) {
			out.Track = s.playlist[decision.SwitchTo]
		}
		for _, fn := range s.onTrackSwitch {
			fn(out)
		}
	}
	return decision, nil
}

// CurrentTrack returns the playing track for the active chapter.
func (s *Session) CurrentTrack() (tracks.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history == nil || len(s.playlist) == 0 {
		return tracks.Track{}, false
	}
	idx := s.history.CurrentTrack()
	if idx < 0 || idx >= len(s.playlist) {
		return tracks.Track{}, false
	}
	return s.playlist[idx], true
}

// Analysis returns the book analysis for the opened book.
func (s *Session) Analysis() analysis.BookAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// Mappings returns the per-chapter track mappings.
func (s *Session) Mappings() []tracks.ChapterMapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mappings
}

// Playlist returns the ordered playlist of the active chapter.
func (s *Session) Playlist() []tracks.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playlist
}

// Sections returns the shift analysis for the active chapter.
func (s *Session) Sections() (shift.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sections[s.chapterIndex]
	return entry.result, ok
}

func (s *Session) emitPoolStatus(ev PoolStatusUpdated) {
	for _, fn := range s.onPoolStatus {
		fn(ev)
	}
}

// buildPlaylist puts the chapter's recommended tracks first and fills
// the tail with the rest of the pool so skipping never runs dry.
func buildPlaylist(a analysis.ChapterAnalysis, trackPool []tracks.Track, ch book.Chapter) []tracks.Track {
	selected := tracks.SelectForChapter(a, trackPool, ch)
	seen := make(map[string]struct{}, len(selected))
	for _, t := range selected {
		seen[t.ID] = struct{}{}
	}
	out := append([]tracks.Track{}, selected...)
	for _, t := range trackPool {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

var vocalTags = []string{"vocal", "vocals", "voice", "singing", "speech", "spoken"}

func filterInstrumental(in []tracks.Track) []tracks.Track {
	out := make([]tracks.Track, 0, len(in))
	for _, t := range in {
		if hasVocalTag(t.Tags) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func hasVocalTag(tags []string) bool {
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, v := range vocalTags {
			if lower == v {
				return true
			}
		}
	}
	return false
}
