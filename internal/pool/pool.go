package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"book_music/internal/cache"
	"book_music/internal/mood"
	"book_music/internal/pipeline"
	"book_music/internal/tracks"
)

const cacheKey = "music_tracks"

// LogFn receives progress lines during pool loading.
type LogFn func(level, stage, message, detail string)

// Source fetches candidate tracks for one mood.
type Source interface {
	TracksForMood(ctx context.Context, m mood.Mood, limit int) ([]tracks.Track, error)
}

// Loader assembles the shared track pool: every mood gets a best-effort
// fetch, results are deduplicated, and the pool is cached on disk so
// reopening a book does not re-hit the API.
type Loader struct {
	source  Source
	store   *cache.Store
	perMood int
	ttl     time.Duration
	workers int
	log     LogFn
}

// NewLoader creates a pool loader. store may be nil to disable caching,
// and log may be nil to discard progress lines.
func NewLoader(source Source, store *cache.Store, perMood int, ttl time.Duration, log LogFn) *Loader {
	if perMood <= 0 {
		perMood = 15
	}
	if log == nil {
		log = func(string, string, string, string) {}
	}
	return &Loader{
		source:  source,
		store:   store,
		perMood: perMood,
		ttl:     ttl,
		workers: 4,
		log:     log,
	}
}

// Load returns the track pool, serving from cache when a fresh entry
// exists. A mood whose fetch fails contributes nothing; the pool is
// still built from the moods that succeeded.
func (l *Loader) Load(ctx context.Context) ([]tracks.Track, error) {
	if l.store != nil {
		var cached []tracks.Track
		ok, err := l.store.Get(cacheKey, l.ttl, &cached)
		if err != nil {
			return nil, fmt.Errorf("read track cache: %w", err)
		}
		if ok && len(cached) > 0 {
			l.log("INFO", "POOL", "Track pool loaded from cache", fmt.Sprintf("%d tracks", len(cached)))
			return cached, nil
		}
	}

	if l.source == nil {
		l.log("RISK", "POOL", "No track source configured", "")
		return []tracks.Track{}, nil
	}

	// Collect per-mood so the pool order stays stable regardless of
	// which fetch finishes first.
	slot := make(map[mood.Mood]int, len(mood.Order))
	for i, m := range mood.Order {
		slot[m] = i
	}
	var mu sync.Mutex
	byMood := make([][]tracks.Track, len(mood.Order))

	errs := pipeline.FetchMoods(mood.Order, l.workers, func(m mood.Mood) error {
		found, err := l.source.TracksForMood(ctx, m, l.perMood)
		if err != nil {
			l.log("RISK", "POOL", "Mood fetch failed", fmt.Sprintf("mood=%s err=%v", m, err))
			return fmt.Errorf("fetch %s tracks: %w", m, err)
		}
		mu.Lock()
		byMood[slot[m]] = found
		mu.Unlock()
		return nil
	})
	if len(errs) == len(mood.Order) {
		return nil, fmt.Errorf("all %d mood fetches failed: %w", len(errs), errs[0])
	}

	pool := make([]tracks.Track, 0, l.perMood*len(mood.Order))
	for _, found := range byMood {
		pool = append(pool, found...)
	}

	pool = tracks.Dedupe(pool)
	l.log("INFO", "POOL", "Track pool assembled", fmt.Sprintf("%d tracks, %d failed moods", len(pool), len(errs)))

	if l.store != nil && len(pool) > 0 {
		if err := l.store.Put(cacheKey, pool); err != nil {
			l.log("RISK", "POOL", "Track cache write failed", err.Error())
		}
	}
	return pool, nil
}

// Invalidate drops the cached pool so the next Load refetches.
func (l *Loader) Invalidate() error {
	if l.store == nil {
		return nil
	}
	return l.store.Delete(cacheKey)
}
