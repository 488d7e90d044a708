package pipeline

import (
	"errors"
	"sync/atomic"
	"testing"

	"book_music/internal/mood"
)

func TestFetchMoods(t *testing.T) {
	moods := []mood.Mood{mood.Dark, mood.Epic, mood.Peaceful}

	var called int32
	errs := FetchMoods(moods, 2, func(m mood.Mood) error {
		atomic.AddInt32(&called, 1)
		if m == mood.Epic {
			return errors.New("test error")
		}
		return nil
	})

	if called != int32(len(moods)) {
		t.Fatalf("expected %d calls, got %d", len(moods), called)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
}

func TestFetchMoodsEmpty(t *testing.T) {
	if errs := FetchMoods(nil, 2, func(mood.Mood) error { return nil }); errs != nil {
		t.Fatalf("expected nil for empty mood list, got %v", errs)
	}
}
