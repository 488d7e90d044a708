package pipeline

import (
	"runtime"
	"sync"

	"book_music/internal/mood"
)

type Fetcher func(m mood.Mood) error

// FetchMoods runs fn for each mood across a bounded worker pool and
// collects the per-mood errors. A failed mood never stops the others.
func FetchMoods(moods []mood.Mood, workers int, fn Fetcher) []error {
	if len(moods) == 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}

	jobs := make(chan mood.Mood)
	errs := make(chan error, len(moods))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				if err := fn(m); err != nil {
					errs <- err
				}
			}
		}()
	}

	for _, m := range moods {
		jobs <- m
	}
	close(jobs)
	wg.Wait()
	close(errs)

	out := make([]error, 0, len(errs))
	for err := range errs {
		out = append(out, err)
	}
	return out
}
