package chunk

import (
	"math"
	"strings"
)

// PageSlice is one page-sized span of a chapter's words. Page numbers are
// 1-based to match reader pagination.
type PageSlice struct {
	Page      int
	StartWord int
	EndWord   int
	Text      string
}

// Pages splits text into totalPages contiguous, non-overlapping word groups of
// equal size (the last may be short). This approximates rendered pages from a
// word count alone; it can drift from the reader's true page boundaries under
// different font or width settings, which is tolerated by callers.
func Pages(text string, totalPages int) []PageSlice {
	if totalPages <= 0 {
		totalPages = 1
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	wordsPerPage := int(math.Ceil(float64(len(words)) / float64(totalPages)))

	out := make([]PageSlice, 0, totalPages)
	for page := 1; page <= totalPages; page++ {
		start := (page - 1) * wordsPerPage
		if start >= len(words) {
			break
		}
		end := page * wordsPerPage
		if end > len(words) {
			end = len(words)
		}
		out = append(out, PageSlice{
			Page:      page,
			StartWord: start,
			EndWord:   end,
			Text:      strings.Join(words[start:end], " "),
		})
	}
	return out
}
