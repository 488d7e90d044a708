package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"book_music/internal/book"
)

var chapterHeaderPattern = regexp.MustCompile(`(?i)^\s*(chapter|ch\.)\s+([0-9ivxlcdm]+|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|twenty)\b.*`)

// SplitChapters breaks plain text into chapters on header lines like
// "Chapter 7" or "Ch. XII". Text without headers falls back to
// fixed-size word blocks so analysis always has chapters to work with.
func SplitChapters(text string) []book.Chapter {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]book.Chapter, 0, 64)
	var currentTitle string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		order := len(out) + 1
		title := currentTitle
		if title == "" {
			title = fmt.Sprintf("Chapter %d", order)
		}
		out = append(out, book.Chapter{
			ID:      fmt.Sprintf("chapter-%d", order),
			Title:   title,
			Content: strings.Join(current, "\n"),
			Order:   order,
		})
		current = nil
	}

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if chapterHeaderPattern.MatchString(trim) {
			flush()
			currentTitle = trim
			continue
		}
		if trim != "" {
			current = append(current, trim)
		}
	}
	flush()

	if len(out) > 0 {
		return out
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []book.Chapter{{ID: "chapter-1", Title: "Chapter 1", Order: 1}}
	}
	const chunkSize = 2500
	for i := 0; i < len(words); i += chunkSize {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		order := len(out) + 1
		out = append(out, book.Chapter{
			ID:      fmt.Sprintf("chapter-%d", order),
			Title:   fmt.Sprintf("Chapter %d", order),
			Content: strings.Join(words[i:end], " "),
			Order:   order,
		})
	}
	return out
}
