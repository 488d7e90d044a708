package book

import "strings"

// Chapter is one ordered unit of a book as supplied by the parser. Content is
// treated as opaque text; stray markup degrades scoring gracefully instead of
// breaking it.
type Chapter struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// Book is a parsed book with its chapters in reading order.
type Book struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
}

// WordCount is the rough whitespace-split word count used for track-count and
// pagination estimates.
func (c Chapter) WordCount() int {
	return len(strings.Fields(c.Content))
}
