package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"book_music/internal/book"
)

// Parsed holds the extracted text of an imported book. EPUB sources
// carry their spine chapters; other formats are split heuristically.
type Parsed struct {
	Title       string
	SourcePath  string
	SourceBytes []byte
	Text        string
	chapters    []book.Chapter
}

// ParseFile reads a book file and extracts its text. Supported formats
// are .epub, .pdf, .txt and .md.
func ParseFile(path string) (*Parsed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := &Parsed{
		Title:       title,
		SourcePath:  path,
		SourceBytes: raw,
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".epub":
		epubTitle, chapters, err := parseEPUB(raw)
		if err != nil {
			return nil, err
		}
		if epubTitle != "" {
			out.Title = epubTitle
		}
		out.chapters = chapters
		parts := make([]string, 0, len(chapters))
		for _, ch := range chapters {
			parts = append(parts, ch.Content)
		}
		out.Text = normalizeWhitespace(strings.Join(parts, "\n"))
	case ".pdf":
		text, err := parsePDF(path)
		if err != nil {
			return nil, err
		}
		out.Text = normalizeWhitespace(text)
	case ".txt", ".md":
		out.Text = normalizeWhitespace(string(raw))
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	return out, nil
}

// Book assembles the parsed source into chapters. EPUB spine chapters
// are used as-is; everything else goes through the header heuristics.
func (p *Parsed) Book() book.Book {
	chapters := p.chapters
	if len(chapters) == 0 {
		chapters = SplitChapters(p.Text)
	}
	return book.Book{
		Title:    p.Title,
		Chapters: chapters,
	}
}

func parsePDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.Join(strings.Fields(line), " ")
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
