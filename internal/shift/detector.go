package shift

import (
	"strings"

	"book_music/internal/chunk"
	"book_music/internal/mood"
)

// DefaultMaxShifts bounds how many track changes a single chapter may trigger.
const DefaultMaxShifts = 5

// Pages shorter than this are noise (title pages, scene break markers) and are
// skipped entirely.
const minPageChars = 50

const shiftThreshold = 50

// Point marks a page at which detected mood drift justifies a track change.
type Point struct {
	Page       int       `json:"page"`
	FromMood   mood.Mood `json:"fromMood"`
	ToMood     mood.Mood `json:"toMood"`
	Confidence int       `json:"confidence"`
	ShiftScore int       `json:"shiftScore"`
}

// Section records the mood in effect on one analyzed page.
type Section struct {
	Page         int       `json:"page"`
	Mood         mood.Mood `json:"mood"`
	MoodStrength int       `json:"moodStrength"`
}

// Result is the per-chapter section analysis, cached until pagination changes.
type Result struct {
	Sections    []Section `json:"sections"`
	ShiftPoints []Point   `json:"shiftPoints"`
	TotalShifts int       `json:"totalShifts"`
}

// PageAnalysis is the outcome of scoring one page against the current mood.
type PageAnalysis struct {
	PageMood     mood.Mood
	CurrentMood  mood.Mood
	ShiftScore   int
	MoodStrength int
	ShouldShift  bool
	Confidence   int
}

// AnalyzePageMoodShift scores one page's text against the emotion lexicon only
// and decides how strongly it argues for a music change. Scene keywords are
// deliberately excluded: page-level shifts track feeling, not setting.
func AnalyzePageMoodShift(pageText string, currentMood mood.Mood) PageAnalysis {
	scores := mood.Score(strings.ToLower(pageText), mood.EmotionLexicon, 1)
	ranked := mood.Ranking(nil, scores)

	pageMood := currentMood
	strength := 0
	if len(ranked) > 0 {
		pageMood = ranked[0].Mood
		strength = ranked[0].Score
	}

	shiftScore := 0
	switch {
	case pageMood != currentMood && strength > 2:
		shiftScore = 75 + min(25, strength*5)
	case pageMood == currentMood:
		shiftScore = 0
	default:
		shiftScore = 30 + strength*10
	}

	return PageAnalysis{
		PageMood:     pageMood,
		CurrentMood:  currentMood,
		ShiftScore:   shiftScore,
		MoodStrength: strength,
		ShouldShift:  shiftScore >= shiftThreshold,
		Confidence:   min(100, strength*10),
	}
}

// AnalyzeChapterSections slices a chapter into totalPages word groups,
// re-scores each page independently, and emits at most maxShifts shift
// points at strictly increasing page numbers. Page 1 is the starting mood and
// can never itself be a shift point.
//
// The word slicing approximates the reader's rendered pages and is not
// reconciled with them; callers re-run this whenever the page count changes.
func AnalyzeChapterSections(chapterText string, chapterMood mood.Mood, totalPages, maxShifts int) Result {
	if maxShifts <= 0 {
		maxShifts = DefaultMaxShifts
	}

	result := Result{Sections: []Section{}, ShiftPoints: []Point{}}
	currentMood := chapterMood
	for _, page := range chunk.Pages(chapterText, totalPages) {
		if len(page.Text) < minPageChars {
			continue
		}

		a := AnalyzePageMoodShift(page.Text, currentMood)
		if a.ShouldShift && result.TotalShifts < maxShifts && page.Page > 1 {
			result.ShiftPoints = append(result.ShiftPoints, Point{
				Page:       page.Page,
				FromMood:   currentMood,
				ToMood:     a.PageMood,
				Confidence: a.Confidence,
				ShiftScore: a.ShiftScore,
			})
			currentMood = a.PageMood
			result.TotalShifts++
		}

		result.Sections = append(result.Sections, Section{
			Page:         page.Page,
			Mood:         currentMood,
			MoodStrength: a.MoodStrength,
		})
	}
	return result
}

// PointAt returns the shift point registered for a page, if any.
func (r Result) PointAt(page int) (Point, bool) {
	for _, p := range r.ShiftPoints {
		if p.Page == page {
			return p, true
		}
	}
	return Point{}, false
}

// PointBetween returns the first shift point with low < page <= high.
func (r Result) PointBetween(low, high int) (Point, bool) {
	for _, p := range r.ShiftPoints {
		if p.Page > low && p.Page <= high {
			return p, true
		}
	}
	return Point{}, false
}
