package playback

import "book_music/internal/shift"

// PageEvent is a page-navigation notification from the reading surface.
type PageEvent struct {
	OldPage      int
	NewPage      int
	ChapterIndex int
}

// Decision tells the player what to do after a navigation event.
type Decision struct {
	SwitchTo   int  // target track index, meaningful only when Switch is true
	Switch     bool
	Restored   bool // the switch replays a previously recorded index
	ShiftPoint *shift.Point
}

// History replays prior track decisions as the reader pages through a
// chapter. It records which track index was active when each page was first
// reached so that paging backward restores exactly what was playing before,
// without re-scoring any text.
type History struct {
	chapterIndex int
	playlistLen  int
	current      int
	shifts       shift.Result
	pageTrack    map[int]int
}

// NewHistory starts tracking a freshly opened chapter. Page 1 is seeded with
// track index 0.
func NewHistory(chapterIndex, playlistLen int, shifts shift.Result) *History {
	return &History{
		chapterIndex: chapterIndex,
		playlistLen:  playlistLen,
		shifts:       shifts,
		pageTrack:    map[int]int{1: 0},
	}
}

// CurrentTrack returns the track index the tracker believes is active.
func (h *History) CurrentTrack() int {
	return h.current
}

// ChapterIndex identifies the chapter this history belongs to.
func (h *History) ChapterIndex() int {
	return h.chapterIndex
}

// SetCurrentTrack records a track change made outside page navigation (manual
// selection, track-ended advance) so later restorations stay accurate.
func (h *History) SetCurrentTrack(index int) {
	if index < 0 || (h.playlistLen > 0 && index >= h.playlistLen) {
		return
	}
	h.current = index
}

// HandleNavigation processes one page-navigation event and returns the track
// decision. With one track or fewer there is nothing to switch, so the
// tracker is a no-op.
func (h *History) HandleNavigation(ev PageEvent) Decision {
	if h.playlistLen <= 1 {
		return Decision{}
	}
	switch {
	case ev.NewPage > ev.OldPage:
		return h.forward(ev.OldPage, ev.NewPage)
	case ev.NewPage < ev.OldPage:
		return h.backward(ev.OldPage, ev.NewPage)
	default:
		return Decision{}
	}
}

func (h *History) forward(oldPage, newPage int) Decision {
	point, isShift := h.shifts.PointAt(newPage)
	if !isShift {
		h.pageTrack[newPage] = h.current
		return Decision{}
	}

	// Record where we were, advance (clamped to the last track), record
	// where we land.
	h.pageTrack[oldPage] = h.current
	next := h.current + 1
	if next >= h.playlistLen {
		next = h.playlistLen - 1
	}
	changed := next != h.current
	h.current = next
	h.pageTrack[newPage] = h.current
	if !changed {
		return Decision{ShiftPoint: &point}
	}
	return Decision{SwitchTo: h.current, Switch: true, ShiftPoint: &point}
}

func (h *History) backward(oldPage, newPage int) Decision {
	if recorded, ok := h.pageTrack[newPage]; ok {
		if recorded == h.current {
			return Decision{}
		}
		h.current = recorded
		return Decision{SwitchTo: recorded, Switch: true, Restored: true}
	}

	// No history for this page; if a shift point was crossed going backward,
	// step one track back and remember the result.
	if point, crossed := h.shifts.PointBetween(newPage, oldPage); crossed && h.current > 0 {
		h.current--
		h.pageTrack[newPage] = h.current
		return Decision{SwitchTo: h.current, Switch: true, ShiftPoint: &point}
	}
	return Decision{}
}
