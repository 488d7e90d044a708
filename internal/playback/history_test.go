package playback

import (
	"testing"

	"book_music/internal/shift"
)

func shiftsAt(pages ...int) shift.Result {
	r := shift.Result{}
	for _, p := range pages {
		r.ShiftPoints = append(r.ShiftPoints, shift.Point{Page: p, FromMood: "peaceful", ToMood: "dark"})
	}
	r.TotalShifts = len(pages)
	return r
}

func forwardTo(t *testing.T, h *History, from, to int) Decision {
	t.Helper()
	var last Decision
	for p := from; p < to; p++ {
		last = h.HandleNavigation(PageEvent{OldPage: p, NewPage: p + 1})
	}
	return last
}

func TestForwardAdvancesAtShiftPoint(t *testing.T) {
	h := NewHistory(0, 3, shiftsAt(4))
	if d := h.HandleNavigation(PageEvent{OldPage: 1, NewPage: 2}); d.Switch {
		t.Fatalf("no switch expected without a shift point: %+v", d)
	}
	h.HandleNavigation(PageEvent{OldPage: 2, NewPage: 3})
	d := h.HandleNavigation(PageEvent{OldPage: 3, NewPage: 4})
	if !d.Switch || d.SwitchTo != 1 {
		t.Fatalf("expected advance to track 1 at shift page, got %+v", d)
	}
	if d.ShiftPoint == nil || d.ShiftPoint.Page != 4 {
		t.Fatalf("decision should carry the shift point")
	}
	if h.CurrentTrack() != 1 {
		t.Fatalf("current track not updated: %d", h.CurrentTrack())
	}
}

func TestForwardClampsAtLastTrack(t *testing.T) {
	h := NewHistory(0, 2, shiftsAt(2, 3))
	h.HandleNavigation(PageEvent{OldPage: 1, NewPage: 2}) // 0 -> 1
	d := h.HandleNavigation(PageEvent{OldPage: 2, NewPage: 3})
	if d.Switch {
		t.Fatalf("already at last track, no switch possible: %+v", d)
	}
	if h.CurrentTrack() != 1 {
		t.Fatalf("expected to stay on last track, got %d", h.CurrentTrack())
	}
}

func TestBackwardRestoresRecordedTrack(t *testing.T) {
	h := NewHistory(0, 3, shiftsAt(4))
	forwardTo(t, h, 1, 6)
	if h.CurrentTrack() != 1 {
		t.Fatalf("setup: expected track 1 after crossing shift, got %d", h.CurrentTrack())
	}

	// Jump straight back to page 2, which was first visited on track 0.
	d := h.HandleNavigation(PageEvent{OldPage: 6, NewPage: 2})
	if !d.Switch || !d.Restored || d.SwitchTo != 0 {
		t.Fatalf("expected restoration to track 0, got %+v", d)
	}
	if h.CurrentTrack() != 0 {
		t.Fatalf("current track should be restored to 0, got %d", h.CurrentTrack())
	}
}

func TestBackwardRoundTripReproducesHistory(t *testing.T) {
	h := NewHistory(0, 3, shiftsAt(4))
	forwardTo(t, h, 1, 6)

	// Walk backward page by page: crossing the shift at page 4 steps back.
	for p := 6; p > 2; p-- {
		h.HandleNavigation(PageEvent{OldPage: p, NewPage: p - 1})
	}
	if h.CurrentTrack() != 0 {
		t.Fatalf("expected track 0 back on page 2, got %d", h.CurrentTrack())
	}

	// Forward again over the same shift point reproduces the original run.
	forwardTo(t, h, 2, 5)
	if h.CurrentTrack() != 1 {
		t.Fatalf("expected track 1 after re-crossing shift, got %d", h.CurrentTrack())
	}
}

func TestBackwardWithoutHistoryStepsAcrossCrossedShift(t *testing.T) {
	h := NewHistory(0, 3, shiftsAt(4))
	forwardTo(t, h, 1, 6)

	// Erase knowledge of page 3 to force the crossed-shift fallback.
	delete(h.pageTrack, 3)
	d := h.HandleNavigation(PageEvent{OldPage: 5, NewPage: 3})
	if !d.Switch || d.SwitchTo != 0 || d.Restored {
		t.Fatalf("expected derived step back to track 0, got %+v", d)
	}
	if _, ok := h.pageTrack[3]; !ok {
		t.Fatalf("fallback must record the new mapping for the page")
	}
}

func TestBackwardNoShiftCrossedNoChange(t *testing.T) {
	h := NewHistory(0, 3, shiftsAt(9))
	forwardTo(t, h, 1, 5)
	delete(h.pageTrack, 2)
	if d := h.HandleNavigation(PageEvent{OldPage: 5, NewPage: 2}); d.Switch {
		t.Fatalf("no shift crossed, expected no change: %+v", d)
	}
}

func TestSingleTrackPlaylistIsNoOp(t *testing.T) {
	h := NewHistory(0, 1, shiftsAt(2, 3, 4))
	for p := 1; p < 8; p++ {
		if d := h.HandleNavigation(PageEvent{OldPage: p, NewPage: p + 1}); d.Switch {
			t.Fatalf("single-track playlist must never switch: %+v", d)
		}
	}
	if d := h.HandleNavigation(PageEvent{OldPage: 8, NewPage: 2}); d.Switch {
		t.Fatalf("single-track playlist must never switch backward either")
	}
}

func TestSamePageEventIgnored(t *testing.T) {
	h := NewHistory(0, 3, shiftsAt(4))
	if d := h.HandleNavigation(PageEvent{OldPage: 3, NewPage: 3}); d.Switch {
		t.Fatalf("same-page event must be ignored")
	}
}

func TestSetCurrentTrackBounds(t *testing.T) {
	h := NewHistory(2, 3, shift.Result{})
	h.SetCurrentTrack(2)
	if h.CurrentTrack() != 2 {
		t.Fatalf("expected manual selection to stick")
	}
	h.SetCurrentTrack(7)
	h.SetCurrentTrack(-1)
	if h.CurrentTrack() != 2 {
		t.Fatalf("out-of-range selections must be ignored, got %d", h.CurrentTrack())
	}
	if h.ChapterIndex() != 2 {
		t.Fatalf("chapter index lost")
	}
}
