package tui

import (
	"context"
	"testing"
	"time"

	"github.com/mbruna/tempo/internal/config"
	"github.com/mbruna/tempo/internal/gesture"
	"github.com/mbruna/tempo/internal/layout"
	"github.com/mbruna/tempo/internal/store"
	"github.com/mbruna/tempo/internal/task"
)

// fixtureModel builds a model with a fixed 80-column window and one timed
// task laid out, without starting a program.
func fixtureModel(t *testing.T) (Model, *task.Task) {
	t.Helper()

	cfg := config.Default()
	st := store.New(nopRemote{})

	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local)
	tk, err := task.New("block", day, "09:00", "10:00", "", "")
	if err != nil {
		t.Fatal(err)
	}
	tk.ID = "a"
	st.Load([]*task.Task{tk})

	m := NewModel(st, nil, cfg)
	m.width = 80
	m.height = 40
	m.day = day
	m.loading = false
	m.recompute()
	return m, tk
}

type nopRemote struct{}

func (nopRemote) Insert(_ context.Context, t *task.Task) (*task.Task, error) { return t, nil }
func (nopRemote) Update(context.Context, string, *task.Task) error           { return nil }
func (nopRemote) Delete(context.Context, string) error                       { return nil }

func TestBlockRect(t *testing.T) {
	m, _ := fixtureModel(t)

	s, ok := m.slots["a"]
	if !ok {
		t.Fatal("no slot computed")
	}

	r := m.blockRect(s)
	if r.x != 0 || r.w != m.timelineWidth() {
		t.Errorf("full-width slot maps to x=%d w=%d, want 0..%d", r.x, r.w, m.timelineWidth())
	}
	// 09:00 with a 06:00 day start at 4 rows/hour is row 12, one hour is 4
	// rows tall.
	if r.y != 12 || r.h != 4 {
		t.Errorf("rect = %+v, want y=12 h=4", r)
	}
}

func TestBlockRectHalfWidth(t *testing.T) {
	m, _ := fixtureModel(t)

	s := layout.Slot{Columns: 2, Column: 1, WidthPct: 50, LeftPct: 50, StartMin: 540, EndMin: 600}
	r := m.blockRect(s)

	tw := m.timelineWidth()
	if r.x != tw/2 {
		t.Errorf("x = %d, want %d", r.x, tw/2)
	}
	if r.x+r.w > tw {
		t.Errorf("rect overflows the timeline: %+v (width %d)", r, tw)
	}
}

func TestPreviewRectFollowsResize(t *testing.T) {
	m, _ := fixtureModel(t)
	s := m.slots["a"]

	// A top resize to 08:30 grows the rect upward while the stored slot
	// still says 09:00.
	p := gesture.Preview{TaskID: "a", Mode: gesture.ModeResizeTop, StartMin: 510, EndMin: 600}
	r := m.previewRect(s, p)
	if r.y != 10 || r.h != 6 {
		t.Errorf("rect = %+v, want y=10 h=6", r)
	}

	// The base rect is untouched.
	base := m.blockRect(s)
	if base.y != 12 || base.h != 4 {
		t.Errorf("base rect = %+v, want y=12 h=4", base)
	}
}

func TestPreviewRectFollowsDrag(t *testing.T) {
	m, _ := fixtureModel(t)
	s := m.slots["a"]

	p := gesture.Preview{TaskID: "a", Mode: gesture.ModeDragging, OffsetX: 3, OffsetY: 2}
	r := m.previewRect(s, p)
	base := m.blockRect(s)
	if r.y != base.y+2 {
		t.Errorf("y = %d, want %d", r.y, base.y+2)
	}
	if r.x != 0 {
		t.Errorf("x = %d, a full-width block cannot shift sideways", r.x)
	}

	// The ghost stays inside the timeline.
	p.OffsetY = 1000
	r = m.previewRect(s, p)
	if r.y+r.h > m.timelineRows() {
		t.Errorf("rect %+v leaves the timeline (%d rows)", r, m.timelineRows())
	}
}

func TestHitTest(t *testing.T) {
	m, _ := fixtureModel(t)

	// Inside the block: gutter offset + some column, header offset + row 13.
	id, region, ok := m.hitTest(gutterWidth+5, timelineTop+13)
	if !ok || id != "a" {
		t.Fatalf("hitTest = (%q, %v, %v), want task a", id, region, ok)
	}
	if region != gesture.RegionBody {
		t.Errorf("middle of the block should be body, got %v", region)
	}

	// First row of the block is the top resize handle.
	_, region, ok = m.hitTest(gutterWidth+5, timelineTop+12)
	if !ok || region != gesture.RegionTop {
		t.Errorf("top row should be the top handle, got (%v, %v)", region, ok)
	}

	// Empty space misses.
	if _, _, ok := m.hitTest(gutterWidth+5, timelineTop); ok {
		t.Error("06:00 row is empty, hit test must miss")
	}

	// The gutter is not part of the timeline.
	if _, _, ok := m.hitTest(2, timelineTop+13); ok {
		t.Error("gutter clicks must miss")
	}
}

func TestDropTarget(t *testing.T) {
	m, _ := fixtureModel(t)

	// Same-day drop at the 09:00 row.
	dayOffset, startMin := m.dropTarget(gutterWidth+5, timelineTop+12)
	if dayOffset != 0 {
		t.Errorf("dayOffset = %d, want 0", dayOffset)
	}
	if startMin != 540 {
		t.Errorf("startMin = %d, want 540", startMin)
	}

	// Over the gutter: previous day.
	if off, _ := m.dropTarget(2, timelineTop+12); off != -1 {
		t.Errorf("gutter drop offset = %d, want -1", off)
	}

	// Past the right margin: next day.
	if off, _ := m.dropTarget(gutterWidth+m.timelineWidth()+1, timelineTop+12); off != 1 {
		t.Errorf("margin drop offset = %d, want 1", off)
	}
}

func TestMinuteRowRoundTrip(t *testing.T) {
	m, _ := fixtureModel(t)

	for row := 0; row < m.timelineRows(); row++ {
		min := m.minuteForRow(row)
		if got := m.rowForMinute(min); got != row {
			t.Errorf("row %d -> minute %d -> row %d", row, min, got)
		}
	}
}
