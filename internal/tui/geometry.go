package tui

import (
	"github.com/mbruna/tempo/internal/gesture"
	"github.com/mbruna/tempo/internal/layout"
	"github.com/mbruna/tempo/internal/task"
)

// Timeline chrome. The gutter shows hour labels; everything right of it is
// the day container that slots map onto.
const (
	gutterWidth  = 7 // "06:00 ┃"
	timelineTop  = 2 // header line + rule
	minTimelineW = 10
)

// timelineWidth returns the width of the day container in cells.
func (m *Model) timelineWidth() int {
	w := m.width - gutterWidth - 1
	if w < minTimelineW {
		w = minTimelineW
	}
	return w
}

func (m *Model) minutesPerRow() int {
	return 60 / m.config.UI.RowsPerHour
}

func (m *Model) dayStartMin() int {
	return task.TimeToMinutes(m.config.Schedule.DayStart)
}

func (m *Model) dayEndMin() int {
	return task.TimeToMinutes(m.config.Schedule.DayEnd)
}

// timelineRows returns the number of rows spanning the visible day.
func (m *Model) timelineRows() int {
	return (m.dayEndMin() - m.dayStartMin()) / m.minutesPerRow()
}

// rowForMinute maps a minute-of-day to a timeline row, clamped to bounds.
func (m *Model) rowForMinute(min int) int {
	row := (min - m.dayStartMin()) / m.minutesPerRow()
	if row < 0 {
		row = 0
	}
	if max := m.timelineRows() - 1; row > max {
		row = max
	}
	return row
}

// minuteForRow maps a timeline row back to its minute-of-day.
func (m *Model) minuteForRow(row int) int {
	return m.dayStartMin() + row*m.minutesPerRow()
}

// rect is a block's cell rectangle within the timeline, rows relative to
// the timeline top.
type rect struct {
	x, y, w, h int
}

// blockRect converts a layout slot into cell geometry.
func (m *Model) blockRect(s layout.Slot) rect {
	tw := m.timelineWidth()

	x := int(s.LeftPct * float64(tw) / 100)
	w := int(s.WidthPct*float64(tw)/100 + 0.5)
	if w < 1 {
		w = 1
	}
	if x+w > tw {
		w = tw - x
	}

	y := m.rowForMinute(s.StartMin)
	endRow := (s.EndMin - m.dayStartMin() + m.minutesPerRow() - 1) / m.minutesPerRow()
	if max := m.timelineRows(); endRow > max {
		endRow = max
	}
	h := endRow - y
	if h < 1 {
		h = 1
	}

	return rect{x: x, y: y, w: w, h: h}
}

// previewRect positions a block at its in-flight candidate geometry, so a
// live resize or drag moves the block itself rather than only its label.
func (m *Model) previewRect(s layout.Slot, p gesture.Preview) rect {
	switch p.Mode {
	case gesture.ModeResizeTop, gesture.ModeResizeBottom:
		s.StartMin = p.StartMin
		s.EndMin = p.EndMin
		return m.blockRect(s)
	case gesture.ModeDragging:
		r := m.blockRect(s)
		r.x += p.OffsetX
		r.y += p.OffsetY
		if r.x+r.w > m.timelineWidth() {
			r.x = m.timelineWidth() - r.w
		}
		if r.x < 0 {
			r.x = 0
		}
		if max := m.timelineRows() - r.h; r.y > max {
			r.y = max
		}
		if r.y < 0 {
			r.y = 0
		}
		return r
	default:
		return m.blockRect(s)
	}
}

// contains reports whether a timeline-relative cell is inside the rect.
func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// region classifies where inside the rect a press landed. Edges win over
// body; top and bottom win over left and right.
func (r rect) region(x, y int) gesture.Region {
	switch {
	case r.h > 1 && y == r.y:
		return gesture.RegionTop
	case r.h > 1 && y == r.y+r.h-1:
		return gesture.RegionBottom
	case x == r.x:
		return gesture.RegionLeft
	case x == r.x+r.w-1:
		return gesture.RegionRight
	default:
		return gesture.RegionBody
	}
}

// hitTest maps absolute screen coordinates to the block under the pointer.
func (m *Model) hitTest(screenX, screenY int) (string, gesture.Region, bool) {
	x := screenX - gutterWidth
	y := screenY - timelineTop
	if x < 0 || y < 0 || y >= m.timelineRows() {
		return "", gesture.RegionBody, false
	}

	for id, s := range m.negotiation.Apply(m.slots) {
		r := m.blockRect(s)
		if r.contains(x, y) {
			return id, r.region(x, y), true
		}
	}
	return "", gesture.RegionBody, false
}

// dropTarget resolves a drag release into a day offset and a snapped start
// minute. Releasing over the gutter moves the block one day back; past the
// right margin, one day forward.
func (m *Model) dropTarget(screenX, screenY int) (dayOffset, startMin int) {
	switch {
	case screenX < gutterWidth:
		dayOffset = -1
	case screenX >= gutterWidth+m.timelineWidth():
		dayOffset = 1
	}

	row := screenY - timelineTop
	if row < 0 {
		row = 0
	}
	if max := m.timelineRows() - 1; row > max {
		row = max
	}
	return dayOffset, task.SnapMinutes(m.minuteForRow(row))
}
