// Package gesture implements the per-block pointer state machine that turns
// raw press/move/release events into snapped, clamped time changes, width
// negotiations, drags and clicks.
package gesture

import (
	"errors"

	"github.com/mbruna/tempo/internal/task"
)

var (
	ErrNotTracking  = errors.New("no gesture in progress")
	ErrUntimedBlock = errors.New("block has no start time")
)

// Mode is the closed set of gesture states. A block is in exactly one mode
// at a time; illegal combinations (dragging while resizing) cannot be
// represented.
type Mode int

const (
	ModeIdle Mode = iota
	// ModePressed is a body press that has not crossed the drag threshold
	// yet. Released in place it becomes a click.
	ModePressed
	ModeResizeTop
	ModeResizeBottom
	ModeResizeLeft
	ModeResizeRight
	ModeDragging
)

// String returns the mode name for debug output.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePressed:
		return "pressed"
	case ModeResizeTop:
		return "resize-top"
	case ModeResizeBottom:
		return "resize-bottom"
	case ModeResizeLeft:
		return "resize-left"
	case ModeResizeRight:
		return "resize-right"
	case ModeDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Region identifies where on the block a press landed. The renderer owns
// hit-testing; the controller only needs the outcome.
type Region int

const (
	RegionBody Region = iota
	RegionTop
	RegionBottom
	RegionLeft
	RegionRight
)

// Config holds the geometry and limits for pixel-to-time conversion.
type Config struct {
	PixelsPerHour int    // vertical pixels spanning one hour
	DayWidthPx    int    // horizontal pixels spanning the day container
	DayStart      string // "HH:MM", floor for top-edge resize
	DayEnd        string // "HH:MM", ceiling for bottom-edge resize
	DragThreshold int    // pixels of movement before a press becomes a drag
}

// DefaultConfig returns the focus-hours defaults.
func DefaultConfig() Config {
	return Config{
		PixelsPerHour: 60,
		DayWidthPx:    400,
		DayStart:      "06:00",
		DayEnd:        "22:00",
		DragThreshold: 3,
	}
}

// Kind tags the outcome of a finished gesture.
type Kind int

const (
	// KindNone means the gesture ended without effect (cancelled, or a
	// resize released without meaningful delta).
	KindNone Kind = iota
	// KindClick is a press released within the drag threshold.
	KindClick
	// KindTime carries a new start/end to submit to the store.
	KindTime
	// KindWidth carries an ephemeral width negotiation delta; nothing is
	// persisted for these.
	KindWidth
	// KindDrop is a completed drag; the caller resolves the drop zone into
	// a day and slot.
	KindDrop
)

// Result is what a release produces.
type Result struct {
	Kind     Kind
	TaskID   string
	Start    string  // KindTime
	End      string  // KindTime
	Edge     Mode    // KindWidth: ModeResizeLeft or ModeResizeRight
	DeltaPct float64 // KindWidth
	DropX    int     // KindDrop: release coordinates
	DropY    int
}

// Preview is the coalesced live feedback for the current frame.
type Preview struct {
	TaskID   string
	Mode     Mode
	StartMin int     // candidate interval while resizing or pressed
	EndMin   int     // exclusive
	DeltaPct float64 // horizontal negotiation delta so far
	OffsetX  int     // pointer offset from the press, for drag ghosts
	OffsetY  int
}

// Controller tracks one pointer gesture at a time. It holds candidate state
// only; nothing reaches the store until End returns a non-none Result.
type Controller struct {
	cfg Config

	mode     Mode
	taskID   string
	startMin int // interval at press time
	endMin   int
	downX    int
	downY    int
	lastX    int
	lastY    int

	// Candidate values, refreshed on every move.
	candStart int
	candEnd   int
	candPct   float64

	dirty bool // a move happened since the last Frame
}

// NewController creates an idle controller.
func NewController(cfg Config) *Controller {
	if cfg.PixelsPerHour <= 0 {
		cfg.PixelsPerHour = 60
	}
	if cfg.DayWidthPx <= 0 {
		cfg.DayWidthPx = 400
	}
	if cfg.DragThreshold <= 0 {
		cfg.DragThreshold = 3
	}
	return &Controller{cfg: cfg}
}

// Mode returns the current state.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Active returns true while a gesture is in progress.
func (c *Controller) Active() bool {
	return c.mode != ModeIdle
}

// Begin starts tracking a press on the given region of a block. Vertical
// resize of an untimed block is rejected before any state changes.
func (c *Controller) Begin(t *task.Task, region Region, x, y int) error {
	if t == nil {
		return task.ErrTaskNotFound
	}
	if region != RegionBody && !t.Timed() {
		return ErrUntimedBlock
	}

	c.taskID = t.ID
	c.startMin = task.TimeToMinutes(t.Start())
	c.endMin = c.startMin + t.Duration()
	c.downX, c.downY = x, y
	c.lastX, c.lastY = x, y
	c.candStart, c.candEnd = c.startMin, c.endMin
	c.candPct = 0
	c.dirty = false

	switch region {
	case RegionTop:
		c.mode = ModeResizeTop
	case RegionBottom:
		c.mode = ModeResizeBottom
	case RegionLeft:
		c.mode = ModeResizeLeft
	case RegionRight:
		c.mode = ModeResizeRight
	default:
		c.mode = ModePressed
	}
	return nil
}

// Move feeds a pointer position. Candidates are recomputed but not exposed
// until the next Frame call, so a burst of motion events costs one render.
func (c *Controller) Move(x, y int) {
	if c.mode == ModeIdle {
		return
	}
	c.lastX, c.lastY = x, y

	dx := x - c.downX
	dy := y - c.downY

	switch c.mode {
	case ModePressed:
		if abs(dx) >= c.cfg.DragThreshold || abs(dy) >= c.cfg.DragThreshold {
			c.mode = ModeDragging
		}
	case ModeResizeTop:
		c.candStart = c.clampStart(c.snapped(c.startMin + c.minutesFor(dy)))
	case ModeResizeBottom:
		c.candEnd = c.clampEnd(c.snapped(c.endMin + c.minutesFor(dy)))
	case ModeResizeLeft, ModeResizeRight:
		c.candPct = float64(dx) * 100 / float64(c.cfg.DayWidthPx)
	}
	c.dirty = true
}

// Frame returns the coalesced preview if anything changed since the last
// frame. The TUI calls this once per tick rather than on every motion event.
func (c *Controller) Frame() (Preview, bool) {
	if c.mode == ModeIdle || !c.dirty {
		return Preview{}, false
	}
	c.dirty = false
	return Preview{
		TaskID:   c.taskID,
		Mode:     c.mode,
		StartMin: c.candStart,
		EndMin:   c.candEnd,
		DeltaPct: c.candPct,
		OffsetX:  c.lastX - c.downX,
		OffsetY:  c.lastY - c.downY,
	}, true
}

// End finishes the gesture at the release point and returns what, if
// anything, should happen. The controller is idle afterwards.
func (c *Controller) End(x, y int) Result {
	if c.mode == ModeIdle {
		return Result{Kind: KindNone}
	}
	c.Move(x, y)

	mode := c.mode
	result := Result{Kind: KindNone, TaskID: c.taskID}

	switch mode {
	case ModePressed:
		result.Kind = KindClick

	case ModeResizeTop, ModeResizeBottom:
		// A resize that lands back on the original interval is a no-op,
		// not a mutation.
		if c.candStart != c.startMin || c.candEnd != c.endMin {
			result.Kind = KindTime
			result.Start = task.MinutesToTime(c.candStart)
			result.End = task.MinutesToTime(c.candEnd)
		}

	case ModeResizeLeft, ModeResizeRight:
		if c.candPct != 0 {
			result.Kind = KindWidth
			result.Edge = mode
			result.DeltaPct = c.candPct
		}

	case ModeDragging:
		result.Kind = KindDrop
		result.DropX = x
		result.DropY = y
	}

	c.reset()
	return result
}

// Cancel aborts the gesture with no side effects, e.g. when the pointer
// leaves the tracked surface.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.mode = ModeIdle
	c.taskID = ""
	c.dirty = false
	c.candPct = 0
}

// minutesFor converts a vertical pixel delta into minutes.
func (c *Controller) minutesFor(dy int) int {
	return dy * 60 / c.cfg.PixelsPerHour
}

func (c *Controller) snapped(min int) int {
	return task.SnapMinutes(min)
}

// clampEnd keeps a bottom-edge candidate within duration limits and the
// close-of-day ceiling.
func (c *Controller) clampEnd(end int) int {
	minEnd := c.candStart + task.MinDurationMinutes
	maxEnd := c.candStart + task.MaxDurationMinutes
	if dayEnd := task.TimeToMinutes(c.cfg.DayEnd); dayEnd > 0 && maxEnd > dayEnd {
		maxEnd = dayEnd
	}
	// A block starting within the minimum duration of close of day: the
	// ceiling wins over the duration floor.
	if minEnd > maxEnd {
		minEnd = maxEnd
	}
	if end < minEnd {
		return minEnd
	}
	if end > maxEnd {
		return maxEnd
	}
	return end
}

// clampStart keeps a top-edge candidate within duration limits and the
// visible day floor.
func (c *Controller) clampStart(start int) int {
	maxStart := c.candEnd - task.MinDurationMinutes
	minStart := c.candEnd - task.MaxDurationMinutes
	if dayStart := task.TimeToMinutes(c.cfg.DayStart); minStart < dayStart {
		minStart = dayStart
	}
	if maxStart < minStart {
		maxStart = minStart
	}
	if start > maxStart {
		return maxStart
	}
	if start < minStart {
		return minStart
	}
	return start
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
