// Package tui provides the terminal user interface for tempo.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mbruna/tempo/internal/config"
	"github.com/mbruna/tempo/internal/gesture"
	"github.com/mbruna/tempo/internal/layout"
	"github.com/mbruna/tempo/internal/store"
	"github.com/mbruna/tempo/internal/task"
	"github.com/mbruna/tempo/internal/tui/commands"
	"github.com/mbruna/tempo/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt      // quick-add or title edit input active
)

// promptKind identifies what the prompt input is for.
type promptKind int

const (
	promptAdd promptKind = iota
	promptEdit
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store  *store.Store
	lister commands.Lister
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// State
	day      time.Time // visible day, midnight local
	mode     Mode
	loading  bool
	selected string // selected task id, "" for none

	// Derived layout for the visible day, recomputed on every change.
	slots       map[string]layout.Slot
	negotiation *layout.Negotiation

	// Gesture state
	gestures *gesture.Controller
	preview  *gesture.Preview
	ticking  bool // a FrameTick is scheduled

	// Prompt state
	prompt     textinput.Model
	promptFor  promptKind
	promptTask string // task id under edit

	// Status footer
	status    string
	statusErr bool

	// Window size
	width  int
	height int
}

// NewModel creates the initial model.
func NewModel(st *store.Store, lister commands.Lister, cfg *config.Config) Model {
	th := theme.Load(cfg.UI.Theme)

	prompt := textinput.New()
	prompt.Placeholder = "title [09:00-10:30]"
	prompt.CharLimit = 120

	return Model{
		store:       st,
		lister:      lister,
		config:      cfg,
		theme:       th,
		styles:      NewStyles(th),
		day:         task.DateOnly(time.Now()),
		loading:     true,
		slots:       map[string]layout.Slot{},
		negotiation: layout.NewNegotiation(),
		gestures:    gesture.NewController(gestureConfig(cfg, 80)),
		prompt:      prompt,
		width:       80,
		height:      24,
	}
}

// gestureConfig derives pointer geometry from the schedule config and the
// current timeline width. Rows are the "pixels" of a terminal surface.
func gestureConfig(cfg *config.Config, timelineWidth int) gesture.Config {
	return gesture.Config{
		PixelsPerHour: cfg.UI.RowsPerHour,
		DayWidthPx:    timelineWidth,
		DayStart:      cfg.Schedule.DayStart,
		DayEnd:        cfg.Schedule.DayEnd,
		DragThreshold: cfg.UI.DragPixels,
	}
}

// Init loads the task collection.
func (m Model) Init() tea.Cmd {
	return commands.LoadTasks(m.lister)
}

// recompute refreshes the layout slots for the visible day.
func (m *Model) recompute() {
	day := task.NewDay(m.day, m.store.Tasks())
	m.slots = layout.Compute(day.Timed())
	if _, ok := m.slots[m.selected]; !ok && m.selected != "" {
		// Selection may have moved off this day; keep it only if the task
		// still exists at all.
		if _, exists := m.store.Get(m.selected); !exists {
			m.selected = ""
		}
	}
}

// visibleTasks returns the day's tasks in navigation order: timed blocks by
// start time, then the untimed list.
func (m *Model) visibleTasks() []*task.Task {
	day := task.NewDay(m.day, m.store.Tasks())
	return append(day.Timed(), day.Untimed()...)
}

// selectedTask returns the currently selected task, or nil.
func (m *Model) selectedTask() *task.Task {
	if m.selected == "" {
		return nil
	}
	t, ok := m.store.Get(m.selected)
	if !ok {
		return nil
	}
	return t
}

// Run starts the TUI. It owns the session lifecycle: the store's change
// stream subscription lives exactly as long as the program.
func Run(st *store.Store, rem Remote, cfg *config.Config, debug bool) error {
	if debug {
		if err := EnableDebugLog(); err != nil {
			return err
		}
		defer CloseDebugLog()
	}

	m := NewModel(st, rem, cfg)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	// Route store callbacks into the event loop.
	st.SetOnChange(func() {
		go p.Send(commands.StoreChangedMsg{})
	})
	st.SetNotify(func(n store.Notification) {
		go p.Send(commands.NoticeMsg{Notice: n})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go st.Run(ctx, rem.Subscribe())

	_, err := p.Run()
	st.Flush()
	return err
}

// Remote is what the TUI needs from the persistence layer beyond the store:
// the initial read and the change feed subscription.
type Remote interface {
	commands.Lister
	Subscribe() <-chan store.ChangeEvent
}
