package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mbruna/tempo/internal/gesture"
	"github.com/mbruna/tempo/internal/layout"
	"github.com/mbruna/tempo/internal/store"
	"github.com/mbruna/tempo/internal/task"
	"github.com/mbruna/tempo/internal/tui/commands"
)

const statusTimeout = 3 * time.Second

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.gestures.Active() {
			m.gestures = gesture.NewController(gestureConfig(m.config, m.timelineWidth()))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case commands.TasksLoadedMsg:
		m.loading = false
		m.store.Load(msg.Tasks)
		m.recompute()
		return m, nil

	case commands.StoreChangedMsg:
		m.recompute()
		return m, nil

	case commands.NoticeMsg:
		m.status = msg.Notice.Message
		m.statusErr = msg.Notice.Level == store.LevelError
		return m, commands.ClearStatusAfter(statusTimeout)

	case commands.UndoneMsg:
		switch {
		case msg.Err != nil:
			m.status = fmt.Sprintf("undo failed: %v", msg.Err)
			m.statusErr = true
		case msg.Description == "":
			m.status = "nothing to undo"
			m.statusErr = false
		default:
			m.status = "undid " + msg.Description
			m.statusErr = false
		}
		return m, commands.ClearStatusAfter(statusTimeout)

	case commands.StatusMsg:
		m.status = msg.Msg
		m.statusErr = false
		return m, commands.ClearStatusAfter(statusTimeout)

	case commands.ClearStatusMsg:
		m.status = ""
		m.statusErr = false
		return m, nil

	case commands.FrameMsg:
		return m.handleFrame()

	case commands.ErrMsg:
		m.loading = false
		m.status = msg.Err.Error()
		m.statusErr = true
		return m, nil
	}

	return m, nil
}

// handleFrame publishes the coalesced gesture preview for this tick.
func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	if !m.gestures.Active() {
		m.ticking = false
		m.preview = nil
		return m, nil
	}
	if p, ok := m.gestures.Frame(); ok {
		m.preview = &p
	}
	return m, commands.FrameTick()
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode == ModePrompt {
		return m.handlePromptKeys(msg)
	}
	return m.handleNormalKeys(msg)
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Day navigation
	case "h", "left":
		m.day = m.day.AddDate(0, 0, -1)
		m.selected = ""
		m.negotiation.Clear()
		m.recompute()
		return m, nil
	case "l", "right":
		m.day = m.day.AddDate(0, 0, 1)
		m.selected = ""
		m.negotiation.Clear()
		m.recompute()
		return m, nil
	case "t":
		m.day = task.DateOnly(time.Now())
		m.selected = ""
		m.negotiation.Clear()
		m.recompute()
		return m, nil

	// Selection
	case "j", "down":
		m.moveSelection(1)
		return m, nil
	case "k", "up":
		m.moveSelection(-1)
		return m, nil

	// Prompt
	case "n":
		m.mode = ModePrompt
		m.promptFor = promptAdd
		m.prompt.SetValue("")
		m.prompt.Focus()
		return m, nil
	case "e":
		t := m.selectedTask()
		if t == nil {
			return m, nil
		}
		m.mode = ModePrompt
		m.promptFor = promptEdit
		m.promptTask = t.ID
		m.prompt.SetValue(t.Title)
		m.prompt.Focus()
		return m, nil

	// Mutations
	case "d":
		if t := m.selectedTask(); t != nil {
			m.store.Delete(context.Background(), t.ID)
			m.selected = ""
		}
		return m, nil
	case " ":
		if t := m.selectedTask(); t != nil {
			done := !t.Completed
			m.store.Update(context.Background(), t.ID, store.Patch{Completed: &done})
		}
		return m, nil
	case "u":
		return m, commands.Undo(m.store)

	case "y":
		if t := m.selectedTask(); t != nil {
			if err := clipboard.WriteAll(t.Title); err == nil {
				m.status = "copied title"
				return m, commands.ClearStatusAfter(statusTimeout)
			}
		}
		return m, nil

	// Keyboard resize of the selected block, same snap and clamp rules as
	// the pointer path.
	case "+", "=":
		m.resizeSelected(m.config.Schedule.SnapMinutes)
		return m, nil
	case "-":
		m.resizeSelected(-m.config.Schedule.SnapMinutes)
		return m, nil

	// Keyboard width negotiation.
	case "]":
		m.negotiateSelected(5)
		return m, nil
	case "[":
		m.negotiateSelected(-5)
		return m, nil
	}

	return m, nil
}

// handlePromptKeys handles the quick-add / edit input line.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.prompt.Blur()
		return m, nil

	case "enter":
		value := m.prompt.Value()
		m.mode = ModeNormal
		m.prompt.Blur()

		if m.promptFor == promptEdit {
			if value != "" {
				m.store.Update(context.Background(), m.promptTask, store.Patch{Title: &value})
			}
			return m, nil
		}

		t, err := parseQuickAdd(value, m.day)
		if err != nil {
			m.status = err.Error()
			m.statusErr = true
			return m, commands.ClearStatusAfter(statusTimeout)
		}
		added := m.store.Add(context.Background(), t)
		if added != nil {
			m.selected = added.ID
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleMouseMsg processes pointer input: press begins a gesture, motion
// feeds it, release commits or cancels.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		id, region, ok := m.hitTest(msg.X, msg.Y)
		if !ok {
			m.selected = ""
			return m, nil
		}
		m.selected = id
		t, found := m.store.Get(id)
		if !found {
			return m, nil
		}
		if err := m.gestures.Begin(t, region, msg.X, msg.Y); err != nil {
			return m, nil
		}
		if !m.ticking {
			m.ticking = true
			return m, commands.FrameTick()
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.gestures.Active() {
			m.gestures.Move(msg.X, msg.Y)
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.gestures.Active() {
			return m, nil
		}
		result := m.gestures.End(msg.X, msg.Y)
		LogGesture(result)
		m.preview = nil
		return m.applyGesture(result)
	}

	return m, nil
}

// applyGesture turns a finished gesture into a store mutation or an
// ephemeral width negotiation.
func (m Model) applyGesture(result gesture.Result) (tea.Model, tea.Cmd) {
	switch result.Kind {
	case gesture.KindClick:
		// Selection already happened on press; a click is an edit
		// affordance.
		if t := m.selectedTask(); t != nil && t.ID == result.TaskID {
			m.mode = ModePrompt
			m.promptFor = promptEdit
			m.promptTask = t.ID
			m.prompt.SetValue(t.Title)
			m.prompt.Focus()
		}
		return m, nil

	case gesture.KindTime:
		m.store.Update(context.Background(), result.TaskID, store.Patch{
			StartTime: &result.Start,
			EndTime:   &result.End,
		})
		return m, nil

	case gesture.KindWidth:
		edge := layout.EdgeRight
		if result.Edge == gesture.ModeResizeLeft {
			edge = layout.EdgeLeft
		}
		m.negotiation.Resize(m.slots, result.TaskID, edge, result.DeltaPct)
		return m, nil

	case gesture.KindDrop:
		return m.applyDrop(result)
	}

	return m, nil
}

// applyDrop resolves a completed drag into a discrete "moved to slot" patch.
func (m Model) applyDrop(result gesture.Result) (tea.Model, tea.Cmd) {
	t, ok := m.store.Get(result.TaskID)
	if !ok {
		return m, nil
	}

	dayOffset, startMin := m.dropTarget(result.DropX, result.DropY)
	duration := t.Duration()
	if startMin+duration > m.dayEndMin() {
		startMin = m.dayEndMin() - duration
	}
	if startMin < m.dayStartMin() {
		startMin = m.dayStartMin()
	}

	date := m.day.AddDate(0, 0, dayOffset)
	start := task.MinutesToTime(startMin)
	end := task.MinutesToTime(startMin + duration)
	m.store.Update(context.Background(), t.ID, store.Patch{
		DueDate:   &date,
		StartTime: &start,
		EndTime:   &end,
	})
	return m, nil
}

// moveSelection cycles the selection through the day's tasks.
func (m *Model) moveSelection(delta int) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		m.selected = ""
		return
	}
	index := -1
	for i, t := range tasks {
		if t.ID == m.selected {
			index = i
			break
		}
	}
	index += delta
	if index < 0 {
		index = len(tasks) - 1
	}
	if index >= len(tasks) {
		index = 0
	}
	m.selected = tasks[index].ID
}

// resizeSelected grows or shrinks the selected block's end time by delta
// minutes, snapped and clamped like a bottom-edge drag.
func (m *Model) resizeSelected(delta int) {
	t := m.selectedTask()
	if t == nil || !t.Timed() {
		return
	}

	startMin := task.TimeToMinutes(t.Start())
	endMin := task.SnapMinutes(startMin + t.Duration() + delta)

	if endMin < startMin+m.config.Schedule.MinMinutes {
		endMin = startMin + m.config.Schedule.MinMinutes
	}
	if endMin > startMin+m.config.Schedule.MaxMinutes {
		endMin = startMin + m.config.Schedule.MaxMinutes
	}
	if endMin > m.dayEndMin() {
		endMin = m.dayEndMin()
	}
	if endMin == startMin+t.Duration() {
		return
	}

	end := task.MinutesToTime(endMin)
	m.store.Update(context.Background(), t.ID, store.Patch{EndTime: &end})
}

// negotiateSelected steals width from the right-hand neighbor, or gives it
// back, without touching stored times.
func (m *Model) negotiateSelected(deltaPct float64) {
	if m.selected == "" {
		return
	}
	m.negotiation.Resize(m.slots, m.selected, layout.EdgeRight, deltaPct)
}
