// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mbruna/tempo/internal/store"
	"github.com/mbruna/tempo/internal/task"
)

// TasksLoadedMsg is sent when the initial task set is loaded.
type TasksLoadedMsg struct {
	Tasks []*task.Task
}

// StoreChangedMsg is sent whenever the store's visible state changed, from
// an optimistic apply, a rollback or a remote event. The model recomputes
// layout on receipt.
type StoreChangedMsg struct{}

// NoticeMsg carries a non-fatal store notification to the footer.
type NoticeMsg struct {
	Notice store.Notification
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// UndoneMsg reports the result of an undo invocation.
type UndoneMsg struct {
	Description string
	Err         error
}

// FrameMsg drives coalesced gesture previews at a fixed rate while a
// gesture is active.
type FrameMsg struct {
	At time.Time
}

// Lister is the read side used to seed the session.
type Lister interface {
	ListTasks(ctx context.Context) ([]*task.Task, error)
}

// LoadTasks reads the full collection at session start.
func LoadTasks(lister Lister) tea.Cmd {
	return func() tea.Msg {
		tasks, err := lister.ListTasks(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

// Undo pops one entry from the store's undo stack.
func Undo(s *store.Store) tea.Cmd {
	return func() tea.Msg {
		desc, err := s.Undo().Undo(context.Background())
		return UndoneMsg{Description: desc, Err: err}
	}
}

// FrameTick schedules the next gesture preview frame (~30fps).
func FrameTick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return FrameMsg{At: t}
	})
}

// ClearStatusAfter clears the footer message after the given delay.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
