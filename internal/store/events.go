package store

import (
	"context"

	"github.com/mbruna/tempo/internal/task"
)

// ChangeType identifies a remote change event.
type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// ChangeEvent is one immutable notification from the change stream: another
// client touched the task collection, or our own round-trip was echoed back.
type ChangeEvent struct {
	Type ChangeType
	ID   string
	Row  *task.Task // nil for deletes
}

// Remote is the persistence authority the store submits mutations to. Every
// call is fallible with a generic error; the store treats any failure as
// transient and rolls back.
type Remote interface {
	// Insert persists a task and returns the authoritative row. A task
	// carrying a client-local temporary id gets a server-assigned id; a
	// task with an established id keeps it.
	Insert(ctx context.Context, t *task.Task) (*task.Task, error)

	// Update replaces the stored fields of the task with the given id.
	Update(ctx context.Context, id string, t *task.Task) error

	// Delete removes the task with the given id.
	Delete(ctx context.Context, id string) error
}

// Level classifies a notification surfaced to the calling layer.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Notification is a non-fatal, user-visible message. The store never fails
// the process; remote trouble degrades to "local state may be stale".
type Notification struct {
	Level   Level
	Message string
	Err     error
}
