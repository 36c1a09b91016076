// Package remote provides the SQLite-backed persistence authority and its
// change-notification feed.
package remote

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mbruna/tempo/internal/store"
	"github.com/mbruna/tempo/internal/task"
)

// subscriberBuffer bounds a change feed. A subscriber that stops draining
// loses events rather than blocking writers; the reconciliation rules
// tolerate a lossy stream.
const subscriberBuffer = 64

// SQLite implements store.Remote and publishes a change event for every
// accepted write, including the caller's own. The echo exercises the
// store's insert deduplication the same way a second client would.
type SQLite struct {
	db *sql.DB

	mu   sync.Mutex
	subs []chan store.ChangeEvent
}

// New creates a SQLite remote and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Subscribe returns a channel of change events for the task collection.
// The channel closes when the remote closes.
func (s *SQLite) Subscribe() <-chan store.ChangeEvent {
	ch := make(chan store.ChangeEvent, subscriberBuffer)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// publish fans an event out to all subscribers without blocking.
func (s *SQLite) publish(ev store.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber stalled; drop rather than block the write path.
		}
	}
}

// Insert persists a task. A temporary client id is replaced by an
// authoritative one; an established id is kept, which lets undo re-insert a
// deleted task under its original identity.
func (s *SQLite) Insert(ctx context.Context, t *task.Task) (*task.Task, error) {
	confirmed := t.Clone()
	if confirmed.ID == "" || confirmed.IsTemp() {
		confirmed.ID = uuid.NewString()
	}

	query := `
		INSERT INTO tasks (
			id, title, notes, due_date, end_date, start_time, end_time,
			energy, urgency, completed, owner_id, shared, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		confirmed.ID,
		confirmed.Title,
		confirmed.Notes,
		dateArg(confirmed.DueDate),
		dateArg(confirmed.EndDate),
		confirmed.StartTime,
		confirmed.EndTime,
		confirmed.Energy,
		confirmed.Urgency,
		confirmed.Completed,
		confirmed.OwnerID,
		confirmed.Shared,
		confirmed.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}

	s.publish(store.ChangeEvent{Type: store.ChangeInsert, ID: confirmed.ID, Row: confirmed.Clone()})
	return confirmed, nil
}

// Update replaces the stored fields of a task.
func (s *SQLite) Update(ctx context.Context, id string, t *task.Task) error {
	query := `
		UPDATE tasks SET
			title = ?, notes = ?, due_date = ?, end_date = ?,
			start_time = ?, end_time = ?, energy = ?, urgency = ?,
			completed = ?, owner_id = ?, shared = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		t.Title,
		t.Notes,
		dateArg(t.DueDate),
		dateArg(t.EndDate),
		t.StartTime,
		t.EndTime,
		t.Energy,
		t.Urgency,
		t.Completed,
		t.OwnerID,
		t.Shared,
		id,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("updating task %s: %w", id, task.ErrTaskNotFound)
	}

	row := t.Clone()
	row.ID = id
	s.publish(store.ChangeEvent{Type: store.ChangeUpdate, ID: id, Row: row})
	return nil
}

// Delete removes a task.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting task %s: %w", id, task.ErrTaskNotFound)
	}

	s.publish(store.ChangeEvent{Type: store.ChangeDelete, ID: id})
	return nil
}

// ListTasks returns every stored task, scheduled first by date and start
// time, then inbox items by creation. Used to seed the store at session
// start.
func (s *SQLite) ListTasks(ctx context.Context) ([]*task.Task, error) {
	query := `
		SELECT id, title, notes, due_date, end_date, start_time, end_time,
		       energy, urgency, completed, owner_id, shared, created_at
		FROM tasks
		ORDER BY due_date IS NULL, due_date, start_time IS NULL, start_time, created_at
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask retrieves one task by id. Returns nil without error when missing.
func (s *SQLite) GetTask(ctx context.Context, id string) (*task.Task, error) {
	query := `
		SELECT id, title, notes, due_date, end_date, start_time, end_time,
		       energy, urgency, completed, owner_id, shared, created_at
		FROM tasks
		WHERE id = ?
	`
	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Close closes all change feeds and the database.
func (s *SQLite) Close() error {
	s.mu.Lock()
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	s.mu.Unlock()
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t         task.Task
		dueDate   sql.NullString
		endDate   sql.NullString
		startTime sql.NullString
		endTime   sql.NullString
		createdAt string
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Notes,
		&dueDate,
		&endDate,
		&startTime,
		&endTime,
		&t.Energy,
		&t.Urgency,
		&t.Completed,
		&t.OwnerID,
		&t.Shared,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if t.DueDate, err = parseDateArg(dueDate); err != nil {
		return nil, fmt.Errorf("parsing due date: %w", err)
	}
	if t.EndDate, err = parseDateArg(endDate); err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}
	if startTime.Valid && startTime.String != "" {
		s := startTime.String
		t.StartTime = &s
	}
	if endTime.Valid && endTime.String != "" {
		e := endTime.String
		t.EndTime = &e
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &t, nil
}

// dateArg formats an optional date for storage.
func dateArg(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format("2006-01-02")
}

func parseDateArg(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s.String, time.Local)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
