// Package store holds the authoritative in-memory task collection. It
// applies mutations optimistically, submits them to a remote authority,
// rolls back on failure and merges asynchronous remote change events.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mbruna/tempo/internal/task"
	"github.com/mbruna/tempo/internal/undo"
)

// Store owns the task collection for one session. All mutation goes through
// Add/Update/Delete; nothing else may touch task fields, or the optimistic/
// rollback/undo bookkeeping falls apart.
type Store struct {
	remote Remote

	mu      sync.Mutex
	tasks   map[string]*task.Task
	order   []string          // stable UI ordering, preserved across rollback
	pending map[string]uint64 // last submitted mutation seq per id
	alias   map[string]string // temp id -> authoritative id after confirm
	adding  map[string]bool   // temp ids with an insert round-trip in flight
	queued  map[string]*queuedUpdate

	undo *undo.Stack

	notify   func(Notification)
	onChange func()

	wg sync.WaitGroup // in-flight round-trips
}

// New creates a Store backed by the given remote authority.
func New(remote Remote) *Store {
	return &Store{
		remote:  remote,
		tasks:   make(map[string]*task.Task),
		order:   nil,
		pending: make(map[string]uint64),
		alias:   make(map[string]string),
		adding:  make(map[string]bool),
		queued:  make(map[string]*queuedUpdate),
		undo:    undo.NewStack(undo.DefaultDepth),
	}
}

// queuedUpdate is an edit made while the task's insert round-trip is still in
// flight. It is held back and submitted under the authoritative id once the
// insert confirms; superseded entries are simply overwritten.
type queuedUpdate struct {
	seq    uint64
	prev   *task.Task
	submit *task.Task
}

// SetNotify installs the listener for non-fatal notifications.
func (s *Store) SetNotify(fn func(Notification)) {
	s.notify = fn
}

// SetOnChange installs the hook fired after every visible state change, so
// the rendering layer can recompute layout.
func (s *Store) SetOnChange(fn func()) {
	s.onChange = fn
}

// Undo returns the store's undo stack.
func (s *Store) Undo() *undo.Stack {
	return s.undo
}

// Load seeds the collection from an initial remote read. It replaces any
// existing state and is meant to run once at session start.
func (s *Store) Load(tasks []*task.Task) {
	s.mu.Lock()
	s.tasks = make(map[string]*task.Task, len(tasks))
	s.order = s.order[:0]
	for _, t := range tasks {
		if t == nil {
			continue
		}
		s.tasks[t.ID] = t.Clone()
		s.order = append(s.order, t.ID)
	}
	s.mu.Unlock()
	s.changed()
}

// Tasks returns clones of all tasks in stable order. Callers cannot mutate
// store state through the result.
func (s *Store) Tasks() []*task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*task.Task, 0, len(s.order))
	for _, id := range s.order {
		if t, ok := s.tasks[id]; ok {
			result = append(result, t.Clone())
		}
	}
	return result
}

// Get returns a clone of one task.
func (s *Store) Get(id string) (*task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[s.resolveLocked(id)]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Len returns the number of tasks in the collection.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Flush blocks until every in-flight round-trip has completed. Used by
// session teardown and tests; the UI never calls it.
func (s *Store) Flush() {
	s.wg.Wait()
}

// ----------------------------------------------------------------------------
// Mutations
// ----------------------------------------------------------------------------

// Add applies a new task optimistically under its temporary id and submits
// it to the remote authority. On success the temporary id is swapped for the
// authoritative one in place, keeping the task's position; on failure the
// task is removed again and a notification raised.
func (s *Store) Add(ctx context.Context, t *task.Task) *task.Task {
	if t == nil {
		return nil
	}
	if t.ID == "" {
		t.ID = task.NewTempID()
	}

	s.mu.Lock()
	local := t.Clone()
	s.tasks[local.ID] = local
	s.order = append(s.order, local.ID)
	s.adding[local.ID] = true
	s.mu.Unlock()
	s.changed()

	tempID := local.ID
	submit := local.Clone()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		confirmed, err := s.remote.Insert(ctx, submit)
		if err != nil {
			s.rollbackAdd(tempID, err)
			return
		}
		s.confirmAdd(tempID, confirmed)
	}()

	return t.Clone()
}

func (s *Store) rollbackAdd(tempID string, err error) {
	s.mu.Lock()
	delete(s.tasks, tempID)
	s.removeFromOrder(tempID)
	delete(s.adding, tempID)
	delete(s.pending, tempID)
	delete(s.queued, tempID)
	s.mu.Unlock()
	s.changed()
	s.report(LevelError, "could not save task", err)
}

func (s *Store) confirmAdd(tempID string, confirmed *task.Task) {
	s.mu.Lock()
	delete(s.adding, tempID)
	local, ok := s.tasks[tempID]
	if !ok {
		// Deleted while the insert was in flight. The remote row exists
		// now; drop any echoed copy and remove it so both sides agree.
		delete(s.tasks, confirmed.ID)
		s.removeFromOrder(confirmed.ID)
		delete(s.queued, tempID)
		s.mu.Unlock()
		s.changed()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			_ = s.remote.Delete(context.Background(), confirmed.ID)
		}()
		return
	}

	// Same slot, same rendered identity: only the key changes.
	local.ID = confirmed.ID
	delete(s.tasks, tempID)
	s.tasks[local.ID] = local
	if i := slices.Index(s.order, tempID); i >= 0 {
		s.order[i] = local.ID
	}
	// The feed echoes this insert under the authoritative id, and it can
	// arrive before this confirmation runs. The id-based dedup in apply
	// cannot catch that, so collapse the extra order entry here.
	if first := slices.Index(s.order, local.ID); first >= 0 {
		for i := len(s.order) - 1; i > first; i-- {
			if s.order[i] == local.ID {
				s.order = slices.Delete(s.order, i, i+1)
			}
		}
	}
	if seq, ok := s.pending[tempID]; ok {
		delete(s.pending, tempID)
		s.pending[local.ID] = seq
	}
	s.alias[tempID] = local.ID

	// Release any edit held back while the insert was in flight.
	held := s.queued[tempID]
	delete(s.queued, tempID)
	authID := local.ID
	s.mu.Unlock()
	s.changed()

	if held != nil {
		held.submit.ID = authID
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			err := s.remote.Update(context.Background(), authID, held.submit)
			s.settleUpdate(authID, held.seq, held.prev, err)
		}()
	}
}

// Update snapshots the task, applies the patch optimistically and submits
// it. It returns false without touching state when the target is missing or
// the patch fails validation. A failed round-trip restores the snapshot
// unless a newer mutation superseded this one in the meantime.
func (s *Store) Update(ctx context.Context, id string, patch Patch) bool {
	s.mu.Lock()
	id = s.resolveLocked(id)
	local, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		s.report(LevelWarn, "task not found", task.ErrTaskNotFound)
		return false
	}
	if err := patch.validate(local); err != nil {
		s.mu.Unlock()
		s.report(LevelWarn, "invalid change", err)
		return false
	}

	prev := local.Clone()
	patch.apply(local)
	local.Seq++
	seq := local.Seq
	s.pending[id] = seq
	submit := local.Clone()

	if s.adding[id] {
		// The row has no authoritative id yet; submitting now would hand
		// the remote an id it has never seen. Hold the edit until the
		// insert confirms, keeping only the newest one.
		s.queued[id] = &queuedUpdate{seq: seq, prev: prev, submit: submit}
		s.mu.Unlock()
		s.changed()
		return true
	}
	s.mu.Unlock()
	s.changed()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.remote.Update(ctx, s.resolve(id), submit)
		s.settleUpdate(id, seq, prev, err)
	}()

	return true
}

// settleUpdate processes an update round-trip result. Only the most recently
// submitted mutation for the task may change state; earlier round-trips are
// stale and must not clobber a newer optimistic value.
func (s *Store) settleUpdate(id string, seq uint64, prev *task.Task, err error) {
	s.mu.Lock()
	id = s.resolveLocked(id)
	current, ok := s.pending[id]
	if !ok || current != seq {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)

	if err != nil {
		if local, exists := s.tasks[id]; exists {
			restored := prev.Clone()
			restored.Seq = local.Seq
			restored.ID = id
			s.tasks[id] = restored
		}
		s.mu.Unlock()
		s.changed()
		s.report(LevelError, "change not saved, reverted", err)
		return
	}
	s.mu.Unlock()

	title := prev.Title
	s.undo.Push(fmt.Sprintf("edit %q", title), func(ctx context.Context) error {
		if !s.Update(ctx, id, PatchFrom(prev)) {
			return fmt.Errorf("undo edit %q: %w", title, task.ErrTaskNotFound)
		}
		return nil
	})
}

// Delete removes the task immediately and submits the deletion. On failure
// the task is re-inserted at its original position.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	id = s.resolveLocked(id)
	local, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	snapshot := local.Clone()
	index := slices.Index(s.order, id)
	delete(s.tasks, id)
	s.removeFromOrder(id)
	delete(s.pending, id)
	s.mu.Unlock()
	s.changed()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.remote.Delete(ctx, id); err != nil {
			s.restore(snapshot, index)
			s.report(LevelError, "delete not saved, restored", err)
			return
		}
		s.undo.Push(fmt.Sprintf("delete %q", snapshot.Title), func(ctx context.Context) error {
			return s.readd(ctx, snapshot, index)
		})
	}()

	return true
}

// restore puts a task back at its original position after a failed delete.
func (s *Store) restore(snapshot *task.Task, index int) {
	s.mu.Lock()
	s.tasks[snapshot.ID] = snapshot.Clone()
	if index < 0 || index > len(s.order) {
		index = len(s.order)
	}
	s.order = slices.Insert(s.order, index, snapshot.ID)
	s.mu.Unlock()
	s.changed()
}

// readd replays a deleted task through the optimistic add path, keeping its
// established id and position. Undo compensations use it, so undoing a
// delete is subject to the same rollback discipline as any other mutation.
func (s *Store) readd(ctx context.Context, snapshot *task.Task, index int) error {
	s.restore(snapshot, index)

	confirmed, err := s.remote.Insert(ctx, snapshot.Clone())
	if err != nil {
		s.mu.Lock()
		delete(s.tasks, snapshot.ID)
		s.removeFromOrder(snapshot.ID)
		s.mu.Unlock()
		s.changed()
		s.report(LevelError, "could not restore task", err)
		return err
	}
	if confirmed.ID != snapshot.ID {
		s.confirmAdd(snapshot.ID, confirmed)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Remote reconciliation
// ----------------------------------------------------------------------------

// Run consumes the change-notification stream until the channel closes or
// the context is cancelled. It is the single reconciliation loop; change
// events mutate the collection nowhere else. A dropped stream just ends the
// loop; local optimistic state stays authoritative until the calling layer
// resubscribes.
func (s *Store) Run(ctx context.Context, events <-chan ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.apply(ev)
		}
	}
}

// apply merges one remote change event.
func (s *Store) apply(ev ChangeEvent) {
	s.mu.Lock()
	id := s.resolveLocked(ev.ID)

	switch ev.Type {
	case ChangeInsert:
		if ev.Row == nil {
			s.mu.Unlock()
			return
		}
		// Idempotent: our own optimistic insert echoed back is not an
		// error, just a duplicate to drop.
		if _, exists := s.tasks[id]; exists {
			s.mu.Unlock()
			return
		}
		s.tasks[ev.Row.ID] = ev.Row.Clone()
		s.order = append(s.order, ev.Row.ID)

	case ChangeUpdate:
		if ev.Row == nil {
			s.mu.Unlock()
			return
		}
		// Local pending state wins until its own round-trip resolves.
		if _, inflight := s.pending[id]; inflight {
			s.mu.Unlock()
			return
		}
		if local, exists := s.tasks[id]; exists {
			merged := ev.Row.Clone()
			merged.ID = id
			merged.Seq = local.Seq
			s.tasks[id] = merged
		} else {
			// Update for a row we never saw: the stream is eventually
			// consistent, treat it as an insert.
			s.tasks[ev.Row.ID] = ev.Row.Clone()
			s.order = append(s.order, ev.Row.ID)
		}

	case ChangeDelete:
		delete(s.tasks, id)
		s.removeFromOrder(id)
		delete(s.pending, id)
	}

	s.mu.Unlock()
	s.changed()
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

func (s *Store) resolve(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked(id)
}

// resolveLocked follows the temp-id alias chain set up by confirmed adds.
func (s *Store) resolveLocked(id string) string {
	for {
		next, ok := s.alias[id]
		if !ok {
			return id
		}
		id = next
	}
}

func (s *Store) removeFromOrder(id string) {
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

func (s *Store) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Store) report(level Level, msg string, err error) {
	if s.notify == nil {
		return
	}
	s.notify(Notification{Level: level, Message: msg, Err: err})
}
