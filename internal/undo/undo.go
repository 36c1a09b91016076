// Package undo provides a bounded stack of compensating actions.
package undo

import (
	"context"
	"sync"
)

// DefaultDepth bounds the stack; pushing beyond it evicts the oldest entry.
const DefaultDepth = 20

// Action is an asynchronous compensation. It typically replays a pre-mutation
// snapshot through the store's own operations, so undo is subject to the same
// optimistic/rollback discipline as any other mutation.
type Action func(ctx context.Context) error

// Entry pairs a human-readable description with its compensation.
type Entry struct {
	Description string
	Compensate  Action
}

// Stack is a bounded LIFO of undo entries. It is safe for concurrent use:
// confirmations arriving from network round-trips push entries while the
// event loop pops them.
type Stack struct {
	mu      sync.Mutex
	entries []Entry
	depth   int
	undoing bool
}

// NewStack creates a stack with the given depth, or DefaultDepth if depth
// is not positive.
func NewStack(depth int) *Stack {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Stack{depth: depth}
}

// Push records a compensating action, evicting the oldest entry when full.
func (s *Stack) Push(description string, compensate Action) {
	if compensate == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) >= s.depth {
		s.entries = s.entries[1:]
	}
	s.entries = append(s.entries, Entry{Description: description, Compensate: compensate})
}

// Len returns the number of entries available to undo.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Peek returns the description of the entry Undo would run next.
func (s *Stack) Peek() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return "", false
	}
	return s.entries[len(s.entries)-1].Description, true
}

// Undoing reports whether a compensation is currently running.
func (s *Stack) Undoing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undoing
}

// Undo pops exactly one entry and runs its compensation. An empty stack is a
// no-op. While a compensation runs, re-entrant Undo calls are no-ops too,
// so a double keypress cannot unwind two entries at once.
func (s *Stack) Undo(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.undoing || len(s.entries) == 0 {
		s.mu.Unlock()
		return "", nil
	}

	entry := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	s.undoing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.undoing = false
		s.mu.Unlock()
	}()

	if err := entry.Compensate(ctx); err != nil {
		return entry.Description, err
	}
	return entry.Description, nil
}

// Clear drops all entries, e.g. on session teardown.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
