package undo

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestUndoPopsInReverseOrder(t *testing.T) {
	s := NewStack(DefaultDepth)
	var ran []string

	for _, name := range []string{"first", "second", "third"} {
		name := name
		s.Push(name, func(context.Context) error {
			ran = append(ran, name)
			return nil
		})
	}

	ctx := context.Background()
	for _, want := range []string{"third", "second", "first"} {
		desc, err := s.Undo(ctx)
		if err != nil {
			t.Fatalf("undo %s: %v", want, err)
		}
		if desc != want {
			t.Errorf("got %q, want %q", desc, want)
		}
	}
	if len(ran) != 3 || ran[0] != "third" || ran[2] != "first" {
		t.Errorf("compensations ran as %v", ran)
	}
}

func TestUndoEmptyIsNoop(t *testing.T) {
	s := NewStack(DefaultDepth)
	desc, err := s.Undo(context.Background())
	if desc != "" || err != nil {
		t.Errorf("empty undo = (%q, %v), want no-op", desc, err)
	}
}

func TestBoundEvictsOldest(t *testing.T) {
	s := NewStack(3)
	for i := 0; i < 5; i++ {
		s.Push(fmt.Sprintf("entry-%d", i), func(context.Context) error { return nil })
	}

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	// entry-0 and entry-1 were evicted; the newest three remain.
	ctx := context.Background()
	for _, want := range []string{"entry-4", "entry-3", "entry-2"} {
		desc, _ := s.Undo(ctx)
		if desc != want {
			t.Errorf("got %q, want %q", desc, want)
		}
	}
	if desc, _ := s.Undo(ctx); desc != "" {
		t.Errorf("stack should be drained, got %q", desc)
	}
}

func TestReentrantUndoIsNoop(t *testing.T) {
	s := NewStack(DefaultDepth)

	s.Push("outer", func(ctx context.Context) error {
		// A second keypress while the compensation is in flight.
		desc, err := s.Undo(ctx)
		if desc != "" || err != nil {
			return fmt.Errorf("re-entrant undo ran: (%q, %v)", desc, err)
		}
		return nil
	})
	s.Push("inner", func(context.Context) error { return nil })

	ctx := context.Background()
	if desc, err := s.Undo(ctx); desc != "inner" || err != nil {
		t.Fatalf("first undo = (%q, %v)", desc, err)
	}
	if desc, err := s.Undo(ctx); desc != "outer" || err != nil {
		t.Fatalf("second undo = (%q, %v)", desc, err)
	}
}

func TestUndoReportsCompensationError(t *testing.T) {
	s := NewStack(DefaultDepth)
	boom := errors.New("boom")
	s.Push("failing", func(context.Context) error { return boom })

	desc, err := s.Undo(context.Background())
	if desc != "failing" || !errors.Is(err, boom) {
		t.Errorf("got (%q, %v), want the failing entry's error", desc, err)
	}

	// The entry is consumed even when its compensation fails.
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestPushNilCompensationIgnored(t *testing.T) {
	s := NewStack(DefaultDepth)
	s.Push("nothing", nil)
	if s.Len() != 0 {
		t.Errorf("nil compensation must not be recorded")
	}
}

func TestPeek(t *testing.T) {
	s := NewStack(DefaultDepth)
	if _, ok := s.Peek(); ok {
		t.Error("Peek on empty stack")
	}
	s.Push("top", func(context.Context) error { return nil })
	if desc, ok := s.Peek(); !ok || desc != "top" {
		t.Errorf("Peek = (%q, %v)", desc, ok)
	}
	if s.Len() != 1 {
		t.Error("Peek must not consume the entry")
	}
}
