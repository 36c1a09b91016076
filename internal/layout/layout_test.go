package layout

import (
	"testing"
	"time"

	"github.com/mbruna/tempo/internal/task"
)

var testDay = time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local)

func block(id, start, end string, created time.Time) *task.Task {
	d := testDay
	t := &task.Task{
		ID:        id,
		Title:     id,
		DueDate:   &d,
		CreatedAt: created,
	}
	if start != "" {
		s := start
		t.StartTime = &s
	}
	if end != "" {
		e := end
		t.EndTime = &e
	}
	return t
}

func TestComputeSingleton(t *testing.T) {
	a := block("a", "09:00", "10:00", time.Now())
	slots := Compute([]*task.Task{a})

	s, ok := slots["a"]
	if !ok {
		t.Fatal("no slot for a")
	}
	if s.Columns != 1 || s.WidthPct != 100 || s.LeftPct != 0 {
		t.Errorf("singleton should span the day: %+v", s)
	}
	if s.StartMin != 540 || s.EndMin != 600 {
		t.Errorf("interval = [%d, %d), want [540, 600)", s.StartMin, s.EndMin)
	}
}

func TestComputeClusters(t *testing.T) {
	base := time.Now()
	a := block("a", "09:00", "10:00", base)
	b := block("b", "09:30", "10:30", base.Add(time.Second))
	c := block("c", "11:00", "12:00", base.Add(2*time.Second))

	slots := Compute([]*task.Task{a, b, c})

	// a and b overlap: one cluster, two half-width columns.
	for _, id := range []string{"a", "b"} {
		s := slots[id]
		if s.Cluster != 0 || s.Columns != 2 || s.WidthPct != 50 {
			t.Errorf("%s: %+v, want cluster 0 with 2 columns at 50%%", id, s)
		}
	}
	if slots["a"].Column == slots["b"].Column {
		t.Error("overlapping blocks must not share a column")
	}

	// c is clear of both: its own cluster at full width.
	if s := slots["c"]; s.Cluster != 1 || s.Columns != 1 || s.WidthPct != 100 {
		t.Errorf("c: %+v, want cluster 1 at full width", s)
	}
}

func TestComputeColumnReuse(t *testing.T) {
	base := time.Now()
	// a spans the whole cluster; b ends before c starts, so c reuses b's
	// column and the cluster stays at two columns.
	a := block("a", "09:00", "12:00", base)
	b := block("b", "09:00", "10:00", base.Add(time.Second))
	c := block("c", "10:00", "11:00", base.Add(2*time.Second))

	slots := Compute([]*task.Task{a, b, c})

	for id, s := range slots {
		if s.Columns != 2 {
			t.Errorf("%s: got %d columns, want 2", id, s.Columns)
		}
	}
	if slots["b"].Column != slots["c"].Column {
		t.Errorf("c should reuse b's column: b=%d c=%d", slots["b"].Column, slots["c"].Column)
	}
}

// Overlapping blocks must never share horizontal space.
func TestComputeNoVisualOverlap(t *testing.T) {
	base := time.Now()
	tasks := []*task.Task{
		block("a", "09:00", "10:00", base),
		block("b", "09:15", "11:00", base.Add(time.Second)),
		block("c", "09:30", "10:15", base.Add(2*time.Second)),
		block("d", "10:30", "12:00", base.Add(3*time.Second)),
		block("e", "13:00", "14:00", base.Add(4*time.Second)),
	}

	slots := Compute(tasks)
	if len(slots) != len(tasks) {
		t.Fatalf("got %d slots, want %d", len(slots), len(tasks))
	}

	ids := []string{"a", "b", "c", "d", "e"}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			s1, s2 := slots[ids[i]], slots[ids[j]]
			if !s1.Overlaps(s2) {
				continue
			}
			h1 := [2]float64{s1.LeftPct, s1.LeftPct + s1.WidthPct}
			h2 := [2]float64{s2.LeftPct, s2.LeftPct + s2.WidthPct}
			if h1[0] < h2[1] && h2[0] < h1[1] {
				t.Errorf("%s and %s overlap in time and share horizontal space: %+v vs %+v",
					ids[i], ids[j], s1, s2)
			}
		}
	}
}

func TestComputeMissingEndPadded(t *testing.T) {
	a := block("a", "09:00", "", time.Now())
	slots := Compute([]*task.Task{a})

	s := slots["a"]
	if s.EndMin-s.StartMin < task.MinDurationMinutes {
		t.Errorf("open-ended block got zero-width interval: %+v", s)
	}
}

func TestComputeIgnoresUntimed(t *testing.T) {
	a := block("a", "09:00", "10:00", time.Now())
	untimed := block("u", "", "", time.Now())

	slots := Compute([]*task.Task{a, untimed, nil})
	if _, ok := slots["u"]; ok {
		t.Error("untimed tasks must not receive slots")
	}
	if len(slots) != 1 {
		t.Errorf("got %d slots, want 1", len(slots))
	}
}

func TestComputeDeterministic(t *testing.T) {
	base := time.Now()
	tasks := []*task.Task{
		block("a", "09:00", "10:00", base),
		block("b", "09:00", "10:00", base.Add(time.Second)),
		block("c", "09:00", "10:00", base.Add(2*time.Second)),
	}

	first := Compute(tasks)
	for i := 0; i < 10; i++ {
		again := Compute(tasks)
		for id, s := range first {
			if again[id] != s {
				t.Fatalf("run %d: slot for %s changed from %+v to %+v", i, id, s, again[id])
			}
		}
	}
}
