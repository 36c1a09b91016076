package task

import (
	"slices"
	"time"
)

// Day groups the tasks visible on a single calendar day, split into the
// timed blocks that go through timeline layout and the untimed list
// rendered separately.
type Day struct {
	Date    time.Time
	timed   []*Task // sorted by start time, then creation order
	untimed []*Task // sorted by creation order
}

// NewDay builds a Day for the given date from the full task set. Tasks that
// are not on the date are skipped, so callers can pass the whole collection.
func NewDay(date time.Time, tasks []*Task) *Day {
	d := &Day{Date: DateOnly(date)}
	for _, t := range tasks {
		if t == nil || !t.OnDay(d.Date) {
			continue
		}
		if t.Timed() {
			d.timed = append(d.timed, t)
		} else {
			d.untimed = append(d.untimed, t)
		}
	}

	slices.SortStableFunc(d.timed, func(a, b *Task) int {
		if a.Start() != b.Start() {
			if a.Start() < b.Start() {
				return -1
			}
			return 1
		}
		// Stable secondary key so recomputations are deterministic.
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	slices.SortStableFunc(d.untimed, func(a, b *Task) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return d
}

// Timed returns the timed tasks in layout order.
func (d *Day) Timed() []*Task {
	result := make([]*Task, len(d.timed))
	copy(result, d.timed)
	return result
}

// Untimed returns the untimed tasks for the day.
func (d *Day) Untimed() []*Task {
	result := make([]*Task, len(d.untimed))
	copy(result, d.untimed)
	return result
}

// Len returns the total number of tasks on the day.
func (d *Day) Len() int {
	return len(d.timed) + len(d.untimed)
}

// Inbox returns tasks with no due date at all, in creation order.
func Inbox(tasks []*Task) []*Task {
	var result []*Task
	for _, t := range tasks {
		if t != nil && !t.Scheduled() {
			result = append(result, t)
		}
	}
	slices.SortStableFunc(result, func(a, b *Task) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result
}
