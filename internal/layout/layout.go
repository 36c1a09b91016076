// Package layout computes side-by-side column layout for overlapping
// time blocks on a single day.
package layout

import (
	"slices"

	"github.com/mbruna/tempo/internal/task"
)

// Slot is the derived render position of a task within its overlap cluster.
// It is a pure function of the day's task set and is never persisted.
type Slot struct {
	Cluster  int     // cluster ordinal within the day, left to right
	Column   int     // column index within the cluster
	Columns  int     // total columns in the cluster
	WidthPct float64 // horizontal span as percent of the day container
	LeftPct  float64 // horizontal offset as percent of the day container
	StartMin int     // normalized interval start, minutes since midnight
	EndMin   int     // normalized interval end (exclusive)
}

// Overlaps returns true if two slots cover overlapping time intervals.
func (s Slot) Overlaps(other Slot) bool {
	return s.StartMin < other.EndMin && other.StartMin < s.EndMin
}

// Compute assigns a Slot to every timed task on one day. Untimed tasks are
// ignored; callers render those in a separate list.
//
// Tasks are normalized to [start, end) minute intervals (a missing end is
// padded to the minimum duration), sorted by start time with creation order
// as the tiebreak, then swept left to right: a cluster closes whenever the
// active interval set drains. Columns inside a cluster are assigned by
// greedy interval coloring, reusing the lowest column that has gone quiet.
func Compute(tasks []*task.Task) map[string]Slot {
	type entry struct {
		t          *task.Task
		start, end int
	}

	var entries []entry
	for _, t := range tasks {
		if t == nil || !t.Timed() {
			continue
		}
		start := task.TimeToMinutes(t.Start())
		end := start + t.Duration()
		entries = append(entries, entry{t: t, start: start, end: end})
	}
	if len(entries) == 0 {
		return map[string]Slot{}
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		if a.start != b.start {
			return a.start - b.start
		}
		return a.t.CreatedAt.Compare(b.t.CreatedAt)
	})

	slots := make(map[string]Slot, len(entries))

	cluster := 0
	clusterStart := 0 // index of the first entry in the open cluster
	clusterEnd := -1  // rightmost end seen in the open cluster
	columnEnds := []int{}

	flush := func(upTo int) {
		columns := len(columnEnds)
		if columns == 0 {
			return
		}
		width := 100.0 / float64(columns)
		for i := clusterStart; i < upTo; i++ {
			s := slots[entries[i].t.ID]
			s.Columns = columns
			s.WidthPct = width
			s.LeftPct = float64(s.Column) * width
			slots[entries[i].t.ID] = s
		}
	}

	for i, e := range entries {
		if e.start >= clusterEnd && i > clusterStart {
			// Active set drained: close the cluster and start a new one.
			flush(i)
			cluster++
			clusterStart = i
			columnEnds = columnEnds[:0]
		}

		// Lowest column whose last interval has ended by now.
		column := -1
		for c, end := range columnEnds {
			if end <= e.start {
				column = c
				break
			}
		}
		if column == -1 {
			column = len(columnEnds)
			columnEnds = append(columnEnds, 0)
		}
		columnEnds[column] = e.end

		if e.end > clusterEnd {
			clusterEnd = e.end
		}

		slots[e.t.ID] = Slot{
			Cluster:  cluster,
			Column:   column,
			StartMin: e.start,
			EndMin:   e.end,
		}
	}
	flush(len(entries))

	return slots
}
