package tui

import (
	"regexp"
	"strings"
	"time"

	"github.com/mbruna/tempo/internal/task"
)

// timeRangeRe matches an optional trailing "HH:MM-HH:MM" range in quick-add
// input, e.g. "deep work 9:00-10:30".
var timeRangeRe = regexp.MustCompile(`\s+(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})\s*$`)

// startOnlyRe matches a trailing lone "HH:MM" start time; the task gets the
// default duration.
var startOnlyRe = regexp.MustCompile(`\s+(\d{1,2}:\d{2})\s*$`)

// parseQuickAdd builds a task for the visible day from a single input line.
// A trailing time range schedules the task, a lone time starts a block of
// default length, and bare text becomes an untimed task on the day.
func parseQuickAdd(input string, day time.Time) (*task.Task, error) {
	input = strings.TrimSpace(input)

	var start, end string
	if m := timeRangeRe.FindStringSubmatch(input); m != nil {
		start = task.Normalize(pad(m[1]))
		end = task.Normalize(pad(m[2]))
		input = strings.TrimSpace(input[:len(input)-len(m[0])])
	} else if m := startOnlyRe.FindStringSubmatch(input); m != nil {
		start = task.Normalize(pad(m[1]))
		startMin := task.TimeToMinutes(start)
		end = task.MinutesToTime(startMin + task.DefaultDurationMinutes)
		input = strings.TrimSpace(input[:len(input)-len(m[0])])
	}

	return task.New(input, day, start, end, "", "")
}

// pad zero-pads a single-digit hour so "9:00" parses as "09:00".
func pad(s string) string {
	if len(s) == 4 {
		return "0" + s
	}
	return s
}
