package task

import "fmt"

// Time constants shared by layout and gesture math.
const (
	// DefaultDurationMinutes is assumed when a block has no usable end time.
	DefaultDurationMinutes = 60
	// MinDurationMinutes is the smallest duration a block can have.
	MinDurationMinutes = 15
	// MaxDurationMinutes caps a block at 16 hours.
	MaxDurationMinutes = 16 * 60
	// SnapGridMinutes is the snapping granularity for resize and drag.
	SnapGridMinutes = 15
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 1440
)

// ToFractionalHours parses "HH:MM" (a trailing ":SS" is tolerated and
// discarded) into hours as a decimal. It reports ok=false for empty or
// unparseable input and never panics.
func ToFractionalHours(s string) (float64, bool) {
	m, ok := parseMinutes(s)
	if !ok {
		return 0, false
	}
	return float64(m) / 60, true
}

// FromFractionalHours is the inverse of ToFractionalHours, producing a
// zero-padded "HH:MM" string clamped to the day.
func FromFractionalHours(h float64) string {
	return MinutesToTime(int(h*60 + 0.5))
}

// DurationMinutes returns the duration between two "HH:MM" bounds. When
// either bound is unparseable it returns DefaultDurationMinutes; otherwise
// the result is never below MinDurationMinutes.
func DurationMinutes(start, end string) int {
	s, okS := parseMinutes(start)
	e, okE := parseMinutes(end)
	if !okS || !okE {
		return DefaultDurationMinutes
	}
	d := e - s
	if d < MinDurationMinutes {
		return MinDurationMinutes
	}
	return d
}

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for invalid input.
func TimeToMinutes(s string) int {
	m, ok := parseMinutes(s)
	if !ok {
		return 0
	}
	return m
}

// MinutesToTime converts minutes since midnight to "HH:MM" format, clamping
// to [00:00, 23:59].
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Normalize re-renders a parseable time as zero-padded "HH:MM", discarding
// seconds. Unparseable input is returned unchanged.
func Normalize(s string) string {
	m, ok := parseMinutes(s)
	if !ok {
		return s
	}
	return MinutesToTime(m)
}

// SnapMinutes rounds to the nearest multiple of SnapGridMinutes.
func SnapMinutes(m int) int {
	grid := SnapGridMinutes
	return ((m + grid/2) / grid) * grid
}

// parseMinutes parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
func parseMinutes(s string) (int, bool) {
	if len(s) != 5 && len(s) != 8 {
		return 0, false
	}
	if s[2] != ':' {
		return 0, false
	}
	if len(s) == 8 && s[5] != ':' {
		return 0, false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, false
	}
	return hours*60 + mins, true
}
