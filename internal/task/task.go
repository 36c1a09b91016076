// Package task defines the core domain types for tempo.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidEnergy     = errors.New("energy must be 'low', 'medium' or 'high'")
	ErrInvalidUrgency    = errors.New("urgency must be 'low', 'medium' or 'high'")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
)

// Domain errors.
var (
	ErrTaskNotFound = errors.New("task not found")
)

// TempIDPrefix marks locally generated ids that have not been confirmed by
// the remote authority yet.
const TempIDPrefix = "tmp-"

// EnergyLevel represents the kind of focus a task demands.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// Valid returns true if the energy level is a known value.
func (e EnergyLevel) Valid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	default:
		return false
	}
}

// Urgency represents how soon a task should be handled.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Valid returns true if the urgency is a known value.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	default:
		return false
	}
}

// Task represents a planning unit: a time-boxed block on a day, an untimed
// entry for a day, or an inbox item with no date at all.
type Task struct {
	ID        string
	Title     string
	Notes     string
	DueDate   *time.Time // nil means inbox (unscheduled)
	EndDate   *time.Time // optional, for multi-day blocks
	StartTime *string    // "HH:MM", nil means untimed
	EndTime   *string    // "HH:MM", nil means open ended
	Energy    EnergyLevel
	Urgency   Urgency
	Completed bool
	OwnerID   string
	Shared    bool
	CreatedAt time.Time

	// Seq is a monotonically increasing per-task mutation counter. The store
	// bumps it on every submitted mutation and uses it to decide whether a
	// round-trip result is stale.
	Seq uint64
}

// New creates a Task with validation. dueDate may be zero (inbox). start and
// end may be empty (untimed); when both are set, end must be after start
// once normalized.
func New(title string, dueDate time.Time, start, end string, energy EnergyLevel, urgency Urgency) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if energy == "" {
		energy = EnergyMedium
	}
	if !energy.Valid() {
		return nil, ErrInvalidEnergy
	}
	if urgency == "" {
		urgency = UrgencyMedium
	}
	if !urgency.Valid() {
		return nil, ErrInvalidUrgency
	}

	t := &Task{
		ID:        NewTempID(),
		Title:     strings.TrimSpace(title),
		Energy:    energy,
		Urgency:   urgency,
		CreatedAt: time.Now(),
	}

	if !dueDate.IsZero() {
		d := DateOnly(dueDate)
		t.DueDate = &d
	}

	if start != "" {
		if err := validateTimeFormat(start); err != nil {
			return nil, fmt.Errorf("start time: %w", err)
		}
		s := Normalize(start)
		t.StartTime = &s
	}
	if end != "" {
		if err := validateTimeFormat(end); err != nil {
			return nil, fmt.Errorf("end time: %w", err)
		}
		e := Normalize(end)
		t.EndTime = &e
	}
	if t.StartTime != nil && t.EndTime != nil && *t.EndTime <= *t.StartTime {
		return nil, ErrEndBeforeStart
	}

	return t, nil
}

// NewTempID generates a client-local id that the remote authority will
// replace on insert.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// IsTemp returns true if the task still carries a client-local id.
func (t *Task) IsTemp() bool {
	return strings.HasPrefix(t.ID, TempIDPrefix)
}

// Timed returns true if the task has a start time and therefore participates
// in timeline layout.
func (t *Task) Timed() bool {
	return t.StartTime != nil && *t.StartTime != ""
}

// Scheduled returns true if the task is assigned to a calendar day.
func (t *Task) Scheduled() bool {
	return t.DueDate != nil
}

// Start returns the start time string, or "" if untimed.
func (t *Task) Start() string {
	if t.StartTime == nil {
		return ""
	}
	return *t.StartTime
}

// End returns the end time string, or "" if not set.
func (t *Task) End() string {
	if t.EndTime == nil {
		return ""
	}
	return *t.EndTime
}

// Duration returns the task duration in minutes, applying the default and
// minimum rules used by layout and gestures.
func (t *Task) Duration() int {
	return DurationMinutes(t.Start(), t.End())
}

// OnDay returns true if a scheduled task falls on the given day.
func (t *Task) OnDay(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	d := DateOnly(day)
	if t.DueDate.Equal(d) {
		return true
	}
	// Multi-day blocks cover every day in [DueDate, EndDate].
	if t.EndDate != nil && !d.Before(*t.DueDate) && !d.After(*t.EndDate) {
		return true
	}
	return false
}

// OverlapsWith returns true if two timed tasks on the same day overlap.
func (t *Task) OverlapsWith(other *Task) bool {
	if other == nil || t.DueDate == nil || other.DueDate == nil {
		return false
	}
	if !t.DueDate.Equal(*other.DueDate) {
		return false
	}
	if !t.Timed() || !other.Timed() {
		return false
	}
	s1, e1 := t.layoutInterval()
	s2, e2 := other.layoutInterval()
	return s1 < e2 && s2 < e1
}

// layoutInterval returns the [start, end) minute interval used for layout:
// a missing or inverted end is padded to the minimum duration.
func (t *Task) layoutInterval() (start, end int) {
	start = TimeToMinutes(t.Start())
	end = start + t.Duration()
	return start, end
}

// Clone returns a deep copy of the task. Pointer fields are duplicated so a
// snapshot cannot be mutated through the original.
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.EndDate != nil {
		d := *t.EndDate
		c.EndDate = &d
	}
	if t.StartTime != nil {
		s := *t.StartTime
		c.StartTime = &s
	}
	if t.EndTime != nil {
		e := *t.EndTime
		c.EndTime = &e
	}
	return &c
}

// Equal compares every user-visible field. Seq is bookkeeping and ignored.
func (t *Task) Equal(other *Task) bool {
	if other == nil {
		return false
	}
	return t.ID == other.ID &&
		t.Title == other.Title &&
		t.Notes == other.Notes &&
		equalDate(t.DueDate, other.DueDate) &&
		equalDate(t.EndDate, other.EndDate) &&
		equalString(t.StartTime, other.StartTime) &&
		equalString(t.EndTime, other.EndTime) &&
		t.Energy == other.Energy &&
		t.Urgency == other.Urgency &&
		t.Completed == other.Completed &&
		t.OwnerID == other.OwnerID &&
		t.Shared == other.Shared
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DateOnly truncates a time to midnight in its location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func validateTimeFormat(s string) error {
	if len(s) < 5 {
		return ErrInvalidTimeFormat
	}
	if _, err := time.Parse("15:04", s[:5]); err != nil {
		return ErrInvalidTimeFormat
	}
	return nil
}
