package store

import (
	"time"

	"github.com/mbruna/tempo/internal/task"
)

// Patch is a partial task update. Nil fields are left untouched; the Clear
// flags exist because nil cannot distinguish "unchanged" from "set to null"
// for the nullable temporal fields.
type Patch struct {
	Title     *string
	Notes     *string
	DueDate   *time.Time
	EndDate   *time.Time
	StartTime *string
	EndTime   *string
	Energy    *task.EnergyLevel
	Urgency   *task.Urgency
	Completed *bool

	ClearDueDate   bool
	ClearEndDate   bool
	ClearStartTime bool
	ClearEndTime   bool
}

// apply writes the patch onto a task in place.
func (p Patch) apply(t *task.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.DueDate != nil {
		d := task.DateOnly(*p.DueDate)
		t.DueDate = &d
	}
	if p.ClearDueDate {
		t.DueDate = nil
	}
	if p.EndDate != nil {
		d := task.DateOnly(*p.EndDate)
		t.EndDate = &d
	}
	if p.ClearEndDate {
		t.EndDate = nil
	}
	if p.StartTime != nil {
		s := task.Normalize(*p.StartTime)
		t.StartTime = &s
	}
	if p.ClearStartTime {
		t.StartTime = nil
	}
	if p.EndTime != nil {
		e := task.Normalize(*p.EndTime)
		t.EndTime = &e
	}
	if p.ClearEndTime {
		t.EndTime = nil
	}
	if p.Energy != nil {
		t.Energy = *p.Energy
	}
	if p.Urgency != nil {
		t.Urgency = *p.Urgency
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// validate rejects patches that would break the task invariants, before any
// optimistic state change happens.
func (p Patch) validate(t *task.Task) error {
	candidate := t.Clone()
	p.apply(candidate)

	if candidate.Title == "" {
		return task.ErrEmptyTitle
	}
	if !candidate.Energy.Valid() {
		return task.ErrInvalidEnergy
	}
	if !candidate.Urgency.Valid() {
		return task.ErrInvalidUrgency
	}
	if candidate.StartTime != nil && candidate.EndTime != nil {
		if _, ok := task.ToFractionalHours(*candidate.StartTime); !ok {
			return task.ErrInvalidTimeFormat
		}
		if _, ok := task.ToFractionalHours(*candidate.EndTime); !ok {
			return task.ErrInvalidTimeFormat
		}
		if *candidate.EndTime <= *candidate.StartTime {
			return task.ErrEndBeforeStart
		}
	}
	return nil
}

// PatchFrom builds a full-field patch out of a snapshot. Undo compensations
// use it to replay a pre-mutation state through the normal update path.
func PatchFrom(snapshot *task.Task) Patch {
	p := Patch{
		Title:     &snapshot.Title,
		Notes:     &snapshot.Notes,
		Energy:    &snapshot.Energy,
		Urgency:   &snapshot.Urgency,
		Completed: &snapshot.Completed,
	}
	if snapshot.DueDate != nil {
		p.DueDate = snapshot.DueDate
	} else {
		p.ClearDueDate = true
	}
	if snapshot.EndDate != nil {
		p.EndDate = snapshot.EndDate
	} else {
		p.ClearEndDate = true
	}
	if snapshot.StartTime != nil {
		p.StartTime = snapshot.StartTime
	} else {
		p.ClearStartTime = true
	}
	if snapshot.EndTime != nil {
		p.EndTime = snapshot.EndTime
	} else {
		p.ClearEndTime = true
	}
	return p
}
