package process

import (
	"strings"

	"go-transfer/internal/common/errs"

	"github.com/google/uuid"
)

// The functions in this file are pure: they never modify their input and
// return the updated process. Persistence is the caller's job.

func newID() string {
	return uuid.NewString()
}

// UpsertStep replaces the step with the same id at its position or appends it.
func UpsertStep(p Process, step Step) (Process, error) {
	if step.SuccessChance != nil && (*step.SuccessChance < 0 || *step.SuccessChance > 100) {
		return p, errs.Invalid("success chance must be between 0 and 100")
	}
	if step.State == "" {
		step.State = StepPlanned
	}

	out := p.Clone()
	if i := indexOf(out.Steps, step.ID, func(s Step) string { return s.ID }); i >= 0 {
		out.Steps[i] = step
		return out, nil
	}
	if step.ID == "" {
		step.ID = newID()
	}
	out.Steps = append(out.Steps, step)
	return out, nil
}

// UpsertReminder replaces or appends a reminder. The description is only
// checked when the reminder is created.
func UpsertReminder(p Process, r Reminder) (Process, error) {
	out := p.Clone()
	if i := indexOf(out.Reminders, r.ID, func(r Reminder) string { return r.ID }); i >= 0 {
		out.Reminders[i] = r
		return out, nil
	}
	if strings.TrimSpace(r.Description) == "" {
		return p, errs.Invalid("reminder description is required")
	}
	if r.ID == "" {
		r.ID = newID()
	}
	out.Reminders = append(out.Reminders, r)
	return out, nil
}

func UpsertNote(p Process, n Note) (Process, error) {
	out := p.Clone()
	if i := indexOf(out.Notes, n.ID, func(n Note) string { return n.ID }); i >= 0 {
		out.Notes[i] = n
		return out, nil
	}
	if strings.TrimSpace(n.Description) == "" {
		return p, errs.Invalid("note description is required")
	}
	if n.ID == "" {
		n.ID = newID()
	}
	out.Notes = append(out.Notes, n)
	return out, nil
}

// RemoveStep drops the step with id. Unknown ids leave the process untouched.
func RemoveStep(p Process, id string) Process {
	if indexOf(p.Steps, id, func(s Step) string { return s.ID }) < 0 {
		return p
	}
	out := p.Clone()
	out.Steps = without(out.Steps, id, func(s Step) string { return s.ID })
	return out
}

func RemoveReminder(p Process, id string) Process {
	if indexOf(p.Reminders, id, func(r Reminder) string { return r.ID }) < 0 {
		return p
	}
	out := p.Clone()
	out.Reminders = without(out.Reminders, id, func(r Reminder) string { return r.ID })
	return out
}

func RemoveNote(p Process, id string) Process {
	if indexOf(p.Notes, id, func(n Note) string { return n.ID }) < 0 {
		return p
	}
	out := p.Clone()
	out.Notes = without(out.Notes, id, func(n Note) string { return n.ID })
	return out
}

// SetTransferDetails replaces the single transfer details value. Nil clears it.
func SetTransferDetails(p Process, td *TransferDetails) Process {
	out := p.Clone()
	if td == nil {
		out.TransferDetails = nil
		return out
	}
	c := *td
	if c.ID == "" {
		c.ID = newID()
	}
	out.TransferDetails = &c
	return out.Clone()
}

// SetStatus assigns a new status through Transition and reports the change.
func SetStatus(p Process, to Status) (Process, StatusChange, error) {
	change := StatusChange{From: p.Status, To: to}
	if !Transition(p.Status, to) {
		return p, change, errs.Invalid("unknown status transition %q -> %q", p.Status, to)
	}
	out := p.Clone()
	out.Status = to
	return out, change, nil
}

// SetPriority assigns a 1-5 priority; nil clears it.
func SetPriority(p Process, priority *int) (Process, error) {
	if priority != nil && (*priority < 1 || *priority > 5) {
		return p, errs.Invalid("priority must be between 1 and 5")
	}
	out := p.Clone()
	out.Priority = clonePtr(priority)
	return out, nil
}

func SetAssignee(p Process, assigneeID *string) Process {
	out := p.Clone()
	out.AssigneeID = clonePtr(assigneeID)
	return out
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	if id == "" {
		return -1
	}
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}

func without[T any](items []T, id string, key func(T) string) []T {
	out := items[:0]
	for _, item := range items {
		if key(item) != id {
			out = append(out, item)
		}
	}
	return out
}
