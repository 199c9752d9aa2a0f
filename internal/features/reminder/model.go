package reminder

import (
	"context"
	"time"

	"go-transfer/internal/features/process"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Clock is injected so due tracking can run against virtual time in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock { return SystemClock{} }

// ScheduledNotification is one local notification. ID equals the reminder id,
// so a notifier keeps at most one pending notification per reminder.
type ScheduledNotification struct {
	ID        string
	ProcessID string
	Title     string
	Body      string
	Subtitle  *string
	TriggerAt time.Time
}

type Notifier interface {
	RequestAuthorization(ctx context.Context) (bool, error)
	ScheduleNotification(ctx context.Context, n ScheduledNotification) error
}

type CalendarEvent struct {
	Title              string
	Start              time.Time
	End                time.Time
	Notes              string
	AlarmOffsetMinutes int
}

// Calendar returns errs.ErrPermissionDenied from CreateEvent when write
// access has not been granted.
type Calendar interface {
	RequestWriteAuthorization(ctx context.Context) (bool, error)
	CreateEvent(ctx context.Context, e CalendarEvent) error
}

// DueReminder is one entry of the due read model.
type DueReminder struct {
	process.Reminder
	ProcessID      primitive.ObjectID `json:"process_id"`
	ProcessKind    process.Kind       `json:"process_kind"`
	SubjectID      string             `json:"subject_id"`
	CounterpartyID string             `json:"counterparty_id"`
}

func categoryLabel(c *process.ReminderCategory) string {
	if c == nil {
		return ""
	}
	switch *c {
	case process.CategoryFollowUp:
		return "Follow-up"
	case process.CategoryContractReview:
		return "Vertragsprüfung"
	case process.CategoryAppointment:
		return "Termin"
	}
	return string(*c)
}
