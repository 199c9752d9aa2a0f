package process

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Kind string

const (
	KindTransfer       Kind = "transfer"
	KindSponsoring     Kind = "sponsoring"
	KindProfileRequest Kind = "profile_request"
)

func (k Kind) Valid() bool {
	switch k {
	case KindTransfer, KindSponsoring, KindProfileRequest:
		return true
	}
	return false
}

type StepState string

const (
	StepPlanned   StepState = "planned"
	StepCompleted StepState = "completed"
)

type ReminderCategory string

const (
	CategoryFollowUp       ReminderCategory = "follow_up"
	CategoryContractReview ReminderCategory = "contract_review"
	CategoryAppointment    ReminderCategory = "appointment"
)

// Process is the aggregate root. Steps, reminders, notes and transfer details
// are embedded value collections stored in the same document.
type Process struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SubjectID       string             `json:"subject_id" bson:"subject_id"`
	CounterpartyID  string             `json:"counterparty_id" bson:"counterparty_id"`
	Kind            Kind               `json:"kind" bson:"kind"`
	Status          Status             `json:"status" bson:"status"`
	StartDate       time.Time          `json:"start_date" bson:"start_date"`
	Priority        *int               `json:"priority,omitempty" bson:"priority,omitempty"`
	AssigneeID      *string            `json:"assignee_id,omitempty" bson:"assignee_id,omitempty"`
	Steps           []Step             `json:"steps" bson:"steps"`
	Reminders       []Reminder         `json:"reminders,omitempty" bson:"reminders,omitempty"`
	Notes           []Note             `json:"notes,omitempty" bson:"notes,omitempty"`
	TransferDetails *TransferDetails   `json:"transfer_details,omitempty" bson:"transfer_details,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsDraft reports whether the process has never been persisted.
func (p Process) IsDraft() bool {
	return p.ID.IsZero()
}

type Step struct {
	ID            string    `json:"id" bson:"id"`
	Kind          string    `json:"kind" bson:"kind"`
	State         StepState `json:"state" bson:"state"`
	When          time.Time `json:"when" bson:"when"`
	Notes         *string   `json:"notes,omitempty" bson:"notes,omitempty"`
	SuccessChance *int      `json:"success_chance,omitempty" bson:"success_chance,omitempty"`
	Checklist     []string  `json:"checklist,omitempty" bson:"checklist,omitempty"`
}

type Reminder struct {
	ID          string            `json:"id" bson:"id"`
	When        time.Time         `json:"when" bson:"when"`
	Description string            `json:"description" bson:"description"`
	Category    *ReminderCategory `json:"category,omitempty" bson:"category,omitempty"`
}

type Note struct {
	ID          string   `json:"id" bson:"id"`
	Description string   `json:"description" bson:"description"`
	Attachments []string `json:"attachments,omitempty" bson:"attachments,omitempty"`
}

// Money is an amount in minor units.
type Money struct {
	Amount   int64  `json:"amount" bson:"amount"`
	Currency string `json:"currency" bson:"currency"`
}

type TransferDetails struct {
	ID                    string    `json:"id" bson:"id"`
	FromOrgID             *string   `json:"from_org_id,omitempty" bson:"from_org_id,omitempty"`
	ToOrgID               *string   `json:"to_org_id,omitempty" bson:"to_org_id,omitempty"`
	CounterpartyContactID *string   `json:"counterparty_contact_id,omitempty" bson:"counterparty_contact_id,omitempty"`
	When                  time.Time `json:"when" bson:"when"`
	Fee                   *Money    `json:"fee,omitempty" bson:"fee,omitempty"`
	IsFeeWaived           bool      `json:"is_fee_waived" bson:"is_fee_waived"`
	Details               *string   `json:"details,omitempty" bson:"details,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with p.
func (p Process) Clone() Process {
	c := p
	c.Priority = clonePtr(p.Priority)
	c.AssigneeID = clonePtr(p.AssigneeID)

	if p.Steps != nil {
		c.Steps = make([]Step, len(p.Steps))
		for i, s := range p.Steps {
			s.Notes = clonePtr(s.Notes)
			s.SuccessChance = clonePtr(s.SuccessChance)
			s.Checklist = cloneStrings(s.Checklist)
			c.Steps[i] = s
		}
	}
	if p.Reminders != nil {
		c.Reminders = make([]Reminder, len(p.Reminders))
		for i, r := range p.Reminders {
			r.Category = clonePtr(r.Category)
			c.Reminders[i] = r
		}
	}
	if p.Notes != nil {
		c.Notes = make([]Note, len(p.Notes))
		for i, n := range p.Notes {
			n.Attachments = cloneStrings(n.Attachments)
			c.Notes[i] = n
		}
	}
	if p.TransferDetails != nil {
		td := *p.TransferDetails
		td.FromOrgID = clonePtr(td.FromOrgID)
		td.ToOrgID = clonePtr(td.ToOrgID)
		td.CounterpartyContactID = clonePtr(td.CounterpartyContactID)
		td.Fee = clonePtr(td.Fee)
		td.Details = clonePtr(td.Details)
		c.TransferDetails = &td
	}
	return c
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
