package process

import (
	"testing"
	"time"

	"go-transfer/internal/common/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func baseProcess() Process {
	return Process{
		SubjectID:      "player-1",
		CounterpartyID: "club-1",
		Kind:           KindTransfer,
		Status:         StatusInProgress,
		StartDate:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Steps:          []Step{},
	}
}

func TestUpsertStepAppendsAndReplaces(t *testing.T) {
	p := baseProcess()
	when := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	p, err := UpsertStep(p, Step{Kind: "Initial Contact", When: when})
	require.NoError(t, err)
	require.Len(t, p.Steps, 1)
	id := p.Steps[0].ID
	require.NotEmpty(t, id)
	assert.Equal(t, StepPlanned, p.Steps[0].State)

	p, err = UpsertStep(p, Step{Kind: "Negotiation", When: when})
	require.NoError(t, err)

	p, err = UpsertStep(p, Step{ID: id, Kind: "Initial Contact", State: StepCompleted, When: when, Notes: strPtr("called agent")})
	require.NoError(t, err)

	require.Len(t, p.Steps, 2)
	assert.Equal(t, id, p.Steps[0].ID)
	assert.Equal(t, StepCompleted, p.Steps[0].State)
	assert.Equal(t, "called agent", *p.Steps[0].Notes)
	assert.Equal(t, "Negotiation", p.Steps[1].Kind)
}

func TestUpsertStepDoesNotMutateInput(t *testing.T) {
	p, err := UpsertStep(baseProcess(), Step{ID: "s1", Kind: "Call", Checklist: []string{"a"}})
	require.NoError(t, err)

	updated, err := UpsertStep(p, Step{ID: "s1", Kind: "Meeting", Checklist: []string{"b"}})
	require.NoError(t, err)

	assert.Equal(t, "Call", p.Steps[0].Kind)
	assert.Equal(t, []string{"a"}, p.Steps[0].Checklist)
	assert.Equal(t, "Meeting", updated.Steps[0].Kind)
}

func TestUpsertStepRejectsSuccessChanceOutOfRange(t *testing.T) {
	_, err := UpsertStep(baseProcess(), Step{Kind: "Call", SuccessChance: intPtr(120)})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestUpsertReminderRequiresDescriptionOnCreate(t *testing.T) {
	_, err := UpsertReminder(baseProcess(), Reminder{When: time.Now()})
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	p, err := UpsertReminder(baseProcess(), Reminder{ID: "r1", When: time.Now(), Description: "Follow up"})
	require.NoError(t, err)

	// later edits are not re-validated
	p, err = UpsertReminder(p, Reminder{ID: "r1", When: time.Now(), Description: ""})
	require.NoError(t, err)
	assert.Len(t, p.Reminders, 1)
}

func TestUpsertNoteOnAbsentCollection(t *testing.T) {
	p := baseProcess()
	require.Nil(t, p.Notes)

	p, err := UpsertNote(p, Note{Description: "Medical passed", Attachments: []string{"s3://docs/med.pdf"}})
	require.NoError(t, err)
	require.Len(t, p.Notes, 1)
	assert.NotEmpty(t, p.Notes[0].ID)
}

func TestRemoveReminderUnknownIDIsNoop(t *testing.T) {
	p, err := UpsertReminder(baseProcess(), Reminder{ID: "r1", When: time.Now(), Description: "Call back"})
	require.NoError(t, err)

	got := RemoveReminder(p, "missing")
	assert.Equal(t, p, got)

	got = RemoveReminder(p, "r1")
	assert.Empty(t, got.Reminders)
	assert.Len(t, p.Reminders, 1)
}

func TestRemoveStepAndNote(t *testing.T) {
	p, _ := UpsertStep(baseProcess(), Step{ID: "s1", Kind: "Call"})
	p, _ = UpsertStep(p, Step{ID: "s2", Kind: "Meeting"})
	p, _ = UpsertNote(p, Note{ID: "n1", Description: "x"})

	p = RemoveStep(p, "s1")
	p = RemoveNote(p, "n1")

	require.Len(t, p.Steps, 1)
	assert.Equal(t, "s2", p.Steps[0].ID)
	assert.Empty(t, p.Notes)
}

func TestSetTransferDetailsReplaces(t *testing.T) {
	p := SetTransferDetails(baseProcess(), &TransferDetails{Fee: &Money{Amount: 500000, Currency: "EUR"}})
	require.NotNil(t, p.TransferDetails)
	first := p.TransferDetails.ID
	assert.NotEmpty(t, first)

	p = SetTransferDetails(p, &TransferDetails{IsFeeWaived: true})
	assert.True(t, p.TransferDetails.IsFeeWaived)
	assert.Nil(t, p.TransferDetails.Fee)

	p = SetTransferDetails(p, nil)
	assert.Nil(t, p.TransferDetails)
}

func TestSetStatusAllowsEveryTransition(t *testing.T) {
	statuses := []Status{StatusInProgress, StatusCompleted, StatusAborted}
	for _, from := range statuses {
		for _, to := range statuses {
			p := baseProcess()
			p.Status = from
			out, change, err := SetStatus(p, to)
			require.NoError(t, err)
			assert.Equal(t, to, out.Status)
			assert.Equal(t, from, change.From)
			assert.Equal(t, to == StatusCompleted, change.TransferDetailsVisible())
		}
	}

	_, _, err := SetStatus(baseProcess(), Status("archived"))
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestSetPriorityAndAssignee(t *testing.T) {
	p, err := SetPriority(baseProcess(), intPtr(4))
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, Classify(p.Priority))

	_, err = SetPriority(p, intPtr(6))
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	p, err = SetPriority(p, nil)
	require.NoError(t, err)
	assert.Nil(t, p.Priority)

	p = SetAssignee(p, strPtr("agent-9"))
	assert.Equal(t, "agent-9", *p.AssigneeID)
}

func TestCloneIsDeep(t *testing.T) {
	p := baseProcess()
	p.Priority = intPtr(3)
	p.Reminders = []Reminder{{ID: "r1", Description: "x"}}
	p.TransferDetails = &TransferDetails{Fee: &Money{Amount: 1}}

	c := p.Clone()
	*c.Priority = 5
	c.Reminders[0].Description = "changed"
	c.TransferDetails.Fee.Amount = 2

	assert.Equal(t, 3, *p.Priority)
	assert.Equal(t, "x", p.Reminders[0].Description)
	assert.Equal(t, int64(1), p.TransferDetails.Fee.Amount)
}
