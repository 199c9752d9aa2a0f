package email

import (
	"context"
	"strings"
	"time"

	"go-transfer/internal/common/errs"
	"go-transfer/internal/config"
	"go-transfer/internal/features/contact"
	"go-transfer/internal/features/process"

	"go.uber.org/zap"
)

// Composer drafts an email about one process step. It never returns an
// error: missing reference data and generation failures both yield a
// degraded draft.
type Composer struct {
	directory     contact.Directory
	generator     TextGenerator
	prompts       *PromptSet
	defaultSender string
	logger        *zap.Logger
	now           func() time.Time
}

func NewComposer(directory contact.Directory, generator TextGenerator, prompts *PromptSet, cfg *config.Config, logger *zap.Logger) *Composer {
	return &Composer{
		directory:     directory,
		generator:     generator,
		prompts:       prompts,
		defaultSender: cfg.DefaultSenderName,
		logger:        logger.Named("email"),
		now:           time.Now,
	}
}

// Compose builds the context for step, asks the generator for text and
// splits the answer into subject and body. senderContact is the address of
// the user composing the email.
func (c *Composer) Compose(ctx context.Context, p process.Process, step process.Step, lang Language, senderContact string) EmailDraft {
	draft, _ := c.compose(ctx, p, step, lang, senderContact)
	return draft
}

// compose also reports why a draft is degraded.
func (c *Composer) compose(ctx context.Context, p process.Process, step process.Step, lang Language, senderContact string) (EmailDraft, error) {
	subject, err := c.directory.FindPerson(ctx, p.SubjectID)
	if err != nil {
		return unavailableDraft(lang), c.unavailable("subject", p.SubjectID, err)
	}
	counterparty, err := c.directory.FindOrganization(ctx, p.CounterpartyID)
	if err != nil {
		return unavailableDraft(lang), c.unavailable("counterparty", p.CounterpartyID, err)
	}

	data := PromptData{
		ProcessKind:      string(p.Kind),
		Status:           string(p.Status),
		SubjectName:      subject.FullName(),
		CounterpartyName: counterparty.Name,
		StepKind:         step.Kind,
		StepDate:         step.When.Format("02.01.2006"),
		Checklist:        strings.Join(step.Checklist, ", "),
		SenderName:       c.senderName(ctx, p),
		SenderContact:    senderContact,
	}
	if step.Notes != nil {
		data.StepNotes = *step.Notes
	}
	if step.SuccessChance != nil {
		data.SuccessChance = *step.SuccessChance
		data.HasSuccessChance = true
	}
	if next, ok := nextReminder(p.Reminders, c.now()); ok {
		data.NextReminder = next.When.Format("02.01.2006 15:04")
		data.NextReminderDescription = next.Description
	}
	var notes, attachments []string
	for _, n := range p.Notes {
		notes = append(notes, n.Description)
		attachments = append(attachments, n.Attachments...)
	}
	data.Notes = strings.Join(notes, "; ")
	data.Attachments = strings.Join(attachments, ", ")

	user, err := c.prompts.RenderUser(lang, data)
	if err != nil {
		return c.failedDraft(lang), err
	}

	text, err := c.generator.Generate(ctx, c.prompts.System, user)
	if err != nil {
		c.logger.Warn("Email generation failed", zap.String("processID", p.ID.Hex()), zap.Error(err))
		return c.failedDraft(lang), err
	}

	subjectLine, body := ParseDraft(text)
	return EmailDraft{Subject: subjectLine, Body: body, Language: lang, Status: DraftReady}, nil
}

func (c *Composer) unavailable(what, id string, err error) error {
	c.logger.Info("Email reference data missing", zap.String(what, id), zap.Error(err))
	return errs.ErrDataUnavailable
}

// senderName prefers the assigned agent's name.
func (c *Composer) senderName(ctx context.Context, p process.Process) string {
	if p.AssigneeID != nil {
		if person, err := c.directory.FindPerson(ctx, *p.AssigneeID); err == nil {
			return person.FullName()
		}
	}
	return c.defaultSender
}

func (c *Composer) failedDraft(lang Language) EmailDraft {
	return EmailDraft{Body: c.prompts.FailureText(lang), Language: lang, Status: DraftFailed}
}

func unavailableDraft(lang Language) EmailDraft {
	return EmailDraft{Body: DataUnavailableBody, Language: lang, Status: DraftUnavailable}
}

// nextReminder returns the earliest reminder that is not yet past.
func nextReminder(reminders []process.Reminder, now time.Time) (process.Reminder, bool) {
	var next process.Reminder
	found := false
	for _, r := range reminders {
		if r.When.Before(now) {
			continue
		}
		if !found || r.When.Before(next.When) {
			next, found = r, true
		}
	}
	return next, found
}
