package email

import (
	"context"
	"errors"
	"fmt"

	"go-transfer/internal/common/errs"
	common_models "go-transfer/internal/common/models"
	"go-transfer/internal/config"
	"go-transfer/internal/features/audit"
	"go-transfer/internal/features/process"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type EmailService interface {
	// Draft composes a draft for one step of a process. When a newer request
	// for the same step was issued meanwhile, the result is dropped and
	// errs.ErrSuperseded returned.
	Draft(ctx context.Context, processID primitive.ObjectID, stepID string, lang Language, senderContact string) (EmailDraft, error)
	CurrentDraft(processID primitive.ObjectID, stepID string) (EmailDraft, bool)
	SendDraft(ctx context.Context, processID primitive.ObjectID, from string, to []string, draft EmailDraft) (*Email, error)
	ListSent(ctx context.Context, processID primitive.ObjectID) ([]Email, error)
}

type EmailServiceImpl struct {
	Processes    process.ProcessService
	Composer     *Composer
	Repo         EmailRepository
	Mailer       Mailer
	AuditService audit.AuditService
	alerts       *errs.Queue
	from         string
	logger       *zap.Logger

	sessions sessions
}

func NewEmailService(
	processes process.ProcessService,
	composer *Composer,
	repo EmailRepository,
	mailer Mailer,
	auditService audit.AuditService,
	alerts *errs.Queue,
	cfg *config.Config,
	logger *zap.Logger,
) EmailService {
	return &EmailServiceImpl{
		Processes:    processes,
		Composer:     composer,
		Repo:         repo,
		Mailer:       mailer,
		AuditService: auditService,
		alerts:       alerts,
		from:         cfg.SMTPFrom,
		logger:       logger.Named("email"),
	}
}

func sessionKey(processID primitive.ObjectID, stepID string) string {
	return processID.Hex() + "/" + stepID
}

func (s *EmailServiceImpl) Draft(ctx context.Context, processID primitive.ObjectID, stepID string, lang Language, senderContact string) (EmailDraft, error) {
	p, err := s.Processes.Get(processID)
	if err != nil {
		return EmailDraft{}, err
	}
	var step *process.Step
	for i := range p.Steps {
		if p.Steps[i].ID == stepID {
			step = &p.Steps[i]
			break
		}
	}
	if step == nil {
		return EmailDraft{}, fmt.Errorf("step %s: %w", stepID, errs.ErrNotFound)
	}

	session := s.sessions.get(sessionKey(processID, stepID))
	ticket := session.Begin()

	draft, cause := s.Composer.compose(ctx, p, *step, lang, senderContact)
	if cause != nil && !errors.Is(cause, errs.ErrDataUnavailable) && s.alerts != nil {
		s.alerts.PushAlert(errs.AlertGeneration, draft.Body)
	}

	if err := session.Complete(ticket, draft); err != nil {
		s.logger.Debug("Discarding superseded draft", zap.String("processID", processID.Hex()), zap.String("language", string(lang)))
		return EmailDraft{}, err
	}
	return draft, nil
}

func (s *EmailServiceImpl) CurrentDraft(processID primitive.ObjectID, stepID string) (EmailDraft, bool) {
	return s.sessions.get(sessionKey(processID, stepID)).Current()
}

func (s *EmailServiceImpl) SendDraft(ctx context.Context, processID primitive.ObjectID, from string, to []string, draft EmailDraft) (*Email, error) {
	if len(to) == 0 {
		return nil, errs.Invalid("at least one recipient is required")
	}
	if draft.Status != "" && draft.Status != DraftReady {
		return nil, errs.Invalid("draft is %s and cannot be sent", draft.Status)
	}
	if s.from != "" {
		from = s.from
	}

	record := &Email{
		ProcessID: processID,
		From:      from,
		To:        to,
		Subject:   draft.Subject,
		TextBody:  draft.Body,
		Status:    EmailQueued,
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store email: %w", err)
	}

	s.logger.Info("Sending email", zap.Strings("to", to), zap.String("processID", processID.Hex()))
	sendErr := s.Mailer.Send(from, to, draft.Subject, draft.Body)

	record.Status = EmailSent
	if sendErr != nil {
		record.Status = EmailFailed
		record.ErrorMsg = sendErr.Error()
	}
	if err := s.Repo.UpdateStatus(ctx, record.ID, record.Status, record.ErrorMsg); err != nil {
		s.logger.Warn("Failed to update email status", zap.String("emailID", record.ID.Hex()), zap.Error(err))
	}

	if sendErr != nil {
		return record, fmt.Errorf("failed to send email: %w", sendErr)
	}

	if s.AuditService != nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionEmail, "processes", processID.Hex(), map[string]common_models.Change{
			"email": {New: record.Subject},
		})
	}
	return record, nil
}

func (s *EmailServiceImpl) ListSent(ctx context.Context, processID primitive.ObjectID) ([]Email, error) {
	return s.Repo.ListByProcess(ctx, processID)
}
