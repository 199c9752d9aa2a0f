package notification

import (
	"context"

	"go-transfer/internal/common/errs"
	"go-transfer/internal/config"
	"go-transfer/internal/features/process"
	"go-transfer/internal/features/reminder"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type NotificationService interface {
	reminder.Notifier

	List(ctx context.Context, page, limit int64) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error

	// StatusChanged pushes a persisted status change to connected clients.
	StatusChanged(processID primitive.ObjectID, change process.StatusChange)
}

type NotificationServiceImpl struct {
	repo    NotificationRepository
	hub     *Hub
	enabled bool
	logger  *zap.Logger
}

func NewNotificationService(repo NotificationRepository, hub *Hub, cfg *config.Config, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		repo:    repo,
		hub:     hub,
		enabled: cfg.NotificationsEnabled,
		logger:  logger.Named("notification"),
	}
}

func (s *NotificationServiceImpl) RequestAuthorization(ctx context.Context) (bool, error) {
	return s.enabled, nil
}

func (s *NotificationServiceImpl) ScheduleNotification(ctx context.Context, sn reminder.ScheduledNotification) error {
	if !s.enabled {
		return errs.ErrPermissionDenied
	}

	n := &Notification{
		ReminderID: sn.ID,
		ProcessID:  sn.ProcessID,
		Title:      sn.Title,
		Message:    sn.Body,
		Subtitle:   sn.Subtitle,
		Type:       NotificationTypeReminder,
		TriggerAt:  sn.TriggerAt,
	}
	if err := s.repo.Upsert(ctx, n); err != nil {
		return err
	}

	s.hub.Broadcast(Event{Type: NotificationTypeReminder, ProcessID: sn.ProcessID, Payload: n})
	s.logger.Info("Reminder notification delivered", zap.String("reminderID", sn.ID), zap.Int("clients", s.hub.Count()))
	return nil
}

func (s *NotificationServiceImpl) StatusChanged(processID primitive.ObjectID, change process.StatusChange) {
	s.hub.Broadcast(Event{
		Type:      NotificationTypeStatus,
		ProcessID: processID.Hex(),
		Payload: map[string]interface{}{
			"from":                     change.From,
			"to":                       change.To,
			"transfer_details_visible": change.TransferDetailsVisible(),
		},
	})
}

func (s *NotificationServiceImpl) List(ctx context.Context, page, limit int64) ([]Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.List(ctx, page, limit)
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context) (int64, error) {
	return s.repo.GetUnreadCount(ctx)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.Invalid("invalid notification id")
	}
	return s.repo.MarkAsRead(ctx, objID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context) error {
	return s.repo.MarkAllAsRead(ctx)
}
