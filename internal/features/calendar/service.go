package calendar

import (
	"context"
	"time"

	"go-transfer/internal/common/errs"
	"go-transfer/internal/config"
	"go-transfer/internal/features/reminder"
)

type CalendarService interface {
	reminder.Calendar
	ListEvents(ctx context.Context, from, to time.Time) ([]Event, error)
}

type CalendarServiceImpl struct {
	repo     EventRepository
	writable bool
}

func NewCalendarService(repo EventRepository, cfg *config.Config) CalendarService {
	return &CalendarServiceImpl{repo: repo, writable: cfg.CalendarWriteEnabled}
}

func (s *CalendarServiceImpl) RequestWriteAuthorization(ctx context.Context) (bool, error) {
	return s.writable, nil
}

func (s *CalendarServiceImpl) CreateEvent(ctx context.Context, e reminder.CalendarEvent) error {
	if !s.writable {
		return errs.ErrPermissionDenied
	}
	return s.repo.Create(ctx, &Event{
		Title:              e.Title,
		Start:              e.Start,
		End:                e.End,
		Notes:              e.Notes,
		AlarmOffsetMinutes: e.AlarmOffsetMinutes,
	})
}

func (s *CalendarServiceImpl) ListEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	if !to.After(from) {
		return nil, errs.Invalid("range end must be after start")
	}
	return s.repo.ListBetween(ctx, from, to)
}
