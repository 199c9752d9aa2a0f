package reminder

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go-transfer/internal/common/errs"
	"go-transfer/internal/config"
	"go-transfer/internal/features/contact"
	"go-transfer/internal/features/process"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	calendarEventLength = time.Hour
	calendarAlarmOffset = 15
)

// Scheduler surfaces due reminders on a fixed tick and dispatches one
// notification per reminder occurrence.
type Scheduler struct {
	notifier  Notifier
	calendar  Calendar
	directory contact.Directory
	clock     Clock
	alerts    *errs.Queue
	metrics   *Metrics
	logger    *zap.Logger
	interval  time.Duration

	// working set and due read model
	mu      sync.RWMutex
	entries []DueReminder
	due     []DueReminder

	// held for the whole tick; owns dispatched and notifyAuth
	tickMu     sync.Mutex
	dispatched map[string]time.Time
	notifyAuth *bool

	calMu          sync.Mutex
	calendarAccess bool

	cron    *cron.Cron
	initial sync.WaitGroup
}

func NewScheduler(
	notifier Notifier,
	calendar Calendar,
	directory contact.Directory,
	clock Clock,
	alerts *errs.Queue,
	metrics *Metrics,
	logger *zap.Logger,
	cfg *config.Config,
) *Scheduler {
	interval := cfg.ReminderTick
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		notifier:   notifier,
		calendar:   calendar,
		directory:  directory,
		clock:      clock,
		alerts:     alerts,
		metrics:    metrics,
		logger:     logger.Named("reminder"),
		interval:   interval,
		dispatched: make(map[string]time.Time),
	}
}

// Replace swaps the working set. It satisfies process.ReminderSink.
func (s *Scheduler) Replace(processes []process.Process) {
	var entries []DueReminder
	for _, p := range processes {
		for _, r := range p.Reminders {
			entries = append(entries, DueReminder{
				Reminder:       r,
				ProcessID:      p.ID,
				ProcessKind:    p.Kind,
				SubjectID:      p.SubjectID,
				CounterpartyID: p.CounterpartyID,
			})
		}
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
}

// DueReminders returns the due set computed by the last tick, oldest first.
func (s *Scheduler) DueReminders() []DueReminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]DueReminder(nil), s.due...)
}

// Start runs one tick right away and then one every interval. A tick never
// starts while the previous one is still running.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron = cron.New(cron.WithChain(cron.DelayIfStillRunning(newCronLogger(s.logger))))
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.Tick(context.Background()) }); err != nil {
		return fmt.Errorf("failed to schedule reminder tick: %w", err)
	}

	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		s.Tick(context.Background())
	}()
	s.cron.Start()
	s.logger.Info("Reminder scheduler started", zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) Stop() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.initial.Wait()
	return nil
}

// Tick recomputes the due set and dispatches reminders whose time has come.
func (s *Scheduler) Tick(ctx context.Context) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	started := time.Now()
	now := s.clock.Now()

	s.mu.RLock()
	entries := s.entries
	s.mu.RUnlock()

	due := DueSet(entries, now)

	s.mu.Lock()
	s.due = due
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.DueReminders.Set(float64(len(due)))
		defer func() { s.metrics.TickDuration.Observe(time.Since(started).Seconds()) }()
	}

	s.pruneDispatched(entries)

	if !s.notificationsAllowed(ctx) {
		return
	}

	for _, r := range due {
		if r.When.After(now) {
			continue
		}
		if when, ok := s.dispatched[r.ID]; ok && when.Equal(r.When) {
			continue
		}
		if err := s.notifier.ScheduleNotification(ctx, notificationFor(r)); err != nil {
			// not marked, retried next tick
			s.logger.Warn("Failed to dispatch reminder", zap.String("reminderID", r.ID), zap.Error(err))
			if s.metrics != nil {
				s.metrics.DispatchFailures.Inc()
			}
			continue
		}
		s.dispatched[r.ID] = r.When
		if s.metrics != nil {
			s.metrics.Dispatched.Inc()
		}
	}
}

// pruneDispatched forgets reminders that left the working set. Must be
// called with tickMu held.
func (s *Scheduler) pruneDispatched(entries []DueReminder) {
	if len(s.dispatched) == 0 {
		return
	}
	live := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		live[e.ID] = struct{}{}
	}
	for id := range s.dispatched {
		if _, ok := live[id]; !ok {
			delete(s.dispatched, id)
		}
	}
}

// DueSet returns the reminders whose calendar day is today or earlier in
// now's location, sorted by due time.
func DueSet(entries []DueReminder, now time.Time) []DueReminder {
	y, m, d := now.Date()
	tomorrow := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())

	due := make([]DueReminder, 0)
	for _, e := range entries {
		if e.When.Before(tomorrow) {
			due = append(due, e)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].When.Before(due[j].When) })
	return due
}

// notificationsAllowed asks for notification permission once. Must be called
// with tickMu held.
func (s *Scheduler) notificationsAllowed(ctx context.Context) bool {
	if s.notifyAuth != nil {
		return *s.notifyAuth
	}
	granted, err := s.notifier.RequestAuthorization(ctx)
	if err != nil {
		s.logger.Warn("Notification authorization failed", zap.Error(err))
		return false
	}
	s.notifyAuth = &granted
	if !granted {
		s.logger.Warn("Notifications not authorized; due reminders will not be dispatched")
		if s.alerts != nil {
			s.alerts.Push(fmt.Errorf("notifications: %w", errs.ErrPermissionDenied))
		}
	}
	return granted
}

func notificationFor(r DueReminder) ScheduledNotification {
	n := ScheduledNotification{
		ID:        r.ID,
		ProcessID: r.ProcessID.Hex(),
		Title:     r.Description,
		Body:      fmt.Sprintf("Fällig am %s", r.When.Format("02.01.2006 15:04")),
		TriggerAt: r.When,
	}
	if label := categoryLabel(r.Category); label != "" {
		n.Subtitle = &label
	}
	return n
}

// ExportToCalendar writes a one hour event with a 15 minute alarm for the
// reminder. It does not touch the tick lock.
func (s *Scheduler) ExportToCalendar(ctx context.Context, r process.Reminder, p process.Process) error {
	if err := s.ensureCalendarAccess(ctx); err != nil {
		s.countExport("denied")
		return err
	}

	event := CalendarEvent{
		Title:              r.Description,
		Start:              r.When,
		End:                r.When.Add(calendarEventLength),
		Notes:              s.eventNotes(ctx, r, p),
		AlarmOffsetMinutes: calendarAlarmOffset,
	}
	if err := s.calendar.CreateEvent(ctx, event); err != nil {
		s.countExport("failed")
		return fmt.Errorf("create calendar event: %w", err)
	}
	s.countExport("created")
	return nil
}

func (s *Scheduler) ensureCalendarAccess(ctx context.Context) error {
	s.calMu.Lock()
	defer s.calMu.Unlock()
	if s.calendarAccess {
		return nil
	}
	granted, err := s.calendar.RequestWriteAuthorization(ctx)
	if err != nil {
		return fmt.Errorf("calendar authorization: %w", err)
	}
	if !granted {
		return fmt.Errorf("calendar: %w", errs.ErrPermissionDenied)
	}
	s.calendarAccess = true
	return nil
}

func (s *Scheduler) eventNotes(ctx context.Context, r process.Reminder, p process.Process) string {
	subject, counterparty := p.SubjectID, p.CounterpartyID
	if s.directory != nil {
		if person, err := s.directory.FindPerson(ctx, p.SubjectID); err == nil {
			subject = person.FullName()
		}
		if org, err := s.directory.FindOrganization(ctx, p.CounterpartyID); err == nil {
			counterparty = org.Name
		}
	}

	notes := fmt.Sprintf("Spieler: %s\nVerein: %s", subject, counterparty)
	if label := categoryLabel(r.Category); label != "" {
		notes += "\nKategorie: " + label
	}
	return notes
}

func (s *Scheduler) countExport(outcome string) {
	if s.metrics != nil {
		s.metrics.CalendarExports.WithLabelValues(outcome).Inc()
	}
}

// cronLogger routes robfig/cron's logging through zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func newCronLogger(l *zap.Logger) cron.Logger {
	return cronLogger{logger: l.Sugar()}
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
