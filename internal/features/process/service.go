package process

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-transfer/internal/common/errs"
	common_models "go-transfer/internal/common/models"
	"go-transfer/internal/config"
	"go-transfer/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ReminderSink receives the full working set after every load or successful
// mutation so due tracking sees new reminders on its next tick.
type ReminderSink interface {
	Replace(processes []Process)
}

// StatusListener is notified after a status change has been persisted.
type StatusListener func(processID primitive.ObjectID, change StatusChange)

type ProcessService interface {
	Load(ctx context.Context) error
	Get(id primitive.ObjectID) (Process, error)
	List(filter ListFilter) []Process
	Snapshot() []Process

	CreateProcess(ctx context.Context, input NewProcess) (Process, error)
	DeleteProcess(ctx context.Context, id primitive.ObjectID) error

	UpsertStep(ctx context.Context, id primitive.ObjectID, step Step) (Process, error)
	RemoveStep(ctx context.Context, id primitive.ObjectID, stepID string) (Process, error)
	UpsertReminder(ctx context.Context, id primitive.ObjectID, r Reminder) (Process, error)
	RemoveReminder(ctx context.Context, id primitive.ObjectID, reminderID string) (Process, error)
	UpsertNote(ctx context.Context, id primitive.ObjectID, n Note) (Process, error)
	RemoveNote(ctx context.Context, id primitive.ObjectID, noteID string) (Process, error)
	SetTransferDetails(ctx context.Context, id primitive.ObjectID, td *TransferDetails) (Process, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status Status) (Process, error)
	SetPriority(ctx context.Context, id primitive.ObjectID, priority *int) (Process, error)
	SetAssignee(ctx context.Context, id primitive.ObjectID, assigneeID *string) (Process, error)

	OnStatusChange(l StatusListener)
}

// NewProcess is the input of the new-process flow.
type NewProcess struct {
	SubjectID      string  `json:"subject_id"`
	CounterpartyID string  `json:"counterparty_id"`
	Kind           Kind    `json:"kind"`
	Priority       *int    `json:"priority,omitempty"`
	AssigneeID     *string `json:"assignee_id,omitempty"`
}

type ProcessServiceImpl struct {
	repo     ProcessRepository
	sink     ReminderSink
	audit    audit.AuditService
	alerts   *errs.Queue
	logger   *zap.Logger
	pageSize int64
	now      func() time.Time

	// writers hold loadMu shared, Load holds it exclusively
	loadMu sync.RWMutex
	// orders snapshots handed to the sink
	publishMu sync.Mutex

	mu        sync.RWMutex
	processes map[primitive.ObjectID]Process
	order     []primitive.ObjectID
	locks     map[primitive.ObjectID]*sync.Mutex

	listenersMu sync.RWMutex
	listeners   []StatusListener
}

func NewProcessService(
	repo ProcessRepository,
	sink ReminderSink,
	auditService audit.AuditService,
	alerts *errs.Queue,
	logger *zap.Logger,
	cfg *config.Config,
) ProcessService {
	pageSize := cfg.ProcessPageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &ProcessServiceImpl{
		repo:      repo,
		sink:      sink,
		audit:     auditService,
		alerts:    alerts,
		logger:    logger.Named("process"),
		pageSize:  pageSize,
		now:       time.Now,
		processes: make(map[primitive.ObjectID]Process),
		locks:     make(map[primitive.ObjectID]*sync.Mutex),
	}
}

func (s *ProcessServiceImpl) OnStatusChange(l StatusListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Load pages through the repository and replaces the working set.
func (s *ProcessServiceImpl) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	var all []Process
	token := ""
	for {
		page, next, err := s.repo.List(ctx, token, s.pageSize)
		if err != nil {
			return s.fail(&errs.PersistenceError{Op: "list", Err: err})
		}
		all = append(all, page...)
		if next == "" {
			break
		}
		token = next
	}

	s.mu.Lock()
	s.processes = make(map[primitive.ObjectID]Process, len(all))
	s.order = s.order[:0]
	for _, p := range all {
		s.processes[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	s.mu.Unlock()

	s.logger.Info("Loaded processes", zap.Int("count", len(all)))
	s.publish()
	return nil
}

func (s *ProcessServiceImpl) Get(id primitive.ObjectID) (Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.processes[id]
	if !ok {
		return Process{}, errs.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *ProcessServiceImpl) Snapshot() []Process {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Process, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.processes[id].Clone())
	}
	return out
}

func (s *ProcessServiceImpl) List(filter ListFilter) []Process {
	return Filter(s.Snapshot(), filter)
}

func (s *ProcessServiceImpl) CreateProcess(ctx context.Context, input NewProcess) (Process, error) {
	if !input.Kind.Valid() {
		return Process{}, errs.Invalid("unknown process kind %q", input.Kind)
	}
	if input.SubjectID == "" || input.CounterpartyID == "" {
		return Process{}, errs.Invalid("subject and counterparty are required")
	}

	s.loadMu.RLock()
	defer s.loadMu.RUnlock()

	p := Process{
		SubjectID:      input.SubjectID,
		CounterpartyID: input.CounterpartyID,
		Kind:           input.Kind,
		Status:         StatusInProgress,
		StartDate:      s.now(),
		AssigneeID:     input.AssigneeID,
		Steps:          []Step{},
	}
	p, err := SetPriority(p, input.Priority)
	if err != nil {
		return Process{}, err
	}

	if _, err := s.repo.Create(ctx, &p); err != nil {
		return Process{}, s.fail(&errs.PersistenceError{Op: "create", Err: err})
	}

	s.mu.Lock()
	s.processes[p.ID] = p
	s.order = append(s.order, p.ID)
	s.mu.Unlock()

	s.publish()
	s.logAudit(ctx, common_models.AuditActionCreate, p.ID, map[string]common_models.Change{
		"process": {New: p},
	})
	return p.Clone(), nil
}

func (s *ProcessServiceImpl) DeleteProcess(ctx context.Context, id primitive.ObjectID) error {
	s.loadMu.RLock()
	defer s.loadMu.RUnlock()

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return err
		}
		return s.fail(&errs.PersistenceError{Op: "delete", ProcessID: id.Hex(), Err: err})
	}

	s.mu.Lock()
	delete(s.processes, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	delete(s.locks, id)
	s.mu.Unlock()

	s.publish()
	s.logAudit(ctx, common_models.AuditActionDelete, id, nil)
	return nil
}

func (s *ProcessServiceImpl) UpsertStep(ctx context.Context, id primitive.ObjectID, step Step) (Process, error) {
	return s.mutate(ctx, id, "step", func(p Process) (Process, error) { return UpsertStep(p, step) })
}

func (s *ProcessServiceImpl) RemoveStep(ctx context.Context, id primitive.ObjectID, stepID string) (Process, error) {
	return s.mutate(ctx, id, "step", func(p Process) (Process, error) { return RemoveStep(p, stepID), nil })
}

func (s *ProcessServiceImpl) UpsertReminder(ctx context.Context, id primitive.ObjectID, r Reminder) (Process, error) {
	return s.mutate(ctx, id, "reminder", func(p Process) (Process, error) { return UpsertReminder(p, r) })
}

func (s *ProcessServiceImpl) RemoveReminder(ctx context.Context, id primitive.ObjectID, reminderID string) (Process, error) {
	return s.mutate(ctx, id, "reminder", func(p Process) (Process, error) { return RemoveReminder(p, reminderID), nil })
}

func (s *ProcessServiceImpl) UpsertNote(ctx context.Context, id primitive.ObjectID, n Note) (Process, error) {
	return s.mutate(ctx, id, "note", func(p Process) (Process, error) { return UpsertNote(p, n) })
}

func (s *ProcessServiceImpl) RemoveNote(ctx context.Context, id primitive.ObjectID, noteID string) (Process, error) {
	return s.mutate(ctx, id, "note", func(p Process) (Process, error) { return RemoveNote(p, noteID), nil })
}

func (s *ProcessServiceImpl) SetTransferDetails(ctx context.Context, id primitive.ObjectID, td *TransferDetails) (Process, error) {
	return s.mutate(ctx, id, "transfer_details", func(p Process) (Process, error) { return SetTransferDetails(p, td), nil })
}

func (s *ProcessServiceImpl) SetStatus(ctx context.Context, id primitive.ObjectID, status Status) (Process, error) {
	var change StatusChange
	p, err := s.mutate(ctx, id, "status", func(p Process) (Process, error) {
		out, c, err := SetStatus(p, status)
		change = c
		return out, err
	})
	if err != nil {
		return p, err
	}

	s.listenersMu.RLock()
	listeners := append([]StatusListener(nil), s.listeners...)
	s.listenersMu.RUnlock()
	for _, l := range listeners {
		l(id, change)
	}
	return p, nil
}

func (s *ProcessServiceImpl) SetPriority(ctx context.Context, id primitive.ObjectID, priority *int) (Process, error) {
	return s.mutate(ctx, id, "priority", func(p Process) (Process, error) { return SetPriority(p, priority) })
}

func (s *ProcessServiceImpl) SetAssignee(ctx context.Context, id primitive.ObjectID, assigneeID *string) (Process, error) {
	return s.mutate(ctx, id, "assignee", func(p Process) (Process, error) { return SetAssignee(p, assigneeID), nil })
}

// mutate serializes read-modify-write per process. The working set is only
// replaced after the repository accepted the new state.
func (s *ProcessServiceImpl) mutate(ctx context.Context, id primitive.ObjectID, field string, fn func(Process) (Process, error)) (Process, error) {
	s.loadMu.RLock()
	defer s.loadMu.RUnlock()

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Get(id)
	if err != nil {
		return Process{}, err
	}

	updated, err := fn(current)
	if err != nil {
		return current, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return current, err
		}
		return current, s.fail(&errs.PersistenceError{Op: "update", ProcessID: id.Hex(), Err: err})
	}

	s.mu.Lock()
	s.processes[id] = updated
	s.mu.Unlock()

	s.publish()
	s.logAudit(ctx, common_models.AuditActionUpdate, id, map[string]common_models.Change{
		field: {Old: snapshotField(current, field), New: snapshotField(updated, field)},
	})
	return updated.Clone(), nil
}

func (s *ProcessServiceImpl) lockFor(id primitive.ObjectID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// publish snapshots under publishMu, so the sink always ends with the
// latest committed working set.
func (s *ProcessServiceImpl) publish() {
	if s.sink == nil {
		return
	}
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.sink.Replace(s.Snapshot())
}

func (s *ProcessServiceImpl) fail(err error) error {
	s.logger.Error("Persistence failure", zap.Error(err))
	if s.alerts != nil {
		s.alerts.Push(err)
	}
	return err
}

func (s *ProcessServiceImpl) logAudit(ctx context.Context, action common_models.AuditAction, id primitive.ObjectID, changes map[string]common_models.Change) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogChange(ctx, action, "processes", id.Hex(), changes); err != nil {
		s.logger.Warn("Failed to write audit log", zap.String("processID", id.Hex()), zap.Error(err))
	}
}

func snapshotField(p Process, field string) any {
	switch field {
	case "step":
		return p.Steps
	case "reminder":
		return p.Reminders
	case "note":
		return p.Notes
	case "transfer_details":
		return p.TransferDetails
	case "status":
		return p.Status
	case "priority":
		return p.Priority
	case "assignee":
		return p.AssigneeID
	default:
		return fmt.Sprintf("%v", p)
	}
}
