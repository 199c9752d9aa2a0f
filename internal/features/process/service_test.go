package process

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-transfer/internal/common/errs"
	"go-transfer/internal/config"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProcessServiceSuite struct {
	suite.Suite
	repo   *memoryRepo
	sink   *recordingSink
	alerts *errs.Queue
	svc    ProcessService
	ctx    context.Context
	id     primitive.ObjectID
}

func TestProcessServiceSuite(t *testing.T) {
	suite.Run(t, new(ProcessServiceSuite))
}

func (s *ProcessServiceSuite) SetupTest() {
	seed := baseProcess()
	seed.ID = primitive.NewObjectID()
	s.id = seed.ID

	s.repo = newMemoryRepo(seed)
	s.sink = &recordingSink{}
	s.alerts = errs.NewQueue()
	s.ctx = context.Background()
	s.svc = NewProcessService(s.repo, s.sink, nil, s.alerts, zap.NewNop(), &config.Config{ProcessPageSize: 2})
	s.Require().NoError(s.svc.Load(s.ctx))
}

func (s *ProcessServiceSuite) TestLoadPagesThroughRepository() {
	for i := 0; i < 4; i++ {
		p := baseProcess()
		p.ID = primitive.NewObjectID()
		s.repo.docs[p.ID] = p
	}

	s.Require().NoError(s.svc.Load(s.ctx))
	s.Len(s.svc.Snapshot(), 5)
	s.Len(s.sink.last, 5)
}

func (s *ProcessServiceSuite) TestUpsertStepTwiceKeepsLength() {
	p, err := s.svc.UpsertStep(s.ctx, s.id, Step{Kind: "Initial Contact", When: time.Now()})
	s.Require().NoError(err)
	stepID := p.Steps[0].ID

	p, err = s.svc.UpsertStep(s.ctx, s.id, Step{ID: stepID, Kind: "Initial Contact", State: StepCompleted, When: time.Now()})
	s.Require().NoError(err)

	s.Len(p.Steps, 1)
	s.Equal(StepCompleted, p.Steps[0].State)

	stored, err := s.repo.GetByID(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(StepCompleted, stored.Steps[0].State)
}

func (s *ProcessServiceSuite) TestMutationPublishesReminders() {
	_, err := s.svc.UpsertReminder(s.ctx, s.id, Reminder{When: time.Now(), Description: "Call club"})
	s.Require().NoError(err)
	s.Equal(1, s.sink.reminderCount())
}

func (s *ProcessServiceSuite) TestPersistenceFailureLeavesStateUnchanged() {
	before, err := s.svc.Get(s.id)
	s.Require().NoError(err)
	calls := s.sink.calls

	s.repo.setFailUpdate(true)
	_, err = s.svc.UpsertReminder(s.ctx, s.id, Reminder{When: time.Now(), Description: "Call club"})

	var pe *errs.PersistenceError
	s.Require().ErrorAs(err, &pe)
	s.Equal("update", pe.Op)

	after, err := s.svc.Get(s.id)
	s.Require().NoError(err)
	s.Equal(before, after)
	s.Equal(calls, s.sink.calls)

	alert, ok := s.alerts.Next()
	s.Require().True(ok)
	s.Equal(errs.AlertPersistence, alert.Kind)
}

func (s *ProcessServiceSuite) TestValidationErrorDoesNotPersist() {
	updates := s.repo.updates
	_, err := s.svc.UpsertReminder(s.ctx, s.id, Reminder{When: time.Now()})
	s.ErrorIs(err, errs.ErrInvalidInput)
	s.Equal(updates, s.repo.updates)
	s.Equal(0, s.alerts.Pending())
}

func (s *ProcessServiceSuite) TestUnknownProcess() {
	_, err := s.svc.SetStatus(s.ctx, primitive.NewObjectID(), StatusAborted)
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *ProcessServiceSuite) TestSetStatusNotifiesListeners() {
	var got []StatusChange
	s.svc.OnStatusChange(func(id primitive.ObjectID, c StatusChange) {
		got = append(got, c)
	})

	_, err := s.svc.SetStatus(s.ctx, s.id, StatusCompleted)
	s.Require().NoError(err)

	s.Require().Len(got, 1)
	s.Equal(StatusInProgress, got[0].From)
	s.True(got[0].TransferDetailsVisible())
}

func (s *ProcessServiceSuite) TestSetStatusFailureSkipsListeners() {
	called := false
	s.svc.OnStatusChange(func(primitive.ObjectID, StatusChange) { called = true })

	s.repo.setFailUpdate(true)
	_, err := s.svc.SetStatus(s.ctx, s.id, StatusAborted)
	s.Error(err)
	s.False(called)
}

func (s *ProcessServiceSuite) TestCreateAndDeleteProcess() {
	p, err := s.svc.CreateProcess(s.ctx, NewProcess{SubjectID: "player-2", CounterpartyID: "sponsor-1", Kind: KindSponsoring})
	s.Require().NoError(err)
	s.False(p.IsDraft())
	s.Equal(StatusInProgress, p.Status)
	s.Len(s.svc.Snapshot(), 2)

	s.Require().NoError(s.svc.DeleteProcess(s.ctx, p.ID))
	s.Len(s.svc.Snapshot(), 1)

	s.ErrorIs(s.svc.DeleteProcess(s.ctx, p.ID), errs.ErrNotFound)
}

func (s *ProcessServiceSuite) TestCreateProcessValidates() {
	_, err := s.svc.CreateProcess(s.ctx, NewProcess{SubjectID: "x", CounterpartyID: "y", Kind: "loan"})
	s.ErrorIs(err, errs.ErrInvalidInput)

	_, err = s.svc.CreateProcess(s.ctx, NewProcess{Kind: KindTransfer})
	s.ErrorIs(err, errs.ErrInvalidInput)
}

func (s *ProcessServiceSuite) TestCreateFailureIsTyped() {
	s.repo.failCreate = true
	_, err := s.svc.CreateProcess(s.ctx, NewProcess{SubjectID: "x", CounterpartyID: "y", Kind: KindTransfer})
	var pe *errs.PersistenceError
	s.ErrorAs(err, &pe)
	s.Len(s.svc.Snapshot(), 1)
}

func (s *ProcessServiceSuite) TestConcurrentMutationsAreSerialized() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.UpsertNote(s.ctx, s.id, Note{Description: "note"})
			s.NoError(err)
		}()
	}
	wg.Wait()

	p, err := s.svc.Get(s.id)
	s.Require().NoError(err)
	s.Len(p.Notes, 20)
}

func (s *ProcessServiceSuite) TestListAppliesFilter() {
	_, err := s.svc.SetPriority(s.ctx, s.id, intPtr(5))
	s.Require().NoError(err)
	_, err = s.svc.CreateProcess(s.ctx, NewProcess{SubjectID: "p", CounterpartyID: "c", Kind: KindProfileRequest})
	s.Require().NoError(err)

	high := PriorityHigh
	s.Len(s.svc.List(ListFilter{Priority: &high}), 1)
	all := s.svc.List(ListFilter{})
	s.Require().Len(all, 2)
	s.Equal(s.id, all[0].ID)
}

func (s *ProcessServiceSuite) TestConcurrentMutationsPublishLatestWorkingSet() {
	other := baseProcess()
	other.ID = primitive.NewObjectID()
	s.repo.docs[other.ID] = other

	sink := newGatedSink()
	svc := NewProcessService(s.repo, sink, nil, s.alerts, zap.NewNop(), &config.Config{ProcessPageSize: 10})
	s.Require().NoError(svc.Load(s.ctx))
	sink.arm()

	first := make(chan error, 1)
	go func() {
		_, err := svc.UpsertReminder(s.ctx, s.id, Reminder{When: time.Now(), Description: "Call agent"})
		first <- err
	}()
	<-sink.entered

	second := make(chan error, 1)
	go func() {
		_, err := svc.UpsertReminder(s.ctx, other.ID, Reminder{When: time.Now(), Description: "Call club"})
		second <- err
	}()
	s.Require().Eventually(func() bool { return s.repo.reminderCount(other.ID) == 1 }, time.Second, 5*time.Millisecond)

	close(sink.gate)
	s.Require().NoError(<-first)
	s.Require().NoError(<-second)

	s.Equal(2, sink.reminderCount())
}

func (s *ProcessServiceSuite) TestLoadDoesNotRestoreStaleState() {
	repo := &gatedListRepo{memoryRepo: s.repo, entered: make(chan struct{}), gate: make(chan struct{})}
	sink := &recordingSink{}
	svc := NewProcessService(repo, sink, nil, s.alerts, zap.NewNop(), &config.Config{ProcessPageSize: 10})

	loaded := make(chan error, 1)
	go func() { loaded <- svc.Load(s.ctx) }()
	<-repo.entered

	mutated := make(chan error, 1)
	go func() {
		_, err := svc.UpsertReminder(s.ctx, s.id, Reminder{When: time.Now(), Description: "Call agent"})
		mutated <- err
	}()
	time.Sleep(20 * time.Millisecond)

	close(repo.gate)
	s.Require().NoError(<-loaded)
	s.Require().NoError(<-mutated)

	p, err := svc.Get(s.id)
	s.Require().NoError(err)
	s.Len(p.Reminders, 1)
	s.Equal(1, sink.reminderCount())
}
