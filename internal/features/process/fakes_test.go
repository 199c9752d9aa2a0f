package process

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go-transfer/internal/common/errs"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store unavailable")

// memoryRepo is an in-memory ProcessRepository used across the package tests.
type memoryRepo struct {
	mu         sync.Mutex
	docs       map[primitive.ObjectID]Process
	failUpdate bool
	failCreate bool
	updates    int
}

func newMemoryRepo(seed ...Process) *memoryRepo {
	r := &memoryRepo{docs: make(map[primitive.ObjectID]Process)}
	for _, p := range seed {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		r.docs[p.ID] = p.Clone()
	}
	return r
}

func (r *memoryRepo) List(ctx context.Context, pageToken string, limit int64) ([]Process, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]primitive.ObjectID, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })

	var page []Process
	for _, id := range ids {
		if pageToken != "" && id.Hex() <= pageToken {
			continue
		}
		page = append(page, r.docs[id].Clone())
		if int64(len(page)) == limit {
			return page, id.Hex(), nil
		}
	}
	return page, "", nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := p.Clone()
	return &c, nil
}

func (r *memoryRepo) Create(ctx context.Context, p *Process) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return primitive.NilObjectID, errStoreDown
	}
	p.ID = primitive.NewObjectID()
	r.docs[p.ID] = p.Clone()
	return p.ID, nil
}

func (r *memoryRepo) Update(ctx context.Context, p *Process) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if r.failUpdate {
		return errStoreDown
	}
	if _, ok := r.docs[p.ID]; !ok {
		return errs.ErrNotFound
	}
	r.docs[p.ID] = p.Clone()
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *memoryRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *memoryRepo) setFailUpdate(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failUpdate = v
}

// recordingSink keeps the last working set it received.
type recordingSink struct {
	mu    sync.Mutex
	last  []Process
	calls int
}

func (s *recordingSink) Replace(processes []Process) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = processes
	s.calls++
}

func (s *recordingSink) reminderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.last {
		n += len(p.Reminders)
	}
	return n
}

// gatedSink holds the first Replace after arm() until the gate is closed.
type gatedSink struct {
	recordingSink
	armMu   sync.Mutex
	armed   bool
	entered chan struct{}
	gate    chan struct{}
}

func newGatedSink() *gatedSink {
	return &gatedSink{entered: make(chan struct{}), gate: make(chan struct{})}
}

func (g *gatedSink) arm() {
	g.armMu.Lock()
	defer g.armMu.Unlock()
	g.armed = true
}

func (g *gatedSink) Replace(processes []Process) {
	g.armMu.Lock()
	hold := g.armed
	g.armed = false
	g.armMu.Unlock()
	if hold {
		close(g.entered)
		<-g.gate
	}
	g.recordingSink.Replace(processes)
}

// gatedListRepo blocks List until the gate is closed.
type gatedListRepo struct {
	*memoryRepo
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func (r *gatedListRepo) List(ctx context.Context, pageToken string, limit int64) ([]Process, string, error) {
	page, next, err := r.memoryRepo.List(ctx, pageToken, limit)
	r.once.Do(func() {
		close(r.entered)
		<-r.gate
	})
	return page, next, err
}

func (r *memoryRepo) reminderCount(id primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs[id].Reminders)
}
