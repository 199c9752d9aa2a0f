package email

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-transfer/internal/common/errs"
	"go-transfer/internal/features/contact"
	"go-transfer/internal/features/process"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeDirectory struct {
	persons map[string]contact.Person
	orgs    map[string]contact.Organization
}

func (d *fakeDirectory) FindPerson(ctx context.Context, id string) (*contact.Person, error) {
	p, ok := d.persons[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

func (d *fakeDirectory) FindOrganization(ctx context.Context, id string) (*contact.Organization, error) {
	o, ok := d.orgs[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &o, nil
}

func newDirectory() *fakeDirectory {
	return &fakeDirectory{
		persons: map[string]contact.Person{
			"player-1": {FirstName: "Lena", LastName: "Vogt"},
			"agent-1":  {FirstName: "Jonas", LastName: "Berg"},
		},
		orgs: map[string]contact.Organization{"club-1": {Name: "FC Nord"}},
	}
}

// scriptedGenerator returns text or err and records every call. When gate
// is set, Generate blocks until it receives a value.
type scriptedGenerator struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []string
	gate  chan string
}

func (g *scriptedGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, userPrompt)
	gate, text, err := g.gate, g.text, g.err
	g.mu.Unlock()

	if gate != nil {
		text = <-gate
	}
	return text, err
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

var errGeneratorDown = errors.New("connection refused")

// stubProcesses serves Get from a fixed process; other methods are unused.
type stubProcesses struct {
	process.ProcessService
	p process.Process
}

func (s stubProcesses) Get(id primitive.ObjectID) (process.Process, error) {
	if id != s.p.ID {
		return process.Process{}, errs.ErrNotFound
	}
	return s.p.Clone(), nil
}

type recordingMailer struct {
	err  error
	sent []string
}

func (m *recordingMailer) Send(from string, to []string, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, subject)
	return nil
}

type memoryEmailRepo struct {
	emails map[primitive.ObjectID]*Email
}

func newMemoryEmailRepo() *memoryEmailRepo {
	return &memoryEmailRepo{emails: make(map[primitive.ObjectID]*Email)}
}

func (r *memoryEmailRepo) Create(ctx context.Context, e *Email) error {
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now()
	stored := *e
	r.emails[e.ID] = &stored
	return nil
}

func (r *memoryEmailRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status EmailStatus, errorMsg string) error {
	e, ok := r.emails[id]
	if !ok {
		return errs.ErrNotFound
	}
	e.Status = status
	e.ErrorMsg = errorMsg
	return nil
}

func (r *memoryEmailRepo) ListByProcess(ctx context.Context, processID primitive.ObjectID) ([]Email, error) {
	out := []Email{}
	for _, e := range r.emails {
		if e.ProcessID == processID {
			out = append(out, *e)
		}
	}
	return out, nil
}
