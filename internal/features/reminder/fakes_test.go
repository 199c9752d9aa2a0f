package reminder

import (
	"context"
	"sync"
	"time"

	"go-transfer/internal/common/errs"
	"go-transfer/internal/features/contact"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakeNotifier struct {
	mu        sync.Mutex
	granted   bool
	authCalls int
	failNext  int
	sent      []ScheduledNotification
}

func (n *fakeNotifier) RequestAuthorization(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.authCalls++
	return n.granted, nil
}

func (n *fakeNotifier) ScheduleNotification(ctx context.Context, sn ScheduledNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failNext > 0 {
		n.failNext--
		return errs.ErrNotFound
	}
	n.sent = append(n.sent, sn)
	return nil
}

func (n *fakeNotifier) countFor(id string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, s := range n.sent {
		if s.ID == id {
			c++
		}
	}
	return c
}

type fakeCalendar struct {
	granted   bool
	authCalls int
	events    []CalendarEvent
}

func (c *fakeCalendar) RequestWriteAuthorization(ctx context.Context) (bool, error) {
	c.authCalls++
	return c.granted, nil
}

func (c *fakeCalendar) CreateEvent(ctx context.Context, e CalendarEvent) error {
	if !c.granted {
		return errs.ErrPermissionDenied
	}
	c.events = append(c.events, e)
	return nil
}

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
		persons: map[string]contact.Person{"player-1": {ID: primitive.NewObjectID(), FirstName: "Lena", LastName: "Vogt"}},
		orgs:    map[string]contact.Organization{"club-1": {ID: primitive.NewObjectID(), Name: "FC Nord"}},
	}
}
