package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go-transfer/internal/common/errs"
	"go-transfer/internal/config"
	"go-transfer/internal/features/process"
	"go-transfer/internal/features/reminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memoryRepo struct {
	mu   sync.Mutex
	byID map[string]*Notification
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[string]*Notification)}
}

func (r *memoryRepo) Upsert(ctx context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[n.ReminderID]; ok {
		n.ID = existing.ID
		n.CreatedAt = existing.CreatedAt
	} else {
		n.ID = primitive.NewObjectID()
		n.CreatedAt = time.Now()
	}
	n.IsRead = false
	stored := *n
	r.byID[n.ReminderID] = &stored
	return nil
}

func (r *memoryRepo) List(ctx context.Context, page, limit int64) ([]Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Notification{}
	for _, n := range r.byID {
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *memoryRepo) GetUnreadCount(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c int64
	for _, n := range r.byID {
		if !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (r *memoryRepo) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.byID {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return errs.ErrNotFound
}

func (r *memoryRepo) MarkAllAsRead(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.byID {
		n.IsRead = true
	}
	return nil
}

func (r *memoryRepo) EnsureIndexes(ctx context.Context) error { return nil }

type recordingClient struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (c *recordingClient) WriteJSON(v interface{}) error {
	if c.fail {
		return errors.New("broken pipe")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, v.(Event))
	return nil
}

func (c *recordingClient) received() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// stalledClient never finishes a write until released.
type stalledClient struct {
	release chan struct{}
}

func (c *stalledClient) WriteJSON(v interface{}) error {
	<-c.release
	return nil
}

func newService(enabled bool) (NotificationService, *memoryRepo, *Hub) {
	repo := newMemoryRepo()
	hub := NewHub(zap.NewNop())
	svc := NewNotificationService(repo, hub, &config.Config{NotificationsEnabled: enabled}, zap.NewNop())
	return svc, repo, hub
}

func TestScheduleNotificationUpsertsByReminder(t *testing.T) {
	ctx := context.Background()
	svc, repo, hub := newService(true)
	client := &recordingClient{}
	hub.Register(client)

	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	sn := reminder.ScheduledNotification{ID: "r1", ProcessID: "p1", Title: "Call agent", Body: "Fällig", TriggerAt: at}
	require.NoError(t, svc.ScheduleNotification(ctx, sn))
	require.NoError(t, svc.MarkAllAsRead(ctx))

	sn.Title = "Call agent again"
	require.NoError(t, svc.ScheduleNotification(ctx, sn))

	list, total, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Call agent again", list[0].Title)

	unread, err := svc.GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	require.Eventually(t, func() bool { return len(client.received()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, NotificationTypeReminder, client.received()[0].Type)
	assert.Len(t, repo.byID, 1)
}

func TestDisabledNotifications(t *testing.T) {
	svc, repo, _ := newService(false)

	granted, err := svc.RequestAuthorization(context.Background())
	require.NoError(t, err)
	assert.False(t, granted)

	err = svc.ScheduleNotification(context.Background(), reminder.ScheduledNotification{ID: "r1"})
	assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	assert.Empty(t, repo.byID)
}

func TestMarkAsRead(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService(true)
	require.NoError(t, svc.ScheduleNotification(ctx, reminder.ScheduledNotification{ID: "r1", Title: "x"}))

	assert.ErrorIs(t, svc.MarkAsRead(ctx, "not-hex"), errs.ErrInvalidInput)
	assert.ErrorIs(t, svc.MarkAsRead(ctx, primitive.NewObjectID().Hex()), errs.ErrNotFound)

	require.NoError(t, svc.MarkAsRead(ctx, repo.byID["r1"].ID.Hex()))
	unread, err := svc.GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestStatusChangedBroadcasts(t *testing.T) {
	svc, _, hub := newService(true)
	healthy := &recordingClient{}
	broken := &recordingClient{fail: true}
	hub.Register(healthy)
	hub.Register(broken)

	id := primitive.NewObjectID()
	svc.StatusChanged(id, process.StatusChange{From: process.StatusInProgress, To: process.StatusCompleted})

	require.Eventually(t, func() bool { return len(healthy.received()) == 1 }, time.Second, 5*time.Millisecond)
	event := healthy.received()[0]
	assert.Equal(t, NotificationTypeStatus, event.Type)
	assert.Equal(t, id.Hex(), event.ProcessID)
	payload := event.Payload.(map[string]interface{})
	assert.Equal(t, true, payload["transfer_details_visible"])
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestStalledClientDoesNotBlockDelivery(t *testing.T) {
	ctx := context.Background()
	svc, repo, hub := newService(true)
	stalled := &stalledClient{release: make(chan struct{})}
	defer close(stalled.release)
	healthy := &recordingClient{}
	hub.Register(stalled)
	hub.Register(healthy)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < clientBuffer+2; i++ {
			sn := reminder.ScheduledNotification{ID: fmt.Sprintf("r%d", i), ProcessID: "p1", Title: "x"}
			assert.NoError(t, svc.ScheduleNotification(ctx, sn))
			for len(healthy.received()) < i+1 {
				time.Sleep(time.Millisecond)
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduling blocked on a stalled websocket client")
	}

	assert.Len(t, repo.byID, clientBuffer+2)
	assert.Equal(t, 1, hub.Count())
	assert.Len(t, healthy.received(), clientBuffer+2)
}
