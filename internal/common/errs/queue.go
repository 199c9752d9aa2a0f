package errs

import (
	"errors"
	"sync"
	"time"
)

type AlertKind string

const (
	AlertPersistence AlertKind = "persistence"
	AlertPermission  AlertKind = "permission"
	AlertGeneration  AlertKind = "generation"
	AlertGeneric     AlertKind = "generic"
)

// Alert is one user-visible failure message.
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Queue keeps failures from concurrent background operations in arrival
// order so each one is presented to the user exactly once.
type Queue struct {
	mu     sync.Mutex
	alerts []Alert
	now    func() time.Time
}

func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// Push classifies err and appends it. A nil error is ignored.
func (q *Queue) Push(err error) {
	if err == nil {
		return
	}
	q.PushAlert(Classify(err), err.Error())
}

func (q *Queue) PushAlert(kind AlertKind, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.alerts = append(q.alerts, Alert{Kind: kind, Message: message, At: q.now()})
}

// Next pops the oldest alert.
func (q *Queue) Next() (Alert, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.alerts) == 0 {
		return Alert{}, false
	}
	a := q.alerts[0]
	q.alerts = q.alerts[1:]
	return a, true
}

func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.alerts)
}

func Classify(err error) AlertKind {
	var pe *PersistenceError
	switch {
	case errors.As(err, &pe):
		return AlertPersistence
	case errors.Is(err, ErrPermissionDenied):
		return AlertPermission
	default:
		return AlertGeneric
	}
}
