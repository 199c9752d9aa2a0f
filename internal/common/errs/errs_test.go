package errs

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistenceErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("save step: %w", &PersistenceError{Op: "update", ProcessID: "abc", Err: cause})

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "update", pe.Op)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "update process abc")
}

func TestInvalidWrapsSentinel(t *testing.T) {
	err := Invalid("description is required")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "description is required")
}

func TestQueueKeepsOrder(t *testing.T) {
	q := NewQueue()
	q.Push(&PersistenceError{Op: "create", Err: errors.New("timeout")})
	q.Push(fmt.Errorf("calendar: %w", ErrPermissionDenied))
	q.Push(nil)
	q.Push(errors.New("boom"))

	require.Equal(t, 3, q.Pending())

	first, ok := q.Next()
	require.True(t, ok)
	assert.Equal(t, AlertPersistence, first.Kind)

	second, _ := q.Next()
	assert.Equal(t, AlertPermission, second.Kind)

	third, _ := q.Next()
	assert.Equal(t, AlertGeneric, third.Kind)

	_, ok = q.Next()
	assert.False(t, ok)
}

func TestQueueConcurrentPushesAreNotLost(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q.PushAlert(AlertGeneric, fmt.Sprintf("failure %d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, q.Pending())
}
