package eventlog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *memoryStore) Save(_ context.Context, e Event) error {
	if s.fail {
		return errors.New("disk full")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *memoryStore) ListByType(_ context.Context, eventType string, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if e.Type == eventType && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestNewEvent_Options(t *testing.T) {
	e := NewEvent(
		WithType(TypeExpenseCreated),
		WithData(map[string]int64{"expense_id": 4}),
		WithMetadata(map[string]string{"group_id": "1"}),
		WithMetadata(map[string]string{"user_id": "2"}),
	)

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, TypeExpenseCreated, e.Type)
	assert.Equal(t, map[string]string{"group_id": "1", "user_id": "2"}, e.Metadata)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestWorker_SavesAndDrainsOnShutdown(t *testing.T) {
	store := &memoryStore{}
	worker := NewWorker(store, 16)
	worker.Start()

	for i := 0; i < 10; i++ {
		worker.Log(NewEvent(WithType(TypeExpenseCreated)))
	}
	worker.Shutdown()

	assert.Equal(t, 10, store.count())
	events, err := store.ListByType(context.Background(), TypeExpenseCreated, 100)
	require.NoError(t, err)
	assert.Len(t, events, 10)
}

func TestWorker_DropsWhenBufferFull(t *testing.T) {
	store := &memoryStore{}
	worker := NewWorker(store, 1)

	worker.Log(NewEvent(WithType(TypeExpenseCreated)))
	worker.Log(NewEvent(WithType(TypeExpenseDeleted)))

	worker.Start()
	worker.Shutdown()

	require.Equal(t, 1, store.count())
	assert.Equal(t, TypeExpenseCreated, store.events[0].Type)
}

func TestWorker_SaveErrorsDoNotStopWorker(t *testing.T) {
	store := &memoryStore{fail: true}
	worker := NewWorker(store, 4)
	worker.Start()

	worker.Log(NewEvent(WithType(TypeExpenseCreated)))
	worker.Log(NewEvent(WithType(TypeExpenseCreated)))
	worker.Shutdown()

	assert.Equal(t, 0, store.count())
}
