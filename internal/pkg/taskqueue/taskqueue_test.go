package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeting struct {
	Name string `json:"name"`
}

func TestQueueRunsHandlersAndRecordsStatus(t *testing.T) {
	store := NewMemoryStore()
	q := New(store, 2, 8, nil)

	var mu sync.Mutex
	var seen []string
	q.Handle("greet", func(_ context.Context, raw json.RawMessage) error {
		var g greeting
		if err := json.Unmarshal(raw, &g); err != nil {
			return err
		}
		if g.Name == "bad" {
			return errors.New("rejected")
		}
		mu.Lock()
		seen = append(seen, g.Name)
		mu.Unlock()
		return nil
	})
	q.Start(context.Background())

	ok, err := q.Enqueue(context.Background(), "greet", greeting{Name: "ann"})
	require.NoError(t, err)
	bad, err := q.Enqueue(context.Background(), "greet", greeting{Name: "bad"})
	require.NoError(t, err)
	q.Stop()

	assert.Equal(t, []string{"ann"}, seen)

	got, err := store.Get(context.Background(), ok.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCompleted, got.Status)

	got, err = store.Get(context.Background(), bad.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskFailed, got.Status)
	assert.Equal(t, "rejected", got.Error)
}

func TestQueueRecoversPanics(t *testing.T) {
	store := NewMemoryStore()
	q := New(store, 1, 1, nil)
	q.Handle("boom", func(context.Context, json.RawMessage) error { panic("oops") })
	q.Start(context.Background())

	task, err := q.Enqueue(context.Background(), "boom", nil)
	require.NoError(t, err)
	q.Stop()

	got, _ := store.Get(context.Background(), task.ID)
	assert.Equal(t, TaskFailed, got.Status)
	assert.Contains(t, got.Error, "oops")
}

func TestEnqueueFailsFastWhenFull(t *testing.T) {
	q := New(NewMemoryStore(), 1, 1, nil)
	q.Handle("noop", func(context.Context, json.RawMessage) error { return nil })

	// workers not started, so the single buffer slot fills up
	_, err := q.Enqueue(context.Background(), "noop", nil)
	require.NoError(t, err)
	_, err = q.Enqueue(context.Background(), "noop", nil)
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestEnqueueRejectsUnknownTypeAndStoppedQueue(t *testing.T) {
	q := New(nil, 1, 1, nil)
	_, err := q.Enqueue(context.Background(), "unknown", nil)
	assert.Error(t, err)

	q.Handle("noop", func(context.Context, json.RawMessage) error { return nil })
	q.Start(context.Background())
	q.Stop()
	q.Stop()
	_, err = q.Enqueue(context.Background(), "noop", nil)
	assert.ErrorIs(t, err, ErrQueueStopped)
}

func TestMemoryStoreDeleteFinished(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	old := time.Now().Add(-time.Hour)
	require.NoError(t, s.Save(ctx, &Task{ID: "done", Status: TaskCompleted, CreatedAt: old}))
	require.NoError(t, s.Save(ctx, &Task{ID: "pending", Status: TaskPending, CreatedAt: old}))
	require.NoError(t, s.Save(ctx, &Task{ID: "fresh", Status: TaskFailed, CreatedAt: time.Now()}))

	n, err := s.DeleteFinished(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := s.Get(ctx, "done")
	assert.Nil(t, got)
	got, _ = s.Get(ctx, "pending")
	assert.NotNil(t, got)

	assert.ErrorIs(t, s.UpdateStatus(ctx, "done", TaskRunning, ""), ErrTaskNotFound)
}
