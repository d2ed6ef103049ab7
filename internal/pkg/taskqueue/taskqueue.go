package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

var (
	ErrQueueFull    = errors.New("task queue is full")
	ErrQueueStopped = errors.New("task queue is stopped")
	ErrTaskNotFound = errors.New("task not found")
)

// Task is a unit of background work.
type Task struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Status    TaskStatus      `json:"status"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (t *Task) finished() bool {
	return t.Status == TaskCompleted || t.Status == TaskFailed
}

// Store records task state so it can be inspected and pruned.
type Store interface {
	Save(ctx context.Context, task *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	UpdateStatus(ctx context.Context, id string, status TaskStatus, errMsg string) error
	DeleteFinished(ctx context.Context, before time.Time) (int, error)
}

// HandlerFunc processes the payload of one task.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Queue runs tasks on a fixed pool of workers fed by a bounded channel.
type Queue struct {
	store    Store
	log      *zap.Logger
	workers  int
	ch       chan *Task
	handlers map[string]HandlerFunc

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func New(store Store, workers, buffer int, log *zap.Logger) *Queue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Queue{
		store:    store,
		log:      log,
		workers:  workers,
		ch:       make(chan *Task, buffer),
		handlers: make(map[string]HandlerFunc),
	}
}

// Store returns the backing task store.
func (q *Queue) Store() Store { return q.store }

// Handle registers the handler for a task type. Call before Start.
func (q *Queue) Handle(taskType string, fn HandlerFunc) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[taskType] = fn
}

// Enqueue records a task and hands it to the workers without blocking.
func (q *Queue) Enqueue(ctx context.Context, taskType string, payload interface{}) (*Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	task := &Task{
		ID:        uuid.NewString(),
		Type:      taskType,
		Payload:   data,
		Status:    TaskPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, ErrQueueStopped
	}
	if _, ok := q.handlers[taskType]; !ok {
		return nil, fmt.Errorf("no handler for task type %q", taskType)
	}
	if err := q.store.Save(ctx, task); err != nil {
		return nil, err
	}

	select {
	case q.ch <- task:
		return task, nil
	default:
		_ = q.store.UpdateStatus(ctx, task.ID, TaskFailed, ErrQueueFull.Error())
		return nil, ErrQueueFull
	}
}

// Start launches the workers. ctx bounds every handler call.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

// Stop refuses new tasks and waits for queued ones to drain.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for task := range q.ch {
		q.process(ctx, task)
	}
}

func (q *Queue) process(ctx context.Context, task *Task) {
	q.mu.RLock()
	fn := q.handlers[task.Type]
	q.mu.RUnlock()

	// status bookkeeping outlives a cancelled worker context
	bg := context.WithoutCancel(ctx)
	_ = q.store.UpdateStatus(bg, task.ID, TaskRunning, "")

	err := q.run(ctx, fn, task)
	if err != nil {
		q.log.Warn("task failed",
			zap.String("id", task.ID),
			zap.String("type", task.Type),
			zap.Error(err),
		)
		_ = q.store.UpdateStatus(bg, task.ID, TaskFailed, err.Error())
		return
	}
	_ = q.store.UpdateStatus(bg, task.ID, TaskCompleted, "")
}

func (q *Queue) run(ctx context.Context, fn HandlerFunc, task *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, task.Payload)
}
