package cron

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the last known state of a job.
type JobStatus string

const (
	StatusIdle    JobStatus = "idle"
	StatusRunning JobStatus = "running"
	StatusFulfill JobStatus = "fulfill"
	StatusReject  JobStatus = "reject"
)

// Job defines a scheduled background task. Spec is a standard five-field
// cron expression or a descriptor such as "@every 1h".
type Job struct {
	Name        string
	Description string
	Spec        string
	Timeout     time.Duration
	Fn          func(ctx context.Context) error
}

type jobState struct {
	Job
	entry     robfig.EntryID
	status    JobStatus
	message   string
	lastRunAt *time.Time
	mu        sync.Mutex
}

// ListItem is the serializable representation of a job for the API.
type ListItem struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      JobStatus  `json:"status"`
	Message     string     `json:"message,omitempty"`
	NextDate    *time.Time `json:"next_date"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
}

// Scheduler manages a collection of named cron jobs.
type Scheduler struct {
	mu     sync.RWMutex
	cron   *robfig.Cron
	jobs   map[string]*jobState
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

// New creates an empty Scheduler.
func New(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   robfig.New(),
		jobs:   make(map[string]*jobState),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
}

// Register adds a job to the scheduler.
func (s *Scheduler) Register(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("job %q already registered", job.Name)
	}
	js := &jobState{Job: job, status: StatusIdle}
	id, err := s.cron.AddFunc(job.Spec, func() { s.execute(s.ctx, js) })
	if err != nil {
		return fmt.Errorf("job %q: %w", job.Name, err)
	}
	js.entry = id
	s.jobs[job.Name] = js
	return nil
}

// Start begins scheduling in a background goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling, cancels running jobs, and waits for them to return
// or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) execute(ctx context.Context, js *jobState) {
	js.mu.Lock()
	if js.status == StatusRunning {
		js.mu.Unlock()
		return
	}
	js.status = StatusRunning
	js.mu.Unlock()

	if js.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, js.Timeout)
		defer cancel()
	}

	now := time.Now()
	err := js.Fn(ctx)

	js.mu.Lock()
	js.lastRunAt = &now
	if err != nil {
		js.status = StatusReject
		js.message = err.Error()
	} else {
		js.status = StatusFulfill
		js.message = ""
	}
	js.mu.Unlock()

	if err != nil {
		s.log.Warn("cron job failed", zap.String("job", js.Name), zap.Error(err))
		return
	}
	s.log.Debug("cron job finished", zap.String("job", js.Name), zap.Duration("took", time.Since(now)))
}

// Run manually triggers a job by name (non-blocking).
func (s *Scheduler) Run(name string) error {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	go s.execute(s.ctx, js)
	return nil
}

// List returns a summary of all registered jobs ordered by name.
func (s *Scheduler) List() []ListItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ListItem, 0, len(s.jobs))
	for _, js := range s.jobs {
		var next *time.Time
		if n := s.cron.Entry(js.entry).Next; !n.IsZero() {
			next = &n
		}
		js.mu.Lock()
		items = append(items, ListItem{
			Name:        js.Name,
			Description: js.Description,
			Status:      js.status,
			Message:     js.message,
			NextDate:    next,
			LastRunAt:   js.lastRunAt,
		})
		js.mu.Unlock()
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}
