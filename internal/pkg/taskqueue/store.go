package taskqueue

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	redisc "github.com/ministry-site/core/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "ministry:task:"
	keyIndex  = "ministry:tasks:index" // sorted set: score=created_at, member=task_id
	taskTTL   = 7 * 24 * time.Hour
)

// RedisStore keeps task records in Redis so they survive restarts.
type RedisStore struct {
	rc *redisc.Client
}

func NewRedisStore(rc *redisc.Client) *RedisStore {
	return &RedisStore{rc: rc}
}

func (s *RedisStore) taskKey(id string) string { return keyPrefix + id }

func (s *RedisStore) Save(ctx context.Context, task *Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	pipe := s.rc.Raw().TxPipeline()
	pipe.Set(ctx, s.taskKey(task.ID), data, taskTTL)
	pipe.ZAdd(ctx, keyIndex, redis.Z{
		Score:  float64(task.CreatedAt.UnixMilli()),
		Member: task.ID,
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Task, error) {
	data, err := s.rc.Raw().Get(ctx, s.taskKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var task Task
	return &task, json.Unmarshal(data, &task)
}

func (s *RedisStore) UpdateStatus(ctx context.Context, id string, status TaskStatus, errMsg string) error {
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrTaskNotFound
	}
	task.Status = status
	task.Error = errMsg
	task.UpdatedAt = time.Now()

	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return s.rc.Raw().Set(ctx, s.taskKey(id), data, taskTTL).Err()
}

// DeleteFinished removes completed and failed tasks created before the cutoff,
// and drops index members whose record already expired.
func (s *RedisStore) DeleteFinished(ctx context.Context, before time.Time) (int, error) {
	ids, err := s.rc.Raw().ZRangeByScore(ctx, keyIndex, &redis.ZRangeBy{
		Min: "-inf",
		Max: formatScore(before),
	}).Result()
	if err != nil {
		return 0, err
	}

	removed := 0
	pipe := s.rc.Raw().TxPipeline()
	for _, id := range ids {
		task, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		if task != nil && !task.finished() {
			continue
		}
		pipe.Del(ctx, s.taskKey(id))
		pipe.ZRem(ctx, keyIndex, id)
		removed++
	}
	if removed == 0 {
		return 0, nil
	}
	_, err = pipe.Exec(ctx)
	return removed, err
}

func formatScore(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// MemoryStore keeps task records in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	tasks map[string]Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]Task)}
}

func (s *MemoryStore) Save(_ context.Context, task *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status TaskStatus, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	task.Status = status
	task.Error = errMsg
	task.UpdatedAt = time.Now()
	s.tasks[id] = task
	return nil
}

func (s *MemoryStore) DeleteFinished(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, task := range s.tasks {
		if task.finished() && task.CreatedAt.Before(before) {
			delete(s.tasks, id)
			removed++
		}
	}
	return removed, nil
}
