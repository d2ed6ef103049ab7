package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Counter increments a fixed-window counter and reports the new value.
type Counter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit caps requests per client IP within a fixed window. Counter
// failures let the request through.
func RateLimit(counter Counter, max int, window time.Duration) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(math.Ceil(window.Seconds())))
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" || counter == nil {
			c.Next()
			return
		}

		windowIndex := time.Now().UnixMilli() / window.Milliseconds()
		key := fmt.Sprintf("ministry:rate_limit:%s:%d", ip, windowIndex)

		count, err := counter.IncrWindow(c.Request.Context(), key, window)
		if err != nil {
			c.Next()
			return
		}

		if count > int64(max) {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":      0,
				"code":    http.StatusTooManyRequests,
				"message": "Too many requests from this IP, please try again later.",
			})
			return
		}

		c.Next()
	}
}

// MemoryCounter is a process-local Counter used when Redis is not configured.
type MemoryCounter struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	nextSweep time.Time
	now       func() time.Time
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCounter) IncrWindow(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	// Expired keys are dropped at most once per window.
	if now.After(m.nextSweep) {
		for k, e := range m.entries {
			if now.After(e.expiresAt) {
				delete(m.entries, k)
			}
		}
		m.nextSweep = now.Add(window)
	}

	e, ok := m.entries[key]
	if !ok || now.After(e.expiresAt) {
		e = memoryEntry{expiresAt: now.Add(window + time.Second)}
	}
	e.count++
	m.entries[key] = e
	return e.count, nil
}
