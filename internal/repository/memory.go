package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiterRepository is the in-process fixed-window counter used when
// redis is unavailable or not configured.
type MemoryLimiterRepository struct {
	mu      sync.Mutex
	windows map[string]*windowEntry
}

type windowEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryLimiterRepository() *MemoryLimiterRepository {
	return &MemoryLimiterRepository{windows: make(map[string]*windowEntry)}
}

func (r *MemoryLimiterRepository) CheckRateLimit(ctx context.Context, clientKey string, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.windows[clientKey]
	if !ok || now.After(entry.expiresAt) {
		entry = &windowEntry{count: 1, expiresAt: now.Add(window)}
		r.windows[clientKey] = entry
		return entry.count <= limit, nil
	}

	entry.count++
	return entry.count <= limit, nil
}
