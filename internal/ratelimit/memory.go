package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memory keeps counters in process memory. Each counter expires with its window.
type Memory struct {
	mu     sync.Mutex
	window time.Duration
	items  *cache.Cache
	now    func() time.Time
}

// NewMemory builds an in-process counter for the given window.
func NewMemory(window time.Duration) *Memory {
	return &Memory{
		window: window,
		items:  cache.New(window, 2*window),
		now:    time.Now,
	}
}

func (m *Memory) Hit(_ context.Context, key string) (int, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Add fails when a live counter exists for key.
	if err := m.items.Add(key, 1, m.window); err == nil {
		return 1, m.now().Add(m.window), nil
	}
	n, err := m.items.IncrementInt(key, 1)
	if err != nil {
		// Expired between Add and IncrementInt.
		m.items.Set(key, 1, m.window)
		return 1, m.now().Add(m.window), nil
	}
	_, exp, found := m.items.GetWithExpiration(key)
	if !found {
		exp = m.now().Add(m.window)
	}
	return n, exp, nil
}

// Flush drops every counter.
func (m *Memory) Flush() {
	m.items.Flush()
}
