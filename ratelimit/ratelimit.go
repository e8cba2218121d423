// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"sync"
	"time"
)

// Limiter bounds request rates per key using a fixed window. The two
// implementations (in-process map, shared Redis counter) are
// interchangeable at call sites; a single instance should use Memory,
// a horizontally scaled deployment needs Redis for a global limit.
type Limiter interface {
	// Allow reports whether another request under key fits within
	// max requests per window.
	Allow(key string, max int, window time.Duration) bool
}

type memoryEntry struct {
	count   int
	resetAt time.Time
}

// Memory is a process-local fixed-window limiter. Counters are shared
// mutable state across request goroutines, guarded by a single mutex.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
	stop    chan struct{}
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
}

// Allow implements Limiter. The first request for a key, or the first
// after its window expired, starts a fresh window with count 1.
func (m *Memory) Allow(key string, max int, window time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || now.After(e.resetAt) {
		m.entries[key] = memoryEntry{count: 1, resetAt: now.Add(window)}
		return true
	}

	if e.count >= max {
		return false
	}

	e.count++
	m.entries[key] = e
	return true
}

// StartSweeper launches a background goroutine that removes expired
// entries every interval, bounding memory for long-running processes.
// Stop terminates it.
func (m *Memory) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *Memory) Stop() {
	close(m.stop)
}

func (m *Memory) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, e := range m.entries {
		if now.After(e.resetAt) {
			delete(m.entries, key)
		}
	}
}
