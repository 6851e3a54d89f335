// Package ratelimit implements a per-client fixed-window rate limiter.
package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"
)

// Config holds limiter settings.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig returns the settings used by the API server.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// Limiter tracks request counts per client IP over one-minute windows.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	limit           int
	cleanupInterval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	rejected int64
}

type window struct {
	startedAt time.Time
	count     int
}

// NewLimiter builds a limiter and starts its cleanup goroutine. Call
// Stop when done.
func NewLimiter(cfg Config) *Limiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}

	l := &Limiter{
		windows:         make(map[string]*window),
		limit:           cfg.RequestsPerMinute,
		cleanupInterval: cfg.CleanupInterval,
		stop:            make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether a request from clientIP fits in the current
// window.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[clientIP]
	if !ok || now.Sub(w.startedAt) > time.Minute {
		l.windows[clientIP] = &window{startedAt: now, count: 1}
		return true
	}

	w.count++
	if w.count > l.limit {
		atomic.AddInt64(&l.rejected, 1)
		return false
	}
	return true
}

// ActiveClients returns how many client IPs are currently tracked.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// RejectedTotal returns how many requests have been rejected since start.
func (l *Limiter) RejectedTotal() int64 {
	return atomic.LoadInt64(&l.rejected)
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.dropStale()
		case <-l.stop:
			return
		}
	}
}

// dropStale removes windows idle for longer than 10 minutes.
func (l *Limiter) dropStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, w := range l.windows {
		if w.startedAt.Before(cutoff) {
			delete(l.windows, ip)
		}
	}
}
