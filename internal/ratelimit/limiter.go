// Package ratelimit provides per-client throttling for write endpoints.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

// realClock implements Clock using the system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	// WritesPerWindow is the number of mutating requests allowed per client
	// per window (default: 60).
	WritesPerWindow int
	// Window is the fixed window size (default: 1m).
	Window time.Duration

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		WritesPerWindow: 60,
		Window:          time.Minute,
	}
}

// entry tracks request counts and timestamps.
type entry struct {
	count   int
	firstAt time.Time // First request in window
	lastAt  time.Time // Most recent request
}

// Limiter implements fixed-window rate limiting keyed by client IP.
type Limiter struct {
	config  *Config
	clock   Clock
	mu      sync.Mutex
	entries map[string]*entry

	// Cleanup goroutine management
	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new rate limiter with the given config.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.WritesPerWindow <= 0 {
		cfg.WritesPerWindow = DefaultConfig().WritesPerWindow
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		entries:       make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// Allow records one request for key and reports whether it fits in the
// current window.
func (l *Limiter) Allow(key string) bool {
	l.startCleanup()
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[key]
	if e == nil || now.Sub(e.firstAt) >= l.config.Window {
		l.entries[key] = &entry{count: 1, firstAt: now, lastAt: now}
		return true
	}
	e.lastAt = now
	if e.count >= l.config.WritesPerWindow {
		return false
	}
	e.count++
	return true
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	maxAge := 2 * l.config.Window
	for k, e := range l.entries {
		if now.Sub(e.lastAt) > maxAge {
			delete(l.entries, k)
		}
	}
}

// GetClientIP extracts the client IP from a request. X-Forwarded-For is
// ignored; the service is expected to sit behind a proxy that rewrites
// RemoteAddr, and trusting the header would let clients spoof their key.
func GetClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port (e.g., Unix socket or malformed)
		if parsed := net.ParseIP(r.RemoteAddr); parsed != nil {
			return r.RemoteAddr
		}
		if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
			candidate := r.RemoteAddr[:idx]
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
		return r.RemoteAddr
	}
	return ip
}
