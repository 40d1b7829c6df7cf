package services

import (
	"sync"
	"time"
)

// DefaultRateLimitWindow is the minimum interval between accepted messages
// from a single connection.
const DefaultRateLimitWindow = 500 * time.Millisecond

// RateLimiter tracks the last accepted send per connection and rejects
// sends that arrive inside the window. Rejected sends do not move the
// window, so a client spamming into the limiter still gets its next message
// through once the window since the last accepted send elapses.
type RateLimiter struct {
	Window time.Duration

	mu           sync.Mutex
	lastAccepted map[string]time.Time
	now          func() time.Time
}

func NewRateLimiter(window time.Duration) *RateLimiter {
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	return &RateLimiter{
		Window:       window,
		lastAccepted: map[string]time.Time{},
		now:          time.Now,
	}
}

// Allow reports whether a send from the connection is allowed right now.
// When it is not, the returned duration is how long the client must wait
// before retrying.
func (l *RateLimiter) Allow(connID string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if last, ok := l.lastAccepted[connID]; ok {
		elapsed := now.Sub(last)
		if elapsed < l.Window {
			return false, l.Window - elapsed
		}
	}
	l.lastAccepted[connID] = now
	return true, 0
}

// Forget drops the connection's state. Called on disconnect.
func (l *RateLimiter) Forget(connID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.lastAccepted, connID)
}
