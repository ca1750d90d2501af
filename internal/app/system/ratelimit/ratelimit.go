// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
)

// Limiter counts requests per key over a fixed window. Safe for
// concurrent use. Entries expire with their window; a background loop
// removes the stale ones so idle keys do not accumulate.
type Limiter struct {
	mu     sync.Mutex
	counts map[string]*bucket
	max    int
	window time.Duration
}

type bucket struct {
	n     int
	until time.Time
}

// New creates a limiter allowing max requests per window per key.
func New(max int, window time.Duration) *Limiter {
	l := &Limiter{
		counts: make(map[string]*bucket),
		max:    max,
		window: window,
	}
	go l.evictLoop()
	return l
}

// Allow records a request for key and reports whether it is under the
// limit for the current window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.counts[key]
	if !ok || now.After(b.until) {
		l.counts[key] = &bucket{n: 1, until: now.Add(l.window)}
		return true
	}
	if b.n >= l.max {
		return false
	}
	b.n++
	return true
}

// Reset clears the current window for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.counts, key)
}

func (l *Limiter) evictLoop() {
	ticker := time.NewTicker(2 * l.window)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, b := range l.counts {
			if now.After(b.until) {
				delete(l.counts, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP extracts the client IP from a request. RealIP middleware
// normally rewrites RemoteAddr from the proxy headers already; the
// header checks cover handlers invoked outside that chain.
func ClientIP(r *http.Request) string {
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles sign-in attempts on two axes: per IP, so one
// host cannot hammer many accounts, and per email, so many hosts
// cannot hammer one account.
type LoginLimiter struct {
	byIP    *Limiter
	byEmail *Limiter
}

// NewLoginLimiter returns a limiter with the default login budget:
// 10 attempts per IP per minute, 5 per email per five minutes.
func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		byIP:    New(10, time.Minute),
		byEmail: New(5, 5*time.Minute),
	}
}

// Check records a login attempt. When blocked, the returned reason is
// safe to show to the client.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	if !ll.byIP.Allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if email != "" && !ll.byEmail.Allow(text.Fold(email)) {
		return false, "Too many login attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// ResetEmail clears the email budget after a successful sign-in.
func (ll *LoginLimiter) ResetEmail(email string) {
	if email != "" {
		ll.byEmail.Reset(text.Fold(email))
	}
}
