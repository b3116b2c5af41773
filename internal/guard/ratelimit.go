package guard

import (
	"sync"
	"time"
)

// RateLimiter is a fixed-window request counter keyed by client id. Each id
// gets at most Limit requests per Window; the window resets wholesale once its
// duration has elapsed since the first request in it.
type RateLimiter struct {
	Limit  int
	Window time.Duration

	// Now is overridable for tests; time.Now when nil.
	Now func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	start time.Time
	count int
}

// NewRateLimiter returns a limiter allowing limit requests per win for each id.
func NewRateLimiter(limit int, win time.Duration) *RateLimiter {
	return &RateLimiter{
		Limit:   limit,
		Window:  win,
		windows: make(map[string]*window),
	}
}

// IsAllowed records a request for id and reports whether it is within the
// limit. Denied requests still count against the current window.
func (r *RateLimiter) IsAllowed(id string) bool {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok || now.Sub(w.start) >= r.Window {
		r.windows[id] = &window{start: now, count: 1}
		return r.Limit >= 1
	}
	w.count++
	return w.count <= r.Limit
}
