package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

const (
	defaultWindow   = 1 * time.Minute
	cleanupInterval = 1 * time.Minute
)

// RateLimiter wraps an http.Handler with a sliding-window limit per client IP.
// Every form post and API call may reach the payment service, so pages and
// submissions share one budget. Exempt prefixes (static assets) are never counted.
type RateLimiter struct {
	limit       int
	window      time.Duration
	trustProxy  bool
	exempt      []string
	requests    map[string][]time.Time // IP -> request timestamps
	mu          sync.Mutex
	cleanupDone chan struct{}
	closeOnce   sync.Once
	now         func() time.Time
}

// Option is a functional option for configuring a RateLimiter.
type Option func(*RateLimiter)

// WithWindow sets the length of the sliding window.
func WithWindow(d time.Duration) Option {
	return func(rl *RateLimiter) {
		if d > 0 {
			rl.window = d
		}
	}
}

// WithTrustProxy takes the client address from proxy headers. See ClientIP.
func WithTrustProxy(trust bool) Option {
	return func(rl *RateLimiter) {
		rl.trustProxy = trust
	}
}

// WithExemptPrefixes lists path prefixes that bypass the limiter.
func WithExemptPrefixes(prefixes ...string) Option {
	return func(rl *RateLimiter) {
		rl.exempt = append(rl.exempt, prefixes...)
	}
}

// New creates a new rate limiter allowing limit requests per window and IP.
// Returns error if limit is invalid.
//
// Close() must be called on shutdown to stop the background cleanup goroutine.
func New(limit int, opts ...Option) (*RateLimiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", limit)
	}

	rl := &RateLimiter{
		limit:       limit,
		window:      defaultWindow,
		requests:    make(map[string][]time.Time),
		cleanupDone: make(chan struct{}),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}

	go rl.cleanupLoop()

	slog.Info("rate limiter initialized",
		"limit", limit,
		"window", rl.window.String(),
		"trust_proxy", rl.trustProxy,
		"exempt_prefixes", len(rl.exempt),
	)

	return rl, nil
}

// Middleware returns an http.Handler that wraps the next handler with rate limiting.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.isExempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ip := ClientIP(r, rl.trustProxy)
		if ip == "" {
			slog.Warn("failed to extract IP from request", "path", r.URL.Path)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		allowed, oldest := rl.allow(ip)
		if !allowed {
			retryAfter := int((rl.window - rl.now().Sub(oldest)).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			slog.Debug("rate limit exceeded",
				"ip", ip,
				"method", r.Method,
				"path", r.URL.Path,
				"limit", rl.limit,
			)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) isExempt(path string) bool {
	return lo.ContainsBy(rl.exempt, func(prefix string) bool {
		return strings.HasPrefix(path, prefix)
	})
}

// allow records a request from ip if it fits in the window.
// When it does not, the oldest timestamp in the window is returned for Retry-After.
func (rl *RateLimiter) allow(ip string) (bool, time.Time) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := filterValidTimestamps(rl.requests[ip], cutoff)
	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false, valid[0]
	}

	rl.requests[ip] = append(valid, now)
	return true, time.Time{}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.cleanupDone:
			return
		}
	}
}

// cleanup drops IPs with no requests left in the window.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, timestamps := range rl.requests {
		valid := filterValidTimestamps(timestamps, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, ip)
		} else {
			rl.requests[ip] = valid
		}
	}
}

func filterValidTimestamps(timestamps []time.Time, cutoff time.Time) []time.Time {
	return lo.Filter(timestamps, func(ts time.Time, _ int) bool {
		return ts.After(cutoff)
	})
}

// Close stops the background cleanup goroutine. Safe to call multiple times.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.cleanupDone)
	})
}
