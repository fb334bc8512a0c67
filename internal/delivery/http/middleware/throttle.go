package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

// ThrottleMiddleware is a per-client-IP token bucket in front of the whole
// API. It protects the process from abusive clients; the business limits on
// applies and uploads are separate fixed-window counters in the usecases.
type ThrottleMiddleware struct {
	mu      sync.Mutex
	buckets map[string]*throttleEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
}

type throttleEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewThrottleMiddleware(rps float64, burst int) *ThrottleMiddleware {
	return &ThrottleMiddleware{
		buckets: make(map[string]*throttleEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
	}
}

func (m *ThrottleMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !m.limiterFor(c.IP()).Allow() {
			return NewAppError(fiber.StatusTooManyRequests, "Too many requests", nil, nil)
		}
		return c.Next()
	}
}

func (m *ThrottleMiddleware) limiterFor(ip string) *rate.Limiter {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if ent, ok := m.buckets[ip]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	// Opportunistic cleanup keeps the map bounded without a janitor
	// goroutine.
	cutoff := now.Add(-m.idleTTL)
	for k, ent := range m.buckets {
		if ent.lastSeen.Before(cutoff) {
			delete(m.buckets, k)
		}
	}

	lim := rate.NewLimiter(m.rps, m.burst)
	m.buckets[ip] = &throttleEntry{lim: lim, lastSeen: now}
	return lim
}
