package middleware

import (
	"context"
	"sync"
	"time"

	"budget-buddy/internal/errors"
	"budget-buddy/internal/handlers"
	"budget-buddy/internal/services"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const visitorIdleTimeout = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP with a token bucket per visitor
type RateLimiter struct {
	mu                sync.Mutex
	visitors          map[string]*visitor
	requestsPerSecond int
	burstSize         int
	metrics           services.MetricsRecorderInterface
	now               func() time.Time
}

// NewRateLimiter creates a limiter allowing rps sustained requests with the given burst
func NewRateLimiter(rps, burst int, metrics services.MetricsRecorderInterface) *RateLimiter {
	return &RateLimiter{
		visitors:          make(map[string]*visitor),
		requestsPerSecond: rps,
		burstSize:         burst,
		metrics:           metrics,
		now:               time.Now,
	}
}

// Middleware rejects over-limit requests with SYSTEM_006
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := getIP(c)

			if !rl.getVisitor(ip).AllowN(rl.now(), 1) {
				rl.metrics.IncrementCounter("backend.rate_limited", nil)
				return handlers.SendError(c, errors.SystemRateLimitExceeded)
			}

			return next(c)
		}
	}
}

// Run evicts idle visitors every interval until ctx is done
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanupVisitors()
		}
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(rl.requestsPerSecond), rl.burstSize)
		rl.visitors[ip] = &visitor{limiter, rl.now()}
		return limiter
	}

	v.lastSeen = rl.now()
	return v.limiter
}

// cleanupVisitors drops visitors idle for longer than visitorIdleTimeout and returns how many remain
func (rl *RateLimiter) cleanupVisitors() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTimeout {
			delete(rl.visitors, ip)
		}
	}
	return len(rl.visitors)
}

func getIP(c echo.Context) string {
	xff := c.Request().Header.Get("X-Forwarded-For")
	if xff != "" {
		return xff
	}

	xri := c.Request().Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	return c.RealIP()
}
