package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront-be/internal/apperror"
	"storefront-be/internal/auth"

	"golang.org/x/time/rate"
)

// Checkout and merge get their own, tighter bucket.
const (
	limitStrict = rate.Limit(2)
	burstStrict = 5
)

const visitorTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	general rate.Limit
	burst   int

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		general:  rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (l *RateLimiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		l.visitors[key] = &visitor{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

// Sweep drops visitors idle for longer than the TTL and reports how many
// were removed.
func (l *RateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (l *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := l.resolveTier(r)

		// per identity and tier, e.g. "user:1:strict"
		key := fmt.Sprintf("%s:%s", identityKey(r), tier)

		if !l.getVisitor(key, limit, burst).Allow() {
			writeError(w, http.StatusTooManyRequests, apperror.KindRateLimited, http.StatusText(http.StatusTooManyRequests))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func identityKey(r *http.Request) string {
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		return fmt.Sprintf("user:%d", p.UserID)
	}
	if token := r.Header.Get("X-Cart-Token"); token != "" {
		return "guest:" + token
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

func (l *RateLimiter) resolveTier(r *http.Request) (rate.Limit, int, string) {
	if r.Method == http.MethodPost &&
		(r.URL.Path == "/api/orders" || strings.HasPrefix(r.URL.Path, "/api/cart/merge/")) {
		return limitStrict, burstStrict, "strict"
	}
	return l.general, l.burst, "general"
}
