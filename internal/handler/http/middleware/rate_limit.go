package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type IPRateLimiter struct {
	ips map[string]*visitor
	mu  sync.Mutex
	r   rate.Limit // requests per second
	b   int        // burst
	now func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*visitor),
		r:   r,
		b:   b,
		now: time.Now,
	}
}

// GetLimiter returns the limiter for key, dropping visitors idle for longer
// than limiterIdleTTL.
func (i *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	for k, v := range i.ips {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(i.ips, k)
		}
	}

	v, exists := i.ips[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[key] = v
	}
	v.lastSeen = now

	return v.limiter
}

// Len reports the number of tracked clients.
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

// RateLimitByIP limits each client address to r requests per second with burst b.
func RateLimitByIP(r rate.Limit, b int) func(http.Handler) http.Handler {
	limiter := NewIPRateLimiter(r, b)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.GetLimiter(ClientIP(req)).Allow() {
				response.TooManyRequests(w, "Too many requests from this IP")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// ClientIP strips the port from RemoteAddr. chi's RealIP middleware, when
// enabled, has already replaced RemoteAddr with the forwarded address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
