package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
)

const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter - token bucket на каждый IP клиента
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	now      func() time.Time
	log      *slog.Logger
}

func New(rps float64, burst int, log *slog.Logger) *Limiter {
	return &Limiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
		log:      log.With("component", "rate_limiter"),
	}
}

// Allow расходует токен клиента ip
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// Sweep забывает клиентов, которые давно не приходили
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for ip, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > idleTTL {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

func (l *Limiter) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		ip := clientIP(ctx.RemoteAddr())
		if l.Allow(ip) {
			next(ctx)
			return
		}

		l.log.Warn("rate limit exceeded", "ip", ip, "path", ctx.URL().Path)
		ctx.SetHeader("Content-Type", "application/problem+json")
		ctx.SetHeader("Retry-After", strconv.Itoa(1))
		ctx.SetStatus(http.StatusTooManyRequests)
		_ = json.NewEncoder(ctx.BodyWriter()).Encode(huma.ErrorModel{
			Title:  http.StatusText(http.StatusTooManyRequests),
			Status: http.StatusTooManyRequests,
			Detail: "rate limit exceeded",
		})
	}
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
