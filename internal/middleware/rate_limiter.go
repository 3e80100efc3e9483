package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitante struct {
	limiter *rate.Limiter
	visto   time.Time
}

// RateLimiter limita requisições por IP de origem.
type RateLimiter struct {
	mu    sync.Mutex
	ips   map[string]*visitante
	limit rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		ips:   make(map[string]*visitante),
		limit: rate.Limit(rps),
		burst: burst,
		ttl:   10 * time.Minute,
		now:   time.Now,
	}
}

func (rl *RateLimiter) limiterPara(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	agora := rl.now()
	v, ok := rl.ips[ip]
	if !ok {
		v = &visitante{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.ips[ip] = v
	}
	v.visto = agora
	return v.limiter
}

// Limpar descarta IPs sem atividade recente.
func (rl *RateLimiter) Limpar() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	limite := rl.now().Add(-rl.ttl)
	for ip, v := range rl.ips {
		if v.visto.Before(limite) {
			delete(rl.ips, ip)
		}
	}
}

// Run chama Limpar periodicamente até done fechar.
func (rl *RateLimiter) Run(done <-chan struct{}, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			rl.Limpar()
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiterPara(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "muitas requisições", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
