// internal/middleware/rate_limit.go
package middleware

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/spicepop/storefront/internal/config"
	"github.com/spicepop/storefront/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. A bucket of size max
// refilled at max per window approximates "max requests per rolling window".
type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	if max < 1 {
		max = 1
	}
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(float64(max) / window.Seconds()),
		burst:    max,
		idle:     window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go rl.cleanupVisitors()

	return rl
}

// A visitor idle for a whole window has a full bucket again, so dropping it
// loses nothing.
func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mtx.Lock()
			for ip, v := range rl.visitors {
				if rl.now().Sub(v.lastSeen) > rl.idle {
					delete(rl.visitors, ip)
				}
			}
			rl.mtx.Unlock()
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, rl.now()}
		return limiter
	}

	v.lastSeen = rl.now()
	return v.limiter
}

// allow takes a token for ip, or reports how long until one is available.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	limiter := rl.getVisitor(ip)
	now := rl.now()

	res := limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Duration(float64(time.Second) / float64(rl.rate))
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ok, wait := rl.allow(c.ClientIP()); !ok {
			utils.TooManyRequestsResponse(c, int(math.Ceil(wait.Seconds())))
			return
		}
		c.Next()
	}
}

// MethodRateLimiter gives reads (GET, HEAD, OPTIONS) and writes separate
// allowances per client.
type MethodRateLimiter struct {
	Read  *RateLimiter
	Write *RateLimiter
}

func NewMethodRateLimiter(cfg config.RateLimitConfig) *MethodRateLimiter {
	return &MethodRateLimiter{
		Read:  NewRateLimiter(cfg.ReadMax, cfg.Window),
		Write: NewRateLimiter(cfg.WriteMax, cfg.Window),
	}
}

func (m *MethodRateLimiter) Middleware() gin.HandlerFunc {
	read := m.Read.Middleware()
	write := m.Write.Middleware()

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			read(c)
		default:
			write(c)
		}
	}
}

func (m *MethodRateLimiter) Stop() {
	m.Read.Stop()
	m.Write.Stop()
}
