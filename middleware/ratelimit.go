package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	cleanupEvery = 5 * time.Minute
	staleAfter   = 10 * time.Minute
)

type rateLimitEntry struct {
	tokens    float64
	lastCheck time.Time
}

// RateLimiter is a per-client token bucket. The gateway puts it in front of
// cart mutations and order/contact submissions so a runaway client cannot
// flood the storefront API through us.
type RateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*rateLimitEntry
	maxTokens  float64
	refillRate float64 // tokens per second
	now        func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows maxRequests per perDuration per client IP, with
// bursts up to maxRequests. Call Close to stop the cleanup goroutine.
func NewRateLimiter(maxRequests int, perDuration time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:    make(map[string]*rateLimitEntry),
		maxTokens:  float64(maxRequests),
		refillRate: float64(maxRequests) / perDuration.Seconds(),
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictStale()
		}
	}
}

func (rl *RateLimiter) evictStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, entry := range rl.clients {
		if now.Sub(entry.lastCheck) > staleAfter {
			delete(rl.clients, ip)
		}
	}
}

// allow spends one token for the client. When the bucket is empty it also
// reports how long until the next token.
func (rl *RateLimiter) allow(clientIP string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &rateLimitEntry{tokens: rl.maxTokens - 1, lastCheck: now}
		return true, 0
	}

	entry.tokens = math.Min(rl.maxTokens, entry.tokens+now.Sub(entry.lastCheck).Seconds()*rl.refillRate)
	entry.lastCheck = now

	if entry.tokens >= 1 {
		entry.tokens--
		return true, 0
	}
	wait := time.Duration((1 - entry.tokens) / rl.refillRate * float64(time.Second))
	return false, wait
}

// Middleware rejects over-limit requests with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := rl.allow(c.ClientIP())
		if !ok {
			seconds := int(math.Ceil(wait.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}
		c.Next()
	}
}
