package terminal

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter caps terminal connection attempts per client within a sliding
// window. Entries with a live websocket are never cleaned up.
type RateLimiter struct {
	clients map[string]*clientLimit
	mu      sync.RWMutex
	logger  *zap.Logger

	maxRequests     int
	window          time.Duration
	cleanupInterval time.Duration
}

type clientLimit struct {
	requests  []time.Time
	mu        sync.Mutex
	lastSeen  time.Time
	websocket bool
}

func NewRateLimiter(logger *zap.Logger, maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:         make(map[string]*clientLimit),
		logger:          logger,
		maxRequests:     maxRequests,
		window:          window,
		cleanupInterval: window * 2,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for clientID, limit := range rl.clients {
			limit.mu.Lock()
			if !limit.websocket && now.Sub(limit.lastSeen) > rl.window*2 {
				delete(rl.clients, clientID)
			}
			limit.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}

func clientID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return c.ClientIP()
}

// Allow records one attempt and reports whether it fits in the window.
func (rl *RateLimiter) Allow(c *gin.Context) bool {
	id := clientID(c)

	rl.mu.RLock()
	client, exists := rl.clients[id]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		client, exists = rl.clients[id]
		if !exists {
			client = &clientLimit{requests: make([]time.Time, 0, rl.maxRequests)}
			rl.clients[id] = client
		}
		rl.mu.Unlock()
	}

	client.mu.Lock()
	defer client.mu.Unlock()

	now := time.Now()
	client.lastSeen = now

	cutoff := now.Add(-rl.window)
	valid := client.requests[:0]
	for _, t := range client.requests {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	client.requests = valid

	if len(client.requests) >= rl.maxRequests {
		rl.logger.Warn("Terminal rate limit exceeded",
			zap.String("clientID", id),
			zap.Int("requests", len(client.requests)),
			zap.Int("maxRequests", rl.maxRequests),
			zap.Duration("window", rl.window))
		return false
	}

	client.requests = append(client.requests, now)
	return true
}

// MarkWebSocket pins or releases the client's cleanup exemption.
func (rl *RateLimiter) MarkWebSocket(id string, active bool) {
	rl.mu.RLock()
	client, exists := rl.clients[id]
	rl.mu.RUnlock()

	if !exists {
		if active {
			rl.mu.Lock()
			rl.clients[id] = &clientLimit{lastSeen: time.Now(), websocket: true}
			rl.mu.Unlock()
		}
		return
	}

	client.mu.Lock()
	client.websocket = active
	client.mu.Unlock()
}

// RateLimitMiddleware rejects over-limit connection attempts with 429.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		id := clientID(c)
		rl.MarkWebSocket(id, true)
		c.Next()
		rl.MarkWebSocket(id, false)
	}
}
