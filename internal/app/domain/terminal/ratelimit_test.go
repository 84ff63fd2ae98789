package terminal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newLimitContext(t *testing.T, userID string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ws/terminal/abc", nil)
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c
}

func TestAllowBlocksAboveLimit(t *testing.T) {
	rl := NewRateLimiter(zap.NewNop(), 3, time.Minute)
	c := newLimitContext(t, "user-1")

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(c), "attempt %d", i)
	}
	assert.False(t, rl.Allow(c))
}

func TestAllowRecoversAfterWindow(t *testing.T) {
	rl := NewRateLimiter(zap.NewNop(), 1, 20*time.Millisecond)
	c := newLimitContext(t, "user-1")

	assert.True(t, rl.Allow(c))
	assert.False(t, rl.Allow(c))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Allow(c))
}

func TestAllowTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(zap.NewNop(), 1, time.Minute)

	assert.True(t, rl.Allow(newLimitContext(t, "user-1")))
	assert.True(t, rl.Allow(newLimitContext(t, "user-2")))
	assert.False(t, rl.Allow(newLimitContext(t, "user-1")))
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(zap.NewNop(), 1, time.Minute)

	r := gin.New()
	r.GET("/ws/terminal/:id", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	}, RateLimitMiddleware(rl), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ws/terminal/abc", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ws/terminal/abc", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Rate limit exceeded")
}
