package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", RateLimit(rl), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimitReturns429AfterBurst(t *testing.T) {
	router := newRateLimitedRouter(NewRateLimiter(0.001, 2))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "too_many_requests")
}

func TestRateLimitTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)

	assert.True(t, rl.get("10.0.0.1").Allow())
	assert.False(t, rl.get("10.0.0.1").Allow())
	assert.True(t, rl.get("10.0.0.2").Allow())
}

func TestRateLimitSweepsStaleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	rl.get("10.0.0.1")
	rl.get("10.0.0.2")

	// age one bucket past the retention window and force the next get
	// to run the sweep
	rl.mu.Lock()
	rl.clients["10.0.0.1"].seen = time.Now().Add(-5 * time.Minute)
	rl.lastSweep = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	rl.get("10.0.0.3")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "10.0.0.1")
	assert.Contains(t, rl.clients, "10.0.0.2")
	assert.Contains(t, rl.clients, "10.0.0.3")
}
