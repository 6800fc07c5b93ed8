package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWindowLimiter_ResetsAfterWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	l := newWindowLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	ok1, _ := l.allow("1.2.3.4")
	ok2, _ := l.allow("1.2.3.4")
	ok3, end := l.allow("1.2.3.4")
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.False(t, ok3)
	assert.Equal(t, now.Add(time.Minute), end)

	other, _ := l.allow("5.6.7.8")
	assert.True(t, other, "limits are per client")

	now = now.Add(61 * time.Second)
	ok4, _ := l.allow("1.2.3.4")
	assert.True(t, ok4)
}

func TestWindowLimiter_PurgesExpiredEntries(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	l := newWindowLimiter(5, time.Second)
	l.purgeAbove = 2
	l.now = func() time.Time { return now }

	l.allow("a")
	l.allow("b")
	l.allow("c")
	now = now.Add(2 * time.Second)
	l.allow("d")

	assert.Len(t, l.entries, 1)
}

func TestRateLimiter_Returns429WithRetryAfter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(1, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}
