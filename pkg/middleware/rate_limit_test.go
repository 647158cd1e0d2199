package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/abacreative/admin-services/internal/tokens"
)

func doGet(t *testing.T, r *gin.Engine, path, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2)) // generous rate
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// two quick requests should pass
	require.Equal(t, http.StatusOK, doGet(t, r, "/ok", "10.1.0.1:5000").Code)
	require.Equal(t, http.StatusOK, doGet(t, r, "/ok", "10.1.0.1:5000").Code)
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	// very low rate to force rejections
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// first request -> allowed
	require.Equal(t, http.StatusOK, doGet(t, r, "/limited", "10.1.0.2:5000").Code)

	// immediate second request -> should be rate-limited
	w2 := doGet(t, r, "/limited", "10.1.0.2:5000")
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
	require.Equal(t, "1", w2.Header().Get("Retry-After"))

	// a different client keeps its own bucket
	require.Equal(t, http.StatusOK, doGet(t, r, "/limited", "10.1.0.3:5000").Code)

	// wait long enough to replenish one token and it should be allowed
	time.Sleep(2100 * time.Millisecond)
	require.Equal(t, http.StatusOK, doGet(t, r, "/limited", "10.1.0.2:5000").Code)
}

func TestRateLimitMiddleware_UsesSubjectWhenPresent(t *testing.T) {
	r := gin.New()
	// middleware that injects claims before rate limiter
	r.Use(func(c *gin.Context) {
		c.Set("claims", &tokens.Claims{UserID: "user-123", Username: "u", Role: "admin"})
		c.Next()
	})
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// first request allowed
	require.Equal(t, http.StatusOK, doGet(t, r, "/u", "10.1.0.4:5000").Code)

	// immediate second request => rejected for same subject even from a new IP
	w2 := doGet(t, r, "/u", "10.1.0.5:5000")
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
}
