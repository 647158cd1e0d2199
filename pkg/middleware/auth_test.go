package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/internal/sessions"
	"github.com/abacreative/admin-services/internal/tokens"
)

const testSecret = "test-secret"

func authedRouter(bl *sessions.Blacklist) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, bl))
	r.GET("/me", func(c *gin.Context) {
		claims := ClaimsFrom(c)
		c.JSON(200, gin.H{"userId": claims.UserID, "role": claims.Role})
	})
	r.GET("/users", RequirePermission("manage_users"), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	raw, err := tokens.GenerateAccessToken(testSecret, &models.User{
		ID: "u-1", Username: "alice", Role: role,
	}, time.Minute)
	require.NoError(t, err)
	return raw
}

func serveWithToken(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := authedRouter(nil)
	w := serveWithToken(r, "/me", tokenFor(t, models.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"userId":"u-1"`)
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	r := authedRouter(nil)

	require.Equal(t, http.StatusUnauthorized, serveWithToken(r, "/me", "").Code)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	r := authedRouter(nil)
	require.Equal(t, http.StatusUnauthorized, serveWithToken(r, "/me", "garbage").Code)

	expired, err := tokens.GenerateAccessToken(testSecret, &models.User{ID: "u-1"}, -time.Minute)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, serveWithToken(r, "/me", expired).Code)
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()

	bl := sessions.NewBlacklist(client)
	r := authedRouter(bl)

	token := tokenFor(t, models.RoleAdmin)
	require.Equal(t, http.StatusOK, serveWithToken(r, "/me", token).Code)

	require.NoError(t, bl.Revoke(context.Background(), token, time.Minute))
	require.Equal(t, http.StatusUnauthorized, serveWithToken(r, "/me", token).Code)
}

func TestRequirePermission(t *testing.T) {
	r := authedRouter(nil)

	// admin has the "all" permission
	require.Equal(t, http.StatusOK, serveWithToken(r, "/users", tokenFor(t, models.RoleAdmin)).Code)

	// contact managers cannot manage users
	require.Equal(t, http.StatusForbidden, serveWithToken(r, "/users", tokenFor(t, models.RoleContactManager)).Code)
}
