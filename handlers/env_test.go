package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/abacreative/admin-services/internal/backup"
	"github.com/abacreative/admin-services/internal/config"
	"github.com/abacreative/admin-services/internal/kv"
	"github.com/abacreative/admin-services/internal/monitor"
	"github.com/abacreative/admin-services/internal/sessions"
	"github.com/abacreative/admin-services/internal/store"
	"github.com/abacreative/admin-services/internal/triage"
	"github.com/abacreative/admin-services/internal/users"
	"github.com/abacreative/admin-services/pkg/middleware"
)

// env wires the full handler stack against a throwaway local store, the
// same way main does, minus Redis, Mongo and MinIO.
type env struct {
	router *gin.Engine
	cfg    *config.Config
	facade *store.Facade
	local  *store.LocalStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	area, err := kv.Open(t.TempDir())
	require.NoError(t, err)
	local := store.NewLocalStore(area)
	sel := store.NewSelector(local, nil, nil, 0)
	facade := store.NewFacade(sel)

	usersSvc := users.NewService(facade)
	triageSvc := triage.NewService(facade)
	backupSvc := backup.NewService(facade, local)
	mon := monitor.New(nil)
	sessSvc := sessions.NewService(sessions.NewMemoryRepository())
	bl := sessions.NewBlacklist(nil)

	cfg := &config.Config{JWT: config.JWTConfig{
		Secret:          "handlers-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	}}

	r := gin.New()
	root := r.Group("")
	authed := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWT.Secret, bl))

	NewPublicHandler(facade, mon).Register(r.Group("/api/v1"))
	NewAuthHandler(cfg, usersSvc, sessSvc, bl, mon).Register(root, authed)
	NewAdminHandler(facade, usersSvc, triageSvc, backupSvc, nil, mon).Register(authed)

	return &env{router: r, cfg: cfg, facade: facade, local: local}
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// login returns the access and refresh tokens for the given credentials.
func (e *env) login(t *testing.T, username, password string) (string, string) {
	t.Helper()
	w := e.do(t, "POST", "/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, 200, w.Code, w.Body.String())
	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken, resp.RefreshToken
}

// adminToken logs in the seeded administrator.
func (e *env) adminToken(t *testing.T) string {
	access, _ := e.login(t, "admin", "Admin123")
	return access
}
