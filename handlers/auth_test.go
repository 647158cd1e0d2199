package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/internal/users"
)

func TestLoginSeededAdmin(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, "POST", "/auth/login", "", gin.H{"username": "admin", "password": "Admin123"})
	require.Equal(t, 200, w.Code, w.Body.String())

	var resp struct {
		AccessToken            string      `json:"accessToken"`
		RefreshToken           string      `json:"refreshToken"`
		RequiresPasswordChange bool        `json:"requiresPasswordChange"`
		User                   models.User `json:"user"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.True(t, resp.RequiresPasswordChange)
	require.Equal(t, "admin-1", resp.User.ID)
	require.Empty(t, resp.User.Password, "password must never leave the API")
}

func TestLoginBadCredentials(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, "POST", "/auth/login", "", gin.H{"username": "admin", "password": "nope"})
	require.Equal(t, 401, w.Code)
	require.Contains(t, w.Body.String(), users.ReasonBadCredentials)
}

func TestLoginSuspendedAccount(t *testing.T) {
	e := newEnv(t)
	token := e.adminToken(t)

	// create and suspend a second account
	w := e.do(t, "POST", "/api/v1/admin/users", token, gin.H{
		"username": "marie", "password": "Secret123", "name": "Marie",
		"email": "marie@abacreativegroup.com", "role": models.RoleContactManager,
	})
	require.Equal(t, 201, w.Code, w.Body.String())
	var created struct {
		User models.User `json:"user"`
	}
	decode(t, w, &created)

	w = e.do(t, "PATCH", "/api/v1/admin/users/"+created.User.ID+"/status", token, gin.H{"isActive": false})
	require.Equal(t, 200, w.Code, w.Body.String())

	w = e.do(t, "POST", "/auth/login", "", gin.H{"username": "marie", "password": "Secret123"})
	require.Equal(t, 401, w.Code)
	require.Contains(t, w.Body.String(), users.ReasonAccountSuspended)
}

func TestRefreshAndLogout(t *testing.T) {
	e := newEnv(t)
	access, refresh := e.login(t, "admin", "Admin123")

	w := e.do(t, "POST", "/auth/refresh", "", gin.H{"refreshToken": refresh})
	require.Equal(t, 200, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "accessToken")

	w = e.do(t, "POST", "/auth/logout", access, gin.H{"refreshToken": refresh})
	require.Equal(t, 200, w.Code, w.Body.String())

	// refresh token is gone after logout
	w = e.do(t, "POST", "/auth/refresh", "", gin.H{"refreshToken": refresh})
	require.Equal(t, 401, w.Code)

	w = e.do(t, "POST", "/auth/refresh", "", gin.H{"refreshToken": "bogus"})
	require.Equal(t, 401, w.Code)
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	token := e.adminToken(t)

	// wrong current password
	w := e.do(t, "POST", "/api/v1/auth/password", token, gin.H{
		"currentPassword": "wrong", "newPassword": "NewPass123",
	})
	require.Equal(t, 401, w.Code)

	w = e.do(t, "POST", "/api/v1/auth/password", token, gin.H{
		"currentPassword": "Admin123", "newPassword": "NewPass123",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	// old password no longer works, new one does and the first-login
	// flag is cleared
	w = e.do(t, "POST", "/auth/login", "", gin.H{"username": "admin", "password": "Admin123"})
	require.Equal(t, 401, w.Code)

	w = e.do(t, "POST", "/auth/login", "", gin.H{"username": "admin", "password": "NewPass123"})
	require.Equal(t, 200, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"requiresPasswordChange":false`)
}

func TestChangePasswordRequiresAuth(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, "POST", "/api/v1/auth/password", "", gin.H{
		"currentPassword": "Admin123", "newPassword": "NewPass123",
	})
	require.Equal(t, 401, w.Code)
}
