package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abacreative/admin-services/internal/config"
	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/internal/monitor"
	"github.com/abacreative/admin-services/internal/sessions"
	"github.com/abacreative/admin-services/internal/tokens"
	"github.com/abacreative/admin-services/internal/users"
	"github.com/abacreative/admin-services/pkg/logger"
	"github.com/abacreative/admin-services/pkg/middleware"
)

// LoginRequest is the password login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
	blacklist   *sessions.Blacklist
	mon         *monitor.Monitor
}

func NewAuthHandler(cfg *config.Config, u *users.Service, s *sessions.Service, bl *sessions.Blacklist, mon *monitor.Monitor) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u, sessionsSvc: s, blacklist: bl, mon: mon}
}

// Register routes under /auth. The password-change route requires an
// authenticated caller and is registered on the authed group.
func (h *AuthHandler) Register(rg, authed *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
	authed.POST("/auth/password", h.ChangePassword)
}

// sanitizeUser strips the password before a user leaves the API.
func sanitizeUser(u models.User) models.User {
	u.Password = ""
	return u
}

// Login checks credentials and issues an access token plus a refresh
// session. Bad credentials and suspended accounts get a 401 with the
// failure reason, never a 5xx.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.usersSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Errorf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if !res.Success() {
		h.mon.LogAuthEvent(c.Request.Context(), "failed_login", "")
		c.JSON(http.StatusUnauthorized, gin.H{"error": res.FailureReason})
		return
	}

	refresh, err := h.sessionsSvc.CreateSession(c.Request.Context(), res.User.ID, h.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg.JWT.Secret, res.User, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}

	h.mon.LogAuthEvent(c.Request.Context(), "login", res.User.ID)
	c.JSON(http.StatusOK, gin.H{
		"accessToken":            access,
		"refreshToken":           refresh,
		"user":                   sanitizeUser(*res.User),
		"requiresPasswordChange": res.RequiresPasswordChange,
		"expiresIn":              int(h.cfg.JWT.AccessTokenTTL.Seconds()),
	})
}

// Refresh accepts a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	u, err := h.usersSvc.GetByID(c.Request.Context(), sess.UserID)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
		return
	}
	if !u.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": users.ReasonAccountSuspended})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg.JWT.Secret, u, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken": access,
		"expiresIn":   int(h.cfg.JWT.AccessTokenTTL.Seconds()),
	})
}

// Logout invalidates the refresh token and blacklists the supplied access token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if auth := c.GetHeader("Authorization"); auth != "" {
		if at, ok := strings.CutPrefix(auth, "Bearer "); ok && at != "" {
			if exp, err := parseExpFromJWT(at); err == nil {
				if ttl := time.Until(exp); ttl > 0 {
					if err := h.blacklist.Revoke(c.Request.Context(), at, ttl); err != nil {
						logger.Warnf("failed to blacklist access token: %v", err)
					}
				}
			}
		}
	}

	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	h.mon.LogAuthEvent(c.Request.Context(), "logout", "")
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// ChangePassword sets a new password for the authenticated account and
// clears its first-login flag.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.usersSvc.GetByID(c.Request.Context(), claims.UserID)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
		return
	}
	if u.Password != req.CurrentPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password incorrect"})
		return
	}

	updated, err := h.usersSvc.ChangePassword(c.Request.Context(), u.ID, req.NewPassword)
	if err != nil {
		logger.Errorf("password change failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password change failed"})
		return
	}
	h.mon.LogAdminAction(c.Request.Context(), "change_password", u.ID, nil)
	c.JSON(http.StatusOK, gin.H{"user": sanitizeUser(*updated)})
}

// parseExpFromJWT decodes the JWT payload and returns the `exp` claim as
// time.Time. Payload-only parsing, suitable for computing blacklist TTLs.
func parseExpFromJWT(tok string) (time.Time, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid token")
	}
	b, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}, err
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(b, &claims); err != nil {
		return time.Time{}, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	return time.Unix(int64(exp), 0), nil
}
