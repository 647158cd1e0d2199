package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abacreative/admin-services/internal/analytics"
	"github.com/abacreative/admin-services/internal/backup"
	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/internal/monitor"
	"github.com/abacreative/admin-services/internal/storage"
	"github.com/abacreative/admin-services/internal/store"
	"github.com/abacreative/admin-services/internal/triage"
	"github.com/abacreative/admin-services/internal/users"
	"github.com/abacreative/admin-services/pkg/logger"
	"github.com/abacreative/admin-services/pkg/middleware"
)

// AdminHandler serves the authenticated back-office API.
type AdminHandler struct {
	storage   *store.Facade
	usersSvc  *users.Service
	triageSvc *triage.Service
	backupSvc *backup.Service
	artifacts *storage.ArtifactStore // nil when no object store is configured
	mon       *monitor.Monitor
}

func NewAdminHandler(st *store.Facade, u *users.Service, tr *triage.Service, b *backup.Service, art *storage.ArtifactStore, mon *monitor.Monitor) *AdminHandler {
	return &AdminHandler{storage: st, usersSvc: u, triageSvc: tr, backupSvc: b, artifacts: art, mon: mon}
}

// Register wires the admin routes onto an authenticated group.
func (h *AdminHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/admin")

	us := a.Group("/users", middleware.RequirePermission("manage_users"))
	us.GET("", h.ListUsers)
	us.POST("", h.CreateUser)
	us.PATCH("/:id", h.UpdateUser)
	us.PATCH("/:id/status", h.SetUserStatus)

	msgs := a.Group("/messages", middleware.RequirePermission("view_contacts"))
	msgs.GET("", h.ListContactMessages)
	msgs.PATCH("/:id/status", middleware.RequirePermission("manage_contacts"), h.SetContactStatus)

	apps := a.Group("/applications", middleware.RequirePermission("view_recruitment"))
	apps.GET("", h.ListApplications)
	apps.PATCH("/:id/status", middleware.RequirePermission("manage_recruitment"), h.SetApplicationStatus)

	a.GET("/dashboard", h.Dashboard)
	a.GET("/analytics", h.Analytics)
	a.GET("/monitoring", h.Monitoring)

	bk := a.Group("/backup", middleware.RequirePermission("manage_backups"))
	bk.GET("/export", h.ExportBackup)
	bk.POST("/restore", h.RestoreBackup)
	bk.GET("/artifacts", h.ListArtifacts)

	st := a.Group("/settings", middleware.RequirePermission("manage_backups"))
	st.GET("/auto-backup", h.GetAutoBackup)
	st.PUT("/auto-backup", h.SetAutoBackup)
}

// --- users ---

func (h *AdminHandler) ListUsers(c *gin.Context) {
	list, err := h.usersSvc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("list users failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	out := make([]models.User, 0, len(list))
	for _, u := range list {
		out = append(out, sanitizeUser(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// CreateUserRequest carries a new back-office account.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required"`
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.usersSvc.Create(c.Request.Context(), models.User{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		h.writeUserError(c, err, "create user failed")
		return
	}
	h.logAdminAction(c, "create_user", map[string]any{"createdId": created.ID})
	c.JSON(http.StatusCreated, gin.H{"user": sanitizeUser(*created)})
}

// UpdateUserRequest replaces the editable account fields.
type UpdateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required"`
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.usersSvc.Update(c.Request.Context(), models.User{
		ID:       c.Param("id"),
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		h.writeUserError(c, err, "update user failed")
		return
	}
	h.logAdminAction(c, "update_user", map[string]any{"updatedId": updated.ID})
	c.JSON(http.StatusOK, gin.H{"user": sanitizeUser(*updated)})
}

func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.usersSvc.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		h.writeUserError(c, err, "set user status failed")
		return
	}
	h.logAdminAction(c, "set_user_status", map[string]any{"updatedId": updated.ID, "isActive": *req.IsActive})
	c.JSON(http.StatusOK, gin.H{"user": sanitizeUser(*updated)})
}

func (h *AdminHandler) writeUserError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, users.ErrUsernameTaken), errors.Is(err, users.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, users.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Errorf("%s: %v", logMsg, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": logMsg})
	}
}

// --- triage ---

func (h *AdminHandler) ListContactMessages(c *gin.Context) {
	msgs, err := h.storage.GetContactMessages(c.Request.Context())
	if err != nil {
		logger.Errorf("list messages failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *AdminHandler) ListApplications(c *gin.Context) {
	apps, err := h.storage.GetJoinUsApplications(c.Request.Context())
	if err != nil {
		logger.Errorf("list applications failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load applications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// StatusRequest moves a submission through the triage workflow.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *AdminHandler) SetContactStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims := middleware.ClaimsFrom(c)
	msg, err := h.triageSvc.SetContactStatus(c.Request.Context(), c.Param("id"), req.Status, claims.Username, req.Notes)
	if err != nil {
		h.writeTriageError(c, err, "set contact status failed")
		return
	}
	h.logAdminAction(c, "set_contact_status", map[string]any{"messageId": msg.ID, "status": msg.Status})
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *AdminHandler) SetApplicationStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims := middleware.ClaimsFrom(c)
	app, err := h.triageSvc.SetApplicationStatus(c.Request.Context(), c.Param("id"), req.Status, claims.Username, req.Notes)
	if err != nil {
		h.writeTriageError(c, err, "set application status failed")
		return
	}
	h.logAdminAction(c, "set_application_status", map[string]any{"applicationId": app.ID, "status": app.Status})
	c.JSON(http.StatusOK, gin.H{"application": app})
}

func (h *AdminHandler) writeTriageError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, triage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, triage.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Errorf("%s: %v", logMsg, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": logMsg})
	}
}

// --- dashboard and analytics ---

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.storage.GetDashboardStats(c.Request.Context())
	if err != nil {
		logger.Errorf("dashboard stats failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	ctx := c.Request.Context()
	contacts, err := h.storage.GetContactMessages(ctx)
	if err != nil {
		logger.Errorf("analytics load failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analytics"})
		return
	}
	apps, err := h.storage.GetJoinUsApplications(ctx)
	if err != nil {
		logger.Errorf("analytics load failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analytics"})
		return
	}
	c.JSON(http.StatusOK, analytics.Compute(contacts, apps, time.Now().UTC()))
}

func (h *AdminHandler) Monitoring(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.mon.Stats(ctx)
	if err != nil {
		logger.Errorf("monitoring stats failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load monitoring stats"})
		return
	}
	recent, err := h.mon.RecentActivity(ctx, 10)
	if err != nil {
		logger.Errorf("monitoring activity failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load monitoring activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "recentActivity": recent})
}

// --- backup ---

// ExportBackup streams a full backup as JSON or CSV and, when an object
// store is configured, archives a copy of the artifact.
func (h *AdminHandler) ExportBackup(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or csv"})
		return
	}

	doc, err := h.backupSvc.CreateFullBackup(c.Request.Context())
	if err != nil {
		logger.Errorf("backup creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "backup creation failed"})
		return
	}

	var payload []byte
	var contentType string
	switch format {
	case "json":
		payload, err = backup.ExportJSON(doc)
		contentType = "application/json"
	case "csv":
		payload = backup.ExportCSV(doc)
		contentType = "text/csv"
	}
	if err != nil {
		logger.Errorf("backup export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "backup export failed"})
		return
	}

	name := backup.Filename(format, doc.Timestamp)
	if h.artifacts != nil {
		if err := h.artifacts.Upload(c.Request.Context(), name, payload, contentType); err != nil {
			logger.Warnf("backup artifact upload failed: %v", err)
		}
	}

	h.logAdminAction(c, "export_backup", map[string]any{"format": format, "totalRecords": doc.Metadata.TotalRecords})
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

// RestoreBackup replaces the local collections with the uploaded backup.
// The confirm flag must be set: restore overwrites everything.
type RestoreRequest struct {
	Confirm bool            `json:"confirm"`
	Backup  json.RawMessage `json:"backup" binding:"required"`
}

func (h *AdminHandler) RestoreBackup(c *gin.Context) {
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restore must be confirmed"})
		return
	}

	doc, err := backup.Parse(req.Backup)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.backupSvc.Restore(doc); err != nil {
		logger.Errorf("restore failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "restore failed"})
		return
	}

	h.logAdminAction(c, "restore_backup", map[string]any{"totalRecords": doc.Metadata.TotalRecords, "version": doc.Version})
	c.JSON(http.StatusOK, gin.H{"message": "restore complete", "restoredRecords": doc.Metadata.TotalRecords})
}

func (h *AdminHandler) ListArtifacts(c *gin.Context) {
	if h.artifacts == nil {
		c.JSON(http.StatusOK, gin.H{"artifacts": []storage.Artifact{}})
		return
	}
	list, err := h.artifacts.List(c.Request.Context())
	if err != nil {
		logger.Errorf("artifact list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list artifacts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"artifacts": list})
}

// --- auto-backup settings ---

func (h *AdminHandler) GetAutoBackup(c *gin.Context) {
	setting, err := h.backupSvc.AutoBackupSetting()
	if err != nil {
		logger.Errorf("auto-backup setting load failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load setting"})
		return
	}
	c.JSON(http.StatusOK, setting)
}

func (h *AdminHandler) SetAutoBackup(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.backupSvc.SetAutoBackupEnabled(c.Request.Context(), *req.Enabled); err != nil {
		logger.Errorf("auto-backup toggle failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update setting"})
		return
	}
	h.logAdminAction(c, "set_auto_backup", map[string]any{"enabled": *req.Enabled})
	c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled})
}

func (h *AdminHandler) logAdminAction(c *gin.Context, action string, details map[string]any) {
	userID := ""
	if claims := middleware.ClaimsFrom(c); claims != nil {
		userID = claims.UserID
	}
	h.mon.LogAdminAction(c.Request.Context(), action, userID, details)
}
