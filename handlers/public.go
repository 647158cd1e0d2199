package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/internal/monitor"
	"github.com/abacreative/admin-services/internal/store"
	"github.com/abacreative/admin-services/pkg/logger"
	"github.com/abacreative/admin-services/pkg/metrics"
)

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// JoinUsRequest is the public talent application payload.
type JoinUsRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required"`
	Domain       string `json:"domain" binding:"required"`
	Presentation string `json:"presentation" binding:"required"`
	Portfolio    string `json:"portfolio"`
}

// PublicHandler serves the unauthenticated submission endpoints.
type PublicHandler struct {
	storage *store.Facade
	mon     *monitor.Monitor
	policy  *bluemonday.Policy
}

func NewPublicHandler(storage *store.Facade, mon *monitor.Monitor) *PublicHandler {
	// strict policy: submissions are plain text, any markup is stripped
	return &PublicHandler{storage: storage, mon: mon, policy: bluemonday.StrictPolicy()}
}

// Register routes under the given group.
func (h *PublicHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/contact", h.SubmitContact)
	rg.POST("/join-us", h.SubmitJoinUs)
}

func (h *PublicHandler) clean(s string) string {
	return strings.TrimSpace(h.policy.Sanitize(s))
}

// SubmitContact accepts a contact form submission and stores it pending.
func (h *PublicHandler) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := models.ContactMessage{
		Name:    h.clean(req.Name),
		Email:   h.clean(req.Email),
		Subject: h.clean(req.Subject),
		Message: h.clean(req.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty field after sanitization"})
		return
	}

	saved, err := h.storage.AddContactMessage(c.Request.Context(), msg)
	if err != nil {
		logger.Errorf("contact submission failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	metrics.SubmissionsReceived.WithLabelValues("contact").Inc()
	h.mon.LogFormSubmission(c.Request.Context(), "contact", []string{"name", "email", "subject", "message"})
	c.JSON(http.StatusCreated, saved)
}

// SubmitJoinUs accepts a talent application and stores it pending.
func (h *PublicHandler) SubmitJoinUs(c *gin.Context) {
	var req JoinUsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app := models.JoinUsApplication{
		Name:         h.clean(req.Name),
		Email:        h.clean(req.Email),
		Phone:        h.clean(req.Phone),
		Domain:       h.clean(req.Domain),
		Presentation: h.clean(req.Presentation),
		Portfolio:    h.clean(req.Portfolio),
	}
	if app.Name == "" || app.Email == "" || app.Phone == "" || app.Domain == "" || app.Presentation == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty field after sanitization"})
		return
	}

	saved, err := h.storage.AddJoinUsApplication(c.Request.Context(), app)
	if err != nil {
		logger.Errorf("join-us submission failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store application"})
		return
	}

	metrics.SubmissionsReceived.WithLabelValues("join_us").Inc()
	fields := []string{"name", "email", "phone", "domain", "presentation"}
	if app.Portfolio != "" {
		fields = append(fields, "portfolio")
	}
	h.mon.LogFormSubmission(c.Request.Context(), "join_us", fields)
	c.JSON(http.StatusCreated, saved)
}
