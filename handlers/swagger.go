package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>aba-admin — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the public and admin surfaces.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "aba-admin", "version": "v1.0.0" },
  "paths": {
    "/api/v1/contact": {
      "post": { "summary": "Submit a contact message", "responses": { "201": { "description": "message stored" }, "400": { "description": "invalid payload" } } }
    },
    "/api/v1/join-us": {
      "post": { "summary": "Submit a talent application", "responses": { "201": { "description": "application stored" }, "400": { "description": "invalid payload" } } }
    },
    "/auth/login": {
      "post": { "summary": "Password login", "responses": { "200": { "description": "tokens returned" }, "401": { "description": "bad credentials or suspended account" } } }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/auth/password": {
      "post": { "summary": "Change own password", "responses": { "200": { "description": "password changed" }, "401": { "description": "wrong current password" } } }
    },
    "/api/v1/admin/users": {
      "get": { "summary": "List back-office accounts", "responses": { "200": { "description": "accounts" } } },
      "post": { "summary": "Create a back-office account", "responses": { "201": { "description": "account created" }, "409": { "description": "username or email taken" } } }
    },
    "/api/v1/admin/messages": {
      "get": { "summary": "List contact messages", "responses": { "200": { "description": "messages" } } }
    },
    "/api/v1/admin/applications": {
      "get": { "summary": "List talent applications", "responses": { "200": { "description": "applications" } } }
    },
    "/api/v1/admin/dashboard": {
      "get": { "summary": "Dashboard statistics", "responses": { "200": { "description": "derived stats" } } }
    },
    "/api/v1/admin/backup/export": {
      "get": { "summary": "Export a full backup (json or csv)", "responses": { "200": { "description": "backup file" } } }
    },
    "/api/v1/admin/backup/restore": {
      "post": { "summary": "Restore from a backup document", "responses": { "200": { "description": "restore complete" }, "400": { "description": "invalid backup or missing confirmation" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
