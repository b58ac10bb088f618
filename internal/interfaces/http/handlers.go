package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yusufkoc/hr-intake/internal/application/service"
	"github.com/yusufkoc/hr-intake/internal/domain/approval"
	"github.com/yusufkoc/hr-intake/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	intakeService   service.IntakeService
	approvalService service.ApprovalService
	authService     service.AuthService
	logger          Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	intakeService service.IntakeService,
	approvalService service.ApprovalService,
	authService service.AuthService,
	logger Logger,
) *Handlers {
	return &Handlers{
		intakeService:   intakeService,
		approvalService: approvalService,
		authService:     authService,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "username and password are required"})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, Response{Success: false, Error: err.Error()})
			return
		}
		h.logger.Error("Login failed", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "login failed"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"token": token,
		"user":  user,
	}})
}

// CreateApplication handles POST /api/v1/applications
func (h *Handlers) CreateApplication(c *gin.Context) {
	var form service.IntakeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid intake form: " + err.Error()})
		return
	}

	app, err := h.intakeService.CreateApplication(c.Request.Context(), &form)
	if err != nil {
		h.logger.Error("Failed to create application", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to create application"})
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: gin.H{
		"new_id":      app.ID,
		"application": app,
	}})
}

// ListApplications handles GET /api/v1/applications
func (h *Handlers) ListApplications(c *gin.Context) {
	actor := currentUser(c)

	apps, err := h.intakeService.ListApplications(c.Request.Context(), actor)
	if err != nil {
		h.logger.Error("Failed to list applications", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to list applications"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: apps})
}

// GetApplication handles GET /api/v1/applications/:id
func (h *Handlers) GetApplication(c *gin.Context) {
	app, err := h.intakeService.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, approval.ErrNotFound) {
			c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
			return
		}
		h.logger.Error("Failed to get application", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to get application"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: app})
}

// ActionRequest is the transition payload.
type ActionRequest struct {
	Action string `json:"action" binding:"required"`
	Note   string `json:"note"`
}

// ApplyAction handles POST /api/v1/applications/:id/actions
func (h *Handlers) ApplyAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "action is required"})
		return
	}

	action, err := approval.ParseAction(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	actor := currentUser(c)
	id := c.Param("id")

	message, err := h.approvalService.ApplyAction(c.Request.Context(), id, action, req.Note, actor)
	if err != nil {
		c.JSON(statusForTransitionError(err), Response{Success: false, Error: err.Error()})
		return
	}

	app, err := h.intakeService.GetApplication(c.Request.Context(), id)
	if err != nil {
		// The transition committed; report success with the message
		// even when the re-read fails.
		h.logger.Error("Failed to reload application after transition", "id", id, "error", err)
		c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"message": message}})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"message":     message,
		"application": app,
	}})
}

// statusForTransitionError maps engine failure kinds to HTTP codes.
func statusForTransitionError(err error) int {
	switch {
	case errors.Is(err, approval.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, approval.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, approval.ErrUnknownStage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, approval.ErrInvalidState),
		errors.Is(err, approval.ErrAlreadyCompleted),
		errors.Is(err, approval.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// currentUser returns the actor placed on the context by the auth
// middleware.
func currentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(contextUserKey); ok {
		if user, ok := v.(*entity.User); ok {
			return user
		}
	}
	return nil
}
