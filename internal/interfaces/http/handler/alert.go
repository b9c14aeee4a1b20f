package handler

import (
	"time"

	alertapp "github.com/ferrepos/backend/internal/application/alert"
	"github.com/ferrepos/backend/internal/domain/identity"
	"github.com/ferrepos/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AlertHandler handles notification API endpoints
type AlertHandler struct {
	BaseHandler
	alertService *alertapp.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *alertapp.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// Unread lists notifications targeted at the caller's role that the
// caller has not read yet
func (h *AlertHandler) Unread(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	role, err := identity.ParseRole(middleware.GetJWTRole(c))
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	notifications, err := h.alertService.Unread(c.Request.Context(), tenantID, userID, role)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, notifications)
}

// MarkRead marks the given notifications as read for the caller
func (h *AlertHandler) MarkRead(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req alertapp.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.alertService.MarkRead(c.Request.Context(), tenantID, userID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SeasonalOutlook returns the demand rules in effect for the current month
func (h *AlertHandler) SeasonalOutlook(c *gin.Context) {
	h.Success(c, h.alertService.SeasonalOutlook(time.Now().UTC()))
}
