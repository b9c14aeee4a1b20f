package handler

import (
	saleapp "github.com/ferrepos/backend/internal/application/sale"
	"github.com/ferrepos/backend/internal/domain/identity"
	"github.com/ferrepos/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler handles sale-related API endpoints
type SaleHandler struct {
	BaseHandler
	saleService *saleapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *saleapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create registers a sale. Stock validation, totals, and the credit
// check all run inside one transaction.
func (h *SaleHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req saleapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.saleService.Create(c.Request.Context(), tenantID, sellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, created)
}

// Get retrieves a sale by ID
func (h *SaleHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	result, err := h.saleService.GetByID(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List retrieves sales with filtering and pagination
func (h *SaleHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter saleapp.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// Sellers only see their own sales. Admins see the whole tenant.
	if !identity.Role(middleware.GetJWTRole(c)).IsAdmin() {
		sellerID, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "Authentication required")
			return
		}
		filter.SellerID = sellerID
	}

	sales, total, err := h.saleService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// PendingCredits lists open credit sales with days overdue
func (h *SaleHandler) PendingCredits(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	credits, err := h.saleService.PendingCredits(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, credits)
}

// SettleCredit records a payment against a credit sale
func (h *SaleHandler) SettleCredit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req saleapp.SettleCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.saleService.SettleCredit(c.Request.Context(), tenantID, saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// IssueSecurityCode issues a fresh pickup confirmation code for a sale
func (h *SaleHandler) IssueSecurityCode(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	code, err := h.saleService.IssueSecurityCode(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, code)
}

// ValidateSecurityCode checks and consumes a presented pickup code
func (h *SaleHandler) ValidateSecurityCode(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req saleapp.ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.saleService.ValidateSecurityCode(c.Request.Context(), tenantID, saleID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"valid": true})
}

// DailyCode returns today's rotating credit override code. Admin only.
func (h *SaleHandler) DailyCode(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	h.Success(c, h.saleService.DailyCode(tenantID))
}
