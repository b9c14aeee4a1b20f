package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrepos/backend/internal/domain/partner"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Email       string          `json:"email" binding:"omitempty,email,max=200"`
	Phone       string          `json:"phone" binding:"max=50"`
	Address     string          `json:"address" binding:"max=500"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// UpdateCustomerRequest represents a partial customer update
type UpdateCustomerRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Email       *string          `json:"email" binding:"omitempty,max=200"`
	Phone       *string          `json:"phone" binding:"omitempty,max=50"`
	Address     *string          `json:"address" binding:"omitempty,max=500"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// CustomerListFilter represents filtering options for customer lists
type CustomerListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	HasDebt  *bool  `form:"has_debt"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	Name            string          `json:"name"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Address         string          `json:"address,omitempty"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	Balance         decimal.Decimal `json:"balance"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ToCustomerResponse maps a domain customer to its API representation
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		TenantID:        c.TenantID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		CreditLimit:     c.CreditLimit,
		Balance:         c.Balance,
		AvailableCredit: c.AvailableCredit().Amount(),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}
