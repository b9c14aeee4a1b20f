package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrepos/backend/internal/domain/sale"
)

// SaleItemRequest is one requested line of a new sale
type SaleItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// CreateSaleRequest represents a request to register a sale.
// PaymentType accepts the Spanish spellings the cashier UI sends
// ("contado", "crédito") as well as the English ones.
type CreateSaleRequest struct {
	CustomerID  *uuid.UUID        `json:"customer_id"`
	Items       []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentType string            `json:"payment_type" binding:"required,payment_type"`
	PaidUSD     decimal.Decimal   `json:"paid_usd"`
	PaidVES     decimal.Decimal   `json:"paid_ves"`
	CreditDays  *int              `json:"credit_days" binding:"omitempty,gt=0"`
	AdminCode   string            `json:"admin_code"`
}

// SaleListFilter represents filtering options for sale lists
type SaleListFilter struct {
	// SellerID restricts the listing to one seller's sales. The handler
	// sets it for non-admin callers; clients cannot.
	SellerID uuid.UUID `form:"-"`

	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir"`
	Status      string `form:"status"`
	PaymentType string `form:"payment_type"`
	CustomerID  string `form:"customer_id"`
	From        string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To          string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// SettleCreditRequest represents a payment against a credit sale
type SettleCreditRequest struct {
	AmountUSD decimal.Decimal `json:"amount_usd" binding:"required"`
}

// ValidateCodeRequest carries a presented security code
type ValidateCodeRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	UnitPriceUSD decimal.Decimal `json:"unit_price_usd"`
	SubtotalUSD  decimal.Decimal `json:"subtotal_usd"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	TenantID      uuid.UUID          `json:"tenant_id"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	Status        string             `json:"status"`
	PaymentType   string             `json:"payment_type"`
	ExchangeRate  decimal.Decimal    `json:"exchange_rate"`
	RateSource    string             `json:"rate_source,omitempty"`
	TotalUSD      decimal.Decimal    `json:"total_usd"`
	TotalVES      decimal.Decimal    `json:"total_ves"`
	PaidUSD       decimal.Decimal    `json:"paid_usd"`
	PaidVES       decimal.Decimal    `json:"paid_ves"`
	BalanceDueUSD decimal.Decimal    `json:"balance_due_usd"`
	DueDate       *time.Time         `json:"due_date,omitempty"`
	DaysOverdue   int                `json:"days_overdue,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SecurityCodeResponse carries a freshly issued per-sale code
type SecurityCodeResponse struct {
	SaleID    uuid.UUID `json:"sale_id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DailyCodeResponse carries the rotating admin override code
type DailyCodeResponse struct {
	Code     string `json:"code"`
	ValidFor string `json:"valid_for"`
}

// ToSaleResponse maps a domain sale to its API representation
func ToSaleResponse(s *sale.Sale, now time.Time) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			UnitPriceUSD: item.UnitPriceUSD,
			SubtotalUSD:  item.SubtotalUSD,
		}
	}

	return SaleResponse{
		ID:            s.ID,
		TenantID:      s.TenantID,
		CustomerID:    s.CustomerID,
		Status:        string(s.Status),
		PaymentType:   string(s.PaymentType),
		ExchangeRate:  s.ExchangeRate,
		TotalUSD:      s.TotalUSD,
		TotalVES:      s.TotalVES,
		PaidUSD:       s.PaidUSD,
		PaidVES:       s.PaidVES,
		BalanceDueUSD: s.BalanceDueUSD,
		DueDate:       s.DueDate,
		DaysOverdue:   s.DaysOverdue(now),
		Items:         items,
		CreatedAt:     s.CreatedAt,
	}
}
