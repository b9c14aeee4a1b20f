package sale

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrepos/backend/internal/domain/shared"
	"github.com/ferrepos/backend/internal/domain/shared/valueobject"
)

// SaleStatus represents the settlement state of a sale
type SaleStatus string

const (
	// SaleStatusCompleted means the sale is fully paid
	SaleStatusCompleted SaleStatus = "completed"
	// SaleStatusCredit means part of the total remains owed by the customer
	SaleStatusCredit SaleStatus = "credit"
)

// DefaultCreditDays is the credit term applied when the request omits one
const DefaultCreditDays = 30

// SaleItem is a line of a sale. Product name and unit price are frozen at
// sale time so later catalog edits do not rewrite history.
type SaleItem struct {
	shared.BaseEntity
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	Quantity     int             `gorm:"not null"`
	UnitPriceUSD decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SubtotalUSD  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// Sale is the aggregate root of a point-of-sale transaction. Totals are
// carried in both USD and VES using the exchange rate frozen at creation.
type Sale struct {
	shared.TenantAggregateRoot
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null"`
	PaymentType   PaymentType     `gorm:"type:varchar(20);not null"`
	ExchangeRate  decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	TotalUSD      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalVES      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidUSD       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaidVES       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceDueUSD decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditDays    int             `gorm:"not null;default:0"`
	DueDate       *time.Time      `gorm:"index"`

	ConfirmationCode string     `gorm:"type:varchar(6)"`
	CodeIssuedAt     *time.Time ``

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSaleItemInput is one requested line of a new sale. Product name and
// unit price come from the locked catalog row, not from the request.
type NewSaleItemInput struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   valueobject.Money
}

// Payment is the declared settlement of a new sale
type Payment struct {
	Type    PaymentType
	PaidUSD decimal.Decimal
	PaidVES decimal.Decimal
}

// NewSale builds a sale from locked catalog lines and a frozen exchange
// rate. Cash sales must be covered within the tolerance; any shortfall on
// a credit sale becomes the customer's balance due.
func NewSale(
	tenantID uuid.UUID,
	customerID *uuid.UUID,
	items []NewSaleItemInput,
	rate decimal.Decimal,
	payment Payment,
	creditDays int,
	tolerance decimal.Decimal,
	now time.Time,
) (*Sale, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "A sale requires at least one item")
	}
	if !rate.IsPositive() {
		return nil, shared.ErrUpstreamUnavailable
	}
	if payment.PaidUSD.IsNegative() || payment.PaidVES.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Paid amounts cannot be negative")
	}
	if payment.Type.IsCredit() && customerID == nil {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "Credit sales require a customer")
	}
	if creditDays < 0 {
		return nil, shared.NewDomainError("INVALID_CREDIT_DAYS", "Credit days cannot be negative")
	}

	s := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		PaymentType:         payment.Type,
		ExchangeRate:        rate,
		PaidUSD:             payment.PaidUSD,
		PaidVES:             payment.PaidVES,
	}

	totalUSD := valueobject.Zero(valueobject.USD)
	for _, in := range items {
		if in.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be greater than zero")
		}
		if !in.UnitPrice.IsPositive() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Item unit price must be greater than zero")
		}

		line := in.UnitPrice.MultiplyByInt(int64(in.Quantity))
		var err error
		totalUSD, err = totalUSD.Add(line)
		if err != nil {
			return nil, err
		}

		s.Items = append(s.Items, SaleItem{
			BaseEntity:   shared.NewBaseEntity(),
			SaleID:       s.ID,
			TenantID:     tenantID,
			ProductID:    in.ProductID,
			ProductName:  in.ProductName,
			Quantity:     in.Quantity,
			UnitPriceUSD: in.UnitPrice.Amount(),
			SubtotalUSD:  line.Round(2).Amount(),
		})
	}

	totalUSD = totalUSD.Round(2)
	totalVES, err := totalUSD.ConvertToVES(rate)
	if err != nil {
		return nil, err
	}
	s.TotalUSD = totalUSD.Amount()
	s.TotalVES = totalVES.Round(2).Amount()

	// VES payments count toward the USD total at the frozen rate.
	vesAsUSD, err := valueobject.NewMoneyVES(payment.PaidVES).ConvertToUSD(rate)
	if err != nil {
		return nil, err
	}
	paid, err := valueobject.NewMoneyUSD(payment.PaidUSD).Add(vesAsUSD)
	if err != nil {
		return nil, err
	}
	balance, err := totalUSD.Subtract(paid.Round(2))
	if err != nil {
		return nil, err
	}
	if balance.IsNegative() {
		balance = valueobject.Zero(valueobject.USD)
	}
	balance = balance.Round(2)

	switch payment.Type {
	case PaymentTypeCash:
		over, err := balance.GreaterThan(valueobject.NewMoneyUSD(tolerance))
		if err != nil {
			return nil, err
		}
		if over {
			return nil, shared.ErrPaymentMismatch
		}
		s.BalanceDueUSD = decimal.Zero
		s.Status = SaleStatusCompleted
	case PaymentTypeCredit:
		s.BalanceDueUSD = balance.Amount()
		if balance.IsZero() {
			s.Status = SaleStatusCompleted
		} else {
			s.Status = SaleStatusCredit
			if creditDays == 0 {
				creditDays = DefaultCreditDays
			}
			s.CreditDays = creditDays
			due := now.AddDate(0, 0, creditDays)
			s.DueDate = &due
		}
	default:
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Unrecognized payment type")
	}

	s.AddDomainEvent(NewSaleCreatedEvent(s))

	return s, nil
}

// IsCredit returns true while the sale carries an open balance
func (s *Sale) IsCredit() bool {
	return s.Status == SaleStatusCredit
}

// DaysOverdue returns how many whole days the sale is past due.
// Returns 0 for sales without a due date or not yet due.
func (s *Sale) DaysOverdue(now time.Time) int {
	if s.DueDate == nil || !now.After(*s.DueDate) {
		return 0
	}
	return int(now.Sub(*s.DueDate).Hours() / 24)
}

// SettlePayment applies a received payment against a credit sale
func (s *Sale) SettlePayment(amountUSD decimal.Decimal) error {
	if s.Status != SaleStatusCredit {
		return shared.ErrInvalidState
	}
	amount := valueobject.NewMoneyUSD(amountUSD)
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	balance := valueobject.NewMoneyUSD(s.BalanceDueUSD)
	over, err := amount.GreaterThan(balance)
	if err != nil {
		return err
	}
	if over {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment exceeds balance due")
	}

	paid, err := valueobject.NewMoneyUSD(s.PaidUSD).Add(amount)
	if err != nil {
		return err
	}
	remaining, err := balance.Subtract(amount)
	if err != nil {
		return err
	}
	s.PaidUSD = paid.Amount()
	s.BalanceDueUSD = remaining.Round(2).Amount()
	if s.BalanceDueUSD.IsZero() {
		s.Status = SaleStatusCompleted
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSalePaymentReceivedEvent(s, amountUSD))

	return nil
}

// IssueSecurityCode attaches a fresh single-use confirmation code.
// Reissuing replaces any previous code.
func (s *Sale) IssueSecurityCode(code string, now time.Time) error {
	if len(code) != 6 {
		return shared.NewDomainError("INVALID_CODE", "Security code must be 6 digits")
	}

	s.ConfirmationCode = code
	issuedAt := now
	s.CodeIssuedAt = &issuedAt
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// ValidateSecurityCode checks a presented code against the issued one.
// A successful match consumes the code, and expiry discards it, so
// either way the next attempt requires a fresh issue. Expiry is
// measured against the issue instant.
func (s *Sale) ValidateSecurityCode(code string, now time.Time, ttl time.Duration) error {
	if s.ConfirmationCode == "" || s.CodeIssuedAt == nil {
		return shared.ErrNoActiveCode
	}
	if now.Sub(*s.CodeIssuedAt) > ttl {
		s.clearSecurityCode(now)
		return shared.ErrCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(s.ConfirmationCode), []byte(code)) != 1 {
		return shared.ErrCodeInvalid
	}

	s.clearSecurityCode(now)
	return nil
}

func (s *Sale) clearSecurityCode(now time.Time) {
	s.ConfirmationCode = ""
	s.CodeIssuedAt = nil
	s.UpdatedAt = now
	s.IncrementVersion()
}
