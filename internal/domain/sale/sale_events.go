package sale

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrepos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleCreated         = "SaleCreated"
	EventTypeSalePaymentReceived = "SalePaymentReceived"
)

// SaleCreatedEvent is published when a sale commits
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID       `json:"sale_id"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	Status        SaleStatus      `json:"status"`
	PaymentType   PaymentType     `json:"payment_type"`
	TotalUSD      decimal.Decimal `json:"total_usd"`
	TotalVES      decimal.Decimal `json:"total_ves"`
	BalanceDueUSD decimal.Decimal `json:"balance_due_usd"`
	ItemCount     int             `json:"item_count"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, s.ID, s.TenantID),
		SaleID:          s.ID,
		CustomerID:      s.CustomerID,
		Status:          s.Status,
		PaymentType:     s.PaymentType,
		TotalUSD:        s.TotalUSD,
		TotalVES:        s.TotalVES,
		BalanceDueUSD:   s.BalanceDueUSD,
		ItemCount:       len(s.Items),
	}
}

// SalePaymentReceivedEvent is published when a credit sale is paid down
type SalePaymentReceivedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	AmountUSD  decimal.Decimal `json:"amount_usd"`
	BalanceUSD decimal.Decimal `json:"balance_usd"`
	Status     SaleStatus      `json:"status"`
}

// NewSalePaymentReceivedEvent creates a new SalePaymentReceivedEvent
func NewSalePaymentReceivedEvent(s *Sale, amountUSD decimal.Decimal) *SalePaymentReceivedEvent {
	return &SalePaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalePaymentReceived, AggregateTypeSale, s.ID, s.TenantID),
		SaleID:          s.ID,
		AmountUSD:       amountUSD,
		BalanceUSD:      s.BalanceDueUSD,
		Status:          s.Status,
	}
}
