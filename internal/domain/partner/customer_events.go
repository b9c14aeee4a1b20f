package partner

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrepos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerCreated     = "CustomerCreated"
	EventTypeCustomerUpdated     = "CustomerUpdated"
	EventTypeCustomerDeleted     = "CustomerDeleted"
	EventTypeCustomerDebtChanged = "CustomerDebtChanged"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID       `json:"customer_id"`
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID, customer.TenantID),
		CustomerID:      customer.ID,
		Name:            customer.Name,
		Email:           customer.Email,
		CreditLimit:     customer.CreditLimit,
	}
}

// CustomerUpdatedEvent is published when a customer is updated
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID       `json:"customer_id"`
	Name        string          `json:"name"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(customer *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, customer.ID, customer.TenantID),
		CustomerID:      customer.ID,
		Name:            customer.Name,
		CreditLimit:     customer.CreditLimit,
	}
}

// CustomerDeletedEvent is published when a customer is deleted
type CustomerDeletedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
}

// NewCustomerDeletedEvent creates a new CustomerDeletedEvent
func NewCustomerDeletedEvent(customer *Customer) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDeleted, AggregateTypeCustomer, customer.ID, customer.TenantID),
		CustomerID:      customer.ID,
		Name:            customer.Name,
	}
}

// CustomerDebtChangedEvent is published when the outstanding balance moves.
// Delta is positive for new debt and negative for settlements.
type CustomerDebtChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	Delta      decimal.Decimal `json:"delta"`
	Balance    decimal.Decimal `json:"balance"`
}

// NewCustomerDebtChangedEvent creates a new CustomerDebtChangedEvent
func NewCustomerDebtChangedEvent(customer *Customer, delta decimal.Decimal) *CustomerDebtChangedEvent {
	return &CustomerDebtChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDebtChanged, AggregateTypeCustomer, customer.ID, customer.TenantID),
		CustomerID:      customer.ID,
		Delta:           delta,
		Balance:         customer.Balance,
	}
}
