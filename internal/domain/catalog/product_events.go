package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrepos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated  = "ProductCreated"
	EventTypeProductUpdated  = "ProductUpdated"
	EventTypeProductDeleted  = "ProductDeleted"
	EventTypeProductLowStock = "ProductLowStock"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID, product.TenantID),
		ProductID:       product.ID,
		Name:            product.Name,
		Category:        product.Category,
		UnitPrice:       product.UnitPrice,
		Stock:           product.Stock,
	}
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID, product.TenantID),
		ProductID:       product.ID,
		Name:            product.Name,
		UnitPrice:       product.UnitPrice,
		Stock:           product.Stock,
	}
}

// ProductDeletedEvent is published when a product is deleted
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(product *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, product.ID, product.TenantID),
		ProductID:       product.ID,
		Name:            product.Name,
	}
}

// ProductLowStockEvent is published after a sale leaves a product at or
// below the restock threshold
type ProductLowStockEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
}

// NewProductLowStockEvent creates a new ProductLowStockEvent
func NewProductLowStockEvent(product *Product, threshold int) *ProductLowStockEvent {
	return &ProductLowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductLowStock, AggregateTypeProduct, product.ID, product.TenantID),
		ProductID:       product.ID,
		Name:            product.Name,
		Stock:           product.Stock,
		Threshold:       threshold,
	}
}
