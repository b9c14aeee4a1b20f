package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrepos/backend/internal/domain/shared"
	"github.com/ferrepos/backend/internal/domain/shared/valueobject"
)

// Product represents a sellable item in the tenant's catalog.
// Prices are stored in USD; stock is tracked in whole units.
type Product struct {
	shared.TenantAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_product_tenant_name,priority:2"`
	Description string          `gorm:"type:text"`
	Category    string          `gorm:"type:varchar(100);index"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Stock       int             `gorm:"not null;default:0"`
	ImageURL    string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, name, description, category string, unitPrice decimal.Decimal, stock int, imageURL string) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !unitPrice.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price must be greater than zero")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         description,
		Category:            category,
		UnitPrice:           unitPrice,
		Stock:               stock,
		ImageURL:            imageURL,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// ProductPatch carries the fields of a partial product update.
// Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	UnitPrice   *decimal.Decimal
	Stock       *int
	ImageURL    *string
}

// IsEmpty returns true when the patch carries no changes
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil &&
		p.UnitPrice == nil && p.Stock == nil && p.ImageURL == nil
}

// ApplyPatch applies a partial update to the product
func (p *Product) ApplyPatch(patch ProductPatch) error {
	if patch.IsEmpty() {
		return shared.NewDomainError("EMPTY_PATCH", "No fields to update")
	}
	if patch.Name != nil {
		if err := validateProductName(*patch.Name); err != nil {
			return err
		}
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.UnitPrice != nil {
		if !patch.UnitPrice.IsPositive() {
			return shared.NewDomainError("INVALID_PRICE", "Unit price must be greater than zero")
		}
		p.UnitPrice = *patch.UnitPrice
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
		}
		p.Stock = *patch.Stock
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}

	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// DecrementStock reduces the on-hand stock by the given quantity.
// Stock never goes below zero.
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if p.Stock < quantity {
		return shared.ErrInsufficientStock
	}

	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IncrementStock adds restocked units
func (p *Product) IncrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}

	p.Stock += quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// HasStockFor returns true if the on-hand stock covers the quantity
func (p *Product) HasStockFor(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// IsBelowThreshold returns true when stock has fallen at or below
// the restock threshold
func (p *Product) IsBelowThreshold(threshold int) bool {
	return p.Stock <= threshold
}

// UnitPriceMoney returns the unit price as a Money value object
func (p *Product) UnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.UnitPrice)
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
