package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/ferrepos/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByName finds a product by its exact name within a tenant
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*Product, error)

	// FindAllForTenant finds all products for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindBelowStock finds products at or below the given stock level
	FindBelowStock(ctx context.Context, tenantID uuid.UUID, threshold int) ([]Product, error)

	// LockForSale loads a product by ID within a tenant holding a row lock
	// for the duration of the surrounding transaction
	LockForSale(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// DecrementStock atomically reduces stock by quantity, guarded so the
	// column never goes negative. Returns shared.ErrInsufficientStock when
	// the guard rejects the write.
	DecrementStock(ctx context.Context, tenantID, id uuid.UUID, quantity int) error

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DeleteForTenant deletes a product within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts products for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
