package sale

import (
	"context"

	"github.com/google/uuid"

	"github.com/ferrepos/backend/internal/domain/shared"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByIDForTenant finds a sale with its items within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)

	// FindAllForTenant finds all sales for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Sale, error)

	// FindPendingCredits finds credit sales with an open balance
	FindPendingCredits(ctx context.Context, tenantID uuid.UUID) ([]Sale, error)

	// Save creates or updates a sale with its items
	Save(ctx context.Context, s *Sale) error

	// SaveWithLock updates a sale guarded by its optimistic version
	SaveWithLock(ctx context.Context, s *Sale) error

	// CountByProduct counts sale items referencing a product
	CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)

	// CountByCustomer counts sales referencing a customer
	CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)

	// CountForTenant counts sales for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
