package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/ferrepos/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByIDForTenant finds a user by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username within a tenant
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)

	// FindAllForTenant finds all users for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// ExistsByUsername checks if a username is taken within a tenant
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)

	// DistinctTenantIDs lists every tenant with at least one user
	DistinctTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}
