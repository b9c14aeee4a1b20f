package identity

import (
	"strings"

	"github.com/ferrepos/backend/internal/domain/shared"
)

// Role is the single role a user holds within a tenant
type Role string

const (
	// RoleAdmin manages the catalog, customers, users, and credit overrides
	RoleAdmin Role = "admin"
	// RoleSeller registers sales and views alerts
	RoleSeller Role = "seller"
	// RoleWarehouse manages stock and receives restock alerts
	RoleWarehouse Role = "warehouse"
)

// ParseRole maps free-form role input to a Role. The Spanish aliases
// come from the storefront clients.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrador":
		return RoleAdmin, nil
	case "seller", "vendedor":
		return RoleSeller, nil
	case "warehouse", "almacenista":
		return RoleWarehouse, nil
	default:
		return "", shared.NewDomainError("INVALID_ROLE", "Unrecognized role")
	}
}

// IsAdmin returns true for the admin role
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
