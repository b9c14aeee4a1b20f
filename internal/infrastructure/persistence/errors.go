package persistence

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/ferrepos/backend/internal/domain/shared"
)

// Postgres error codes relevant to write paths
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps low-level database errors to domain errors so the
// application layer never sees driver types. The gorm postgres driver
// runs on pgx, so driver errors arrive as *pgconn.PgError.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("A record with the same unique value already exists (%s)", pgErr.ConstraintName))
		case pgForeignKeyViolation:
			return shared.ErrHasReferences
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return shared.ErrHasReferences
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}

	return err
}
