package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/ferrepos/backend/internal/domain/shared"
)

type txContextKey struct{}

// WithTx returns a context carrying the given transaction handle.
// Repositories resolve it via their conn helper so the same repository
// instance works inside and outside a transaction.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext extracts the transaction handle from the context, if any
func TxFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx, ok
}

// GormTransactionManager implements shared.TransactionManager on GORM.
// The transaction handle travels in the context so every repository call
// made inside fn joins the same transaction.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new GormTransactionManager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// Execute runs fn inside a database transaction. The transaction commits
// when fn returns nil and rolls back on error or panic.
func (m *GormTransactionManager) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}

// Ensure GormTransactionManager implements shared.TransactionManager
var _ shared.TransactionManager = (*GormTransactionManager)(nil)
