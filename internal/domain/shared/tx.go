package shared

import "context"

// TransactionManager runs a function inside a single storage transaction.
// Repositories participating in the transaction resolve the handle from the
// context passed to fn, so all ledger writes commit or roll back together.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
