package context

import (
	"context"

	"gorm.io/gorm"
)

type contextKey string

const transactionKey contextKey = "transaction"

// WithTransaction returns a context carrying an open gorm transaction.
// Repositories pick it up so multi-step writes share a single transaction.
func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, transactionKey, tx)
}

// GetTransaction returns the transaction stored in the context, if any.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(transactionKey).(*gorm.DB)
	return tx, ok
}
