package repository

import (
	"context"
	"fmt"

	"quizdeck/internal/domain"
	"quizdeck/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type contextKey string

const (
	// TransactionContextKey carries the active *sqlx.Tx.
	TransactionContextKey contextKey = "tx"
)

// GetExecutor returns the transaction stored in ctx, or db when there is none.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx := ctx.Value(TransactionContextKey); tx != nil {
		if sqlxTx, ok := tx.(*sqlx.Tx); ok {
			return sqlxTx
		}
	}
	return db
}

func inTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(TransactionContextKey).(*sqlx.Tx)
	return ok
}

// TransactionManagerAdapter runs work inside a transaction on the store's
// current connection.
type TransactionManagerAdapter struct {
	store *Store
}

func NewTransactionManagerAdapter(store *Store) domain.TransactionManager {
	return &TransactionManagerAdapter{store: store}
}

// WithTransaction runs fn in a transaction. A call made while a transaction
// is already in ctx joins it instead of opening another. The store stays
// attached until the transaction has committed or rolled back.
func (tma *TransactionManagerAdapter) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTransaction(ctx) {
		return fn(ctx)
	}

	db, release, err := tma.store.acquire()
	if err != nil {
		return err
	}
	defer release()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return storeError(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logger.Get().Error("failed to rollback transaction", zap.Error(rollbackErr))
			}
			panic(p)
		}
	}()

	txCtx := context.WithValue(ctx, TransactionContextKey, tx)

	if err := fn(txCtx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("failed to rollback transaction: %v (original error: %w)", rollbackErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
