package repository

import (
	"context"

	"quizdeck/internal/domain"
)

type baseRepository struct {
	store *Store
	tm    domain.TransactionManager
}

func newBaseRepository(store *Store) baseRepository {
	return baseRepository{store: store, tm: NewTransactionManagerAdapter(store)}
}

// bulkInsert inserts items in one transaction. The first failing item
// aborts the whole batch and its index is attached to the error.
func bulkInsert[T any](ctx context.Context, b baseRepository, table string, items []T, build func(item *T) *insertBuilder, assignID func(item *T, id int64)) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	err := b.tm.WithTransaction(ctx, func(ctx context.Context) error {
		db, release, err := b.store.Executor(ctx)
		if err != nil {
			return err
		}
		defer release()
		for i := range items {
			id, err := build(&items[i]).exec(ctx, db)
			if err != nil {
				return storeError(err, "failed to insert into "+table).WithContext("index", i)
			}
			assignID(&items[i], id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

// selectAll runs query and returns every row.
func selectAll[R any](ctx context.Context, b baseRepository, query string) ([]R, error) {
	db, release, err := b.store.Executor(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	var rows []R
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, storeError(err, "failed to read records")
	}
	return rows, nil
}
