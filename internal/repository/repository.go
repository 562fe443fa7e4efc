package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertBuilder collects the columns of one INSERT. Columns that are never
// set are left out of the statement so the table defaults apply.
type insertBuilder struct {
	table   string
	columns []string
	args    []interface{}
}

func insertInto(table string) *insertBuilder {
	return &insertBuilder{table: table}
}

func (b *insertBuilder) value(column string, arg interface{}) *insertBuilder {
	b.columns = append(b.columns, column)
	b.args = append(b.args, arg)
	return b
}

// optional adds column only when v is set.
func optional[T any](b *insertBuilder, column string, v *T) *insertBuilder {
	if v == nil {
		return b
	}
	return b.value(column, *v)
}

// optionalEnum adds an enum column as its plain string value.
func optionalEnum[T ~string](b *insertBuilder, column string, v *T) *insertBuilder {
	if v == nil {
		return b
	}
	return b.value(column, string(*v))
}

func (b *insertBuilder) query() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(b.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", b.table, strings.Join(b.columns, ", "), placeholders)
}

// exec runs the insert and returns the generated row id.
func (b *insertBuilder) exec(ctx context.Context, db DBTX) (int64, error) {
	res, err := db.ExecContext(ctx, b.query(), b.args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
