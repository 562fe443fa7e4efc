package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"quizdeck/internal/domain"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// storeError turns a driver error into a DomainError. Constraint failures
// get their own codes; the driver message is kept as store_message.
func storeError(err error, op string) *domain.DomainError {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	code, msg := classify(err)
	return domain.NewError(code, fmt.Sprintf("%s: %s", op, msg), err).
		WithContext("store_message", err.Error())
}

func classify(err error) (domain.ErrorCode, string) {
	// database/sql does not export its closed-pool error.
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "sql: database is closed") {
		return domain.CodeStoreDetached, "data store is disconnected"
	}

	constraint := false
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return domain.CodeDanglingReference, "referenced record does not exist"
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return domain.CodeInvalidEnum, "value is not allowed"
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return domain.CodeConstraintViolation, "duplicate value"
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return domain.CodeConstraintViolation, "required value is missing"
		}
		constraint = sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	// Without extended result codes only the primary code is set, so the
	// constraint kind comes from the message sqlite writes for it.
	text := err.Error()
	switch {
	case strings.Contains(text, "FOREIGN KEY constraint failed"):
		return domain.CodeDanglingReference, "referenced record does not exist"
	case strings.Contains(text, "CHECK constraint failed"):
		return domain.CodeInvalidEnum, "value is not allowed"
	case strings.Contains(text, "UNIQUE constraint failed"):
		return domain.CodeConstraintViolation, "duplicate value"
	case strings.Contains(text, "NOT NULL constraint failed"):
		return domain.CodeConstraintViolation, "required value is missing"
	case constraint:
		return domain.CodeConstraintViolation, "constraint failed"
	}
	return domain.CodeInternal, "store operation failed"
}
