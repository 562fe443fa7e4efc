package util

import "database/sql"

// NullStringPtr converts a nullable column to an optional field.
func NullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// NullInt64Ptr converts a nullable column to an optional field.
func NullInt64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}
