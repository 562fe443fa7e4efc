package util

import (
	"database/sql"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULID(t *testing.T) {
	a := NewULID()
	b := NewULID()

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b)

	_, err := ulid.Parse(a)
	require.NoError(t, err)
}

func TestNullStringPtr(t *testing.T) {
	assert.Nil(t, NullStringPtr(sql.NullString{}))

	got := NullStringPtr(sql.NullString{String: "", Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, "", *got)
}

func TestNullInt64Ptr(t *testing.T) {
	assert.Nil(t, NullInt64Ptr(sql.NullInt64{}))

	got := NullInt64Ptr(sql.NullInt64{Int64: 600, Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, int64(600), *got)
}
