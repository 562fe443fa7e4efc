package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHandler_Replace(t *testing.T) {
	deps := newTestDeps()
	deps.snapshot.ReplaceFunc = func(_ context.Context, fileName string, src io.Reader) (*dto.SnapshotResponse, error) {
		data, err := io.ReadAll(src)
		require.NoError(t, err)
		assert.Equal(t, "SQLite format 3\x00", string(data))
		return &dto.SnapshotResponse{Message: "database replaced successfully", FileName: fileName}, nil
	}

	resp, err := deps.app().Test(multipartRequest(t, "/import/database", "file", "backup.db", []byte("SQLite format 3\x00")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.SnapshotResponse
	require.NoError(t, json.Unmarshal(readBody(t, resp), &body))
	assert.Equal(t, "backup.db", body.FileName)
	assert.Zero(t, body.ExitCode)
}

func TestSnapshotHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"busy", domain.NewError(domain.CodeSnapshotInProgress, "a database replacement is already running", nil), http.StatusConflict},
		{"invalid", domain.NewError(domain.CodeInvalidSnapshot, "uploaded file is not a SQLite database", nil), http.StatusBadRequest},
		{"procedure failed", domain.NewError(domain.CodeSnapshotFailed, "replace procedure failed", nil).WithContext("exitCode", 3), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps()
			deps.snapshot.ReplaceFunc = func(context.Context, string, io.Reader) (*dto.SnapshotResponse, error) {
				return nil, tt.err
			}

			resp, err := deps.app().Test(multipartRequest(t, "/import/database", "file", "x.db", []byte("x")))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(readBody(t, resp), &body))
			assert.Equal(t, string(domain.CodeOf(tt.err)), body.Code)
		})
	}
}

func TestSnapshotHandler_MissingFile(t *testing.T) {
	deps := newTestDeps()
	resp, err := deps.app().Test(httptest.NewRequest(http.MethodPost, "/import/database", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthHandler(t *testing.T) {
	deps := newTestDeps()
	resp, err := deps.app().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","storeAttached":true}`, string(readBody(t, resp)))

	deps.store.attached = false
	resp, err = deps.app().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"status":"detached","storeAttached":false}`, string(readBody(t, resp)))
}
