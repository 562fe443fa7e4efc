package server_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"quizdeck/internal/adapter"
	"quizdeck/internal/config"
	"quizdeck/internal/database"
	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/metrics"
	"quizdeck/internal/middleware"
	"quizdeck/internal/repository"
	"quizdeck/internal/server"
	"quizdeck/internal/supervisor"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app   *fiber.App
	cfg   *config.Config
	store *repository.Store
}

func newTestServer(t *testing.T, replaceScript string) *testServer {
	t.Helper()
	workDir := t.TempDir()
	cfg := &config.Config{
		App:      config.AppConfig{Env: "test", WorkDir: workDir},
		Server:   config.ServerConfig{BodyLimitMB: config.DefaultBodyLimitMB},
		DB:       config.DBConfig{Path: "data/quizdeck.db", BusyTimeout: time.Second},
		Storage:  config.StorageConfig{ImagesDir: "uploads/question-images", StagingDir: "data/staging"},
		Archive:  config.ArchiveConfig{ExtractWorkers: 2},
		Snapshot: config.SnapshotConfig{Command: replaceScript, Timeout: 5 * time.Second, LockTTL: time.Minute},
	}

	require.NoError(t, database.Migrate(cfg.DBPath()))
	store, err := repository.NewStore(cfg.DBPath(), cfg.DB.BusyTimeout)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	reg := prometheus.NewRegistry()
	app := server.New(cfg, server.Components{
		Store:      store,
		Locker:     adapter.NewLocalLockAdapter(),
		Supervisor: supervisor.NewProcessSupervisor(cfg.SnapshotCommand(), nil, cfg.DBPath(), cfg.Snapshot.Timeout),
		Metrics:    metrics.New(reg),
		Gatherer:   reg,
	})
	return &testServer{app: app, cfg: cfg, store: store}
}

func (s *testServer) upload(t *testing.T, target, fileName string, content []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := s.app.Test(req, 10_000)
	require.NoError(t, err)
	return resp
}

func (s *testServer) get(t *testing.T, target string) *http.Response {
	t.Helper()
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, target, nil), 10_000)
	require.NoError(t, err)
	return resp
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestServer_ImportExportOverHTTP(t *testing.T) {
	s := newTestServer(t, "true")

	resp := s.upload(t, "/import/subject", "subjects.json", []byte(`[{"name":"Physics"},{"name":"Chemistry"}]`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"subject records imported successfully","fileName":"subjects.json"}`, bodyOf(t, resp))

	resp = s.upload(t, "/import/category", "categories.json", []byte(`{"name":"Mechanics","subject_id":1}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.upload(t, "/import/category", "bad.json", []byte(`{"name":"Orphan","subject_id":99}`))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var errBody middleware.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(bodyOf(t, resp)), &errBody))
	assert.Equal(t, string(domain.CodeDanglingReference), errBody.Code)

	resp = s.get(t, "/export/json?type=subject")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "subject.json")
	assert.JSONEq(t, `[{"name":"Physics"},{"name":"Chemistry"}]`, bodyOf(t, resp))

	resp = s.get(t, "/export/json?type=category")
	assert.JSONEq(t, `[{"name":"Mechanics","subject_id":1}]`, bodyOf(t, resp))

	resp = s.get(t, "/export/json?type=widgets")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, bodyOf(t, resp), `quizdeck_import_requests_total{kind="subject",outcome="success"} 1`)
}

func TestServer_ImagesRoundTrip(t *testing.T) {
	s := newTestServer(t, "true")
	imagesDir := s.cfg.ImagesDir()
	require.NoError(t, os.MkdirAll(imagesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "q1.png"), []byte("png"), 0o644))

	resp := s.get(t, "/export/images")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	archive := []byte(bodyOf(t, resp))

	require.NoError(t, os.RemoveAll(imagesDir))
	resp = s.upload(t, "/import/images", "question-images.zip", archive)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.ImportResponse
	require.NoError(t, json.Unmarshal([]byte(bodyOf(t, resp)), &body))
	assert.EqualValues(t, 1, body.Count)

	b, err := os.ReadFile(filepath.Join(imagesDir, "q1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(b))
}

func TestServer_LargeMultipartUploadAllowed(t *testing.T) {
	s := newTestServer(t, "true")

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "big.png", Method: zip.Store})
	require.NoError(t, err)
	_, err = w.Write(bytes.Repeat([]byte{0x89}, 11*1024*1024))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	resp := s.upload(t, "/import/images", "question-images.zip", archive.Bytes())
	require.Equal(t, http.StatusOK, resp.StatusCode, bodyOf(t, resp))

	info, err := os.Stat(filepath.Join(s.cfg.ImagesDir(), "big.png"))
	require.NoError(t, err)
	assert.EqualValues(t, 11*1024*1024, info.Size())

	// raw JSON keeps its own 10 MB cap
	oversized := append([]byte(`[{"front":"`), bytes.Repeat([]byte("x"), 11*1024*1024)...)
	req := httptest.NewRequest(http.MethodPost, "/import/flashcards/json", bytes.NewReader(oversized))
	req.Header.Set("Content-Type", "application/json")
	resp, err = s.app.Test(req, 10_000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestServer_DatabaseExportIsSQLite(t *testing.T) {
	s := newTestServer(t, "true")

	resp := s.get(t, "/export/database")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "quizdeck.db")
	assert.True(t, strings.HasPrefix(bodyOf(t, resp), "SQLite format 3\x00"))
}

func TestServer_ReplaceDatabase(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("replace procedure is a shell script")
	}
	script := filepath.Join(t.TempDir(), "replace.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ncp \"$1\" \"$2\"\n"), 0o755))
	s := newTestServer(t, script)

	resp := s.upload(t, "/import/subject", "subjects.json", []byte(`{"name":"Physics"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// an empty but migrated database replaces the live one
	replacement := filepath.Join(t.TempDir(), "empty.db")
	require.NoError(t, database.Migrate(replacement))
	data, err := os.ReadFile(replacement)
	require.NoError(t, err)

	resp = s.upload(t, "/import/database", "empty.db", data)
	require.Equal(t, http.StatusOK, resp.StatusCode, bodyOf(t, resp))
	assert.True(t, s.store.Attached())

	resp = s.get(t, "/export/json?type=subject")
	assert.Equal(t, "[]", bodyOf(t, resp))

	resp = s.upload(t, "/import/database", "notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
