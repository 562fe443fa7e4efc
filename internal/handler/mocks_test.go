package handler_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizdeck/internal/dto"
	"quizdeck/internal/handler"
	"quizdeck/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockImportService struct {
	ImportSubjectsFunc       func(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error)
	ImportCategoriesFunc     func(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error)
	ImportQuizzesFunc        func(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error)
	ImportFlashcardsFunc     func(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error)
	ImportUsersFunc          func(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error)
	ImportFlashcardsJSONFunc func(ctx context.Context, data []byte) (*dto.ImportResponse, error)
	ImportImagesFunc         func(ctx context.Context, fileName string, r io.ReaderAt, size int64) (*dto.ImportResponse, error)
}

func (m *MockImportService) ImportSubjects(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error) {
	if m.ImportSubjectsFunc != nil {
		return m.ImportSubjectsFunc(ctx, fileName, data)
	}
	panic("MockImportService.ImportSubjectsFunc not implemented")
}

func (m *MockImportService) ImportCategories(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error) {
	if m.ImportCategoriesFunc != nil {
		return m.ImportCategoriesFunc(ctx, fileName, data)
	}
	panic("MockImportService.ImportCategoriesFunc not implemented")
}

func (m *MockImportService) ImportQuizzes(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error) {
	if m.ImportQuizzesFunc != nil {
		return m.ImportQuizzesFunc(ctx, fileName, data)
	}
	panic("MockImportService.ImportQuizzesFunc not implemented")
}

func (m *MockImportService) ImportFlashcards(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error) {
	if m.ImportFlashcardsFunc != nil {
		return m.ImportFlashcardsFunc(ctx, fileName, data)
	}
	panic("MockImportService.ImportFlashcardsFunc not implemented")
}

func (m *MockImportService) ImportUsers(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error) {
	if m.ImportUsersFunc != nil {
		return m.ImportUsersFunc(ctx, fileName, data)
	}
	panic("MockImportService.ImportUsersFunc not implemented")
}

func (m *MockImportService) ImportFlashcardsJSON(ctx context.Context, data []byte) (*dto.ImportResponse, error) {
	if m.ImportFlashcardsJSONFunc != nil {
		return m.ImportFlashcardsJSONFunc(ctx, data)
	}
	panic("MockImportService.ImportFlashcardsJSONFunc not implemented")
}

func (m *MockImportService) ImportImages(ctx context.Context, fileName string, r io.ReaderAt, size int64) (*dto.ImportResponse, error) {
	if m.ImportImagesFunc != nil {
		return m.ImportImagesFunc(ctx, fileName, r, size)
	}
	panic("MockImportService.ImportImagesFunc not implemented")
}

type MockExportService struct {
	ExportJSONFunc     func(ctx context.Context, kind string) (string, []byte, error)
	ExportImagesFunc   func(ctx context.Context, w io.Writer) (int, error)
	ExportDatabaseFunc func(ctx context.Context) (string, string, func(), error)
}

func (m *MockExportService) ExportJSON(ctx context.Context, kind string) (string, []byte, error) {
	if m.ExportJSONFunc != nil {
		return m.ExportJSONFunc(ctx, kind)
	}
	panic("MockExportService.ExportJSONFunc not implemented")
}

func (m *MockExportService) ExportImages(ctx context.Context, w io.Writer) (int, error) {
	if m.ExportImagesFunc != nil {
		return m.ExportImagesFunc(ctx, w)
	}
	panic("MockExportService.ExportImagesFunc not implemented")
}

func (m *MockExportService) ExportDatabase(ctx context.Context) (string, string, func(), error) {
	if m.ExportDatabaseFunc != nil {
		return m.ExportDatabaseFunc(ctx)
	}
	panic("MockExportService.ExportDatabaseFunc not implemented")
}

type MockSnapshotService struct {
	ReplaceFunc func(ctx context.Context, fileName string, src io.Reader) (*dto.SnapshotResponse, error)
}

func (m *MockSnapshotService) Replace(ctx context.Context, fileName string, src io.Reader) (*dto.SnapshotResponse, error) {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, fileName, src)
	}
	panic("MockSnapshotService.ReplaceFunc not implemented")
}

type fakeStore struct{ attached bool }

func (f fakeStore) Attached() bool { return f.attached }

// --- Helpers ---

type testDeps struct {
	imports  *MockImportService
	exports  *MockExportService
	snapshot *MockSnapshotService
	store    fakeStore
}

func newTestDeps() *testDeps {
	return &testDeps{
		imports:  &MockImportService{},
		exports:  &MockExportService{},
		snapshot: &MockSnapshotService{},
		store:    fakeStore{attached: true},
	}
}

func (d *testDeps) app() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	handler.RegisterRoutes(app, handler.Handlers{
		Import:   handler.NewImportHandler(d.imports),
		Export:   handler.NewExportHandler(d.exports),
		Snapshot: handler.NewSnapshotHandler(d.snapshot),
		Health:   handler.NewHealthHandler(d.store),
	})
	return app
}

// multipartRequest builds a POST with content under field.
func multipartRequest(t *testing.T, target, field, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}
