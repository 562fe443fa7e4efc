package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"quizdeck/internal/archive"
	"quizdeck/internal/codec"
	"quizdeck/internal/domain"
	"quizdeck/internal/logger"
	"quizdeck/internal/metrics"
	"quizdeck/internal/util"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// ImagesArchiveName is the download name of the image bundle.
const ImagesArchiveName = "question-images.zip"

// ExportService produces interchange files from the store.
type ExportService interface {
	// ExportJSON returns the attachment name and the indented JSON array
	// for the entity kind keyword.
	ExportJSON(ctx context.Context, kind string) (string, []byte, error)
	// ExportImages streams the image directory as a zip into w.
	ExportImages(ctx context.Context, w io.Writer) (int, error)
	// ExportDatabase writes a consistent copy of the database file and
	// returns its path, the download name, and a cleanup func that removes it.
	ExportDatabase(ctx context.Context) (path string, name string, cleanup func(), err error)
}

// ExportOptions configures the exporter.
type ExportOptions struct {
	ImagesDir  string
	StagingDir string
	// LenientUnknownKind answers an unknown kind with an empty array.
	LenientUnknownKind bool
}

type exportService struct {
	repos   Repositories
	store   domain.StoreHandle
	opts    ExportOptions
	metrics *metrics.Metrics
}

func NewExportService(repos Repositories, store domain.StoreHandle, opts ExportOptions, m *metrics.Metrics) ExportService {
	return &exportService{repos: repos, store: store, opts: opts, metrics: m}
}

func (s *exportService) ExportJSON(ctx context.Context, keyword string) (string, []byte, error) {
	kind, known := domain.ParseExportKind(keyword)
	if !known {
		if !s.opts.LenientUnknownKind {
			return "", nil, domain.NewInvalidKindError(keyword, domain.ExportableKindNames())
		}
		logger.Get().Warn("unknown export kind answered with empty list", zap.String("kind", keyword))
		name := slug.Make(keyword)
		if name == "" {
			name = "export"
		}
		return name + ".json", []byte("[]"), nil
	}

	start := time.Now()
	payload, count, err := s.project(ctx, kind)
	var data []byte
	if err == nil {
		data, err = codec.MarshalExport(payload)
	}
	s.metrics.ObserveExport(kind, count, time.Since(start), err)
	if err != nil {
		logger.Get().Error("export failed", zap.String("kind", string(kind)), zap.Error(err))
		return "", nil, err
	}

	logger.Get().Info("export completed", zap.String("kind", string(kind)), zap.Int("count", count))
	return string(kind) + ".json", data, nil
}

// project reads every record of kind and maps it to its export projection.
func (s *exportService) project(ctx context.Context, kind domain.EntityKind) (interface{}, int, error) {
	switch kind {
	case domain.KindSubject:
		records, err := s.repos.Subjects.FindAll(ctx)
		return codec.EncodeSubjects(records), len(records), err
	case domain.KindCategory:
		records, err := s.repos.Categories.FindAll(ctx)
		return codec.EncodeCategories(records), len(records), err
	case domain.KindQuiz:
		records, err := s.repos.Quizzes.FindAllDeep(ctx)
		return codec.EncodeQuizzes(records), len(records), err
	case domain.KindFlashcard:
		records, err := s.repos.Flashcards.FindAll(ctx)
		return codec.EncodeFlashcards(records), len(records), err
	case domain.KindUser:
		records, err := s.repos.Users.FindAll(ctx)
		return codec.EncodeUsers(records), len(records), err
	}
	return nil, 0, domain.NewInvalidKindError(string(kind), domain.ExportableKindNames())
}

func (s *exportService) ExportImages(ctx context.Context, w io.Writer) (int, error) {
	start := time.Now()
	n, err := archive.Pack(ctx, s.opts.ImagesDir, w)
	if err != nil {
		err = domain.NewArchiveError("failed to build image archive", err)
	}
	s.metrics.ObserveExport(domain.KindImages, n, time.Since(start), err)

	log := logger.Get().With(zap.String("dir", s.opts.ImagesDir))
	if err != nil {
		log.Error("image export failed", zap.Error(err))
		return n, err
	}
	log.Info("image export completed", zap.Int("files", n))
	return n, nil
}

func (s *exportService) ExportDatabase(ctx context.Context) (string, string, func(), error) {
	start := time.Now()
	path, err := s.backup(ctx)
	s.metrics.ObserveExport(domain.KindDatabase, 1, time.Since(start), err)
	if err != nil {
		logger.Get().Error("database export failed", zap.Error(err))
		return "", "", nil, err
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Get().Warn("failed to remove database export", zap.String("path", path), zap.Error(err))
		}
	}
	logger.Get().Info("database export prepared", zap.String("path", path))
	return path, filepath.Base(s.store.Path()), cleanup, nil
}

func (s *exportService) backup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.opts.StagingDir, 0o755); err != nil {
		return "", domain.NewInternalError("failed to create staging directory", err)
	}
	path := filepath.Join(s.opts.StagingDir, fmt.Sprintf("export-%s.db", util.NewULID()))
	if err := s.store.BackupTo(ctx, path); err != nil {
		_ = os.Remove(path)
		if domain.CodeOf(err) != "" {
			return "", err
		}
		return "", domain.NewInternalError("failed to copy database", err)
	}
	return path, nil
}
