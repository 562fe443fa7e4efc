package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"quizdeck/internal/archive"
	"quizdeck/internal/codec"
	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/logger"
	"quizdeck/internal/metrics"

	"go.uber.org/zap"
)

// ImportService loads uploaded interchange files into the store.
type ImportService interface {
	ImportSubjects(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error)
	ImportCategories(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error)
	ImportQuizzes(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error)
	ImportFlashcards(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error)
	ImportUsers(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error)
	// ImportFlashcardsJSON takes flashcards from a raw request body and
	// reports the count instead of a file name.
	ImportFlashcardsJSON(ctx context.Context, data []byte) (*dto.ImportResponse, error)
	// ImportImages extracts a zip bundle into the image directory.
	ImportImages(ctx context.Context, fileName string, r io.ReaderAt, size int64) (*dto.ImportResponse, error)
}

// Repositories bundles the stores the interchange services read and write.
type Repositories struct {
	Subjects   domain.SubjectRepository
	Categories domain.CategoryRepository
	Quizzes    domain.QuizRepository
	Flashcards domain.FlashcardRepository
	Users      domain.UserRepository
}

type importService struct {
	repos     Repositories
	imagesDir string
	unpack    archive.UnpackOptions
	metrics   *metrics.Metrics
}

func NewImportService(repos Repositories, imagesDir string, unpack archive.UnpackOptions, m *metrics.Metrics) ImportService {
	return &importService{repos: repos, imagesDir: imagesDir, unpack: unpack, metrics: m}
}

// importFlat decodes data and hands the whole list to one bulk insert.
func importFlat[T any](
	ctx context.Context,
	s *importService,
	kind domain.EntityKind,
	data []byte,
	decode func([]byte) ([]T, error),
	create func(context.Context, []T) (int64, error),
) (count int64, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveImport(kind, count, time.Since(start), err) }()

	records, err := decode(data)
	if err != nil {
		return 0, err
	}
	return create(ctx, records)
}

func (s *importService) fileResult(kind domain.EntityKind, fileName string, count int64, err error) (*dto.ImportResponse, error) {
	log := logger.Get().With(zap.String("kind", string(kind)), zap.String("file", fileName))
	if err != nil {
		log.Warn("import failed", zap.Error(err))
		return nil, err
	}
	log.Info("import completed", zap.Int64("count", count))
	return &dto.ImportResponse{
		Message:  fmt.Sprintf("%s records imported successfully", kind),
		FileName: fileName,
	}, nil
}

func (s *importService) ImportSubjects(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error) {
	count, err := importFlat(ctx, s, domain.KindSubject, data, codec.DecodeSubjects, s.repos.Subjects.BulkCreate)
	return s.fileResult(domain.KindSubject, fileName, count, err)
}

func (s *importService) ImportCategories(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error) {
	count, err := importFlat(ctx, s, domain.KindCategory, data, codec.DecodeCategories, s.repos.Categories.BulkCreate)
	return s.fileResult(domain.KindCategory, fileName, count, err)
}

func (s *importService) ImportFlashcards(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error) {
	count, err := importFlat(ctx, s, domain.KindFlashcard, data, codec.DecodeFlashcards, s.repos.Flashcards.BulkCreate)
	return s.fileResult(domain.KindFlashcard, fileName, count, err)
}

func (s *importService) ImportUsers(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error) {
	count, err := importFlat(ctx, s, domain.KindUser, data, codec.DecodeUsers, s.repos.Users.BulkCreate)
	return s.fileResult(domain.KindUser, fileName, count, err)
}

func (s *importService) ImportFlashcardsJSON(ctx context.Context, data []byte) (*dto.ImportResponse, error) {
	count, err := importFlat(ctx, s, domain.KindFlashcard, data, codec.DecodeFlashcards, s.repos.Flashcards.BulkCreate)
	if err != nil {
		logger.Get().Warn("flashcard body import failed", zap.Error(err))
		return nil, err
	}
	logger.Get().Info("flashcard body import completed", zap.Int64("count", count))
	return &dto.ImportResponse{
		Message: "flashcards imported successfully",
		Count:   count,
	}, nil
}

// ImportQuizzes creates quizzes one at a time, each with its own deep
// create. The first failure stops the import; quizzes before it stay.
func (s *importService) ImportQuizzes(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error) {
	start := time.Now()
	var created int64
	err := func() error {
		quizzes, err := codec.DecodeQuizzes(data)
		if err != nil {
			return err
		}
		for i := range quizzes {
			if err := s.repos.Quizzes.CreateDeep(ctx, &quizzes[i]); err != nil {
				return withDetail(err, "quiz_index", i)
			}
			created++
		}
		return nil
	}()
	s.metrics.ObserveImport(domain.KindQuiz, created, time.Since(start), err)
	if err != nil && created > 0 {
		logger.Get().Warn("quiz import stopped part way", zap.Int64("committed", created))
	}
	return s.fileResult(domain.KindQuiz, fileName, created, err)
}

func (s *importService) ImportImages(ctx context.Context, fileName string, r io.ReaderAt, size int64) (*dto.ImportResponse, error) {
	start := time.Now()
	n, err := archive.Unpack(ctx, r, size, s.imagesDir, s.unpack)
	if err != nil {
		err = domain.NewArchiveError("failed to extract image archive", err)
	}
	s.metrics.ObserveImport(domain.KindImages, int64(n), time.Since(start), err)

	log := logger.Get().With(zap.String("file", fileName), zap.String("dest", s.imagesDir))
	if err != nil {
		log.Warn("image import failed", zap.Error(err))
		return nil, err
	}
	log.Info("image import completed", zap.Int("files", n))
	return &dto.ImportResponse{
		Message:  "images imported successfully",
		FileName: fileName,
		Count:    int64(n),
	}, nil
}

// withDetail attaches key=value to the DomainError in err, wrapping plain
// errors as internal errors first.
func withDetail(err error, key string, value interface{}) error {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		domainErr = domain.NewInternalError("store operation failed", err)
		err = domainErr
	}
	domainErr.WithContext(key, value)
	return err
}
