package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quizdeck/internal/cache"
	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/logger"
	"quizdeck/internal/metrics"
	"quizdeck/internal/util"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// sqliteHeader opens every SQLite database file.
var sqliteHeader = []byte("SQLite format 3\x00")

// SnapshotService replaces the live database file with an uploaded one.
type SnapshotService interface {
	Replace(ctx context.Context, fileName string, src io.Reader) (*dto.SnapshotResponse, error)
}

type snapshotService struct {
	store      domain.StoreHandle
	supervisor domain.Supervisor
	locker     domain.Locker
	stagingDir string
	lockTTL    time.Duration
	metrics    *metrics.Metrics
}

func NewSnapshotService(store domain.StoreHandle, supervisor domain.Supervisor, locker domain.Locker, stagingDir string, lockTTL time.Duration, m *metrics.Metrics) SnapshotService {
	return &snapshotService{
		store:      store,
		supervisor: supervisor,
		locker:     locker,
		stagingDir: stagingDir,
		lockTTL:    lockTTL,
		metrics:    m,
	}
}

// Replace stages the upload, detaches the store and hands the swap to the
// supervisor. Only one replacement runs at a time. When the supervisor fails
// the store is reattached to the live file before the error is returned.
func (s *snapshotService) Replace(ctx context.Context, fileName string, src io.Reader) (resp *dto.SnapshotResponse, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveSnapshot(time.Since(start), err) }()

	log := logger.Get().With(zap.String("file", fileName))

	release, ok, err := s.locker.TryLock(ctx, cache.SnapshotLockKey(s.store.Path()), s.lockTTL)
	if err != nil {
		return nil, domain.NewInternalError("failed to acquire snapshot lock", err)
	}
	if !ok {
		return nil, domain.NewError(domain.CodeSnapshotInProgress, "another database replacement is in progress", nil)
	}
	defer func() {
		if relErr := release(context.Background()); relErr != nil {
			log.Warn("failed to release snapshot lock", zap.Error(relErr))
		}
	}()

	// Received
	staged, err := s.stage(fileName, src)
	if err != nil {
		log.Warn("snapshot staging failed", zap.Error(err))
		return nil, err
	}
	log = log.With(zap.String("staged", staged))

	// Past this point the client going away must not interrupt the swap.
	ctx = context.WithoutCancel(ctx)

	// Detached
	if err := s.store.Disconnect(); err != nil {
		log.Error("failed to detach store", zap.Error(err))
		s.reattach(log)
		return nil, domain.NewInternalError("failed to detach data store", err)
	}
	log.Info("store detached for replacement")

	// Replacing
	outcome, err := s.supervisor.ReplaceAndRestart(ctx, staged)
	if err != nil {
		log.Error("replace procedure failed", zap.Error(err))
		s.reattach(log)
		return nil, snapshotFailure(err, outcome)
	}

	// Reported. The supervisor restarts the service; until then keep serving
	// from the replaced file.
	s.reattach(log)
	log.Info("database replaced", zap.Int("exit_code", outcome.ExitCode), zap.Duration("duration", outcome.Duration))
	return &dto.SnapshotResponse{
		Message:  "database replaced, service restart triggered",
		FileName: fileName,
		ExitCode: outcome.ExitCode,
		Output:   strings.TrimSpace(outcome.Stdout),
	}, nil
}

func stagingFailed(msg string, err error) *domain.DomainError {
	return domain.NewError(domain.CodeStagingFailed, msg, err).WithContext("cause", err.Error())
}

// stage writes src to a new file in the staging dir and checks that it is
// a SQLite database. Rejected uploads and partial writes are removed.
func (s *snapshotService) stage(fileName string, src io.Reader) (string, error) {
	if err := os.MkdirAll(s.stagingDir, 0o755); err != nil {
		return "", stagingFailed("failed to prepare staging directory", err)
	}

	base := slug.Make(strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName)))
	if base == "" {
		base = "upload"
	}
	path := filepath.Join(s.stagingDir, fmt.Sprintf("snapshot-%s-%s.db", util.NewULID(), base))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", stagingFailed("failed to stage snapshot", err)
	}

	header := make([]byte, len(sqliteHeader))
	n, readErr := io.ReadFull(src, header)
	valid := readErr == nil && bytes.Equal(header, sqliteHeader)
	if valid {
		if _, err = f.Write(header[:n]); err == nil {
			_, err = io.Copy(f, src)
		}
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	switch {
	case !valid:
		_ = os.Remove(path)
		return "", domain.NewError(domain.CodeInvalidSnapshot, "uploaded file is not a SQLite database", nil)
	case err != nil:
		_ = os.Remove(path)
		return "", stagingFailed("failed to stage snapshot", err)
	}
	return path, nil
}

func (s *snapshotService) reattach(log *zap.Logger) {
	if err := s.store.Reconnect(); err != nil {
		log.Error("failed to reattach store", zap.Error(err))
	}
}

func snapshotFailure(err error, outcome *domain.ReplaceOutcome) error {
	failure := domain.NewError(domain.CodeSnapshotFailed, "database replacement failed", err)
	if outcome != nil {
		failure.WithContext("exitCode", outcome.ExitCode)
		if stderr := strings.TrimSpace(outcome.Stderr); stderr != "" {
			failure.WithContext("stderr", stderr)
		}
		if stdout := strings.TrimSpace(outcome.Stdout); stdout != "" {
			failure.WithContext("stdout", stdout)
		}
	}
	return failure
}
