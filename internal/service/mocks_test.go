package service

import (
	"context"
	"time"

	"quizdeck/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockSubjectRepository ---
type MockSubjectRepository struct {
	mock.Mock
}

func (m *MockSubjectRepository) BulkCreate(ctx context.Context, subjects []domain.Subject) (int64, error) {
	args := m.Called(ctx, subjects)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubjectRepository) FindAll(ctx context.Context) ([]domain.Subject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subject), args.Error(1)
}

// --- MockCategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) BulkCreate(ctx context.Context, categories []domain.Category) (int64, error) {
	args := m.Called(ctx, categories)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) CreateDeep(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) FindAllDeep(ctx context.Context) ([]domain.Quiz, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quiz), args.Error(1)
}

// --- MockFlashcardRepository ---
type MockFlashcardRepository struct {
	mock.Mock
}

func (m *MockFlashcardRepository) BulkCreate(ctx context.Context, flashcards []domain.Flashcard) (int64, error) {
	args := m.Called(ctx, flashcards)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFlashcardRepository) FindAll(ctx context.Context) ([]domain.Flashcard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flashcard), args.Error(1)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) BulkCreate(ctx context.Context, users []domain.User) (int64, error) {
	args := m.Called(ctx, users)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- MockStoreHandle ---
type MockStoreHandle struct {
	mock.Mock
}

func (m *MockStoreHandle) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockStoreHandle) Disconnect() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStoreHandle) Reconnect() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStoreHandle) BackupTo(ctx context.Context, dest string) error {
	args := m.Called(ctx, dest)
	return args.Error(0)
}

// --- MockSupervisor ---
type MockSupervisor struct {
	mock.Mock
}

func (m *MockSupervisor) ReplaceAndRestart(ctx context.Context, stagedPath string) (*domain.ReplaceOutcome, error) {
	args := m.Called(ctx, stagedPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReplaceOutcome), args.Error(1)
}

// --- MockLocker ---
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(func(context.Context) error), args.Bool(1), args.Error(2)
}

func newMockRepositories() (Repositories, *MockSubjectRepository, *MockCategoryRepository, *MockQuizRepository, *MockFlashcardRepository, *MockUserRepository) {
	subjects := new(MockSubjectRepository)
	categories := new(MockCategoryRepository)
	quizzes := new(MockQuizRepository)
	flashcards := new(MockFlashcardRepository)
	users := new(MockUserRepository)
	return Repositories{
		Subjects:   subjects,
		Categories: categories,
		Quizzes:    quizzes,
		Flashcards: flashcards,
		Users:      users,
	}, subjects, categories, quizzes, flashcards, users
}
