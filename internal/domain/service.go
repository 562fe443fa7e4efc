package domain

import (
	"context"
	"time"
)

// SubjectRepository persists subjects.
type SubjectRepository interface {
	// BulkCreate inserts all subjects in one transaction and returns the count.
	BulkCreate(ctx context.Context, subjects []Subject) (int64, error)
	FindAll(ctx context.Context) ([]Subject, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	BulkCreate(ctx context.Context, categories []Category) (int64, error)
	FindAll(ctx context.Context) ([]Category, error)
}

// QuizRepository persists quizzes together with their question graph.
type QuizRepository interface {
	// CreateDeep inserts the quiz, its questions, options and pairs in a
	// single transaction. On error nothing of the quiz is persisted.
	CreateDeep(ctx context.Context, quiz *Quiz) error
	// FindAllDeep returns every quiz with nested questions, options and pairs.
	FindAllDeep(ctx context.Context) ([]Quiz, error)
}

// FlashcardRepository persists flashcards.
type FlashcardRepository interface {
	BulkCreate(ctx context.Context, flashcards []Flashcard) (int64, error)
	FindAll(ctx context.Context) ([]Flashcard, error)
}

// UserRepository persists users.
type UserRepository interface {
	BulkCreate(ctx context.Context, users []User) (int64, error)
	FindAll(ctx context.Context) ([]User, error)
}

// TransactionManager runs fn inside a store transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StoreHandle is the file-level view of the data store used by the
// snapshot replacer and the database exporter.
type StoreHandle interface {
	// Path is the live database file.
	Path() string
	// Disconnect releases every handle on the live file.
	Disconnect() error
	// Reconnect reopens the live file after a Disconnect.
	Reconnect() error
	// BackupTo writes a consistent copy of the live database to dest.
	BackupTo(ctx context.Context, dest string) error
}

// ReplaceOutcome is what the supervisor reports for a replace procedure.
type ReplaceOutcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Supervisor swaps the live data file for a staged one and restarts the
// service. It runs out of process; the caller only observes the outcome.
type Supervisor interface {
	ReplaceAndRestart(ctx context.Context, stagedPath string) (*ReplaceOutcome, error)
}

// Locker provides mutual exclusion for operations that need exclusive
// access to the store.
type Locker interface {
	// TryLock acquires key without waiting. ok is false when another holder
	// owns it. The returned release function must be called once.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}
