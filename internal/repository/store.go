package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"quizdeck/internal/database"
	"quizdeck/internal/domain"

	"github.com/jmoiron/sqlx"
)

// Store owns the connection to the live database file. The connection can be
// dropped and reopened while the process keeps running, which is what the
// snapshot replacer needs to let the file be swapped underneath it.
//
// Every operation holds mu for reading from the moment it takes the
// connection until it is done with it, so Disconnect only closes the
// connection once nothing is using the file.
type Store struct {
	mu          sync.RWMutex
	db          *sqlx.DB
	path        string
	busyTimeout time.Duration
	open        func(path string, busyTimeout time.Duration) (*sqlx.DB, error)
}

// NewStore opens the database file at path.
func NewStore(path string, busyTimeout time.Duration) (*Store, error) {
	s := &Store{path: path, busyTimeout: busyTimeout, open: database.Open}
	if err := s.Reconnect(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStoreWithDB wraps an already open connection. Reconnect reopens path
// with the sqlite driver.
func NewStoreWithDB(db *sqlx.DB, path string) *Store {
	return &Store{db: db, path: path, open: database.Open}
}

func errDetached() error {
	return domain.NewError(domain.CodeStoreDetached, "data store is disconnected", nil)
}

// DB returns the current connection or STORE_DETACHED. It does not keep the
// store attached; repository code goes through acquire instead.
func (s *Store) DB() (*sqlx.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errDetached()
	}
	return s.db, nil
}

func noRelease() {}

// acquire returns the current connection and keeps it open until release is
// called. A Disconnect that has started waiting blocks new callers, which
// then see STORE_DETACHED once it is done.
func (s *Store) acquire() (*sqlx.DB, func(), error) {
	s.mu.RLock()
	if s.db == nil {
		s.mu.RUnlock()
		return nil, noRelease, errDetached()
	}
	return s.db, s.mu.RUnlock, nil
}

// Executor returns the transaction carried by ctx or the current connection.
// release must be called once the executor is no longer used. Inside a
// transaction the connection is already held, so release does nothing.
func (s *Store) Executor(ctx context.Context) (DBTX, func(), error) {
	if inTransaction(ctx) {
		return GetExecutor(ctx, nil), noRelease, nil
	}
	db, release, err := s.acquire()
	if err != nil {
		return nil, noRelease, err
	}
	return db, release, nil
}

func (s *Store) Path() string { return s.path }

// Attached reports whether the store currently holds a connection.
func (s *Store) Attached() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db != nil
}

// Ping checks the live connection.
func (s *Store) Ping(ctx context.Context) error {
	db, release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()
	return db.PingContext(ctx)
}

// Disconnect waits for in-flight operations and open transactions to finish,
// then closes every handle on the live file. Calling it on a disconnected
// store is a no-op.
func (s *Store) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Reconnect opens the live file again. Calling it on a connected store is a
// no-op.
func (s *Store) Reconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}
	db, err := s.open(s.path, s.busyTimeout)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// BackupTo writes a consistent copy of the live database to dest with
// VACUUM INTO. dest must not exist yet.
func (s *Store) BackupTo(ctx context.Context, dest string) error {
	db, release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup target %s already exists", dest)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, dest); err != nil {
		return fmt.Errorf("failed to back up database: %w", err)
	}
	return nil
}

// Close releases the connection on shutdown.
func (s *Store) Close() error {
	return s.Disconnect()
}
