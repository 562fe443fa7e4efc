package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// DSN builds a modernc sqlite connection string for the database file at
// path with foreign keys enforced on every connection. The path is
// percent-encoded per segment so '?', '#' and '%' in file names survive
// sqlite's URI parsing.
func DSN(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	if busyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	}

	segments := strings.Split(filepath.ToSlash(path), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	u := url.URL{Scheme: "file", Opaque: strings.Join(segments, "/"), RawQuery: q.Encode()}
	return u.String()
}

// Open connects to the database file at path, creating the parent directory
// if needed.
func Open(path string, busyTimeout time.Duration) (*sqlx.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.Connect(DriverName, DSN(path, busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite database %s: %w", path, err)
	}

	// A single connection keeps writers from racing each other into
	// SQLITE_BUSY and leaves no stray handles on the file when closed.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}
