package cache

import (
	"path/filepath"
	"strings"
)

// GlobalKeyPrefix namespaces every Redis key the service writes.
const GlobalKeyPrefix = "quizdeck"

// Key joins parts under the global prefix with ":".
func Key(parts ...string) string {
	return strings.Join(append([]string{GlobalKeyPrefix}, parts...), ":")
}

// SnapshotLockKey guards replacement of the database file at dbPath. The
// cleaned path is part of the key so instances serving different files do
// not block each other.
func SnapshotLockKey(dbPath string) string {
	return Key("snapshot", "lock", filepath.ToSlash(filepath.Clean(dbPath)))
}
