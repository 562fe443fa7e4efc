package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{name: "prefix only", parts: nil, expected: "quizdeck"},
		{name: "single part", parts: []string{"snapshot"}, expected: "quizdeck:snapshot"},
		{name: "several parts", parts: []string{"snapshot", "lock", "main"}, expected: "quizdeck:snapshot:lock:main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Key(tt.parts...))
		})
	}
}

func TestSnapshotLockKey(t *testing.T) {
	assert.Equal(t, "quizdeck:snapshot:lock:/var/lib/quizdeck/app.db", SnapshotLockKey("/var/lib/quizdeck/app.db"))
	// equivalent spellings of one file share a lock
	assert.Equal(t, SnapshotLockKey("/var/lib/quizdeck/app.db"), SnapshotLockKey("/var/lib/quizdeck/./data/../app.db"))
	assert.NotEqual(t, SnapshotLockKey("/a.db"), SnapshotLockKey("/b.db"))
}
