package store

import (
	"fmt"
	"os"
)

// Backend identifies a full-text store backend.
type Backend string

const (
	// BackendSQLite uses SQLite FTS5 (default). WAL mode tolerates
	// concurrent readers across processes.
	BackendSQLite Backend = "sqlite"

	// BackendBleve uses Bleve v2. BoltDB's exclusive file lock makes it
	// single-process.
	BackendBleve Backend = "bleve"
)

// Open creates an FTSIndex using the given backend. basePath is the store
// artifact path without extension; the backend appends its own
// (.db for SQLite, .bleve for Bleve). An empty basePath opens an
// in-memory index for testing.
func Open(basePath string, cfg Config, backend string) (FTSIndex, error) {
	switch backend {
	case string(BackendSQLite), "":
		var path string
		if basePath != "" {
			path = basePath + ".db"
		}
		return NewSQLiteIndex(path, cfg)

	case string(BackendBleve):
		var path string
		if basePath != "" {
			path = basePath + ".bleve"
		}
		return NewBleveIndex(path, cfg)

	default:
		return nil, fmt.Errorf("unknown store backend: %s (valid options: sqlite, bleve)", backend)
	}
}

// DetectBackend reports which backend an existing artifact at basePath
// uses, or empty when no artifact exists. Useful for opening an index
// built with a different configuration.
func DetectBackend(basePath string) Backend {
	if info, err := os.Stat(basePath + ".db"); err == nil && !info.IsDir() {
		return BackendSQLite
	}
	if info, err := os.Stat(basePath + ".bleve"); err == nil && info.IsDir() {
		return BackendBleve
	}
	return ""
}

// ArtifactNames returns the base names of on-disk store artifacts for a
// given artifact base name, used to exclude them from document scans.
func ArtifactNames(baseName string) []string {
	return []string{baseName + ".db", baseName + ".bleve"}
}
