// Package kvstore provides the key-value blob persistence used for the record
// collection, budget targets and learned category mappings. It offers file and
// SQLite backed implementations behind a single interface.
package kvstore

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no value exists for a key.
var ErrNotFound = errors.New("kvstore: key not found")

// Store defines the get/set/clear contract the spend tracker core needs from
// its persistence layer. Values are opaque JSON blobs; the store never
// inspects them.
type Store interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Set stores the blob under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes the value stored under key. Deleting a missing key is
	// not an error.
	Delete(key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Keys for the three independently persisted blobs.
const (
	KeyRecords          = "indirect_spend_data"
	KeyBudgetTargets    = "category_targets"
	KeyCategoryMappings = "sap_category_mappings"
)

// BackendType identifies the persistence backend
type BackendType string

const (
	BackendFile   BackendType = "file"
	BackendSQLite BackendType = "sqlite"
)

// Config holds kvstore configuration
type Config struct {
	Backend    BackendType
	Dir        string // base directory for the file backend
	SQLitePath string // database path for the sqlite backend
}

// New creates a Store implementation based on configuration
func New(cfg *Config) (Store, error) {
	switch cfg.Backend {
	case BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case BackendFile:
		fallthrough
	default:
		return NewFileStore(cfg.Dir)
	}
}

// validateKey rejects keys that would escape the storage namespace
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("kvstore: empty key")
	}
	for _, r := range key {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-') {
			return fmt.Errorf("kvstore: invalid key %q", key)
		}
	}
	return nil
}
