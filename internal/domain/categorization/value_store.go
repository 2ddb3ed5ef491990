package categorization

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/indirect-spend-tracker/pkg/kvstore"
)

// ValueMappingStore persists user-confirmed raw-value to category mappings
// globally, so vocabulary from a recurring source system is learned once and
// auto-resolves on every later import.
type ValueMappingStore struct {
	store    kvstore.Store
	logger   *slog.Logger
	mappings map[string]string
}

// NewValueMappingStore creates a store backed by the given kv store.
func NewValueMappingStore(store kvstore.Store, logger *slog.Logger) *ValueMappingStore {
	return &ValueMappingStore{
		store:    store,
		logger:   logger,
		mappings: make(map[string]string),
	}
}

// Load restores the learned mappings. A missing blob is not an error.
func (s *ValueMappingStore) Load() error {
	raw, err := s.store.Get(kvstore.KeyCategoryMappings)
	if errors.Is(err, kvstore.ErrNotFound) {
		s.mappings = make(map[string]string)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load category mappings: %w", err)
	}
	var mappings map[string]string
	if err := json.Unmarshal(raw, &mappings); err != nil {
		return fmt.Errorf("failed to decode category mappings: %w", err)
	}
	if mappings == nil {
		mappings = make(map[string]string)
	}
	s.mappings = mappings
	return nil
}

// Lookup returns the learned category for an exact raw value.
func (s *ValueMappingStore) Lookup(raw string) (string, bool) {
	cat, ok := s.mappings[strings.TrimSpace(raw)]
	return cat, ok && cat != ""
}

// Merge folds user-confirmed mappings into the global table and persists.
// Empty categories are skipped so an unresolved wizard row never erases a
// previously learned value.
func (s *ValueMappingStore) Merge(confirmed map[string]string) {
	changed := false
	for raw, cat := range confirmed {
		raw = strings.TrimSpace(raw)
		if raw == "" || cat == "" {
			continue
		}
		if s.mappings[raw] != cat {
			s.mappings[raw] = cat
			changed = true
		}
	}
	if changed {
		s.save()
	}
}

// All returns a copy of the learned mappings.
func (s *ValueMappingStore) All() map[string]string {
	out := make(map[string]string, len(s.mappings))
	for k, v := range s.mappings {
		out[k] = v
	}
	return out
}

// save persists the table. Failures are non-fatal warnings.
func (s *ValueMappingStore) save() {
	raw, err := json.Marshal(s.mappings)
	if err != nil {
		s.logger.Warn("failed to encode category mappings", "error", err)
		return
	}
	if err := s.store.Set(kvstore.KeyCategoryMappings, raw); err != nil {
		s.logger.Warn("failed to persist category mappings", "error", err)
	}
}
