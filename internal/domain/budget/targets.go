// Package budget manages per-year, per-category spend targets. Targets are
// persisted independently from the record collection and are matched to
// records only by category string and year prefix of the record date.
package budget

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/FACorreiaa/indirect-spend-tracker/pkg/kvstore"
)

// TargetStore holds budget targets keyed by year then category, in EUR.
type TargetStore struct {
	store   kvstore.Store
	logger  *slog.Logger
	targets map[string]map[string]float64
}

// NewTargetStore creates a target store backed by the given kv store.
func NewTargetStore(store kvstore.Store, logger *slog.Logger) *TargetStore {
	return &TargetStore{
		store:   store,
		logger:  logger,
		targets: make(map[string]map[string]float64),
	}
}

// Load restores targets from the store. A missing blob leaves the store
// empty and is not an error.
func (s *TargetStore) Load() error {
	raw, err := s.store.Get(kvstore.KeyBudgetTargets)
	if errors.Is(err, kvstore.ErrNotFound) {
		s.targets = make(map[string]map[string]float64)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load budget targets: %w", err)
	}
	var targets map[string]map[string]float64
	if err := json.Unmarshal(raw, &targets); err != nil {
		return fmt.Errorf("failed to decode budget targets: %w", err)
	}
	if targets == nil {
		targets = make(map[string]map[string]float64)
	}
	s.targets = targets
	return nil
}

// Get returns the target for (year, category) and whether one is set.
func (s *TargetStore) Get(year int, category string) (float64, bool) {
	byCat, ok := s.targets[strconv.Itoa(year)]
	if !ok {
		return 0, false
	}
	v, ok := byCat[category]
	return v, ok
}

// Set stores the target for (year, category) and persists.
func (s *TargetStore) Set(year int, category string, amount float64) {
	key := strconv.Itoa(year)
	if s.targets[key] == nil {
		s.targets[key] = make(map[string]float64)
	}
	s.targets[key][category] = amount
	s.save()
}

// Delete removes the target for (year, category) and persists.
func (s *TargetStore) Delete(year int, category string) {
	key := strconv.Itoa(year)
	if byCat, ok := s.targets[key]; ok {
		delete(byCat, category)
		if len(byCat) == 0 {
			delete(s.targets, key)
		}
	}
	s.save()
}

// Merge overwrites the targets for one year with the given per-category
// amounts, keeping any categories not present in the update.
func (s *TargetStore) Merge(year int, byCategory map[string]float64) {
	if len(byCategory) == 0 {
		return
	}
	key := strconv.Itoa(year)
	if s.targets[key] == nil {
		s.targets[key] = make(map[string]float64)
	}
	for cat, v := range byCategory {
		s.targets[key][cat] = v
	}
	s.save()
}

// ForYear returns a copy of the targets set for one year.
func (s *TargetStore) ForYear(year int) map[string]float64 {
	out := make(map[string]float64)
	for cat, v := range s.targets[strconv.Itoa(year)] {
		out[cat] = v
	}
	return out
}

// save persists the targets. Failures are non-fatal warnings.
func (s *TargetStore) save() {
	raw, err := json.Marshal(s.targets)
	if err != nil {
		s.logger.Warn("failed to encode budget targets", "error", err)
		return
	}
	if err := s.store.Set(kvstore.KeyBudgetTargets, raw); err != nil {
		s.logger.Warn("failed to persist budget targets", "error", err)
	}
}
