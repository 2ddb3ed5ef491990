package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/indirect-spend-tracker/pkg/kvstore"
)

// Dataset owns the full in-memory record collection. All mutations go through
// it so the ephemeral indices stay consistent and every change is written
// back to the store.
//
// The dataset is exclusively owned by a single goroutine; callers that need
// concurrent imports must serialize them at a higher layer.
type Dataset struct {
	store   kvstore.Store
	logger  *slog.Logger
	records []Record
}

// MergeResult reports the outcome of appending a batch of records.
type MergeResult struct {
	Added   int
	Skipped int // duplicates by natural key
}

// NewDataset creates a dataset backed by the given store.
func NewDataset(store kvstore.Store, logger *slog.Logger) *Dataset {
	return &Dataset{store: store, logger: logger}
}

// Load restores the collection from the store. A missing blob leaves the
// dataset empty and is not an error.
func (d *Dataset) Load() error {
	raw, err := d.store.Get(kvstore.KeyRecords)
	if errors.Is(err, kvstore.ErrNotFound) {
		d.records = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	var recs []Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return fmt.Errorf("failed to decode records: %w", err)
	}
	d.records = recs
	d.reindex()
	return nil
}

// Records returns the full collection. The slice is owned by the dataset;
// callers must not mutate it.
func (d *Dataset) Records() []Record {
	return d.records
}

// Len returns the number of records in the collection.
func (d *Dataset) Len() int { return len(d.records) }

// Replace swaps the entire collection for the given records.
func (d *Dataset) Replace(recs []Record) {
	d.records = recs
	d.reindex()
	d.save()
}

// Append merges new records into the collection, skipping any whose natural
// key already exists. Returns counts of added and skipped records.
func (d *Dataset) Append(recs []Record) MergeResult {
	existing := make(map[string]struct{}, len(d.records))
	for i := range d.records {
		existing[d.records[i].NaturalKey()] = struct{}{}
	}

	var result MergeResult
	for i := range recs {
		key := recs[i].NaturalKey()
		if _, dup := existing[key]; dup {
			result.Skipped++
			continue
		}
		existing[key] = struct{}{}
		d.records = append(d.records, recs[i])
		result.Added++
	}

	d.reindex()
	d.save()
	return result
}

// Update replaces the record at the given index.
func (d *Dataset) Update(index int, rec Record) error {
	if index < 0 || index >= len(d.records) {
		return fmt.Errorf("record index %d out of range", index)
	}
	rec.Index = index
	d.records[index] = rec
	d.save()
	return nil
}

// Delete removes the record at the given index.
func (d *Dataset) Delete(index int) error {
	if index < 0 || index >= len(d.records) {
		return fmt.Errorf("record index %d out of range", index)
	}
	d.records = append(d.records[:index], d.records[index+1:]...)
	d.reindex()
	d.save()
	return nil
}

// Clear removes every record and the persisted blob.
func (d *Dataset) Clear() {
	d.records = nil
	if err := d.store.Delete(kvstore.KeyRecords); err != nil {
		d.logger.Warn("failed to clear persisted records", "error", err)
	}
}

// reindex recomputes the ephemeral position cache after any mutation.
func (d *Dataset) reindex() {
	for i := range d.records {
		d.records[i].Index = i
	}
}

// save persists the collection. Write failures are surfaced as warnings;
// the in-memory collection stays authoritative for the session.
func (d *Dataset) save() {
	raw, err := json.Marshal(d.records)
	if err != nil {
		d.logger.Warn("failed to encode records", "error", err)
		return
	}
	if err := d.store.Set(kvstore.KeyRecords, raw); err != nil {
		d.logger.Warn("failed to persist records", "error", err, "count", len(d.records))
	}
}
