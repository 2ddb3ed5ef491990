package main

import (
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/budget"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/categorization"
	importservice "github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/service"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
	"github.com/FACorreiaa/indirect-spend-tracker/pkg/config"
	"github.com/FACorreiaa/indirect-spend-tracker/pkg/kvstore"
)

// Dependencies holds all application dependencies wired from config.
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger
	Store  kvstore.Store

	Dataset    *records.Dataset
	Targets    *budget.TargetStore
	Values     *categorization.ValueMappingStore
	Classifier *categorization.Classifier
	Importer   *importservice.Service
}

// NewDependencies builds the dependency graph and loads persisted state.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := kvstore.New(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	dataset := records.NewDataset(store, logger)
	if err := dataset.Load(); err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	targets := budget.NewTargetStore(store, logger)
	if err := targets.Load(); err != nil {
		return nil, fmt.Errorf("failed to load budget targets: %w", err)
	}

	values := categorization.NewValueMappingStore(store, logger)
	if err := values.Load(); err != nil {
		return nil, fmt.Errorf("failed to load category mappings: %w", err)
	}

	classifier := categorization.NewClassifier(values)
	importer := importservice.NewService(dataset, targets, values, classifier, logger)

	return &Dependencies{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Dataset:    dataset,
		Targets:    targets,
		Values:     values,
		Classifier: classifier,
		Importer:   importer,
	}, nil
}

// Close releases the underlying store.
func (d *Dependencies) Close() error {
	return d.Store.Close()
}
