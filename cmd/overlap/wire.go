package main

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/overlap/internal/adapters/driven/cache/lru"
	"github.com/custodia-labs/overlap/internal/adapters/driven/config/file"
	"github.com/custodia-labs/overlap/internal/adapters/driven/corpus/filesystem"
	"github.com/custodia-labs/overlap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/overlap/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/overlap/internal/adapters/driving/cli"
	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
	"github.com/custodia-labs/overlap/internal/core/services"
	"github.com/custodia-labs/overlap/internal/logger"
	"github.com/custodia-labs/overlap/internal/metrics"
)

// app owns the wired services and the resources behind them.
type app struct {
	services *cli.Services
	closers  []func() error
}

// newApp loads settings from configDir and wires the services for the
// configured storage backend.
func newApp(configDir string) (*app, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	a := &app{}
	docStore, checkStore, err := a.openStorage(settings.Storage)
	if err != nil {
		return nil, err
	}

	activity := services.NewActivityService(0, settings.Engine.AlertThreshold)
	engine := services.NewEngineService(docStore, lru.New(settings.Cache.Capacity, settings.Cache.Shards), settings.Engine)
	engine.SetCheckStore(checkStore)
	engine.SetActivity(activity)
	engine.SetMetrics(metrics.Default())

	a.services = &cli.Services{
		Engine:      engine,
		Document:    services.NewDocumentService(docStore, activity),
		Settings:    settingsService,
		Activity:    activity,
		Gatherer:    prometheus.DefaultGatherer,
		OpenCorpus:  func(dir string) cli.WatchableCorpus { return filesystem.New(dir) },
		AppSettings: *settings,
	}
	return a, nil
}

// openStorage returns the document and check stores of the backend.
func (a *app) openStorage(cfg domain.StorageSettings) (driven.DocumentStore, driven.CheckStore, error) {
	logger.Debug("Storage backend: %s", cfg.Backend)

	switch cfg.Backend {
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		logger.Debug("Database: %s", store.Path())
		return store.DocumentStore(), store.CheckStore(), nil

	case domain.StorageMemory:
		return memory.NewDocumentStore(), memory.NewCheckStore(), nil

	case domain.StorageFilesystem:
		if cfg.CorpusDir == "" {
			return nil, nil, fmt.Errorf("%w: the filesystem backend requires %s",
				domain.ErrInvalidParameter, services.KeyCorpusDir)
		}
		return filesystem.New(cfg.CorpusDir), memory.NewCheckStore(), nil

	default:
		return nil, nil, fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, cfg.Backend)
	}
}

// Close releases the storage resources.
func (a *app) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
