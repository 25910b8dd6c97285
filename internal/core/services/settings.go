package services

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
	"github.com/custodia-labs/overlap/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyDefaultNGram    = "engine.default_ngram"
	KeyChainThreshold  = "engine.chain_threshold"
	KeyMaxChainDepth   = "engine.max_chain_depth"
	KeyTopMatches      = "engine.top_matches"
	KeyBatchSize       = "engine.batch_size"
	KeyQuickLimit      = "engine.quick_limit"
	KeyAlertThreshold  = "engine.alert_threshold"
	KeyCacheCapacity   = "cache.capacity"
	KeyCacheShards     = "cache.shards"
	KeyServerAddr      = "server.addr"
	KeyAllowedOrigins  = "server.allowed_origins"
	KeyRateLimit       = "server.rate_limit"
	KeyShutdownTimeout = "server.shutdown_timeout"
	KeyStorageBackend  = "storage.backend"
	KeyDataDir         = "storage.data_dir"
	KeyCorpusDir       = "corpus.dir"
)

// Environment variables that override stored settings.
const (
	EnvStorageBackend = "OVERLAP_STORAGE_BACKEND"
	EnvDataDir        = "OVERLAP_DATA_DIR"
	EnvCorpusDir      = "OVERLAP_CORPUS_DIR"
	EnvServerAddr     = "OVERLAP_ADDR"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults; environment overrides
// are applied last.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Engine: domain.EngineSettings{
			DefaultNGram:   s.getNGram(defaults.Engine.DefaultNGram),
			ChainThreshold: s.getRatio(KeyChainThreshold, defaults.Engine.ChainThreshold),
			MaxChainDepth:  s.getInt(KeyMaxChainDepth, defaults.Engine.MaxChainDepth),
			TopMatches:     s.getInt(KeyTopMatches, defaults.Engine.TopMatches),
			BatchSize:      s.getInt(KeyBatchSize, defaults.Engine.BatchSize),
			QuickLimit:     s.getInt(KeyQuickLimit, defaults.Engine.QuickLimit),
			AlertThreshold: s.getRatio(KeyAlertThreshold, defaults.Engine.AlertThreshold),
		},
		Cache: domain.CacheSettings{
			Capacity: s.getInt(KeyCacheCapacity, defaults.Cache.Capacity),
			Shards:   s.getInt(KeyCacheShards, defaults.Cache.Shards),
		},
		Server: domain.ServerSettings{
			Addr:            s.getString(KeyServerAddr, defaults.Server.Addr),
			AllowedOrigins:  s.getStringSlice(KeyAllowedOrigins, defaults.Server.AllowedOrigins),
			RateLimit:       s.getInt(KeyRateLimit, defaults.Server.RateLimit),
			ShutdownTimeout: s.getDuration(KeyShutdownTimeout, defaults.Server.ShutdownTimeout),
		},
		Storage: domain.StorageSettings{
			Backend:   s.getBackend(defaults.Storage.Backend),
			DataDir:   s.configStore.GetString(KeyDataDir),
			CorpusDir: s.configStore.GetString(KeyCorpusDir),
		},
	}

	if v := s.getenv(EnvStorageBackend); v != "" {
		if backend := domain.StorageBackend(v); backend.IsValid() {
			settings.Storage.Backend = backend
		}
	}
	if v := s.getenv(EnvDataDir); v != "" {
		settings.Storage.DataDir = v
	}
	if v := s.getenv(EnvCorpusDir); v != "" {
		settings.Storage.CorpusDir = v
	}
	if v := s.getenv(EnvServerAddr); v != "" {
		settings.Server.Addr = v
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyDefaultNGram, settings.Engine.DefaultNGram},
		{KeyChainThreshold, settings.Engine.ChainThreshold},
		{KeyMaxChainDepth, settings.Engine.MaxChainDepth},
		{KeyTopMatches, settings.Engine.TopMatches},
		{KeyBatchSize, settings.Engine.BatchSize},
		{KeyQuickLimit, settings.Engine.QuickLimit},
		{KeyAlertThreshold, settings.Engine.AlertThreshold},
		{KeyCacheCapacity, settings.Cache.Capacity},
		{KeyCacheShards, settings.Cache.Shards},
		{KeyServerAddr, settings.Server.Addr},
		{KeyAllowedOrigins, settings.Server.AllowedOrigins},
		{KeyRateLimit, settings.Server.RateLimit},
		{KeyShutdownTimeout, settings.Server.ShutdownTimeout.String()},
		{KeyStorageBackend, settings.Storage.Backend.String()},
		{KeyDataDir, settings.Storage.DataDir},
		{KeyCorpusDir, settings.Storage.CorpusDir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return s.configStore.Save()
}

// Set parses value according to key and stores it.
func (s *SettingsService) Set(key, value string) error {
	var parsed any
	switch key {
	case KeyDefaultNGram:
		n, err := strconv.Atoi(value)
		if err != nil || n < domain.MinNGram || n > domain.MaxNGram {
			return fmt.Errorf("%w: %s must be between %d and %d",
				domain.ErrInvalidParameter, key, domain.MinNGram, domain.MaxNGram)
		}
		parsed = n
	case KeyMaxChainDepth, KeyTopMatches, KeyBatchSize, KeyQuickLimit,
		KeyCacheCapacity, KeyCacheShards, KeyRateLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidParameter, key)
		}
		parsed = n
	case KeyChainThreshold, KeyAlertThreshold:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || f < 0 || f > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1]", domain.ErrInvalidParameter, key)
		}
		parsed = f
	case KeyShutdownTimeout:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidParameter, key, err)
		}
		parsed = value
	case KeyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, value)
		}
		parsed = value
	case KeyAllowedOrigins:
		parsed = splitList(value)
	case KeyServerAddr, KeyDataDir, KeyCorpusDir:
		parsed = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidParameter, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return s.configStore.Save()
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, settings.Storage.Backend)
	}
	if settings.Storage.Backend == domain.StorageFilesystem && settings.Storage.CorpusDir == "" {
		return fmt.Errorf("%w: storage backend %q requires %s",
			domain.ErrInvalidParameter, settings.Storage.Backend, KeyCorpusDir)
	}
	if settings.Cache.Shards > settings.Cache.Capacity {
		return fmt.Errorf("%w: %s exceeds %s", domain.ErrInvalidParameter, KeyCacheShards, KeyCacheCapacity)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getRatio(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(key)
	if val <= 0 || val > 1 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s.configStore.GetString(key))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getNGram(defaultVal int) int {
	n := s.configStore.GetInt(KeyDefaultNGram)
	if n < domain.MinNGram || n > domain.MaxNGram {
		return defaultVal
	}
	return n
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(KeyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
