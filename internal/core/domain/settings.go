package domain

import "time"

const unknownDescription = "Unknown"

// StorageBackend selects where the corpus lives.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite keeps documents and check history in a SQLite file.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps everything in process memory.
	StorageMemory StorageBackend = "memory"

	// StorageFilesystem reads documents from a directory of text, markdown and PDF files.
	StorageFilesystem StorageBackend = "filesystem"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageMemory, StorageFilesystem:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (persistent)"
	case StorageMemory:
		return "Memory (lost on exit)"
	case StorageFilesystem:
		return "Filesystem (read-only directory)"
	default:
		return unknownDescription
	}
}

// EngineSettings tunes the similarity engine.
type EngineSettings struct {
	// DefaultNGram is used when a request does not specify n.
	DefaultNGram int

	// ChainThreshold is the edge cutoff for the relationship chain.
	ChainThreshold float64

	// MaxChainDepth caps chain length; 0 means unbounded.
	MaxChainDepth int

	// TopMatches is how many matches a synchronous check returns.
	TopMatches int

	// BatchSize is the number of documents per statistics batch.
	BatchSize int

	// QuickLimit caps quick-check results.
	QuickLimit int

	// AlertThreshold raises an alert when a document check scores above it.
	AlertThreshold float64
}

// CacheSettings sizes the memoisation cache.
type CacheSettings struct {
	// Capacity is the total number of entries across all shards.
	Capacity int

	// Shards is the number of independently locked partitions.
	Shards int
}

// ServerSettings configures the HTTP adapter.
type ServerSettings struct {
	Addr           string
	AllowedOrigins []string

	// RateLimit is requests per second per server; 0 disables limiting.
	RateLimit int

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// StorageSettings selects and locates the corpus.
type StorageSettings struct {
	Backend StorageBackend

	// DataDir holds the SQLite database.
	DataDir string

	// CorpusDir is read by the filesystem backend.
	CorpusDir string
}

// Settings is the full application configuration.
type Settings struct {
	Engine  EngineSettings
	Cache   CacheSettings
	Server  ServerSettings
	Storage StorageSettings
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Engine: EngineSettings{
			DefaultNGram:   3,
			ChainThreshold: 0.3,
			MaxChainDepth:  0,
			TopMatches:     5,
			BatchSize:      10,
			QuickLimit:     5,
			AlertThreshold: 0.7,
		},
		Cache: CacheSettings{
			Capacity: 100000,
			Shards:   16,
		},
		Server: ServerSettings{
			Addr:            ":5000",
			AllowedOrigins:  []string{"http://localhost:5000", "http://127.0.0.1:5000"},
			RateLimit:       50,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
	}
}
