package db

import "fmt"

// DatabaseProvider abstracts the low-level key-value operations so the slot
// store can work with different backends without knowing the implementation.
type DatabaseProvider interface {
	// Get retrieves a value by key; returns nil, nil when the key is absent
	Get(key []byte) ([]byte, error)

	// Put stores a key-value pair
	Put(key, value []byte) error

	// Delete removes a key-value pair
	Delete(key []byte) error

	// Has checks if a key exists
	Has(key []byte) (bool, error)

	// Batch returns a new batch for atomic writes
	Batch() DatabaseBatch

	// Close closes the database connection
	Close() error
}

// DatabaseBatch accumulates writes and commits them atomically.
type DatabaseBatch interface {
	// Put adds a key-value pair to the batch
	Put(key, value []byte)

	// Delete adds a deletion to the batch
	Delete(key []byte)

	// Write commits all operations in the batch
	Write() error

	// Reset clears the batch
	Reset()
}

// Backend names accepted by NewProvider.
const (
	BackendBolt     = "bbolt"
	BackendLevelDB  = "leveldb"
	BackendPostgres = "postgres"
)

// NewProvider creates a provider for the configured backend. File-based
// backends use directory; postgres uses dsn.
func NewProvider(backend, directory, dsn string) (DatabaseProvider, error) {
	switch backend {
	case BackendBolt, "":
		return NewBoltProvider(directory)
	case BackendLevelDB:
		return NewLevelDBProvider(directory)
	case BackendPostgres:
		return NewPostgresProvider(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}
