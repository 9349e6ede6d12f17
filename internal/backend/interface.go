package backend

import (
	"context"

	"ledger/internal/amqp"
	"ledger/internal/ledger"
	"ledger/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the journal handed to the ledger service plus the
// concrete collaborators the worker needs. Repository and AMQP are nil when
// the configured backend does not provide them.
type BackendResult struct {
	Journal    ledger.Journal
	Repository *storage.JournalRepository
	AMQP       *amqp.Client
	Cleanup    CleanupFunc
}

// Factory creates journal backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// AMQP is optional for every backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of journal backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
