// Package backend builds the transaction journal selected by configuration.
package backend

import (
	"context"
	"fmt"

	"ledger/internal/amqp"
	"ledger/internal/journal/memory"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewJournalRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite journal: %w", err)
	}

	client := f.connectAMQP(ctx, config)
	svc := services.NewJournalService(repo, publisherOrNil(client), f.logger)

	f.logger.InfoContext(ctx, "Initialized SQLite journal",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", client != nil)

	return &BackendResult{
		Journal:    svc,
		Repository: repo,
		AMQP:       client,
		Cleanup:    svc.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store := memory.New()

	client := f.connectAMQP(ctx, config)
	if client == nil {
		f.logger.InfoContext(ctx, "Initialized memory journal")
		return &BackendResult{Journal: store, Cleanup: store.Close}, nil
	}

	svc := services.NewJournalService(store, client, f.logger)
	f.logger.InfoContext(ctx, "Initialized memory journal", "amqp_enabled", true)
	return &BackendResult{
		Journal: svc,
		AMQP:    client,
		Cleanup: svc.Close,
	}, nil
}

// connectAMQP returns nil when AMQP is not configured or unreachable; the
// journal then runs without notifications.
func (f *DefaultFactory) connectAMQP(ctx context.Context, config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without notifications",
			log.FieldError, err.Error())
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

func publisherOrNil(client *amqp.Client) services.Publisher {
	if client == nil {
		return nil
	}
	return client
}
