// Package services coordinates the journal collaborators around the ledger.
package services

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/core"
	"ledger/internal/log"
)

// JournalStore persists posted transactions.
type JournalStore interface {
	Record(ctx context.Context, txn core.Transaction) error
	Close() error
}

// Publisher announces posted transactions to other processes.
type Publisher interface {
	PublishTransactionPosted(ctx context.Context, txn core.Transaction) error
	Close() error
}

// JournalService records transactions locally and then publishes them.
// It satisfies ledger.Journal.
type JournalService struct {
	store     JournalStore
	publisher Publisher
	logger    *log.Logger
}

// NewJournalService wires the store and an optional publisher. Pass a nil
// interface, not a typed nil pointer, to run without a broker.
func NewJournalService(store JournalStore, publisher Publisher, logger *log.Logger) *JournalService {
	if logger == nil {
		logger = log.Discard()
	}
	return &JournalService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentJournal),
	}
}

// Record saves txn and publishes a notification. Only a storage failure is
// returned; the row stays unacknowledged when publishing fails and is picked
// up by the republish loop.
func (s *JournalService) Record(ctx context.Context, txn core.Transaction) error {
	if s.store == nil {
		return errors.New("journal store not configured")
	}
	if err := s.store.Record(ctx, txn); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publish(ctx, txn); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction",
			log.NewFields().
				WithOperation(log.OpPublish).
				WithTransaction(txn).
				WithError(err).
				WithErrorType(log.ErrorTypeNetwork).
				ToSlice()...)
	}
	return nil
}

func (s *JournalService) publish(ctx context.Context, txn core.Transaction) error {
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "AMQP client not available, skipping publish",
			log.FieldTransactionID, txn.ID.String())
		return nil
	}
	return s.publisher.PublishTransactionPosted(ctx, txn)
}

// Close closes both storage and publisher.
func (s *JournalService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close journal service: %w", errors.Join(errs...))
	}

	return nil
}
