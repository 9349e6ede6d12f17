// Package worker processes journal events delivered over AMQP.
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// Journal is the delivery bookkeeping the worker needs from storage.
type Journal interface {
	ListUnacknowledged(ctx context.Context, limit int) ([]storage.JournalEntry, error)
	MarkAcknowledged(ctx context.Context, id uuid.UUID) error
}

type Publisher interface {
	PublishTransactionPosted(ctx context.Context, txn core.Transaction) error
}

// AckWorker confirms delivered transactions in the journal and re-sends the
// ones that were never confirmed.
type AckWorker struct {
	journal   Journal
	publisher Publisher
	batchSize int
	logger    *log.Logger
}

func NewAckWorker(journal Journal, publisher Publisher, batchSize int, logger *log.Logger) *AckWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &AckWorker{
		journal:   journal,
		publisher: publisher,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleTransactionPosted marks the message's transaction as delivered.
// Malformed messages and unknown ids are logged and dropped; storage errors are
// returned so the delivery is requeued.
func (w *AckWorker) HandleTransactionPosted(ctx context.Context, msg *amqp.TransactionPostedMessage) error {
	txn, err := msg.Transaction()
	if err != nil {
		w.logger.ErrorContext(ctx, "Dropping invalid transaction message",
			log.FieldTransactionID, msg.ID.String(),
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeValidation)
		return nil
	}

	err = w.journal.MarkAcknowledged(ctx, txn.ID)
	if errors.Is(err, storage.ErrNotFound) {
		w.logger.WarnContext(ctx, "Transaction not in journal, skipping acknowledge",
			log.FieldTransactionID, txn.ID.String())
		return nil
	}
	if err != nil {
		return fmt.Errorf("acknowledge transaction %s: %w", txn.ID, err)
	}

	w.logger.InfoContext(ctx, "Transaction delivered",
		log.NewFields().WithOperation(log.OpAcknowledge).WithTransaction(txn).ToSlice()...)
	return nil
}

// RepublishPending re-sends one batch of unacknowledged entries, oldest first,
// and returns how many were published.
func (w *AckWorker) RepublishPending(ctx context.Context) (int, error) {
	return w.republish(ctx, w.batchSize)
}

// StartupCheck republishes a larger backlog once, to recover from worker downtime.
func (w *AckWorker) StartupCheck(ctx context.Context) error {
	n, err := w.republish(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup republish: %w", err)
	}
	if n == 0 {
		w.logger.InfoContext(ctx, "No pending journal entries found on startup")
		return nil
	}
	w.logger.InfoContext(ctx, "Startup republish completed", log.FieldCount, n)
	return nil
}

func (w *AckWorker) republish(ctx context.Context, limit int) (int, error) {
	if w.publisher == nil {
		w.logger.WarnContext(ctx, "AMQP client not available, skipping republish")
		return 0, nil
	}

	pending, err := w.journal.ListUnacknowledged(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list pending entries: %w", err)
	}

	published := 0
	var errs []error
	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		txn := entry.Transaction
		if err := w.publisher.PublishTransactionPosted(ctx, txn); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", txn.ID, err))
			continue
		}
		published++
	}

	if len(errs) > 0 {
		return published, fmt.Errorf("republish %d of %d entries failed: %w", len(errs), len(pending), errors.Join(errs...))
	}
	return published, nil
}
