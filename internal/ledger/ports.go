package ledger

import (
	"context"

	"ledger/internal/core"
)

// Ports for outbound adapters.
type (
	// Journal receives every transaction after it has been applied to the in-memory ledger.
	// A journal failure never rolls back the ledger.
	Journal interface {
		Record(ctx context.Context, txn core.Transaction) error
	}

	// JournalFunc adapts a plain function to the Journal interface.
	JournalFunc func(ctx context.Context, txn core.Transaction) error
)

func (f JournalFunc) Record(ctx context.Context, txn core.Transaction) error {
	return f(ctx, txn)
}
