package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
	"ledger/internal/log"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a journal entry does not exist.
var ErrNotFound = errors.New("journal entry not found")

// JournalEntry is a recorded transaction plus its delivery bookkeeping.
type JournalEntry struct {
	Transaction    core.Transaction
	RecordedAt     time.Time
	AcknowledgedAt time.Time // zero until a consumer confirms delivery
}

func (e JournalEntry) Acknowledged() bool {
	return !e.AcknowledgedAt.IsZero()
}

// JournalRepository is an append-only SQLite export of posted transactions.
type JournalRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
	now     func() time.Time
}

func NewJournalRepository(dbPath string, logger *log.Logger) (*JournalRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if logger == nil {
		logger = log.Discard()
	}

	return &JournalRepository{
		db:      db,
		queries: New(db),
		logger:  logger.WithComponent(log.ComponentStorage),
		now:     time.Now,
	}, nil
}

func (r *JournalRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Record stores txn. Recording the same transaction id twice is a no-op.
func (r *JournalRepository) Record(ctx context.Context, txn core.Transaction) error {
	if err := txn.Validate(); err != nil {
		return fmt.Errorf("record transaction %s: %w", txn.ID, err)
	}

	inserted, err := r.queries.InsertJournalEntry(ctx, InsertJournalEntryParams{
		ID:           txn.ID.String(),
		Seq:          int64(txn.Seq),
		TxnType:      string(txn.Type),
		Category:     string(txn.Category),
		Amount:       txn.Amount.String(),
		OccurredAt:   txn.Timestamp.UnixNano(),
		SourceID:     refID(txn.Source),
		SourceNumber: txn.Source.Number,
		TargetID:     refID(txn.Target),
		TargetNumber: txn.Target.Number,
		RecordedAt:   r.now().UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}

	if inserted == 0 {
		r.logger.DebugContext(ctx, "Transaction already journaled", log.FieldTransactionID, txn.ID.String())
		return nil
	}
	r.logger.DebugContext(ctx, "Transaction journaled",
		log.FieldTransactionID, txn.ID.String(),
		log.FieldTxnType, string(txn.Type),
		log.FieldAmount, txn.Amount.String())
	return nil
}

// Get returns the entry for id, or ErrNotFound.
func (r *JournalRepository) Get(ctx context.Context, id uuid.UUID) (JournalEntry, error) {
	row, err := r.queries.GetJournalEntry(ctx, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return JournalEntry{}, fmt.Errorf("get journal entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return JournalEntry{}, fmt.Errorf("get journal entry %s: %w", id, err)
	}
	return row.toEntry()
}

// ListUnacknowledged returns up to limit entries not yet confirmed by a consumer, oldest first.
func (r *JournalRepository) ListUnacknowledged(ctx context.Context, limit int) ([]JournalEntry, error) {
	rows, err := r.queries.ListUnacknowledged(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list unacknowledged entries: %w", err)
	}

	entries := make([]JournalEntry, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MarkAcknowledged records delivery of id. Acknowledging twice is a no-op;
// unknown ids return ErrNotFound.
func (r *JournalRepository) MarkAcknowledged(ctx context.Context, id uuid.UUID) error {
	n, err := r.queries.AcknowledgeJournalEntry(ctx, AcknowledgeJournalEntryParams{
		AcknowledgedAt: r.now().UnixNano(),
		ID:             id.String(),
	})
	if err != nil {
		return fmt.Errorf("acknowledge journal entry %s: %w", id, err)
	}
	if n == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return nil
	}

	r.logger.InfoContext(ctx, "Journal entry acknowledged", log.FieldTransactionID, id.String())
	return nil
}

// CategoryTotals sums journaled payments after since, per category, in category
// declaration order. Categories without payments are omitted.
func (r *JournalRepository) CategoryTotals(ctx context.Context, since time.Time) ([]core.CategoryAmount, error) {
	rows, err := r.queries.ListPaymentsSince(ctx, since.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	sums := make(map[core.Category]core.Money)
	for _, row := range rows {
		amount, err := core.ParseMoney(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount %q: %w", row.Amount, err)
		}
		cat := core.Category(row.Category)
		if sum, ok := sums[cat]; ok {
			sums[cat] = sum.Add(amount)
		} else {
			sums[cat] = amount
		}
	}

	out := []core.CategoryAmount{}
	for _, cat := range core.Categories() {
		if sum, ok := sums[cat]; ok {
			out = append(out, core.CategoryAmount{Category: cat, Amount: sum})
		}
	}
	return out, nil
}

// Count returns the number of journaled transactions.
func (r *JournalRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountJournalEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}
	return n, nil
}

func refID(ref core.AccountRef) string {
	if ref.IsZero() {
		return ""
	}
	return ref.ID.String()
}

func parseRef(id, number string) (core.AccountRef, error) {
	if id == "" {
		return core.AccountRef{}, nil
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return core.AccountRef{}, fmt.Errorf("parse account id %q: %w", id, err)
	}
	return core.AccountRef{ID: u, Number: number}, nil
}

func (row JournalEntryRow) toEntry() (JournalEntry, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return JournalEntry{}, fmt.Errorf("parse transaction id %q: %w", row.ID, err)
	}
	amount, err := core.ParseMoney(row.Amount)
	if err != nil {
		return JournalEntry{}, fmt.Errorf("parse stored amount %q: %w", row.Amount, err)
	}
	source, err := parseRef(row.SourceID, row.SourceNumber)
	if err != nil {
		return JournalEntry{}, err
	}
	target, err := parseRef(row.TargetID, row.TargetNumber)
	if err != nil {
		return JournalEntry{}, err
	}

	e := JournalEntry{
		Transaction: core.Transaction{
			ID:        id,
			Seq:       uint64(row.Seq),
			Amount:    amount,
			Type:      core.TransactionType(row.TxnType),
			Category:  core.Category(row.Category),
			Timestamp: time.Unix(0, row.OccurredAt).UTC(),
			Source:    source,
			Target:    target,
		},
		RecordedAt: time.Unix(0, row.RecordedAt).UTC(),
	}
	if row.AcknowledgedAt.Valid {
		e.AcknowledgedAt = time.Unix(0, row.AcknowledgedAt.Int64).UTC()
	}
	return e, nil
}
