package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type JournalEntryRow struct {
	ID             string
	Seq            int64
	TxnType        string
	Category       string
	Amount         string
	OccurredAt     int64
	SourceID       string
	SourceNumber   string
	TargetID       string
	TargetNumber   string
	RecordedAt     int64
	AcknowledgedAt sql.NullInt64
}

const journalColumns = `id, seq, txn_type, category, amount, occurred_at,
    source_id, source_number, target_id, target_number, recorded_at, acknowledged_at`

func scanJournalEntry(row interface{ Scan(...interface{}) error }) (JournalEntryRow, error) {
	var i JournalEntryRow
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.TxnType,
		&i.Category,
		&i.Amount,
		&i.OccurredAt,
		&i.SourceID,
		&i.SourceNumber,
		&i.TargetID,
		&i.TargetNumber,
		&i.RecordedAt,
		&i.AcknowledgedAt,
	)
	return i, err
}

const insertJournalEntry = `-- name: InsertJournalEntry :execrows
INSERT INTO journal_entries (
    id, seq, txn_type, category, amount, occurred_at,
    source_id, source_number, target_id, target_number, recorded_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING
`

type InsertJournalEntryParams struct {
	ID           string
	Seq          int64
	TxnType      string
	Category     string
	Amount       string
	OccurredAt   int64
	SourceID     string
	SourceNumber string
	TargetID     string
	TargetNumber string
	RecordedAt   int64
}

func (q *Queries) InsertJournalEntry(ctx context.Context, arg InsertJournalEntryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertJournalEntry,
		arg.ID,
		arg.Seq,
		arg.TxnType,
		arg.Category,
		arg.Amount,
		arg.OccurredAt,
		arg.SourceID,
		arg.SourceNumber,
		arg.TargetID,
		arg.TargetNumber,
		arg.RecordedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getJournalEntry = `-- name: GetJournalEntry :one
SELECT ` + journalColumns + `
FROM journal_entries
WHERE id = ?
`

func (q *Queries) GetJournalEntry(ctx context.Context, id string) (JournalEntryRow, error) {
	return scanJournalEntry(q.db.QueryRowContext(ctx, getJournalEntry, id))
}

const listUnacknowledged = `-- name: ListUnacknowledged :many
SELECT ` + journalColumns + `
FROM journal_entries
WHERE acknowledged_at IS NULL
ORDER BY seq
LIMIT ?
`

func (q *Queries) ListUnacknowledged(ctx context.Context, limit int64) ([]JournalEntryRow, error) {
	rows, err := q.db.QueryContext(ctx, listUnacknowledged, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []JournalEntryRow
	for rows.Next() {
		i, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const acknowledgeJournalEntry = `-- name: AcknowledgeJournalEntry :execrows
UPDATE journal_entries
SET acknowledged_at = ?
WHERE id = ? AND acknowledged_at IS NULL
`

type AcknowledgeJournalEntryParams struct {
	AcknowledgedAt int64
	ID             string
}

func (q *Queries) AcknowledgeJournalEntry(ctx context.Context, arg AcknowledgeJournalEntryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, acknowledgeJournalEntry, arg.AcknowledgedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listPaymentsSince = `-- name: ListPaymentsSince :many
SELECT category, amount
FROM journal_entries
WHERE txn_type = 'PAYMENT' AND occurred_at > ?
ORDER BY seq
`

type ListPaymentsSinceRow struct {
	Category string
	Amount   string
}

func (q *Queries) ListPaymentsSince(ctx context.Context, since int64) ([]ListPaymentsSinceRow, error) {
	rows, err := q.db.QueryContext(ctx, listPaymentsSince, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListPaymentsSinceRow
	for rows.Next() {
		var i ListPaymentsSinceRow
		if err := rows.Scan(&i.Category, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countJournalEntries = `-- name: CountJournalEntries :one
SELECT COUNT(*) FROM journal_entries
`

func (q *Queries) CountJournalEntries(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countJournalEntries).Scan(&count)
	return count, err
}
