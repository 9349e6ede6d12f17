package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
)

// AccountRefMessage identifies an account on the wire.
type AccountRefMessage struct {
	ID     uuid.UUID `json:"id"`
	Number string    `json:"number"`
}

// TransactionPostedMessage announces a transaction that was applied to the ledger.
type TransactionPostedMessage struct {
	ID          uuid.UUID          `json:"id"`
	Seq         uint64             `json:"seq"`
	Type        string             `json:"type"`
	Category    string             `json:"category,omitempty"`
	Amount      string             `json:"amount"`
	OccurredAt  time.Time          `json:"occurred_at"`
	Source      *AccountRefMessage `json:"source,omitempty"`
	Target      *AccountRefMessage `json:"target,omitempty"`
	PublishedAt time.Time          `json:"published_at"`
}

func NewTransactionPostedMessage(txn core.Transaction) *TransactionPostedMessage {
	return &TransactionPostedMessage{
		ID:          txn.ID,
		Seq:         txn.Seq,
		Type:        string(txn.Type),
		Category:    string(txn.Category),
		Amount:      txn.Amount.String(),
		OccurredAt:  txn.Timestamp,
		Source:      refMessage(txn.Source),
		Target:      refMessage(txn.Target),
		PublishedAt: time.Now(),
	}
}

func refMessage(ref core.AccountRef) *AccountRefMessage {
	if ref.IsZero() {
		return nil
	}
	return &AccountRefMessage{ID: ref.ID, Number: ref.Number}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionPostedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionPostedMessageFromJSON decodes a message from JSON bytes
func TransactionPostedMessageFromJSON(data []byte) (*TransactionPostedMessage, error) {
	var msg TransactionPostedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Transaction rebuilds the posted transaction and checks its invariants.
func (m *TransactionPostedMessage) Transaction() (core.Transaction, error) {
	amount, err := core.ParseMoney(m.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", m.Amount, err)
	}
	txn := core.Transaction{
		ID:        m.ID,
		Seq:       m.Seq,
		Amount:    amount,
		Type:      core.TransactionType(m.Type),
		Category:  core.Category(m.Category),
		Timestamp: m.OccurredAt,
	}
	if m.Source != nil {
		txn.Source = core.AccountRef{ID: m.Source.ID, Number: m.Source.Number}
	}
	if m.Target != nil {
		txn.Target = core.AccountRef{ID: m.Target.ID, Number: m.Target.Number}
	}
	if err := txn.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return txn, nil
}
