package ledger

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
)

// txnSeq orders transactions process-wide so that equal timestamps still sort
// by insertion order.
var txnSeq atomic.Uint64

// BankAccount owns a balance and an append-only transaction log.
// The balance and the log form one unit of mutual exclusion.
type BankAccount struct {
	id     uuid.UUID
	number string
	owner  string
	now    func() time.Time

	mu      sync.Mutex
	balance core.Money
	log     []core.Transaction
}

func newBankAccount(number, ownerID string, now func() time.Time) *BankAccount {
	return &BankAccount{
		id:      uuid.New(),
		number:  number,
		owner:   ownerID,
		now:     now,
		balance: core.Zero(),
	}
}

// ID is the internal unique identifier. Account numbers are not guaranteed unique.
func (a *BankAccount) ID() uuid.UUID {
	return a.id
}

func (a *BankAccount) Number() string {
	return a.number
}

// OwnerID returns the id of the owning user.
func (a *BankAccount) OwnerID() string {
	return a.owner
}

// Ref returns the non-owning handle stored in transactions.
func (a *BankAccount) Ref() core.AccountRef {
	return core.AccountRef{ID: a.id, Number: a.number}
}

func (a *BankAccount) Balance() core.Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Deposit increases the balance by amount and logs a DEPOSIT with this account as target.
func (a *BankAccount) Deposit(amount core.Money) (core.Transaction, error) {
	if err := ValidateAmount(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("deposit to %s: %w", a.number, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	txn := newTransaction(a.now(), core.Deposit, amount, "", core.AccountRef{}, a.Ref())
	a.credit(amount)
	a.appendLocked(txn)
	return txn, nil
}

// Withdraw decreases the balance by amount and logs a WITHDRAWAL with this account as source.
// The balance must strictly exceed amount; on failure nothing changes.
func (a *BankAccount) Withdraw(amount core.Money) (core.Transaction, error) {
	if err := ValidateAmount(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("withdraw from %s: %w", a.number, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := CheckBalance(a.balance, amount); err != nil {
		return core.Transaction{}, fmt.Errorf("withdraw from %s: %w", a.number, err)
	}
	txn := newTransaction(a.now(), core.Withdrawal, amount, "", a.Ref(), core.AccountRef{})
	a.debit(amount)
	a.appendLocked(txn)
	return txn, nil
}

// Transactions returns a point-in-time copy of the log. Later postings do not
// show up in a previously returned slice.
func (a *BankAccount) Transactions() []core.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]core.Transaction, len(a.log))
	copy(out, a.log)
	return out
}

// Len returns the number of logged transactions.
func (a *BankAccount) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.log)
}

func (a *BankAccount) String() string {
	return a.number
}

// credit, debit and appendLocked require a.mu to be held.
func (a *BankAccount) credit(amount core.Money) {
	a.balance = a.balance.Add(amount)
}

func (a *BankAccount) debit(amount core.Money) {
	a.balance = a.balance.Sub(amount)
}

func (a *BankAccount) appendLocked(txn core.Transaction) {
	a.log = append(a.log, txn)
}

// lockPair locks both accounts in a fixed global order (by id) and returns the
// matching unlock. A self-pair is locked once.
func lockPair(a, b *BankAccount) (unlock func()) {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if bytes.Compare(b.id[:], a.id[:]) < 0 {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

func newTransaction(ts time.Time, typ core.TransactionType, amount core.Money, category core.Category, source, target core.AccountRef) core.Transaction {
	return core.Transaction{
		ID:        uuid.New(),
		Seq:       txnSeq.Add(1),
		Amount:    amount,
		Type:      typ,
		Category:  category,
		Timestamp: ts,
		Source:    source,
		Target:    target,
	}
}
