package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
	Payment    TransactionType = "PAYMENT"
)

// Payment categories. This is the closed set shared by payment validation
// and spending reports.
const (
	Taxi          Category = "TAXI"
	Other         Category = "OTHER"
	Groceries     Category = "GROCERIES"
	Restaurants   Category = "RESTAURANTS"
	Utilities     Category = "UTILITIES"
	Transport     Category = "TRANSPORT"
	Health        Category = "HEALTH"
	Entertainment Category = "ENTERTAINMENT"
	Shopping      Category = "SHOPPING"
	Travel        Category = "TRAVEL"
)

type (
	TransactionType string

	// Category classifies a payment. The empty Category means "no category".
	Category string

	// AccountRef is a non-owning handle to an account. The zero value means absent.
	AccountRef struct {
		ID     uuid.UUID
		Number string
	}

	// Transaction is one recorded ledger event. Accounts hand out copies only,
	// so a Transaction never changes after it has been posted.
	Transaction struct {
		ID        uuid.UUID
		Seq       uint64 // insertion order, breaks timestamp ties
		Amount    Money
		Type      TransactionType
		Category  Category // set for Payment only
		Timestamp time.Time
		Source    AccountRef // debited account, absent for deposits
		Target    AccountRef // credited account, absent for withdrawals and payments
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

var categories = []Category{
	Taxi,
	Other,
	Groceries,
	Restaurants,
	Utilities,
	Transport,
	Health,
	Entertainment,
	Shopping,
	Travel,
}

var categoryIndex = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[string(c)] = c
	}
	return m
}()

// Categories returns every recognized category in declaration order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// LookupCategory resolves a category by exact name. The boolean reports
// whether the name is a member of the closed set.
func LookupCategory(name string) (Category, bool) {
	c, ok := categoryIndex[name]
	return c, ok
}

// Valid reports whether c is a recognized category.
func (c Category) Valid() bool {
	_, ok := categoryIndex[string(c)]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// Valid reports whether t is one of the four ledger event types.
func (t TransactionType) Valid() bool {
	switch t {
	case Deposit, Withdrawal, Transfer, Payment:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// IsZero reports whether the reference is absent.
func (r AccountRef) IsZero() bool {
	return r.ID == uuid.Nil
}

func (r AccountRef) String() string {
	if r.IsZero() {
		return "-"
	}
	return r.Number
}

func (t Transaction) HasSource() bool {
	return !t.Source.IsZero()
}

func (t Transaction) HasTarget() bool {
	return !t.Target.IsZero()
}

// Touches reports whether the transaction debits or credits the account with the given id.
func (t Transaction) Touches(accountID uuid.UUID) bool {
	return t.Source.ID == accountID || t.Target.ID == accountID
}

// Validate checks the structural invariants of a transaction: a positive
// amount, the source/target shape implied by its type, and a category on
// payments only.
func (t Transaction) Validate() error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalidTransaction)
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidTransaction)
	}

	switch t.Type {
	case Deposit:
		if t.HasSource() || !t.HasTarget() {
			return fmt.Errorf("%w: deposit must have a target and no source", ErrInvalidTransaction)
		}
	case Withdrawal, Payment:
		if !t.HasSource() || t.HasTarget() {
			return fmt.Errorf("%w: %s must have a source and no target", ErrInvalidTransaction, t.Type)
		}
	case Transfer:
		if !t.HasSource() || !t.HasTarget() {
			return fmt.Errorf("%w: transfer must have both source and target", ErrInvalidTransaction)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, t.Type)
	}

	if t.Type == Payment {
		if !t.Category.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, t.Category)
		}
	} else if t.Category != "" {
		return fmt.Errorf("%w: category on %s", ErrInvalidTransaction, t.Type)
	}
	return nil
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s || %s || %s || %s || %s || %s",
		t.ID, t.Amount, t.Type, t.Timestamp.Format(time.RFC3339), t.Source, t.Target)
}
