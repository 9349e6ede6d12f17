// Package ledger holds users, their bank accounts and the service that moves money
// between them.
//
// Service is the only writer of balances for transfers and payments. Every state
// change follows the same discipline: validate, lock, re-check the balance, then
// mutate the balance and append to the log while still holding the lock. Two-account
// operations lock in a fixed order so opposite-direction transfers cannot deadlock.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
)

// ErrNilAccount is returned when an operation is given a nil account.
var ErrNilAccount = errors.New("account is required")

// Config holds the collaborators of a Service. Zero values are replaced with defaults.
type Config struct {
	Journal Journal
	Logger  *log.Logger
	Now     func() time.Time
}

// Service orchestrates account creation, transfers and categorized payments.
type Service struct {
	journal Journal
	logger  *log.Logger
	now     func() time.Time
}

func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		journal: cfg.Journal,
		logger:  logger.WithComponent(log.ComponentLedger),
		now:     now,
	}
}

// CreateAccount opens a new account for user and appends it to the user's accounts.
// Account numbers are not checked for uniqueness.
func (s *Service) CreateAccount(user *User, accountNumber string) *BankAccount {
	acc := newBankAccount(accountNumber, user.ID(), s.now)
	user.addAccount(acc)

	s.logger.Debug("Account created",
		log.FieldUserID, user.ID(),
		log.FieldAccount, accountNumber)
	return acc
}

// Deposit credits account and journals the resulting DEPOSIT.
func (s *Service) Deposit(ctx context.Context, account *BankAccount, amount core.Money) error {
	if account == nil {
		return fmt.Errorf("deposit: %w", ErrNilAccount)
	}
	txn, err := account.Deposit(amount)
	if err != nil {
		s.rejected(ctx, log.OpDeposit, err)
		return err
	}
	s.posted(ctx, log.OpDeposit, txn)
	return nil
}

// Withdraw debits account and journals the resulting WITHDRAWAL.
func (s *Service) Withdraw(ctx context.Context, account *BankAccount, amount core.Money) error {
	if account == nil {
		return fmt.Errorf("withdraw: %w", ErrNilAccount)
	}
	txn, err := account.Withdraw(amount)
	if err != nil {
		s.rejected(ctx, log.OpWithdraw, err)
		return err
	}
	s.posted(ctx, log.OpWithdraw, txn)
	return nil
}

// Transfer moves amount from source to target. A single TRANSFER record is
// appended to both histories; no separate withdrawal or deposit is logged.
// On any failure neither account changes.
func (s *Service) Transfer(ctx context.Context, source, target *BankAccount, amount core.Money) error {
	if source == nil || target == nil {
		return fmt.Errorf("transfer: %w", ErrNilAccount)
	}
	if err := ValidateAmount(amount); err != nil {
		err = fmt.Errorf("transfer %s -> %s: %w", source.number, target.number, err)
		s.rejected(ctx, log.OpTransfer, err)
		return err
	}

	unlock := lockPair(source, target)
	if err := CheckBalance(source.balance, amount); err != nil {
		unlock()
		err = fmt.Errorf("transfer %s -> %s: %w", source.number, target.number, err)
		s.rejected(ctx, log.OpTransfer, err)
		return err
	}

	txn := newTransaction(s.now(), core.Transfer, amount, "", source.Ref(), target.Ref())
	source.debit(amount)
	target.credit(amount)
	source.appendLocked(txn)
	if target != source {
		target.appendLocked(txn)
	}
	unlock()

	s.posted(ctx, log.OpTransfer, txn)
	return nil
}

// Payment debits source and appends one PAYMENT tagged with the resolved category.
// categoryName must be an exact member of the closed category set.
func (s *Service) Payment(ctx context.Context, source *BankAccount, categoryName string, amount core.Money) error {
	if source == nil {
		return fmt.Errorf("payment: %w", ErrNilAccount)
	}
	if err := ValidateAmount(amount); err != nil {
		err = fmt.Errorf("payment from %s: %w", source.number, err)
		s.rejected(ctx, log.OpPayment, err)
		return err
	}
	category, ok := core.LookupCategory(categoryName)
	if !ok {
		err := fmt.Errorf("payment from %s: %w: %q", source.number, core.ErrUnknownCategory, categoryName)
		s.rejected(ctx, log.OpPayment, err)
		return err
	}

	source.mu.Lock()
	if err := CheckBalance(source.balance, amount); err != nil {
		source.mu.Unlock()
		err = fmt.Errorf("payment from %s: %w", source.number, err)
		s.rejected(ctx, log.OpPayment, err)
		return err
	}
	txn := newTransaction(s.now(), core.Payment, amount, category, source.Ref(), core.AccountRef{})
	source.debit(amount)
	source.appendLocked(txn)
	source.mu.Unlock()

	s.posted(ctx, log.OpPayment, txn)
	return nil
}

// TotalBalance sums the balances of all of user's accounts. Zero when there are none.
func (s *Service) TotalBalance(user *User) core.Money {
	total := core.Zero()
	for _, acc := range user.Accounts() {
		total = total.Add(acc.Balance())
	}
	return total
}

// TransactionHistory returns a snapshot of account's log.
func (s *Service) TransactionHistory(account *BankAccount) []core.Transaction {
	if account == nil {
		return []core.Transaction{}
	}
	return account.Transactions()
}

func (s *Service) posted(ctx context.Context, op string, txn core.Transaction) {
	s.logger.InfoContext(ctx, "Transaction posted",
		log.NewFields().WithOperation(op).WithTransaction(txn).ToSlice()...)

	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, txn); err != nil {
		s.logger.ErrorContext(ctx, "Failed to journal transaction",
			log.NewFields().
				WithOperation(log.OpRecord).
				WithTransaction(txn).
				WithError(err).
				WithErrorType(log.ErrorTypeInternal).
				ToSlice()...)
	}
}

func (s *Service) rejected(ctx context.Context, op string, err error) {
	s.logger.WarnContext(ctx, "Operation rejected",
		log.NewFields().
			WithOperation(op).
			WithError(err).
			WithErrorType(log.ErrorTypeValidation).
			ToSlice()...)
}
