package analytics

import (
	"ledger/internal/core"
	"ledger/internal/ledger"
)

// Predicate selects transactions.
type Predicate func(core.Transaction) bool

// And combines predicates; all must hold.
func And(preds ...Predicate) Predicate {
	return func(txn core.Transaction) bool {
		for _, p := range preds {
			if !p(txn) {
				return false
			}
		}
		return true
	}
}

func OfType(t core.TransactionType) Predicate {
	return func(txn core.Transaction) bool { return txn.Type == t }
}

func InCategory(c core.Category) Predicate {
	return func(txn core.Transaction) bool { return txn.Category == c }
}

// AmountAbove selects transactions strictly larger than m.
func AmountAbove(m core.Money) Predicate {
	return func(txn core.Transaction) bool { return txn.Amount.GreaterThan(m) }
}

// Transactions flattens every account's history, account by account, each in
// insertion order. A transfer between two of the user's accounts shows up once
// per account. The result is never nil.
func Transactions(user *ledger.User) []core.Transaction {
	out := []core.Transaction{}
	for _, acc := range user.Accounts() {
		out = append(out, acc.Transactions()...)
	}
	return out
}

// Filter returns the flattened transactions matching pred.
func Filter(user *ledger.User, pred Predicate) []core.Transaction {
	out := []core.Transaction{}
	for _, txn := range Transactions(user) {
		if pred(txn) {
			out = append(out, txn)
		}
	}
	return out
}

// Map transforms every flattened transaction.
func Map[T any](user *ledger.User, fn func(core.Transaction) T) []T {
	txns := Transactions(user)
	out := make([]T, 0, len(txns))
	for _, txn := range txns {
		out = append(out, fn(txn))
	}
	return out
}

// ForEach calls fn for every flattened transaction.
func ForEach(user *ledger.User, fn func(core.Transaction)) {
	for _, txn := range Transactions(user) {
		fn(txn)
	}
}

// Reduce folds the flattened transactions into a single value.
func Reduce[T any](user *ledger.User, initial T, fn func(T, core.Transaction) T) T {
	acc := initial
	for _, txn := range Transactions(user) {
		acc = fn(acc, txn)
	}
	return acc
}

// Merge combines two transaction lists with merger. A nil merger concatenates.
// The inputs are never modified.
func Merge(a, b []core.Transaction, merger func(a, b []core.Transaction) []core.Transaction) []core.Transaction {
	a = append([]core.Transaction(nil), a...)
	b = append([]core.Transaction(nil), b...)
	if merger == nil {
		return append(a, b...)
	}
	return merger(a, b)
}
