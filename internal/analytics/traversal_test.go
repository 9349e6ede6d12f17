package analytics

import (
	"testing"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

func TestTraversal(t *testing.T) {
	_, user, _, _ := spendingFixture(t)

	big := Filter(user, And(OfType(core.Payment), AmountAbove(core.NewMoney(200))))
	if len(big) != 2 {
		t.Fatalf("Filter: got %d, want 2", len(big))
	}

	types := Map(user, func(txn core.Transaction) core.TransactionType { return txn.Type })
	want := []core.TransactionType{core.Deposit, core.Payment, core.Payment, core.Payment, core.Payment}
	if len(types) != len(want) {
		t.Fatalf("Map: got %v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("Map[%d]: got %s, want %s", i, types[i], want[i])
		}
	}

	count := 0
	ForEach(user, func(core.Transaction) { count++ })
	if count != 5 {
		t.Fatalf("ForEach visited %d, want 5", count)
	}

	spent := Reduce(user, core.Zero(), func(sum core.Money, txn core.Transaction) core.Money {
		if txn.Type == core.Payment {
			return sum.Add(txn.Amount)
		}
		return sum
	})
	if !spent.Equal(core.NewMoney(8100)) {
		t.Fatalf("Reduce: got %s, want 8100", spent)
	}

	taxi := Filter(user, InCategory(core.Taxi))
	other := Filter(user, InCategory(core.Other))
	merged := Merge(taxi, other, nil)
	if len(merged) != 4 || len(taxi) != 2 {
		t.Fatalf("Merge: got %d (inputs %d, %d)", len(merged), len(taxi), len(other))
	}
	firstOnly := Merge(taxi, other, func(a, _ []core.Transaction) []core.Transaction { return a })
	if len(firstOnly) != 2 {
		t.Fatalf("custom merger ignored: %d", len(firstOnly))
	}
}

func TestTraversalOnEmptyUsers(t *testing.T) {
	var nilUser *ledger.User
	if got := Transactions(nilUser); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
	if got := Map(ledger.NewUser("u", "n"), func(core.Transaction) int { return 1 }); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
	if got := Reduce(nilUser, 7, func(n int, _ core.Transaction) int { return n + 1 }); got != 7 {
		t.Fatalf("Reduce on empty user should return the initial value, got %d", got)
	}
}
