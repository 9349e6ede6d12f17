package analytics

import (
	"context"
	"testing"
	"time"

	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/ledger"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

var reportTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// spendingFixture builds one user with one account: deposit 10000, then
// payments TAXI 200, TAXI 7000, OTHER 100, OTHER 800.
func spendingFixture(t *testing.T) (*ledger.Service, *ledger.User, *ledger.BankAccount, *clock) {
	t.Helper()
	clk := &clock{t: reportTime.Add(-time.Hour)}
	svc := ledger.NewService(ledger.Config{Now: clk.now})
	user := ledger.NewUser("user1", "John")
	acc := svc.CreateAccount(user, "ACC123")

	ctx := context.Background()
	if err := svc.Deposit(ctx, acc, core.NewMoney(10000)); err != nil {
		t.Fatal(err)
	}
	payments := []struct {
		category string
		amount   int64
	}{
		{"TAXI", 200},
		{"TAXI", 7000},
		{"OTHER", 100},
		{"OTHER", 800},
	}
	for _, p := range payments {
		clk.t = clk.t.Add(time.Minute)
		if err := svc.Payment(ctx, acc, p.category, core.NewMoney(p.amount)); err != nil {
			t.Fatalf("payment %s %d: %v", p.category, p.amount, err)
		}
	}
	return svc, user, acc, clk
}

func newTestEngine() *Engine {
	return NewEngine(Config{Now: func() time.Time { return reportTime }})
}

func TestMonthlySpendingByCategory(t *testing.T) {
	_, _, acc, _ := spendingFixture(t)
	e := newTestEngine()

	tests := []struct {
		category string
		want     core.Money
	}{
		{"TAXI", core.NewMoney(7200)},
		{"OTHER", core.NewMoney(900)},
		{"GROCERIES", core.Zero()},
		{"NOT_A_CATEGORY", core.Zero()},
		{"taxi", core.Zero()},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := e.MonthlySpendingByCategory(acc, tt.category); !got.Equal(tt.want) {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}

	if got := e.MonthlySpendingByCategory(nil, "TAXI"); !got.IsZero() {
		t.Fatalf("nil account should report zero, got %s", got)
	}
}

func TestMonthlySpendingExcludesOldPayments(t *testing.T) {
	svc, _, acc, clk := spendingFixture(t)

	clk.t = reportTime.AddDate(0, -2, 0)
	if err := svc.Payment(context.Background(), acc, "TAXI", core.NewMoney(50)); err != nil {
		t.Fatal(err)
	}

	e := newTestEngine()
	if got := e.MonthlySpendingByCategory(acc, "TAXI"); !got.Equal(core.NewMoney(7200)) {
		t.Fatalf("got %s, want 7200", got)
	}

	weekly := NewEngine(Config{Window: RollingDays{Days: 7}, Now: func() time.Time { return reportTime.AddDate(0, 0, 10) }})
	if got := weekly.MonthlySpendingByCategory(acc, "TAXI"); !got.IsZero() {
		t.Fatalf("rolling week should exclude everything, got %s", got)
	}
}

func TestMonthlySpendingByCategories(t *testing.T) {
	_, user, _, _ := spendingFixture(t)
	e := newTestEngine()

	got := e.MonthlySpendingByCategories(user, []string{"TAXI", "OTHER"})
	want := map[core.Category]core.Money{
		core.Taxi:  core.NewMoney(7200),
		core.Other: core.NewMoney(900),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for c, w := range want {
		if !got[c].Equal(w) {
			t.Fatalf("%s: got %s, want %s", c, got[c], w)
		}
	}

	only := e.MonthlySpendingByCategories(user, []string{"TAXI", "GROCERIES"})
	if len(only) != 1 || !only[core.Taxi].Equal(core.NewMoney(7200)) {
		t.Fatalf("expected only TAXI, got %v", only)
	}

	for name, cats := range map[string][]string{
		"empty":   {},
		"unknown": {"TAXI", "BOGUS"},
	} {
		if got := e.MonthlySpendingByCategories(user, cats); got == nil || len(got) != 0 {
			t.Fatalf("%s: expected empty map, got %v", name, got)
		}
	}
	if got := e.MonthlySpendingByCategories(nil, []string{"TAXI"}); got == nil || len(got) != 0 {
		t.Fatalf("nil user: expected empty map, got %v", got)
	}
}

func TestTransactionHistorySortedByAmount(t *testing.T) {
	_, user, _, _ := spendingFixture(t)
	e := newTestEngine()

	groups := e.TransactionHistorySortedByAmount(user)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	wantOrder := []core.Category{core.Taxi, core.Other}
	wantAmounts := [][]int64{{7000, 200}, {800, 100}}
	for i, g := range groups {
		if g.Category != wantOrder[i] {
			t.Fatalf("group %d: got %s, want %s", i, g.Category, wantOrder[i])
		}
		if len(g.Transactions) != len(wantAmounts[i]) {
			t.Fatalf("group %s: got %d transactions", g.Category, len(g.Transactions))
		}
		for j, amt := range wantAmounts[i] {
			if !g.Transactions[j].Amount.Equal(core.NewMoney(amt)) {
				t.Fatalf("group %s[%d]: got %s, want %d", g.Category, j, g.Transactions[j].Amount, amt)
			}
		}
	}

	if got := e.TransactionHistorySortedByAmount(ledger.NewUser("u2", "Empty")); got == nil || len(got) != 0 {
		t.Fatalf("expected empty groups, got %v", got)
	}
}

func TestLastNTransactions(t *testing.T) {
	_, user, _, _ := spendingFixture(t)
	e := newTestEngine()

	last := e.LastNTransactions(user, 2)
	if len(last) != 2 {
		t.Fatalf("got %d, want 2", len(last))
	}
	if !last[0].Amount.Equal(core.NewMoney(800)) || !last[1].Amount.Equal(core.NewMoney(100)) {
		t.Fatalf("unexpected order: %v", last)
	}

	all := e.LastNTransactions(user, 100)
	if len(all) != 5 {
		t.Fatalf("got %d, want 5", len(all))
	}
	if all[4].Type != core.Deposit {
		t.Fatalf("oldest entry should be the deposit, got %s", all[4].Type)
	}

	for _, n := range []int{0, -1} {
		if got := e.LastNTransactions(user, n); got == nil || len(got) != 0 {
			t.Fatalf("n=%d: expected empty, got %v", n, got)
		}
	}
}

func TestLastNTransactionsBreaksTimestampTiesBySeq(t *testing.T) {
	fixed := func() time.Time { return reportTime }
	svc := ledger.NewService(ledger.Config{Now: fixed})
	user := ledger.NewUser("user1", "John")
	acc := svc.CreateAccount(user, "ACC1")

	ctx := context.Background()
	for _, amt := range []int64{1, 2, 3} {
		if err := svc.Deposit(ctx, acc, core.NewMoney(amt)); err != nil {
			t.Fatal(err)
		}
	}

	got := NewEngine(Config{Now: fixed}).LastNTransactions(user, 3)
	for i, want := range []int64{3, 2, 1} {
		if !got[i].Amount.Equal(core.NewMoney(want)) {
			t.Fatalf("position %d: got %s, want %d", i, got[i].Amount, want)
		}
	}
}

func TestTopNLargestTransactions(t *testing.T) {
	_, user, _, _ := spendingFixture(t)
	e := newTestEngine()

	top := e.TopNLargestTransactions(user, 2)
	if len(top) != 2 || !top[0].Amount.Equal(core.NewMoney(7000)) || !top[1].Amount.Equal(core.NewMoney(800)) {
		t.Fatalf("unexpected top-2: %v", top)
	}
	for _, txn := range e.TopNLargestTransactions(user, 10) {
		if txn.Type != core.Payment {
			t.Fatalf("top-N must contain payments only, got %s", txn.Type)
		}
	}
	if got := e.TopNLargestTransactions(user, 10); len(got) != 4 {
		t.Fatalf("got %d, want 4", len(got))
	}
	if got := e.TopNLargestTransactions(user, 0); got == nil || len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestReportsAcrossAccounts(t *testing.T) {
	svc := ledger.NewService(ledger.Config{Now: func() time.Time { return reportTime }})
	user := ledger.NewUser("user1", "John")
	a := svc.CreateAccount(user, "ACC1")
	b := svc.CreateAccount(user, "ACC2")

	ctx := context.Background()
	for _, acc := range []*ledger.BankAccount{a, b} {
		if err := svc.Deposit(ctx, acc, core.NewMoney(1000)); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.Payment(ctx, a, "TAXI", core.NewMoney(10)); err != nil {
		t.Fatal(err)
	}
	if err := svc.Payment(ctx, b, "TAXI", core.NewMoney(20)); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(Config{Now: func() time.Time { return reportTime }})
	got := e.MonthlySpendingByCategories(user, []string{"TAXI"})
	if !got[core.Taxi].Equal(core.NewMoney(30)) {
		t.Fatalf("got %s, want 30", got[core.Taxi])
	}
}

func TestReportCacheTracksLedgerChanges(t *testing.T) {
	svc, user, acc, clk := spendingFixture(t)
	c := cache.NewLRUCache[[]core.Transaction](16, time.Hour)
	e := NewEngine(Config{Now: func() time.Time { return reportTime }, Cache: c})

	first := e.TopNLargestTransactions(user, 1)
	if c.Size() != 1 {
		t.Fatalf("expected one cached report, got %d", c.Size())
	}
	first[0].Amount = core.NewMoney(1)
	if again := e.TopNLargestTransactions(user, 1); !again[0].Amount.Equal(core.NewMoney(7000)) {
		t.Fatalf("cached report leaked a caller mutation: %s", again[0].Amount)
	}

	clk.t = clk.t.Add(time.Minute)
	if err := svc.Payment(context.Background(), acc, "SHOPPING", core.NewMoney(1500)); err != nil {
		t.Fatal(err)
	}
	top := e.TopNLargestTransactions(user, 2)
	if !top[1].Amount.Equal(core.NewMoney(1500)) {
		t.Fatalf("stale report after a new payment: %v", top)
	}
}
