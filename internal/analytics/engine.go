package analytics

import (
	"fmt"
	"slices"
	"time"

	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
)

// Config holds engine collaborators. Zero values are replaced with defaults.
type Config struct {
	Window Window
	Now    func() time.Time
	// Cache memoizes list reports. Nil disables caching.
	Cache  cache.Cache[[]core.Transaction]
	Logger *log.Logger
}

// DefaultConfig returns a rolling-month engine without a report cache.
func DefaultConfig() Config {
	return Config{
		Window: RollingMonth{},
		Now:    time.Now,
	}
}

// Engine computes reports from snapshots of account histories. It never mutates
// accounts and can run concurrently with ledger writes.
type Engine struct {
	window Window
	now    func() time.Time
	cache  cache.Cache[[]core.Transaction]
	logger *log.Logger
}

func NewEngine(cfg Config) *Engine {
	if cfg.Window == nil {
		cfg.Window = RollingMonth{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}
	return &Engine{
		window: cfg.Window,
		now:    cfg.Now,
		cache:  cfg.Cache,
		logger: cfg.Logger.WithComponent(log.ComponentAnalytics),
	}
}

// MonthlySpendingByCategory sums the account's payments of the named category
// inside the spending window. Unknown categories and nil accounts yield zero.
func (e *Engine) MonthlySpendingByCategory(account *ledger.BankAccount, category string) core.Money {
	total := core.Zero()
	cat, ok := core.LookupCategory(category)
	if !ok || account == nil {
		return total
	}

	now := e.now()
	for _, txn := range account.Transactions() {
		if e.spent(txn, now) && txn.Category == cat {
			total = total.Add(txn.Amount)
		}
	}
	return total
}

// MonthlySpendingByCategories sums windowed payments across all of the user's
// accounts for each requested category. Categories with no spending are absent.
// An empty request or one naming an unknown category yields an empty map.
func (e *Engine) MonthlySpendingByCategories(user *ledger.User, categories []string) map[core.Category]core.Money {
	result := make(map[core.Category]core.Money)
	if user == nil || len(categories) == 0 {
		return result
	}

	wanted := make(map[core.Category]struct{}, len(categories))
	for _, name := range categories {
		cat, ok := core.LookupCategory(name)
		if !ok {
			e.logger.Debug("Unknown category in spending report", log.FieldCategory, name)
			return result
		}
		wanted[cat] = struct{}{}
	}

	now := e.now()
	for _, acc := range user.Accounts() {
		for _, txn := range acc.Transactions() {
			if !e.spent(txn, now) {
				continue
			}
			if _, ok := wanted[txn.Category]; !ok {
				continue
			}
			sum, ok := result[txn.Category]
			if !ok {
				sum = core.Zero()
			}
			result[txn.Category] = sum.Add(txn.Amount)
		}
	}
	return result
}

// TransactionHistorySortedByAmount groups the user's payments by category in
// first-encounter order, each group sorted by amount descending. Equal amounts
// keep their history order.
func (e *Engine) TransactionHistorySortedByAmount(user *ledger.User) []core.CategoryGroup {
	groups := []core.CategoryGroup{}
	index := make(map[core.Category]int)

	for _, txn := range Filter(user, OfType(core.Payment)) {
		i, ok := index[txn.Category]
		if !ok {
			i = len(groups)
			index[txn.Category] = i
			groups = append(groups, core.CategoryGroup{Category: txn.Category})
		}
		groups[i].Transactions = append(groups[i].Transactions, txn)
	}

	for i := range groups {
		slices.SortStableFunc(groups[i].Transactions, func(a, b core.Transaction) int {
			return b.Amount.Cmp(a.Amount)
		})
	}
	return groups
}

// LastNTransactions returns the n most recent transactions of any type across
// the user's accounts, newest first. Equal timestamps are ordered by Seq.
func (e *Engine) LastNTransactions(user *ledger.User, n int) []core.Transaction {
	if n <= 0 || user == nil {
		return []core.Transaction{}
	}
	return e.cached("last", user, n, func() []core.Transaction {
		all := Transactions(user)
		slices.SortStableFunc(all, newestFirst)
		if len(all) > n {
			all = all[:n]
		}
		return all
	})
}

// TopNLargestTransactions returns the user's n largest payments, largest first.
// Equal amounts keep their history order.
func (e *Engine) TopNLargestTransactions(user *ledger.User, n int) []core.Transaction {
	if n <= 0 || user == nil {
		return []core.Transaction{}
	}
	return e.cached("top", user, n, func() []core.Transaction {
		return topKByAmount(Filter(user, OfType(core.Payment)), n)
	})
}

func (e *Engine) spent(txn core.Transaction, now time.Time) bool {
	return txn.Type == core.Payment && e.window.Contains(txn.Timestamp, now)
}

func newestFirst(a, b core.Transaction) int {
	if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
		return c
	}
	switch {
	case a.Seq > b.Seq:
		return -1
	case a.Seq < b.Seq:
		return 1
	}
	return 0
}

// cached serves compute through the report cache when one is configured.
func (e *Engine) cached(op string, user *ledger.User, n int, compute func() []core.Transaction) []core.Transaction {
	if e.cache == nil {
		return compute()
	}

	key, ok := reportKey(op, user, n)
	if !ok {
		return compute()
	}
	if hit, found := e.cache.Get(key); found {
		e.logger.Debug("Report served from cache",
			log.FieldOperation, log.OpReport,
			log.FieldUserID, user.ID(),
			log.FieldCount, len(hit))
		return slices.Clone(hit)
	}

	start := time.Now()
	result := compute()
	e.cache.Set(key, slices.Clone(result))
	e.logger.Debug("Report computed",
		log.FieldOperation, log.OpReport,
		log.FieldUserID, user.ID(),
		log.FieldCount, len(result),
		log.FieldDuration, time.Since(start).Milliseconds())
	return result
}

// reportKey identifies a report over the current state of user's ledger. The
// first account's id pins the key to this user, and the account and entry
// counts change with every mutation. Users without accounts are not cached.
func reportKey(op string, user *ledger.User, n int) (string, bool) {
	accounts := user.Accounts()
	if len(accounts) == 0 {
		return "", false
	}
	entries := 0
	for _, acc := range accounts {
		entries += acc.Len()
	}
	return fmt.Sprintf("%s|%s|%d|%s|%d.%d", op, user.ID(), n, accounts[0].ID(), len(accounts), entries), true
}
