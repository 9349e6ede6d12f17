package main

import (
	"context"
	"os"
	"time"

	"ledger/internal/analytics"
	"ledger/internal/cli"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
)

func main() {
	cli.LoadEnvFile()

	bootstrap := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(cfg.LogLevel)

	logger.Info("Starting ledger",
		log.FieldOperation, log.OpStartup,
		"journal_backend", cfg.JournalBackend,
		"spending_window", cfg.SpendingWindow)

	ctx := context.Background()

	journal := cli.InitJournal(ctx, logger, cfg)
	defer func() {
		if journal.Cleanup == nil {
			return
		}
		if err := journal.Cleanup(); err != nil {
			logger.Error("Failed to close journal", log.FieldError, err.Error())
		}
	}()

	reports, cacheManager := cli.NewReportCache(logger, cfg)
	cacheManager.StartCleanup(cfg.CacheCleanupInterval)
	defer cacheManager.Stop()

	svc := ledger.NewService(ledger.Config{
		Journal: journal.Journal,
		Logger:  logger,
	})
	engine := cli.NewEngine(logger, cfg, reports)

	if err := run(ctx, logger, svc, engine); err != nil {
		logger.Error("Ledger run failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	if journal.Repository != nil {
		since := time.Now().AddDate(0, -1, 0)
		totals, err := journal.Repository.CategoryTotals(ctx, since)
		if err != nil {
			logger.Error("Failed to read journal totals", log.FieldError, err.Error())
		}
		for _, t := range totals {
			logger.Info("Journaled spending",
				log.FieldCategory, t.Category.String(),
				log.FieldAmount, t.Amount.String())
		}
	}

	logger.Info("Ledger finished", log.FieldOperation, log.OpShutdown)
}

func run(ctx context.Context, logger *log.Logger, svc *ledger.Service, engine *analytics.Engine) error {
	user := ledger.NewUser("user1", "John")
	checking := svc.CreateAccount(user, "ACC123")
	savings := svc.CreateAccount(user, "ACC456")

	if err := svc.Deposit(ctx, checking, core.NewMoney(1000)); err != nil {
		return err
	}
	if err := svc.Transfer(ctx, checking, savings, core.NewMoney(600)); err != nil {
		return err
	}
	if err := svc.Transfer(ctx, checking, savings, core.NewMoney(200)); err != nil {
		return err
	}

	// Moving the whole balance is refused.
	if err := svc.Transfer(ctx, checking, savings, core.NewMoney(200)); err != nil {
		logger.Info("Transfer refused as expected", log.FieldError, err.Error())
	}

	if err := svc.Deposit(ctx, savings, core.NewMoney(10000)); err != nil {
		return err
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
		if err := svc.Payment(ctx, savings, p.category, core.NewMoney(p.amount)); err != nil {
			return err
		}
	}

	for _, acc := range user.Accounts() {
		logger.Info("Balance",
			log.FieldAccount, acc.Number(),
			log.FieldBalance, acc.Balance().String(),
			log.FieldCount, acc.Len())
		for _, txn := range svc.TransactionHistory(acc) {
			logger.Debug("History entry", log.FieldAccount, acc.Number(), "entry", txn.String())
		}
	}
	logger.Info("Total balance", log.FieldUserID, user.ID(), log.FieldBalance, svc.TotalBalance(user).String())

	logger.Info("Monthly spending",
		log.FieldAccount, savings.Number(),
		log.FieldCategory, core.Taxi.String(),
		log.FieldAmount, engine.MonthlySpendingByCategory(savings, "TAXI").String())

	for cat, amount := range engine.MonthlySpendingByCategories(user, []string{"TAXI", "OTHER"}) {
		logger.Info("Monthly spending by category", log.FieldCategory, cat.String(), log.FieldAmount, amount.String())
	}

	for _, group := range engine.TransactionHistorySortedByAmount(user) {
		for _, txn := range group.Transactions {
			logger.Info("Payment by amount", log.FieldCategory, group.Category.String(), log.FieldAmount, txn.Amount.String())
		}
	}

	for _, txn := range engine.LastNTransactions(user, 3) {
		logger.Info("Recent transaction", log.FieldTxnType, txn.Type.String(), log.FieldAmount, txn.Amount.String())
	}

	for _, txn := range engine.TopNLargestTransactions(user, 2) {
		logger.Info("Largest payment", log.FieldCategory, txn.Category.String(), log.FieldAmount, txn.Amount.String())
	}
	return nil
}
