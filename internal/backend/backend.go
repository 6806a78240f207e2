// Package backend assembles the storage driver and the services from
// configuration. Services are constructed once per process and passed
// by reference; views never re-create them.
package backend

import (
	"fmt"
	"log/slog"
	"time"

	"budgetbook/internal/amqp"
	"budgetbook/internal/config"
	"budgetbook/internal/core"
	"budgetbook/internal/retry"
	"budgetbook/internal/services"
	"budgetbook/internal/storage"
)

// Result carries the wired services plus a cleanup function releasing
// the underlying resources.
type Result struct {
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Cleanup      func() error
}

// Build creates the driver named by cfg.DataBackend, binds the two
// collections to it, and wires the services. The AMQP publisher is
// optional: a missing broker downgrades to local-only operation.
func Build(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	var driver storage.Driver
	switch cfg.DataBackend {
	case "sqlite":
		driver = storage.NewSQLite(cfg.SQLiteDBPath)
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	case "memory":
		driver = storage.NewMemory()
		logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}

	var events services.ChangePublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			events = amqpClient
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	policy := retry.Policy{
		MaxRetries:   cfg.RetryMaxAttempts,
		InitialDelay: cfg.RetryInitialDelay,
	}
	if policy.InitialDelay <= 0 {
		policy.InitialDelay = 100 * time.Millisecond
	}

	transactionStore := storage.NewCollection[core.Transaction](driver, core.CollectionTransactions, policy)
	budgetStore := storage.NewCollection[core.Budget](driver, core.CollectionBudgets, policy)

	transactionService := services.NewTransactionService(transactionStore, events)
	budgetService := services.NewBudgetService(budgetStore, transactionService, events)

	cleanup := func() error {
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close failed", "error", err)
			}
		}
		return driver.Close()
	}

	return &Result{
		Transactions: transactionService,
		Budgets:      budgetService,
		Cleanup:      cleanup,
	}, nil
}
