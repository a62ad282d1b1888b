package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/storage"
)

// LedgerReader is the read side of the ledger.
type LedgerReader interface {
	ViewCategories(ctx context.Context, collection core.Collection) ([]string, error)
	ViewExpensesByCategory(ctx context.Context, category string) ([]core.LedgerEntry, error)
	ViewIncomeByCategory(ctx context.Context, category string) ([]core.LedgerEntry, error)
	TrackSpending(ctx context.Context) ([]core.CategoryTotal, error)
	TrackIncome(ctx context.Context) ([]core.CategoryTotal, error)
	CalculateBudget(ctx context.Context) (float64, error)
	ViewBudget(ctx context.Context, category string) (float64, bool, error)
	ViewFinancialGoals(ctx context.Context) ([]core.GoalEntry, error)
}

// Ledger is every operation a collaborator (shell, HTTP API) may call.
type Ledger interface {
	LedgerReader
	AddExpense(ctx context.Context, category string, amount float64) (int64, error)
	UpdateExpense(ctx context.Context, category string, newAmount float64) (int64, error)
	DeleteExpenseCategory(ctx context.Context, category string) (int64, error)
	AddIncome(ctx context.Context, category string, amount float64) (int64, error)
	AddIncomeCategory(ctx context.Context, category string) (int64, error)
	DeleteIncomeCategory(ctx context.Context, category string) (int64, error)
	SetBudget(ctx context.Context, category string, budget float64) (int64, error)
	SetFinancialGoal(ctx context.Context, description string) (int64, error)
	UpdateGoalProgress(ctx context.Context, id int64, progress float64) (int64, error)
	Summary(ctx context.Context) (core.Summary, error)
	Ping(ctx context.Context) error
	Close() error
}

// ChangePublisher receives a message after each successful mutation.
type ChangePublisher interface {
	PublishLedgerChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error
}

// LedgerService puts the store behind the Ledger port and announces every
// mutation. Reads go straight to the store.
type LedgerService struct {
	*storage.LedgerStore
	publisher ChangePublisher
}

var _ Ledger = (*LedgerService)(nil)

// NewLedgerService wires a store with an optional publisher.
func NewLedgerService(store *storage.LedgerStore, publisher ChangePublisher) *LedgerService {
	if c, ok := publisher.(*amqp.Client); ok && c == nil {
		publisher = nil
	}
	return &LedgerService{
		LedgerStore: store,
		publisher:   publisher,
	}
}

func (s *LedgerService) AddExpense(ctx context.Context, category string, amount float64) (int64, error) {
	id, err := s.LedgerStore.AddExpense(ctx, category, amount)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, change(core.Expenses, amqp.OpCreate, category, amount, id, 1))
	return id, nil
}

func (s *LedgerService) UpdateExpense(ctx context.Context, category string, newAmount float64) (int64, error) {
	n, err := s.LedgerStore.UpdateExpense(ctx, category, newAmount)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, change(core.Expenses, amqp.OpUpdate, category, newAmount, 0, n))
	}
	return n, nil
}

func (s *LedgerService) DeleteExpenseCategory(ctx context.Context, category string) (int64, error) {
	n, err := s.LedgerStore.DeleteExpenseCategory(ctx, category)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, change(core.Expenses, amqp.OpDelete, category, 0, 0, n))
	}
	return n, nil
}

func (s *LedgerService) AddIncome(ctx context.Context, category string, amount float64) (int64, error) {
	id, err := s.LedgerStore.AddIncome(ctx, category, amount)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, change(core.Income, amqp.OpCreate, category, amount, id, 1))
	return id, nil
}

func (s *LedgerService) AddIncomeCategory(ctx context.Context, category string) (int64, error) {
	id, err := s.LedgerStore.AddIncomeCategory(ctx, category)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, change(core.Income, amqp.OpCreate, category, 0, id, 1))
	return id, nil
}

func (s *LedgerService) DeleteIncomeCategory(ctx context.Context, category string) (int64, error) {
	n, err := s.LedgerStore.DeleteIncomeCategory(ctx, category)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, change(core.Income, amqp.OpDelete, category, 0, 0, n))
	}
	return n, nil
}

func (s *LedgerService) SetBudget(ctx context.Context, category string, budget float64) (int64, error) {
	id, err := s.LedgerStore.SetBudget(ctx, category, budget)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, change(core.Budgets, amqp.OpCreate, category, budget, id, 1))
	return id, nil
}

func (s *LedgerService) SetFinancialGoal(ctx context.Context, description string) (int64, error) {
	id, err := s.LedgerStore.SetFinancialGoal(ctx, description)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, change(core.Goals, amqp.OpCreate, "", 0, id, 1))
	return id, nil
}

func (s *LedgerService) UpdateGoalProgress(ctx context.Context, id int64, progress float64) (int64, error) {
	n, err := s.LedgerStore.UpdateGoalProgress(ctx, id, progress)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, change(core.Goals, amqp.OpUpdate, "", progress, id, n))
	}
	return n, nil
}

// Summary loads both aggregates concurrently and derives the net budget
// from them, so the three figures are always mutually consistent.
func (s *LedgerService) Summary(ctx context.Context) (core.Summary, error) {
	var summary core.Summary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		spending, err := s.LedgerStore.TrackSpending(gctx)
		if err != nil {
			return err
		}
		summary.Spending = spending
		return nil
	})
	g.Go(func() error {
		income, err := s.LedgerStore.TrackIncome(gctx)
		if err != nil {
			return err
		}
		summary.Income = income
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Summary{}, fmt.Errorf("load summary: %w", err)
	}

	summary.Net = core.SumTotals(summary.Income) - core.SumTotals(summary.Spending)
	return summary, nil
}

func (s *LedgerService) publish(ctx context.Context, msg *amqp.LedgerChangeMessage) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No change publisher configured, skipping ledger change message",
			"collection", msg.Collection)
		return
	}

	// The write already succeeded; a lost notification must not undo it.
	if err := s.publisher.PublishLedgerChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger change message",
			"collection", msg.Collection,
			"operation", msg.Operation,
			"category", msg.Category,
			"error", err)
	}
}

// Close closes the store and, when it supports it, the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.LedgerStore != nil {
		if err := s.LedgerStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if closer, ok := s.publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}

	return nil
}

func change(c core.Collection, op amqp.Operation, category string, amount float64, id, rows int64) *amqp.LedgerChangeMessage {
	msg := amqp.NewLedgerChangeMessage(c.String(), op, category, amount)
	msg.ID = id
	msg.RowsAffected = rows
	return msg
}
