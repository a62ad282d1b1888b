package storage

import (
	"context"
	"database/sql"
	"log/slog"

	"budget/internal/core"
)

// AddExpense inserts one expense row and returns its id.
func (s *LedgerStore) AddExpense(ctx context.Context, category string, amount float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.insert(ctx, "add expense", createExpense, category, amount)
	if err != nil {
		return 0, err
	}
	slog.DebugContext(ctx, "Expense saved", "id", id, "category", category, "amount", amount)
	return id, nil
}

// UpdateExpense overwrites the amount of every expense row in category.
// It returns the number of rows changed; zero means no row matched.
func (s *LedgerStore) UpdateExpense(ctx context.Context, category string, newAmount float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exec(ctx, "update expense", updateExpense, newAmount, category)
}

// DeleteExpenseCategory removes every expense row in category.
func (s *LedgerStore) DeleteExpenseCategory(ctx context.Context, category string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exec(ctx, "delete expense category", deleteExpense, category)
}

// AddIncome inserts one income row and returns its id.
func (s *LedgerStore) AddIncome(ctx context.Context, category string, amount float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.insert(ctx, "add income", createIncome, category, amount)
	if err != nil {
		return 0, err
	}
	slog.DebugContext(ctx, "Income saved", "id", id, "category", category, "amount", amount)
	return id, nil
}

// AddIncomeCategory registers a category by inserting a zero-amount row.
func (s *LedgerStore) AddIncomeCategory(ctx context.Context, category string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insert(ctx, "add income category", createIncome, category, 0.0)
}

// DeleteIncomeCategory removes every income row in category.
func (s *LedgerStore) DeleteIncomeCategory(ctx context.Context, category string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exec(ctx, "delete income category", deleteIncome, category)
}

// ViewCategories returns the distinct categories of the expenses or income
// collection. Any other collection yields an empty result, not an error.
func (s *LedgerStore) ViewCategories(ctx context.Context, collection core.Collection) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, storeErr("view categories", ErrStoreClosed)
	}

	var q string
	switch collection {
	case core.Expenses:
		q = expenseCats
	case core.Income:
		q = incomeCats
	default:
		return []string{}, nil
	}

	categories := []string{}
	err := s.query(ctx, "view categories", q, func(rows *sql.Rows) error {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		categories = append(categories, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *LedgerStore) ViewExpensesByCategory(ctx context.Context, category string) ([]core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entries(ctx, "view expenses by category", listExpenses, category)
}

func (s *LedgerStore) ViewIncomeByCategory(ctx context.Context, category string) ([]core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entries(ctx, "view income by category", listIncome, category)
}

// TrackSpending sums expenses per category. Categories without rows are
// absent from the result.
func (s *LedgerStore) TrackSpending(ctx context.Context) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totals(ctx, "track spending", sumExpenses)
}

// TrackIncome sums income per category.
func (s *LedgerStore) TrackIncome(ctx context.Context) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totals(ctx, "track income", sumIncome)
}

// CalculateBudget returns total income minus total spending, computed from
// the same per-category totals TrackIncome and TrackSpending report. The
// error is the failure signal; a zero result is a legitimate balance.
func (s *LedgerStore) CalculateBudget(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	income, err := s.totals(ctx, "calculate budget", sumIncome)
	if err != nil {
		return 0, err
	}
	spending, err := s.totals(ctx, "calculate budget", sumExpenses)
	if err != nil {
		return 0, err
	}
	return core.SumTotals(income) - core.SumTotals(spending), nil
}

// SetBudget always inserts a new budget row, even when category already has one.
func (s *LedgerStore) SetBudget(ctx context.Context, category string, budget float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insert(ctx, "set budget", createBudget, category, budget)
}

// ViewBudget returns the budget of the first row recorded for category.
// found is false when the category has no budget.
func (s *LedgerStore) ViewBudget(ctx context.Context, category string) (budget float64, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.query(ctx, "view budget", firstBudget, func(rows *sql.Rows) error {
		found = true
		return rows.Scan(&budget)
	}, category)
	if err != nil {
		return 0, false, err
	}
	return budget, found, nil
}

// SetFinancialGoal records a goal with zero progress and returns its id.
func (s *LedgerStore) SetFinancialGoal(ctx context.Context, description string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insert(ctx, "set financial goal", createGoal, description)
}

func (s *LedgerStore) ViewFinancialGoals(ctx context.Context) ([]core.GoalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := []core.GoalEntry{}
	err := s.query(ctx, "view financial goals", listGoals, func(rows *sql.Rows) error {
		var g core.GoalEntry
		if err := rows.Scan(&g.ID, &g.Goal, &g.Progress); err != nil {
			return err
		}
		goals = append(goals, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// UpdateGoalProgress overwrites the progress of goal id. Progress is not
// bounded. An unknown id changes nothing and reports zero rows.
func (s *LedgerStore) UpdateGoalProgress(ctx context.Context, id int64, progress float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exec(ctx, "update goal progress", updateProgress, progress, id)
}

func (s *LedgerStore) entries(ctx context.Context, op, q, category string) ([]core.LedgerEntry, error) {
	entries := []core.LedgerEntry{}
	err := s.query(ctx, op, q, func(rows *sql.Rows) error {
		var e core.LedgerEntry
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount); err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	}, category)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *LedgerStore) totals(ctx context.Context, op, q string) ([]core.CategoryTotal, error) {
	totals := []core.CategoryTotal{}
	err := s.query(ctx, op, q, func(rows *sql.Rows) error {
		var t core.CategoryTotal
		if err := rows.Scan(&t.Category, &t.Total); err != nil {
			return err
		}
		totals = append(totals, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}
