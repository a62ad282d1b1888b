package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"budget/internal/core"
)

func newTestStore(t *testing.T) *LedgerStore {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddExpenseShowsInTrackSpending(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.AddExpense(ctx, "rent", 1200)
	require.NoError(t, err)

	spending, err := store.TrackSpending(ctx)
	require.NoError(t, err)
	require.Equal(t, []core.CategoryTotal{{Category: "rent", Total: 1200}}, spending)

	_, err = store.AddExpense(ctx, "rent", 50)
	require.NoError(t, err)

	spending, err = store.TrackSpending(ctx)
	require.NoError(t, err)
	total, ok := core.TotalFor(spending, "rent")
	require.True(t, ok)
	require.Equal(t, 1250.0, total)
}

func TestUpdateExpenseOverwritesEveryRow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, amount := range []float64{10, 20, 30} {
		_, err := store.AddExpense(ctx, "food", amount)
		require.NoError(t, err)
	}
	_, err := store.AddExpense(ctx, "rent", 900)
	require.NoError(t, err)

	n, err := store.UpdateExpense(ctx, "food", 5)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	rows, err := store.ViewExpensesByCategory(ctx, "food")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		require.Equal(t, 5.0, r.Amount)
	}

	rent, err := store.ViewExpensesByCategory(ctx, "rent")
	require.NoError(t, err)
	require.Equal(t, 900.0, rent[0].Amount)
}

func TestUpdateExpenseUnknownCategoryIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	n, err := store.UpdateExpense(ctx, "missing", 1)
	require.NoError(t, err)
	require.Zero(t, n)

	spending, err := store.TrackSpending(ctx)
	require.NoError(t, err)
	require.Empty(t, spending)
}

func TestDeleteExpenseCategory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.AddExpense(ctx, "travel", 100)
	require.NoError(t, err)
	_, err = store.AddExpense(ctx, "travel", 200)
	require.NoError(t, err)

	n, err := store.DeleteExpenseCategory(ctx, "travel")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	rows, err := store.ViewExpensesByCategory(ctx, "travel")
	require.NoError(t, err)
	require.Empty(t, rows)

	// deleting again is a silent no-op
	n, err = store.DeleteExpenseCategory(ctx, "travel")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestIncomeOperations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.AddIncome(ctx, "salary", 3000)
	require.NoError(t, err)
	id, err := store.AddIncomeCategory(ctx, "bonus")
	require.NoError(t, err)
	require.Positive(t, id)

	bonus, err := store.ViewIncomeByCategory(ctx, "bonus")
	require.NoError(t, err)
	require.Equal(t, []core.LedgerEntry{{ID: id, Category: "bonus", Amount: 0}}, bonus)

	income, err := store.TrackIncome(ctx)
	require.NoError(t, err)
	require.Equal(t, []core.CategoryTotal{
		{Category: "bonus", Total: 0},
		{Category: "salary", Total: 3000},
	}, income)

	n, err := store.DeleteIncomeCategory(ctx, "bonus")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	cats, err := store.ViewCategories(ctx, core.Income)
	require.NoError(t, err)
	require.Equal(t, []string{"salary"}, cats)
}

func TestViewCategories(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, c := range []string{"rent", "food", "rent"} {
		_, err := store.AddExpense(ctx, c, 1)
		require.NoError(t, err)
	}

	cats, err := store.ViewCategories(ctx, core.Expenses)
	require.NoError(t, err)
	sort.Strings(cats)
	require.Equal(t, []string{"food", "rent"}, cats)

	for _, c := range []core.Collection{core.Budgets, core.Goals, core.Collection("nope")} {
		cats, err := store.ViewCategories(ctx, c)
		require.NoError(t, err)
		require.Empty(t, cats)
	}
}

func TestCalculateBudgetScenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.AddIncome(ctx, "salary", 3000)
	require.NoError(t, err)
	_, err = store.AddExpense(ctx, "rent", 1200)
	require.NoError(t, err)
	_, err = store.AddExpense(ctx, "food", 300)
	require.NoError(t, err)

	net, err := store.CalculateBudget(ctx)
	require.NoError(t, err)
	require.Equal(t, 1500.0, net)
}

func TestCalculateBudgetMatchesAggregates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	steps := []func() error{
		func() error { _, err := store.AddIncome(ctx, "salary", 2500.75); return err },
		func() error { _, err := store.AddIncome(ctx, "gift", 0.1); return err },
		func() error { _, err := store.AddExpense(ctx, "food", 0.2); return err },
		func() error { _, err := store.AddExpense(ctx, "food", 12.5); return err },
		func() error { _, err := store.UpdateExpense(ctx, "food", 40); return err },
		func() error { _, err := store.AddExpense(ctx, "fun", -3); return err },
		func() error { _, err := store.DeleteIncomeCategory(ctx, "gift"); return err },
		func() error { _, err := store.AddIncomeCategory(ctx, "side"); return err },
	}

	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)

		income, err := store.TrackIncome(ctx)
		require.NoError(t, err)
		spending, err := store.TrackSpending(ctx)
		require.NoError(t, err)

		net, err := store.CalculateBudget(ctx)
		require.NoError(t, err)
		require.Equal(t, core.SumTotals(income)-core.SumTotals(spending), net, "step %d", i)
	}
}

func TestCalculateBudgetEmptyIsZero(t *testing.T) {
	net, err := newTestStore(t).CalculateBudget(context.Background())
	require.NoError(t, err)
	require.Zero(t, net)
}

func TestSetBudgetKeepsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, found, err := store.ViewBudget(ctx, "food")
	require.NoError(t, err)
	require.False(t, found)

	first, err := store.SetBudget(ctx, "food", 400)
	require.NoError(t, err)
	second, err := store.SetBudget(ctx, "food", 250)
	require.NoError(t, err)
	require.Greater(t, second, first)

	budget, found, err := store.ViewBudget(ctx, "food")
	require.NoError(t, err)
	require.True(t, found)
	require.Contains(t, []float64{400, 250}, budget)
}

func TestGoals(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.SetFinancialGoal(ctx, "emergency fund")
	require.NoError(t, err)

	goals, err := store.ViewFinancialGoals(ctx)
	require.NoError(t, err)
	require.Equal(t, []core.GoalEntry{{ID: id, Goal: "emergency fund", Progress: 0}}, goals)

	n, err := store.UpdateGoalProgress(ctx, id, 1.5) // no upper bound
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = store.UpdateGoalProgress(ctx, id+100, 0.9)
	require.NoError(t, err)
	require.Zero(t, n)

	goals, err = store.ViewFinancialGoals(ctx)
	require.NoError(t, err)
	require.Equal(t, []core.GoalEntry{{ID: id, Goal: "emergency fund", Progress: 1.5}}, goals)
}

func TestIDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.AddExpense(ctx, "a", 1)
	require.NoError(t, err)
	_, err = store.DeleteExpenseCategory(ctx, "a")
	require.NoError(t, err)

	second, err := store.AddExpense(ctx, "a", 1)
	require.NoError(t, err)
	require.Greater(t, second, first)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = store.AddExpense(ctx, "rent", 1200)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	spending, err := store.TrackSpending(ctx)
	require.NoError(t, err)
	require.Equal(t, []core.CategoryTotal{{Category: "rent", Total: 1200}}, spending)
}

func TestOperationsAfterCloseFail(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ops := map[string]func() error{
		"add expense":  func() error { _, err := store.AddExpense(ctx, "x", 1); return err },
		"update":       func() error { _, err := store.UpdateExpense(ctx, "x", 1); return err },
		"categories":   func() error { _, err := store.ViewCategories(ctx, core.Expenses); return err },
		"spending":     func() error { _, err := store.TrackSpending(ctx); return err },
		"budget":       func() error { _, err := store.CalculateBudget(ctx); return err },
		"view budget":  func() error { _, _, err := store.ViewBudget(ctx, "x"); return err },
		"goals":        func() error { _, err := store.ViewFinancialGoals(ctx); return err },
		"goal update":  func() error { _, err := store.UpdateGoalProgress(ctx, 1, 1); return err },
		"ping":         func() error { return store.Ping(ctx) },
		"second close": store.Close,
	}
	for name, op := range ops {
		err := op()
		require.Error(t, err, name)
		require.True(t, IsStoreError(err), name)
		require.True(t, errors.Is(err, ErrStoreClosed), name)
	}
}

func TestStoreErrorFormatting(t *testing.T) {
	err := storeErr("add expense", errors.New("disk full"))
	require.EqualError(t, err, "ledger store: add expense: disk full")
	require.Nil(t, storeErr("noop", nil))
}
