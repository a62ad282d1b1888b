package shell

import (
	"context"
	"fmt"
	"strings"

	"budget/internal/core"
)

func (s *Shell) addExpense(ctx context.Context) error {
	category, err := s.prompt("Enter expense category: ")
	if err != nil {
		return err
	}
	amount, ok, err := s.promptAmount("Enter expense amount: ")
	if err != nil || !ok {
		return err
	}
	if _, err := s.ledger.AddExpense(ctx, category, amount); err != nil {
		return fmt.Errorf("adding expense: %w", err)
	}
	s.println("Expense added successfully.")
	return nil
}

func (s *Shell) updateExpense(ctx context.Context) error {
	category, err := s.prompt("Enter expense category to update: ")
	if err != nil {
		return err
	}
	amount, ok, err := s.promptAmount("Enter new expense amount: ")
	if err != nil || !ok {
		return err
	}
	n, err := s.ledger.UpdateExpense(ctx, category, amount)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}
	if n == 0 {
		s.printf("No expenses found for category '%s'.\n", category)
		return nil
	}
	s.println("Expense updated successfully.")
	return nil
}

func (s *Shell) deleteExpenseCategory(ctx context.Context) error {
	category, err := s.prompt("Enter expense category to delete: ")
	if err != nil {
		return err
	}
	if _, err := s.ledger.DeleteExpenseCategory(ctx, category); err != nil {
		return fmt.Errorf("deleting expense category: %w", err)
	}
	s.println("Expense category deleted successfully.")
	return nil
}

func (s *Shell) viewExpenses(ctx context.Context) error {
	totals, err := s.ledger.TrackSpending(ctx)
	if err != nil {
		return fmt.Errorf("viewing expenses: %w", err)
	}
	s.printTotals("Expenses:", totals)
	return nil
}

func (s *Shell) viewExpensesByCategory(ctx context.Context) error {
	category, err := s.prompt("Enter category to view expenses: ")
	if err != nil {
		return err
	}
	entries, err := s.ledger.ViewExpensesByCategory(ctx, category)
	if err != nil {
		return fmt.Errorf("viewing expenses by category: %w", err)
	}
	s.printEntries(entries)
	return nil
}

func (s *Shell) addIncome(ctx context.Context) error {
	category, err := s.prompt("Enter income category: ")
	if err != nil {
		return err
	}
	amount, ok, err := s.promptAmount("Enter income amount: ")
	if err != nil || !ok {
		return err
	}
	if _, err := s.ledger.AddIncome(ctx, category, amount); err != nil {
		return fmt.Errorf("adding income: %w", err)
	}
	s.println("Income added successfully.")
	return nil
}

func (s *Shell) addIncomeCategory(ctx context.Context) error {
	category, err := s.prompt("Enter income category to add: ")
	if err != nil {
		return err
	}
	if _, err := s.ledger.AddIncomeCategory(ctx, category); err != nil {
		return fmt.Errorf("adding income category: %w", err)
	}
	s.println("Income category added successfully.")
	return nil
}

func (s *Shell) deleteIncomeCategory(ctx context.Context) error {
	category, err := s.prompt("Enter income category to delete: ")
	if err != nil {
		return err
	}
	if _, err := s.ledger.DeleteIncomeCategory(ctx, category); err != nil {
		return fmt.Errorf("deleting income category: %w", err)
	}
	s.println("Income category deleted successfully.")
	return nil
}

func (s *Shell) viewIncome(ctx context.Context) error {
	totals, err := s.ledger.TrackIncome(ctx)
	if err != nil {
		return fmt.Errorf("viewing income: %w", err)
	}
	s.printTotals("Income:", totals)
	return nil
}

func (s *Shell) viewIncomeByCategory(ctx context.Context) error {
	category, err := s.prompt("Enter category to view income: ")
	if err != nil {
		return err
	}
	entries, err := s.ledger.ViewIncomeByCategory(ctx, category)
	if err != nil {
		return fmt.Errorf("viewing income by category: %w", err)
	}
	s.printEntries(entries)
	return nil
}

func (s *Shell) viewCategories(ctx context.Context) error {
	raw, err := s.prompt("Enter 'expenses' or 'income' to view categories: ")
	if err != nil {
		return err
	}
	// unknown names fall through to the store, which answers with nothing
	collection, _ := core.ParseCollection(raw)
	if collection == "" {
		collection = core.Collection(raw)
	}
	categories, err := s.ledger.ViewCategories(ctx, collection)
	if err != nil {
		return fmt.Errorf("viewing categories: %w", err)
	}
	if len(categories) == 0 {
		s.println("No categories found.")
		return nil
	}
	s.printf("Categories: %s\n", strings.Join(categories, ", "))
	return nil
}

func (s *Shell) trackSpending(ctx context.Context) error {
	totals, err := s.ledger.TrackSpending(ctx)
	if err != nil {
		return fmt.Errorf("tracking spending: %w", err)
	}
	s.printTotals("Spending:", totals)
	return nil
}

func (s *Shell) trackIncome(ctx context.Context) error {
	totals, err := s.ledger.TrackIncome(ctx)
	if err != nil {
		return fmt.Errorf("tracking income: %w", err)
	}
	s.printTotals("Income:", totals)
	return nil
}

func (s *Shell) calculateBudget(ctx context.Context) error {
	net, err := s.ledger.CalculateBudget(ctx)
	if err != nil {
		return fmt.Errorf("calculating budget: %w", err)
	}
	s.printf("Budget: %s\n", core.FormatAmount(net))
	return nil
}

func (s *Shell) setBudget(ctx context.Context) error {
	category, err := s.prompt("Enter category to set budget: ")
	if err != nil {
		return err
	}
	amount, ok, err := s.promptAmount("Enter budget amount: ")
	if err != nil || !ok {
		return err
	}
	if _, err := s.ledger.SetBudget(ctx, category, amount); err != nil {
		return fmt.Errorf("setting budget: %w", err)
	}
	s.printf("Budget for category '%s' set successfully.\n", category)
	return nil
}

func (s *Shell) viewBudget(ctx context.Context) error {
	category, err := s.prompt("Enter category to view budget: ")
	if err != nil {
		return err
	}
	budget, found, err := s.ledger.ViewBudget(ctx, category)
	if err != nil {
		return fmt.Errorf("viewing budget: %w", err)
	}
	if !found {
		s.printf("No budget set for category %s\n", category)
		return nil
	}
	s.printf("Budget for category %s: %s\n", category, core.FormatAmount(budget))
	return nil
}

func (s *Shell) setGoal(ctx context.Context) error {
	goal, err := s.prompt("Enter financial goal: ")
	if err != nil {
		return err
	}
	if _, err := s.ledger.SetFinancialGoal(ctx, goal); err != nil {
		return fmt.Errorf("setting financial goal: %w", err)
	}
	s.printf("Financial goal '%s' set successfully.\n", goal)
	return nil
}

func (s *Shell) viewGoals(ctx context.Context) error {
	goals, err := s.ledger.ViewFinancialGoals(ctx)
	if err != nil {
		return fmt.Errorf("viewing financial goals: %w", err)
	}
	s.println("Financial goals:")
	if len(goals) == 0 {
		s.println("  (none)")
		return nil
	}
	for _, g := range goals {
		s.printf("  #%d %s (progress: %s)\n", g.ID, g.Goal, core.FormatAmount(g.Progress))
	}
	return nil
}

func (s *Shell) updateGoalProgress(ctx context.Context) error {
	raw, err := s.prompt("Enter goal ID: ")
	if err != nil {
		return err
	}
	id, err := core.ParseID(raw)
	if err != nil {
		s.printf("Invalid goal ID %q. Please enter a positive whole number.\n", raw)
		return nil
	}
	progress, ok, err := s.promptAmount("Enter progress towards goal: ")
	if err != nil || !ok {
		return err
	}
	n, err := s.ledger.UpdateGoalProgress(ctx, id, progress)
	if err != nil {
		return fmt.Errorf("updating goal progress: %w", err)
	}
	if n == 0 {
		s.printf("No financial goal with ID %d.\n", id)
		return nil
	}
	s.println("Progress towards goal updated successfully.")
	return nil
}
