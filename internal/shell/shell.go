// Package shell implements the numbered text menu over a ledger.
//
// The shell reads one line per prompt, so it can be driven by a terminal or by
// any io.Reader. Text printed here is for people; nothing parses it.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/services"
)

// errInputClosed ends the session when the reader runs dry mid-prompt.
var errInputClosed = errors.New("input closed")

type menuItem struct {
	label  string
	action func(context.Context) error
}

// Shell is one interactive session.
type Shell struct {
	ledger  services.Ledger
	scanner *bufio.Scanner
	out     io.Writer
	logger  *applog.Logger
	menu    []menuItem
}

// New creates a shell reading answers from in and writing to out.
func New(ledger services.Ledger, in io.Reader, out io.Writer) *Shell {
	s := &Shell{
		ledger:  ledger,
		scanner: bufio.NewScanner(in),
		out:     out,
		logger:  applog.FromContext(context.Background()).WithComponent(applog.ComponentShell),
	}
	s.menu = []menuItem{
		{"Add expense", s.addExpense},
		{"Update an expense amount", s.updateExpense},
		{"Delete an expense category", s.deleteExpenseCategory},
		{"View expenses", s.viewExpenses},
		{"View expenses by category", s.viewExpensesByCategory},
		{"Add income", s.addIncome},
		{"Add income categories", s.addIncomeCategory},
		{"Delete an income category", s.deleteIncomeCategory},
		{"View income", s.viewIncome},
		{"View income by category", s.viewIncomeByCategory},
		{"View expense or income categories", s.viewCategories},
		{"Track spending", s.trackSpending},
		{"Track income", s.trackIncome},
		{"Calculate budget", s.calculateBudget},
		{"Set budget for a category", s.setBudget},
		{"View budget for a category", s.viewBudget},
		{"Set financial goals", s.setGoal},
		{"View progress towards financial goals", s.viewGoals},
		{"Update goal progress", s.updateGoalProgress},
		{"Quit", nil},
	}
	return s
}

// Run shows the menu until the user quits, the input ends or ctx is done.
// Ledger failures are reported to the user and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printMenu()
		choice, err := s.prompt("Enter your choice: ")
		if err != nil {
			s.println("Exiting program...")
			return s.inputErr(err)
		}

		item, ok := s.lookup(choice)
		if !ok {
			s.printf("Invalid choice. Please enter a number from 1 to %d.\n", len(s.menu))
			continue
		}
		if item.action == nil {
			s.println("Exiting program...")
			return nil
		}

		if err := item.action(ctx); err != nil {
			if errors.Is(err, errInputClosed) {
				s.println("Exiting program...")
				return s.inputErr(err)
			}
			s.logger.ErrorContext(ctx, "Menu action failed", applog.FieldOperation, item.label, applog.FieldError, err)
			s.printf("Error %v\n", err)
		}
	}
}

func (s *Shell) printMenu() {
	s.println("\nBudget Tracker Menu:")
	for i, item := range s.menu {
		s.printf("%d. %s\n", i+1, item.label)
	}
}

func (s *Shell) lookup(choice string) (menuItem, bool) {
	for i, item := range s.menu {
		if choice == fmt.Sprint(i+1) {
			return item, true
		}
	}
	return menuItem{}, false
}

// prompt writes label and returns the next trimmed input line.
func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(s.scanner.Text()), nil
}

// promptAmount returns ok=false after telling the user the value was rejected.
func (s *Shell) promptAmount(label string) (float64, bool, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, false, err
	}
	v, err := core.ParseAmount(raw)
	if err != nil {
		s.printf("Invalid amount %q. Please enter a number.\n", raw)
		return 0, false, nil
	}
	return v, true, nil
}

func (s *Shell) inputErr(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return fmt.Errorf("read input: %w", err)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printTotals(header string, totals []core.CategoryTotal) {
	s.println(header)
	if len(totals) == 0 {
		s.println("  (none)")
		return
	}
	for _, t := range totals {
		s.printf("  %s: %s\n", t.Category, core.FormatAmount(t.Total))
	}
}

func (s *Shell) printEntries(entries []core.LedgerEntry) {
	if len(entries) == 0 {
		s.println("  (none)")
		return
	}
	for _, e := range entries {
		s.printf("  #%d %s: %s\n", e.ID, e.Category, core.FormatAmount(e.Amount))
	}
}
