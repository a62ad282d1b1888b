package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"budget/internal/services"
	"budget/internal/storage"
)

func newLedger(t *testing.T) *services.LedgerService {
	t.Helper()
	store, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	svc := services.NewLedgerService(store, nil)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func run(t *testing.T, ledger services.Ledger, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	if err := New(ledger, in, &out).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n--- output ---\n%s", w, out)
		}
	}
}

func TestShell_MenuAndQuit(t *testing.T) {
	out := run(t, newLedger(t), "20")

	assertContains(t, out,
		"Budget Tracker Menu:",
		"1. Add expense",
		"11. View expense or income categories",
		"20. Quit",
		"Exiting program...",
	)
}

func TestShell_EOFActsLikeQuit(t *testing.T) {
	var out bytes.Buffer
	err := New(newLedger(t), strings.NewReader(""), &out).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertContains(t, out.String(), "Exiting program...")
}

func TestShell_EOFMidPrompt(t *testing.T) {
	var out bytes.Buffer
	err := New(newLedger(t), strings.NewReader("1\nfood\n"), &out).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertContains(t, out.String(), "Enter expense amount: ", "Exiting program...")
}

func TestShell_InvalidChoice(t *testing.T) {
	out := run(t, newLedger(t), "42", "abc", "20")

	if n := strings.Count(out, "Invalid choice. Please enter a number from 1 to 20."); n != 2 {
		t.Errorf("invalid choice message printed %d times, want 2", n)
	}
}

func TestShell_BudgetScenario(t *testing.T) {
	ledger := newLedger(t)
	out := run(t, ledger,
		"6", "salary", "3000",
		"1", "rent", "1200",
		"1", "food", "300",
		"14",
		"12",
		"20",
	)

	assertContains(t, out,
		"Income added successfully.",
		"Expense added successfully.",
		"Budget: 1500.00",
		"Spending:",
		"  food: 300.00",
		"  rent: 1200.00",
	)
}

func TestShell_CommaDecimalAndBadAmount(t *testing.T) {
	ledger := newLedger(t)
	out := run(t, ledger,
		"1", "food", "12,50",
		"1", "food", "twelve",
		"5", "food",
		"20",
	)

	assertContains(t, out, `Invalid amount "twelve". Please enter a number.`, "food: 12.50")

	entries, err := ledger.ViewExpensesByCategory(context.Background(), "food")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Amount != 12.5 {
		t.Fatalf("entries = %+v, want one row of 12.5", entries)
	}
}

func TestShell_OutOfRangeAmounts(t *testing.T) {
	huge := "1" + strings.Repeat("0", 309)
	out := run(t, newLedger(t),
		"1", "rent", huge,
		"1", "rent", "17"+strings.Repeat("0", 307),
		"1", "rent", "1.7e308",
		"4",
		"14",
		"20",
	)

	assertContains(t, out,
		fmt.Sprintf("Invalid amount %q. Please enter a number.", huge),
		"  rent: +Inf",
		"Budget: -Inf",
		"Exiting program...",
	)
}

func TestShell_UpdateAndDeleteExpenses(t *testing.T) {
	out := run(t, newLedger(t),
		"1", "rent", "1000",
		"2", "rent", "1100",
		"2", "travel", "5",
		"4",
		"3", "rent",
		"4",
		"20",
	)

	assertContains(t, out,
		"Expense updated successfully.",
		"No expenses found for category 'travel'.",
		"  rent: 1100.00",
		"Expense category deleted successfully.",
		"  (none)",
	)
}

func TestShell_IncomeAndCategories(t *testing.T) {
	out := run(t, newLedger(t),
		"7", "bonus",
		"6", "salary", "2000",
		"1", "rent", "900",
		"11", "income",
		"11", "EXPENSES",
		"11", "invoices",
		"10", "salary",
		"9",
		"8", "bonus",
		"13",
		"20",
	)

	assertContains(t, out,
		"Income category added successfully.",
		"Categories: bonus, salary",
		"Categories: rent",
		"No categories found.",
		"salary: 2000.00",
		"Income category deleted successfully.",
	)
	if strings.Count(out, "bonus: 0.00") != 1 {
		t.Errorf("bonus should appear in the income view only before it is deleted\n%s", out)
	}
}

func TestShell_Budgets(t *testing.T) {
	out := run(t, newLedger(t),
		"16", "food",
		"15", "food", "250",
		"16", "food",
		"20",
	)

	assertContains(t, out,
		"No budget set for category food",
		"Budget for category 'food' set successfully.",
		"Budget for category food: 250.00",
	)
}

func TestShell_Goals(t *testing.T) {
	out := run(t, newLedger(t),
		"17", "emergency fund",
		"19", "1", "0,5",
		"19", "7", "1",
		"19", "zero",
		"18",
		"20",
	)

	assertContains(t, out,
		"Financial goal 'emergency fund' set successfully.",
		"Progress towards goal updated successfully.",
		"No financial goal with ID 7.",
		`Invalid goal ID "zero". Please enter a positive whole number.`,
		"#1 emergency fund (progress: 0.50)",
	)
}

func TestShell_StoreFailureKeepsRunning(t *testing.T) {
	ledger := newLedger(t)
	if err := ledger.Close(); err != nil {
		t.Fatal(err)
	}

	out := run(t, ledger, "1", "food", "10", "14", "20")

	assertContains(t, out, "Error adding expense:", "Error calculating budget:", "Exiting program...")
	if strings.Contains(out, "Budget: ") {
		t.Error("a failed read must not render a value")
	}
}

func TestShell_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(newLedger(t), strings.NewReader("20\n"), &out).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}
