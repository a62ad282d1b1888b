package core

import "testing"

func TestParseCollection(t *testing.T) {
	cases := []struct {
		in   string
		want Collection
		ok   bool
	}{
		{"expenses", Expenses, true},
		{" Income ", Income, true},
		{"BUDGETS", Budgets, true},
		{"goals", Goals, true},
		{"expense", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseCollection(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseCollection(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSummaryHelpers(t *testing.T) {
	totals := []CategoryTotal{{Category: "rent", Total: 1200}, {Category: "food", Total: 300}}
	if got := SumTotals(totals); got != 1500 {
		t.Fatalf("SumTotals = %v, want 1500", got)
	}
	if got := SumTotals(nil); got != 0 {
		t.Fatalf("SumTotals(nil) = %v, want 0", got)
	}
	if v, ok := TotalFor(totals, "food"); !ok || v != 300 {
		t.Fatalf("TotalFor(food) = %v,%v", v, ok)
	}
	if _, ok := TotalFor(totals, "travel"); ok {
		t.Fatal("TotalFor(travel) should be absent")
	}
}
