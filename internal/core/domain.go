package core

import (
	"errors"
	"strings"
)

const (
	Expenses Collection = "expenses"
	Income   Collection = "income"
	Budgets  Collection = "budgets"
	Goals    Collection = "goals"
)

type (
	// Collection names one of the four record sets of the ledger.
	Collection string

	// LedgerEntry is a single expense or income row.
	LedgerEntry struct {
		ID       int64   `json:"id"`
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	GoalEntry struct {
		ID       int64   `json:"id"`
		Goal     string  `json:"goal"`
		Progress float64 `json:"progress"` // unbounded, caller-defined scale
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidID     = errors.New("invalid id")
)

// ParseCollection maps user text to a collection. Matching ignores case and
// surrounding whitespace; unknown names report false.
func ParseCollection(s string) (Collection, bool) {
	c := Collection(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case Expenses, Income, Budgets, Goals:
		return c, true
	default:
		return "", false
	}
}

func (c Collection) String() string {
	return string(c)
}
