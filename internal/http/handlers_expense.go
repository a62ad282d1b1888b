package http

import (
	"net/http"

	"budget/internal/core"
	applog "budget/internal/log"
)

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	p, fail := ParseBodyOrFail(w, r)
	if fail != nil {
		fail.Write(w)
		return
	}
	category, err := p.RequiredString("category")
	if err != nil {
		fieldErrorResponse(err).Write(w)
		return
	}
	amount, err := p.Amount("amount")
	if err != nil {
		fieldErrorResponse(err).Write(w)
		return
	}

	id, err := s.ledger.AddExpense(r.Context(), category, amount)
	if err != nil {
		storeFailure(w, r, applog.OpCreate, core.Expenses, category, err)
		return
	}
	s.invalidate()

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Expense added",
		applog.FieldCategory, category,
		applog.FieldAmount, amount,
		"id", id)
	Created(id).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	category := pathCategory(r)
	p, fail := ParseBodyOrFail(w, r)
	if fail != nil {
		fail.Write(w)
		return
	}
	amount, err := p.Amount("amount")
	if err != nil {
		fieldErrorResponse(err).Write(w)
		return
	}

	n, err := s.ledger.UpdateExpense(r.Context(), category, amount)
	if err != nil {
		storeFailure(w, r, applog.OpUpdate, core.Expenses, category, err)
		return
	}
	if n > 0 {
		s.invalidate()
	}
	Affected(n).Write(w)
}

func (s *Server) handleDeleteExpenseCategory(w http.ResponseWriter, r *http.Request) {
	category := pathCategory(r)

	n, err := s.ledger.DeleteExpenseCategory(r.Context(), category)
	if err != nil {
		storeFailure(w, r, applog.OpDelete, core.Expenses, category, err)
		return
	}
	if n > 0 {
		s.invalidate()
	}
	Affected(n).Write(w)
}

func (s *Server) handleViewExpenses(w http.ResponseWriter, r *http.Request) {
	category := pathCategory(r)

	entries, err := s.ledger.ViewExpensesByCategory(r.Context(), category)
	if err != nil {
		storeFailure(w, r, applog.OpList, core.Expenses, category, err)
		return
	}
	NewJSONResponse().Data(entries).Write(w)
}

func (s *Server) handleTrackSpending(w http.ResponseWriter, r *http.Request) {
	totals, err := cached(r.Context(), s.caches, s.totalsCache, keySpending, s.ledger.TrackSpending)
	if err != nil {
		storeFailure(w, r, applog.OpRead, core.Expenses, "", err)
		return
	}
	NewJSONResponse().Data(totals).Write(w)
}
