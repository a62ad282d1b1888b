package http

import (
	"net/http"

	"budget/internal/core"
	applog "budget/internal/log"
)

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
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

	id, err := s.ledger.AddIncome(r.Context(), category, amount)
	if err != nil {
		storeFailure(w, r, applog.OpCreate, core.Income, category, err)
		return
	}
	s.invalidate()

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Income added",
		applog.FieldCategory, category,
		applog.FieldAmount, amount,
		"id", id)
	Created(id).Write(w)
}

// handleAddIncomeCategory registers a category with a zero amount row, so it
// shows up in listings before any real income arrives.
func (s *Server) handleAddIncomeCategory(w http.ResponseWriter, r *http.Request) {
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

	id, err := s.ledger.AddIncomeCategory(r.Context(), category)
	if err != nil {
		storeFailure(w, r, applog.OpCreate, core.Income, category, err)
		return
	}
	s.invalidate()
	Created(id).Write(w)
}

func (s *Server) handleDeleteIncomeCategory(w http.ResponseWriter, r *http.Request) {
	category := pathCategory(r)

	n, err := s.ledger.DeleteIncomeCategory(r.Context(), category)
	if err != nil {
		storeFailure(w, r, applog.OpDelete, core.Income, category, err)
		return
	}
	if n > 0 {
		s.invalidate()
	}
	Affected(n).Write(w)
}

func (s *Server) handleViewIncome(w http.ResponseWriter, r *http.Request) {
	category := pathCategory(r)

	entries, err := s.ledger.ViewIncomeByCategory(r.Context(), category)
	if err != nil {
		storeFailure(w, r, applog.OpList, core.Income, category, err)
		return
	}
	NewJSONResponse().Data(entries).Write(w)
}

func (s *Server) handleTrackIncome(w http.ResponseWriter, r *http.Request) {
	totals, err := cached(r.Context(), s.caches, s.totalsCache, keyIncome, s.ledger.TrackIncome)
	if err != nil {
		storeFailure(w, r, applog.OpRead, core.Income, "", err)
		return
	}
	NewJSONResponse().Data(totals).Write(w)
}
