package http

import (
	"net/http"

	"budget/internal/core"
	applog "budget/internal/log"
)

// CategoriesBody answers GET /api/categories.
type CategoriesBody struct {
	Collection string   `json:"collection"`
	Categories []string `json:"categories"`
}

// NetBody answers GET /api/budget.
type NetBody struct {
	Net float64 `json:"net"`
}

// BudgetBody answers GET /api/budgets/{category}.
type BudgetBody struct {
	Category string  `json:"category"`
	Budget   float64 `json:"budget"`
}

// handleViewCategories lists distinct categories. Collections without
// categories, and unknown names, list nothing.
func (s *Server) handleViewCategories(w http.ResponseWriter, r *http.Request) {
	raw := sanitizeInput(r.URL.Query().Get("collection"))
	collection, ok := core.ParseCollection(raw)
	if !ok {
		NewJSONResponse().Data(CategoriesBody{Collection: raw, Categories: []string{}}).Write(w)
		return
	}

	categories, err := s.ledger.ViewCategories(r.Context(), collection)
	if err != nil {
		storeFailure(w, r, applog.OpList, collection, "", err)
		return
	}
	NewJSONResponse().Data(CategoriesBody{Collection: collection.String(), Categories: categories}).Write(w)
}

func (s *Server) handleCalculateBudget(w http.ResponseWriter, r *http.Request) {
	net, err := cached(r.Context(), s.caches, s.netCache, keyNet, s.ledger.CalculateBudget)
	if err != nil {
		storeFailure(w, r, applog.OpRead, "", "", err)
		return
	}
	NewJSONResponse().Data(NetBody{Net: net}).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := cached(r.Context(), s.caches, s.summaryCache, keySummary, s.ledger.Summary)
	if err != nil {
		storeFailure(w, r, applog.OpRead, "", "", err)
		return
	}
	NewJSONResponse().Data(summary).Write(w)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
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
	budget, err := p.Amount("budget")
	if err != nil {
		fieldErrorResponse(err).Write(w)
		return
	}

	id, err := s.ledger.SetBudget(r.Context(), category, budget)
	if err != nil {
		storeFailure(w, r, applog.OpCreate, core.Budgets, category, err)
		return
	}
	s.invalidate()
	Created(id).Write(w)
}

func (s *Server) handleViewBudget(w http.ResponseWriter, r *http.Request) {
	category := pathCategory(r)

	budget, found, err := s.ledger.ViewBudget(r.Context(), category)
	if err != nil {
		storeFailure(w, r, applog.OpRead, core.Budgets, category, err)
		return
	}
	if !found {
		NotFoundError("no budget set for category " + category).Write(w)
		return
	}
	NewJSONResponse().Data(BudgetBody{Category: category, Budget: budget}).Write(w)
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	p, fail := ParseBodyOrFail(w, r)
	if fail != nil {
		fail.Write(w)
		return
	}
	goal, err := p.RequiredString("goal")
	if err != nil {
		fieldErrorResponse(err).Write(w)
		return
	}

	id, err := s.ledger.SetFinancialGoal(r.Context(), goal)
	if err != nil {
		storeFailure(w, r, applog.OpCreate, core.Goals, "", err)
		return
	}
	Created(id).Write(w)
}

func (s *Server) handleViewGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.ledger.ViewFinancialGoals(r.Context())
	if err != nil {
		storeFailure(w, r, applog.OpList, core.Goals, "", err)
		return
	}
	NewJSONResponse().Data(goals).Write(w)
}

func (s *Server) handleUpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseID(r.PathValue("id"))
	if err != nil {
		UnprocessableEntityError("id: must be a positive integer").Write(w)
		return
	}
	p, fail := ParseBodyOrFail(w, r)
	if fail != nil {
		fail.Write(w)
		return
	}
	progress, err := p.Amount("progress")
	if err != nil {
		fieldErrorResponse(err).Write(w)
		return
	}

	n, err := s.ledger.UpdateGoalProgress(r.Context(), id, progress)
	if err != nil {
		storeFailure(w, r, applog.OpUpdate, core.Goals, "", err)
		return
	}
	Affected(n).Write(w)
}
