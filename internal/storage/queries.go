package storage

const (
	createExpense = `INSERT INTO expenses (category, amount) VALUES (?, ?)`
	updateExpense = `UPDATE expenses SET amount = ? WHERE category = ?`
	deleteExpense = `DELETE FROM expenses WHERE category = ?`
	listExpenses  = `SELECT id, category, amount FROM expenses WHERE category = ? ORDER BY id`
	sumExpenses   = `SELECT category, COALESCE(SUM(amount), 0) FROM expenses GROUP BY category ORDER BY category`
	expenseCats   = `SELECT DISTINCT category FROM expenses ORDER BY category`

	createIncome = `INSERT INTO income (category, amount) VALUES (?, ?)`
	deleteIncome = `DELETE FROM income WHERE category = ?`
	listIncome   = `SELECT id, category, amount FROM income WHERE category = ? ORDER BY id`
	sumIncome    = `SELECT category, COALESCE(SUM(amount), 0) FROM income GROUP BY category ORDER BY category`
	incomeCats   = `SELECT DISTINCT category FROM income ORDER BY category`

	createBudget = `INSERT INTO budgets (category, budget) VALUES (?, ?)`
	// First inserted row wins; duplicates are never collapsed.
	firstBudget = `SELECT budget FROM budgets WHERE category = ? ORDER BY id LIMIT 1`

	createGoal     = `INSERT INTO financial_goals (goal, progress) VALUES (?, 0.0)`
	listGoals      = `SELECT id, goal, progress FROM financial_goals ORDER BY id`
	updateProgress = `UPDATE financial_goals SET progress = ? WHERE id = ?`
)
