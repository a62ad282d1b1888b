package core

// CategoryTotal is an amount summed over every row of one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// SumTotals adds up the totals in order. The net budget is defined on top of
// this sum, so callers must not reorder or round before subtracting.
func SumTotals(totals []CategoryTotal) float64 {
	var sum float64
	for _, t := range totals {
		sum += t.Total
	}
	return sum
}

// TotalFor returns the total of one category, if present.
func TotalFor(totals []CategoryTotal, category string) (float64, bool) {
	for _, t := range totals {
		if t.Category == category {
			return t.Total, true
		}
	}
	return 0, false
}

// Summary bundles both aggregates and the net budget derived from them.
type Summary struct {
	Spending []CategoryTotal `json:"spending"`
	Income   []CategoryTotal `json:"income"`
	Net      float64         `json:"net"`
}
