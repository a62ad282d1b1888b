package http

import "net/http"

// MetricsBody answers GET /api/metrics with the middleware counters.
type MetricsBody struct {
	Requests  RequestMetrics   `json:"requests"`
	RateLimit RateLimitMetrics `json:"rate_limit"`
	Security  SecurityMetrics  `json:"security"`
}

type RequestMetrics struct {
	Total             int64   `json:"total"`
	AverageResponseMs float64 `json:"average_response_ms"`
}

type RateLimitMetrics struct {
	Rejected      int64 `json:"rejected"`
	ActiveClients int64 `json:"active_clients"`
}

type SecurityMetrics struct {
	SuspiciousRequests int64 `json:"suspicious_requests"`
}

// handleMetrics reports counters as of the previous completed request; the
// current one is not counted yet.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	tm := s.tracer.GetMetrics()
	rm := s.rateLimiter.GetMetrics()
	dm := s.detector.GetMetrics()

	NewJSONResponse().Data(MetricsBody{
		Requests: RequestMetrics{
			Total:             tm.TotalRequests,
			AverageResponseMs: float64(tm.AverageResponseTime.Microseconds()) / 1000,
		},
		RateLimit: RateLimitMetrics{
			Rejected:      rm.Rejected,
			ActiveClients: rm.ActiveClients,
		},
		Security: SecurityMetrics{
			SuspiciousRequests: dm.SuspiciousRequests,
		},
	}).Write(w)
}
