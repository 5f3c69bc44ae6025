package observability

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// Metrics holds the process's request and completion instruments. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	llmRequests *CounterVec
	llmLatency  *HistogramVec
	planResults *CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("studyplan_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"studyplan_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		),
		apiInflight: NewGauge("studyplan_api_inflight_requests", "In-flight API requests."),
		llmRequests: NewCounterVec("studyplan_llm_requests_total", "Completion calls by provider/model/outcome.", []string{"provider", "model", "outcome"}),
		llmLatency: NewHistogramVec(
			"studyplan_llm_request_duration_seconds",
			"Completion latency in seconds by provider/model/outcome.",
			[]string{"provider", "model", "outcome"},
			[]float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		),
		planResults: NewCounterVec("studyplan_plan_results_total", "Generate/adapt results by operation and result code.", []string{"op", "result"}),
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	s := strconv.Itoa(status)
	m.apiRequests.Inc(method, route, s)
	m.apiLatency.Observe(dur.Seconds(), method, route, s)
}

func (m *Metrics) APIInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) APIInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

// ObserveCompletion records one completion call as seen by the caller,
// after retries.
func (m *Metrics) ObserveCompletion(provider, model, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.Inc(provider, model, outcome)
	m.llmLatency.Observe(dur.Seconds(), provider, model, outcome)
}

func (m *Metrics) IncPlanResult(op, result string) {
	if m == nil {
		return
	}
	m.planResults.Inc(op, result)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmRequests, m.llmLatency, m.planResults,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}
