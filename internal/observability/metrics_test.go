package observability

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/generate-plan", 200, 1500*time.Millisecond)
	m.ObserveAPI("POST", "/generate-plan", 200, 20*time.Millisecond)
	m.ObserveCompletion("openrouter", "mistral", "ok", 3*time.Second)
	m.IncPlanResult("generate", "ok")
	m.APIInflightInc()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`studyplan_api_requests_total{method="POST",route="/generate-plan",status="200"} 2`,
		`studyplan_api_request_duration_seconds_bucket{method="POST",route="/generate-plan",status="200",le="0.05"} 1`,
		`studyplan_api_request_duration_seconds_bucket{method="POST",route="/generate-plan",status="200",le="+Inf"} 2`,
		`studyplan_api_inflight_requests 1`,
		`studyplan_llm_requests_total{provider="openrouter",model="mistral",outcome="ok"} 1`,
		`studyplan_plan_results_total{op="generate",result="ok"} 1`,
		"# TYPE studyplan_llm_request_duration_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q\n%s", want, out)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.ObserveCompletion("p", "m", "ok", time.Millisecond)
	m.IncPlanResult("adapt", "ok")
	m.APIInflightInc()
	m.APIInflightDec()

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestLabelEscaping(t *testing.T) {
	c := NewCounterVec("x_total", "x", []string{"path"})
	c.Inc("a\"b\\c\nd")
	c.Inc("")
	var buf bytes.Buffer
	_ = c.WritePrometheus(&buf)
	if !strings.Contains(buf.String(), `x_total{path="a\"b\\c\nd"} 1`) {
		t.Fatalf("label not escaped: %s", buf.String())
	}
	if c.Value("") != 1 || c.Value("unknown") != 1 {
		t.Fatalf("empty label should map to unknown")
	}
}
