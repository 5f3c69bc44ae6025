package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/clients/llm"
	"github.com/yungbote/studyplan-backend/internal/config"
	"github.com/yungbote/studyplan-backend/internal/data/repos"
	"github.com/yungbote/studyplan-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/studyplan-backend/internal/http/handlers"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/format"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/prompts"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type stubLLM struct {
	reply string
	err   error
	calls int
}

func (s *stubLLM) Model() string { return "stub" }

func (s *stubLLM) Complete(context.Context, string) (string, error) {
	s.calls++
	return s.reply, s.err
}

type testEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	llm     *stubLLM
	repos   repos.Repos
	metrics *observability.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)
	stub := &stubLLM{}
	cfg := config.Default()
	metrics := observability.NewMetrics()

	router := NewRouter(RouterConfig{
		Log:             log,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		MaxRequestBytes: 4096,
		Metrics:         metrics,
		MetricsPath:     "/metrics",
		HealthHandler:   httpH.NewHealthHandler(),
		PlanHandler: httpH.NewPlanHandler(httpH.PlanHandlerDeps{
			Plans:   services.NewPlanService(log, stub, cfg.Plans),
			Metrics: metrics,
		}),
		StudyPlanHandler: httpH.NewStudyPlanHandler(
			services.NewStudyPlanService(log, r.StudyPlan),
			services.NewProgressService(log, r.StudyPlan, cfg.Plans.MaxProgressChars),
		),
		CatalogHandler: httpH.NewCatalogHandler(
			services.NewQuizService(log, r.QuizQuestion),
			services.NewTopicService(log, r.Topic),
			services.NewCodeGameService(log, r.CodeGame),
		),
	})
	return &testEnv{db: db, router: router, llm: stub, repos: r, metrics: metrics}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func samplePlan() string {
	return format.Serialize(format.Plan{Days: []format.DayEntry{
		{Day: 1, DateLabel: "Mon", Title: "Setup", Body: "Install Go\nRun hello world"},
		{Day: 2, DateLabel: "Tue", Title: "Types", Body: "Structs and interfaces"},
	}})
}

func TestHealthcheck(t *testing.T) {
	env := newTestEnv(t)
	rec, _ := env.do(t, http.MethodGet, "/healthcheck", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestGeneratePlanRoute(t *testing.T) {
	env := newTestEnv(t)
	env.llm.reply = samplePlan()

	rec, body := env.do(t, http.MethodPost, "/generate-plan", `{"goal":"learn Go","duration":"2","startDate":"2026-01-05"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if body["plan"] != env.llm.reply || body["format_version"] != format.Version {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["prompt_version"] != float64(prompts.Version(prompts.PromptGeneratePlan)) {
		t.Fatalf("unexpected prompt_version: %v", body["prompt_version"])
	}
	if days, _ := body["days"].([]any); len(days) != 2 {
		t.Fatalf("expected 2 parsed days, got %v", body["days"])
	}

	var buf bytes.Buffer
	_ = env.metrics.WritePrometheus(&buf)
	if !strings.Contains(buf.String(), `studyplan_plan_results_total{op="generate",result="ok"} 1`) {
		t.Fatalf("plan result not recorded:\n%s", buf.String())
	}
}

func TestGeneratePlanRouteErrors(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/generate-plan", `{"duration":5}`)
	if rec.Code != http.StatusBadRequest || errorCode(body) != services.CodeMissingField {
		t.Fatalf("missing goal: %d %v", rec.Code, body)
	}

	rec, body = env.do(t, http.MethodPost, "/generate-plan", `{"goal":"x","duration":0}`)
	if rec.Code != http.StatusBadRequest || errorCode(body) != services.CodeInvalidInput {
		t.Fatalf("zero duration: %d %v", rec.Code, body)
	}

	rec, body = env.do(t, http.MethodPost, "/generate-plan", `not json`)
	if rec.Code != http.StatusBadRequest || errorCode(body) != "invalid_json" {
		t.Fatalf("bad json: %d %v", rec.Code, body)
	}

	env.llm.err = &llm.ProviderError{Provider: "openrouter", Status: http.StatusTooManyRequests, Body: "quota exceeded for key sk-123"}
	rec, body = env.do(t, http.MethodPost, "/generate-plan", `{"goal":"x"}`)
	if rec.Code != http.StatusTooManyRequests || errorCode(body) != services.CodeProviderError {
		t.Fatalf("provider error: %d %v", rec.Code, body)
	}
	if strings.Contains(rec.Body.String(), "quota") || !strings.Contains(rec.Body.String(), "failed to generate plan") {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
	nested, _ := body["error"].(map[string]any)
	if msg, _ := body["message"].(string); msg == "" || msg != nested["message"] {
		t.Fatalf("flat message should mirror error.message: %v", body)
	}
}

func TestAdaptPlanRoute(t *testing.T) {
	env := newTestEnv(t)
	env.llm.reply = format.Serialize(format.Plan{Days: []format.DayEntry{
		{Day: 1, DateLabel: "Mon", Title: "Setup ✅", Body: "Install Go\nRun hello world"},
		{Day: 2, DateLabel: "Tue", Title: "Types, gently", Body: "Structs first\nInterfaces tomorrow"},
	}})
	reqBody, _ := json.Marshal(map[string]any{
		"plan":     samplePlan(),
		"progress": map[string]any{"1": "complete", "2": "too_hard"},
		"feedback": "day 2 was hard",
		"days":     2,
	})

	rec, body := env.do(t, http.MethodPost, "/adapt-plan", string(reqBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if body["adapted_plan"] != env.llm.reply {
		t.Fatalf("adapted plan not forwarded")
	}
	if body["prompt_version"] != float64(prompts.Version(prompts.PromptAdaptPlan)) {
		t.Fatalf("unexpected prompt_version: %v", body["prompt_version"])
	}
	if v, _ := body["violations"].([]any); len(v) != 0 {
		t.Fatalf("unexpected violations %v", body["violations"])
	}

	rec, body = env.do(t, http.MethodPost, "/adapt-plan", `{"plan":"x"}`)
	if rec.Code != http.StatusBadRequest || errorCode(body) != services.CodeMissingField {
		t.Fatalf("missing progress: %d %v", rec.Code, body)
	}
}

func TestUpdateProgressRoute(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/update-progress", `{"plan_id":"p1","progress":50}`)
	if rec.Code != http.StatusNotFound || errorCode(body) != services.CodeNotFound {
		t.Fatalf("expected not found: %d %v", rec.Code, body)
	}

	rec, body = env.do(t, http.MethodPost, "/update-progress", `{"progress":50}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request: %d %v", rec.Code, body)
	}

	testutil.SeedStudyPlan(t, context.Background(), env.db, "p1", samplePlan())
	rec, body = env.do(t, http.MethodPost, "/update-progress", `{"plan_id":"p1","progress":50,"feedback":"slow week"}`)
	if rec.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("expected success: %d %v", rec.Code, body)
	}
	data, _ := body["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("expected updated record echoed back, got %v", body["data"])
	}
	row, _ := data[0].(map[string]any)
	if row["id"] != "p1" || row["progress"] != float64(50) || row["feedback"] != "slow week" {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestStoredPlanRoutes(t *testing.T) {
	env := newTestEnv(t)
	reqBody, _ := json.Marshal(map[string]any{"title": "Go", "goal": "learn Go", "days": 2, "plan": samplePlan(), "user_id": "u1"})

	rec, body := env.do(t, http.MethodPost, "/api/plans", string(reqBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	plan, _ := body["plan"].(map[string]any)
	id, _ := plan["id"].(string)
	if id == "" {
		t.Fatalf("expected id in %v", body)
	}

	rec, body = env.do(t, http.MethodGet, "/api/plans/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d %s", rec.Code, rec.Body.String())
	}
	if days, _ := body["days"].([]any); len(days) != 2 {
		t.Fatalf("expected parsed days: %v", body)
	}

	rec, _ = env.do(t, http.MethodPut, "/api/plans/"+id+"/plan", `{"plan":"rewritten by hand"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("replace: %d %s", rec.Code, rec.Body.String())
	}
	rec, body = env.do(t, http.MethodGet, "/api/plans/"+id, "")
	if rec.Code != http.StatusOK || body["parse_error"] == nil {
		t.Fatalf("expected parse_error for free text: %v", body)
	}

	rec, body = env.do(t, http.MethodGet, "/api/plans/nope", "")
	if rec.Code != http.StatusNotFound || errorCode(body) != services.CodeNotFound {
		t.Fatalf("missing plan: %d %v", rec.Code, body)
	}
}

func TestListPlansByUserRoute(t *testing.T) {
	env := newTestEnv(t)
	for _, user := range []string{"u1", "u1", "u2"} {
		reqBody, _ := json.Marshal(map[string]any{"goal": "learn Go", "plan": samplePlan(), "user_id": user})
		if rec, _ := env.do(t, http.MethodPost, "/api/plans", string(reqBody)); rec.Code != http.StatusOK {
			t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec, body := env.do(t, http.MethodGet, "/api/plans?user_id=u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	plans, _ := body["plans"].([]any)
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans for u1, got %v", body)
	}
	for _, p := range plans {
		if row, _ := p.(map[string]any); row["user_id"] != "u1" {
			t.Fatalf("plan of another user listed: %v", row)
		}
	}

	rec, body = env.do(t, http.MethodGet, "/api/plans?user_id=nobody", "")
	if plans, ok := body["plans"].([]any); rec.Code != http.StatusOK || !ok || len(plans) != 0 {
		t.Fatalf("expected empty list: %d %v", rec.Code, body)
	}

	rec, body = env.do(t, http.MethodGet, "/api/plans", "")
	if rec.Code != http.StatusBadRequest || errorCode(body) != services.CodeMissingField {
		t.Fatalf("missing user_id: %d %v", rec.Code, body)
	}
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	basics := testutil.SeedTopic(t, ctx, env.db, "Python", "Basics", 1)
	testutil.SeedTopic(t, ctx, env.db, "Python", "Loops", 2)
	testutil.SeedQuizQuestion(t, ctx, env.db, basics.ID, "What does len() return?")
	testutil.SeedCodeGame(t, ctx, env.db, "Python", "Loops", "basic")

	rec, body := env.do(t, http.MethodGet, "/api/topics", "")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Missing language parameter") {
		t.Fatalf("topics without language: %d %v", rec.Code, body)
	}
	rec, body = env.do(t, http.MethodGet, "/api/topics?language=Python", "")
	topics, _ := body["topics"].([]any)
	if rec.Code != http.StatusOK || len(topics) != 2 {
		t.Fatalf("topics: %d %v", rec.Code, body)
	}
	first, _ := topics[0].(map[string]any)
	if first["topic"] != "Basics" || first["topic_order"] != float64(1) {
		t.Fatalf("unexpected first topic %v", first)
	}

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quiz-questions?language=Python", nil))
	var qs []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &qs); err != nil || len(qs) != 1 {
		t.Fatalf("quiz questions: %v %s", err, rec.Body.String())
	}
	if joined, _ := qs[0]["topics"].(map[string]any); joined["language"] != "Python" {
		t.Fatalf("expected joined topic, got %v", qs[0])
	}

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quiz-questions?language=Rust", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/code-games?language=Python&difficulty=basic", nil))
	var games []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &games); err != nil || len(games) != 1 {
		t.Fatalf("code games: %v %s", err, rec.Body.String())
	}

	rec, _ = env.do(t, http.MethodGet, "/api/code-games?language=Go", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "No code games found") {
		t.Fatalf("expected 404, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestBodyLimit(t *testing.T) {
	env := newTestEnv(t)
	big := `{"goal":"` + strings.Repeat("a", 5000) + `"}`
	rec, body := env.do(t, http.MethodPost, "/generate-plan", big)
	if rec.Code != http.StatusRequestEntityTooLarge || errorCode(body) != "request_too_large" {
		t.Fatalf("expected 413, got %d %v", rec.Code, body)
	}
	if env.llm.calls != 0 {
		t.Fatalf("provider must not be called")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/healthcheck", "")
	rec, _ := env.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `route="/healthcheck"`) {
		t.Fatalf("unexpected metrics output: %d %s", rec.Code, rec.Body.String())
	}
}
