package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	"github.com/yungbote/studyplan-backend/internal/data/repos/testutil"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/format"
)

func TestStudyPlanServiceLifecycle(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)
	plans := NewStudyPlanService(log, r.StudyPlan)
	progress := NewProgressService(log, r.StudyPlan, 8000)
	ctx := context.Background()

	text := format.Serialize(threeDayPlan())
	created, err := plans.Create(ctx, CreatePlanInput{UserID: "u1", Goal: "learn Go", Days: 3, StartDate: "today", Plan: text})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Title != "learn Go" || string(created.Progress) != "{}" {
		t.Fatalf("unexpected defaults: title=%q progress=%s", created.Title, created.Progress)
	}

	got, err := plans.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	mine, err := plans.ListByUser(ctx, " u1 ")
	if err != nil || len(mine) != 1 || mine[0].ID != created.ID {
		t.Fatalf("ListByUser: %v %+v", err, mine)
	}
	if len(got.Days) != 3 || got.ParseError != "" {
		t.Fatalf("expected parsed days, got %+v", got)
	}

	fb := "too hard"
	rows, err := progress.Update(ctx, created.ID, json.RawMessage(`{"1":"complete"}`), &fb)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != created.ID || *rows[0].Feedback != fb {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	replaced, err := plans.ReplacePlan(ctx, created.ID, "not a plan")
	if err != nil || replaced.Plan != "not a plan" {
		t.Fatalf("ReplacePlan: %v %+v", err, replaced)
	}
	got, err = plans.Get(ctx, created.ID)
	if err != nil || got.ParseError == "" || got.Days != nil {
		t.Fatalf("expected parse error for stored free text, got %+v err=%v", got, err)
	}
}

func TestStudyPlanServiceErrors(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)
	plans := NewStudyPlanService(log, r.StudyPlan)
	ctx := context.Background()

	_, err := plans.Get(ctx, "missing")
	wantAPIErr(t, err, http.StatusNotFound, CodeNotFound)

	_, err = plans.ReplacePlan(ctx, "missing", "text")
	wantAPIErr(t, err, http.StatusNotFound, CodeNotFound)

	_, err = plans.ListByUser(ctx, "  ")
	wantAPIErr(t, err, http.StatusBadRequest, CodeMissingField)

	_, err = plans.Create(ctx, CreatePlanInput{Goal: "x"})
	wantAPIErr(t, err, http.StatusBadRequest, CodeMissingField)

	_, err = plans.Create(ctx, CreatePlanInput{Plan: "x", Progress: json.RawMessage(`{bad`)})
	wantAPIErr(t, err, http.StatusBadRequest, CodeInvalidInput)
}

func TestProgressUpdate(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewProgressService(log, repos.New(db, log).StudyPlan, 16)
	ctx := context.Background()

	cases := []struct {
		name     string
		planID   string
		progress string
		status   int
		code     string
	}{
		{"missing plan id", "", `50`, http.StatusBadRequest, CodeMissingField},
		{"missing progress", "p1", ``, http.StatusBadRequest, CodeMissingField},
		{"invalid json", "p1", `{nope`, http.StatusBadRequest, CodeInvalidInput},
		{"too large", "p1", `"aaaaaaaaaaaaaaaaaaaaaaa"`, http.StatusBadRequest, CodeInputTooLarge},
		{"no matching row", "p1", `50`, http.StatusNotFound, CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tc.planID, json.RawMessage(tc.progress), nil)
			wantAPIErr(t, err, tc.status, tc.code)
		})
	}

	testutil.SeedStudyPlan(t, ctx, db, "p1", format.Serialize(threeDayPlan()))
	rows, err := svc.Update(ctx, "p1", json.RawMessage(`50`), nil)
	if err != nil || len(rows) != 1 || string(rows[0].Progress) != "50" {
		t.Fatalf("Update: rows=%+v err=%v", rows, err)
	}
}
