package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	"github.com/yungbote/studyplan-backend/internal/data/repos/testutil"
)

func TestTopicServiceRequiresLanguage(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewTopicService(log, repos.New(db, log).Topic)

	_, err := svc.ListByLanguage(context.Background(), " ")
	wantAPIErr(t, err, http.StatusBadRequest, CodeMissingField)

	ctx := context.Background()
	testutil.SeedTopic(t, ctx, db, "Go", "Generics", 2)
	testutil.SeedTopic(t, ctx, db, "Go", "Basics", 1)
	rows, err := svc.ListByLanguage(ctx, "Go")
	if err != nil || len(rows) != 2 || rows[0].Topic != "Basics" {
		t.Fatalf("ListByLanguage: rows=%v err=%v", rows, err)
	}
}

func TestQuizServiceFiltersNarrow(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewQuizService(log, repos.New(db, log).QuizQuestion)
	ctx := context.Background()

	goBasics := testutil.SeedTopic(t, ctx, db, "Go", "Basics", 1)
	pyBasics := testutil.SeedTopic(t, ctx, db, "Python", "Basics", 1)
	testutil.SeedQuizQuestion(t, ctx, db, goBasics.ID, "What is a goroutine?")
	testutil.SeedQuizQuestion(t, ctx, db, pyBasics.ID, "What is a list?")

	all, err := svc.List(ctx, "", "")
	if err != nil || len(all) != 2 {
		t.Fatalf("List(all): len=%d err=%v", len(all), err)
	}
	goOnly, err := svc.List(ctx, "Go", "")
	if err != nil || len(goOnly) != 1 || goOnly[0].Topic.Language != "Go" {
		t.Fatalf("List(Go): %v err=%v", goOnly, err)
	}
	basics, err := svc.List(ctx, "", "Basics")
	if err != nil || len(basics) > len(all) {
		t.Fatalf("filtering by topic must not expand results: %d > %d", len(basics), len(all))
	}
}

func TestCodeGameServiceSample(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewCodeGameService(log, repos.New(db, log).CodeGame)
	ctx := context.Background()

	_, err := svc.Sample(ctx, "Python", "", "")
	ae := wantAPIErr(t, err, http.StatusNotFound, CodeNotFound)
	if ae.Error() != "No code games found" {
		t.Fatalf("unexpected message %q", ae.Error())
	}

	for i := 0; i < 12; i++ {
		testutil.SeedCodeGame(t, ctx, db, "Python", fmt.Sprintf("t%d", i%2), "basic")
	}
	testutil.SeedCodeGame(t, ctx, db, "Go", "t0", "basic")

	games, err := svc.Sample(ctx, "Python", "", "basic")
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(games) != maxCodeGames {
		t.Fatalf("expected %d games, got %d", maxCodeGames, len(games))
	}
	for _, g := range games {
		if g.Language != "Python" {
			t.Fatalf("filter leaked language %q", g.Language)
		}
	}

	games, err = svc.Sample(ctx, "Python", "t1", "")
	if err != nil || len(games) != 6 {
		t.Fatalf("Sample(t1): len=%d err=%v", len(games), err)
	}
}
