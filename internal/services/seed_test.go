package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	"github.com/yungbote/studyplan-backend/internal/data/repos/catalog"
	"github.com/yungbote/studyplan-backend/internal/data/repos/testutil"
)

const validSeed = `
topics:
  - language: Python
    topic: Basics
    topic_order: 1
  - language: Python
    topic: Loops
    topic_order: 2
quiz_questions:
  - language: Python
    topic: Basics
    question: Which keyword defines a function?
    options: ["func", "def", "fn", "lambda"]
    answer: def
    explanation: Functions are defined with def.
code_games:
  - language: Python
    topic: Loops
    difficulty: basic
    type: output
    prompt: What is the output of this code?
    code_snippet: "for i in range(2): print(i)"
    answer: "0\n1"
`

func newTestSeedService(t *testing.T) (SeedService, repos.Repos) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)
	return NewSeedService(db, log, r.Topic, r.QuizQuestion, r.CodeGame), r
}

func TestSeedLoadsDocument(t *testing.T) {
	svc, r := newTestSeedService(t)
	ctx := context.Background()

	res, err := svc.Seed(ctx, []byte(validSeed))
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if res.TopicsInserted != 2 || res.QuizQuestions != 1 || res.CodeGames != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	res, err = svc.Seed(ctx, []byte(validSeed))
	if err != nil {
		t.Fatalf("Seed (again): %v", err)
	}
	if res.TopicsInserted != 0 || res.TopicsSkipped != 2 {
		t.Fatalf("duplicate topics should be skipped: %+v", res)
	}

	qs, err := r.QuizQuestion.List(ctx, nil, catalog.QuizFilter{Language: "Python", Topic: "Basics"})
	if err != nil || len(qs) != 2 {
		t.Fatalf("quiz questions: len=%d err=%v", len(qs), err)
	}
	if string(qs[0].Options) != `["func","def","fn","lambda"]` {
		t.Fatalf("unexpected options %s", qs[0].Options)
	}
}

func TestSeedFailsFastOnMissingTopics(t *testing.T) {
	svc, r := newTestSeedService(t)
	doc := `
topics:
  - language: Go
    topic: Basics
quiz_questions:
  - language: Go
    topic: Channels
    question: q
    options: ["a", "b"]
    answer: a
  - language: Rust
    topic: Ownership
    question: q
    options: ["a", "b"]
    answer: a
`
	_, err := svc.Seed(context.Background(), []byte(doc))
	var missing *MissingTopicsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingTopicsError, got %v", err)
	}
	if len(missing.Pairs) != 2 || !strings.Contains(err.Error(), "Go/Channels") || !strings.Contains(err.Error(), "Rust/Ownership") {
		t.Fatalf("unexpected missing pairs: %v", err)
	}

	topics, err := r.Topic.ListByLanguage(context.Background(), nil, "Go")
	if err != nil || len(topics) != 0 {
		t.Fatalf("failed seed must roll back, found %d topics (err=%v)", len(topics), err)
	}
}

func TestParseSeedDocumentRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown section":      "lessons: []\n",
		"missing topic":        "topics:\n  - language: Go\n",
		"too few options":      "quiz_questions:\n  - {language: Go, topic: t, question: q, options: [a], answer: a}\n",
		"negative topic order": "topics:\n  - {language: Go, topic: t, topic_order: -1}\n",
		"not yaml":             "topics: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSeedDocument([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if doc, err := ParseSeedDocument([]byte("")); err != nil || doc == nil {
		t.Fatalf("empty document should be valid: %v", err)
	}
}
