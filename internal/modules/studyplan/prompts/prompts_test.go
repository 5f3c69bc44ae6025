package prompts

import (
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/format"
)

func TestGenerationEmbedsContract(t *testing.T) {
	for _, days := range []int{1, 7, 30, 365} {
		p, err := Generation(Input{Goal: "learn Go", Days: days, StartDate: "2025-07-20"}, Limits{})
		if err != nil {
			t.Fatalf("Generation: %v", err)
		}
		for _, want := range []string{
			format.Example(),
			format.Rules,
			"INCORRECT:",
			"'learn Go'",
			"Start date is 2025-07-20.",
		} {
			if !strings.Contains(p, want) {
				t.Fatalf("days=%d: prompt missing %q", days, want)
			}
		}
		if !strings.HasPrefix(p, "Generate a ") || !strings.Contains(p, "-day structured study plan") {
			t.Fatalf("unexpected prompt head: %q", p[:60])
		}
	}
}

func TestGenerationDefaultsStartDate(t *testing.T) {
	p, err := Generation(Input{Goal: "x", Days: 3}, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(p, "Start date is today.") {
		t.Fatalf("missing default start date")
	}
}

func TestGenerationValidation(t *testing.T) {
	var mf *MissingFieldError
	if _, err := Generation(Input{Goal: "  ", Days: 3}, Limits{}); !errors.As(err, &mf) || mf.Field != "goal" {
		t.Fatalf("err=%v", err)
	}
	if _, err := Generation(Input{Goal: "x", Days: 0}, Limits{}); !errors.As(err, &mf) {
		t.Fatalf("err=%v", err)
	}
	var le *LimitError
	_, err := Generation(Input{Goal: strings.Repeat("é", 11), Days: 3}, Limits{Goal: 10})
	if !errors.As(err, &le) || le.Len != 11 || le.Max != 10 {
		t.Fatalf("err=%v", err)
	}
}

func TestAdaptationInstructions(t *testing.T) {
	plan := format.Example()
	p, err := Adaptation(Input{Plan: plan, ProgressJSON: `{"1":"complete"}`, Days: 2}, Limits{})
	if err != nil {
		t.Fatalf("Adaptation: %v", err)
	}
	for _, want := range []string{
		"---\n" + strings.TrimSpace(plan) + "\n---",
		`{"1":"complete"}`,
		"Reschedule any incomplete or missed tasks",
		"Add review sessions",
		"increase the challenge",
		"break them down",
		"Do not remove completed tasks, but mark them as done.",
		"Here is the user's feedback (if any):\n(none)",
		format.Rules,
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestAdaptationRequiresPlanAndProgress(t *testing.T) {
	var mf *MissingFieldError
	if _, err := Adaptation(Input{ProgressJSON: "{}"}, Limits{}); !errors.As(err, &mf) || mf.Field != "plan" {
		t.Fatalf("err=%v", err)
	}
	if _, err := Adaptation(Input{Plan: "x"}, Limits{}); !errors.As(err, &mf) || mf.Field != "progress" {
		t.Fatalf("err=%v", err)
	}
}

func TestAdaptationCaps(t *testing.T) {
	lim := Limits{Plan: 100, Progress: 5, Feedback: 3}
	var le *LimitError
	_, err := Adaptation(Input{Plan: "short", ProgressJSON: "{}", Feedback: "too long"}, lim)
	if !errors.As(err, &le) || le.Field != "feedback" {
		t.Fatalf("err=%v", err)
	}
	_, err = Adaptation(Input{Plan: "short", ProgressJSON: `{"a":1}`}, lim)
	if !errors.As(err, &le) || le.Field != "progress" {
		t.Fatalf("err=%v", err)
	}
}

func TestVersions(t *testing.T) {
	for _, name := range []PromptName{PromptGeneratePlan, PromptAdaptPlan} {
		if Version(name) < 1 {
			t.Fatalf("%s: version %d", name, Version(name))
		}
	}
	if Version("nope") != 0 {
		t.Fatalf("unknown prompt should have version 0")
	}
}
