package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/format"
)

const mockMaxDays = 365

var (
	mockDaysRe = regexp.MustCompile(`Generate a (\d+)-day`)
	mockGoalRe = regexp.MustCompile(`for achieving the goal: '(.*)'\.`)
)

// Mock is an offline provider for local development. Generation prompts get a
// contract-formatted plan with the requested number of days; adaptation
// prompts get the embedded plan back unchanged.
type Mock struct {
	model string
}

func NewMock(model string) *Mock {
	if strings.TrimSpace(model) == "" {
		model = "mock-1"
	}
	return &Mock{model: model}
}

func (m *Mock) Model() string { return m.model }

func (m *Mock) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", transportError(ProviderMock, err)
	}
	if plan, ok := embeddedPlan(prompt); ok {
		return plan, nil
	}

	days := 3
	if sm := mockDaysRe.FindStringSubmatch(prompt); sm != nil {
		if n, err := strconv.Atoi(sm[1]); err == nil && n > 0 {
			days = min(n, mockMaxDays)
		}
	}
	goal := "your goal"
	if sm := mockGoalRe.FindStringSubmatch(prompt); sm != nil && strings.TrimSpace(sm[1]) != "" {
		goal = sm[1]
	}

	plan := format.Plan{Days: make([]format.DayEntry, 0, days)}
	for i := 1; i <= days; i++ {
		plan.Days = append(plan.Days, format.DayEntry{
			Day:       i,
			DateLabel: fmt.Sprintf("day %d", i),
			Title:     fmt.Sprintf("Step %d toward %s", i, goal),
			Body: strings.Join([]string{
				fmt.Sprintf("Study session %d: read one focused resource on %s.", i, goal),
				"Practice with a short hands-on exercise.",
				"Write a three sentence summary of what you learned.",
			}, "\n"),
		})
	}
	return format.Serialize(plan), nil
}

func embeddedPlan(prompt string) (string, bool) {
	const open = "original study plan:\n---\n"
	const end = "\n---\n\nHere is the user's progress"
	i := strings.Index(prompt, open)
	if i < 0 {
		return "", false
	}
	rest := prompt[i+len(open):]
	j := strings.Index(rest, end)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}
