package prompts

func init() {
	RegisterSpec(Spec{
		Name:    PromptGeneratePlan,
		Version: 1,
		Body: `
Generate a {{.Days}}-day structured study plan for achieving the goal: '{{.Goal}}'.
Start date is {{.StartDate}}.
Return the plan in the following exact format (not JSON, not markdown, not code block):

{{.Contract}}`,
		Validators: []Validator{
			RequireNonEmpty("goal", func(in Input) string { return in.Goal }),
			RequirePositiveDays(),
			MaxChars("goal", func(in Input) string { return in.Goal }, func(l Limits) int { return l.Goal }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptAdaptPlan,
		Version: 1,
		Body: `
You are an AI study coach. Here is the user's original study plan:
---
{{.Plan}}
---

Here is the user's progress (in JSON):
{{.ProgressJSON}}

Here is the user's feedback (if any):
{{.Feedback}}

The user's goal: {{.Goal}}
Total days: {{if gt .Days 0}}{{.Days}}{{else}}same as the original plan{{end}}
Start date: {{.StartDate}}

Adapt the plan as follows:
- Reschedule any incomplete or missed tasks to future days.
- Add review sessions for tasks marked as difficult or skipped.
- If the user found tasks too easy, increase the challenge slightly.
- If the user found tasks too hard, make them easier or break them down.
- Do not remove completed tasks, but mark them as done.
- Keep every completed day under the same day number with its title and tasks unchanged.
- Make sure the plan is clear and actionable.
Return the adapted plan in the following exact format (not JSON, not markdown, not code block):

{{.Contract}}`,
		Validators: []Validator{
			RequireNonEmpty("plan", func(in Input) string { return in.Plan }),
			RequireNonEmpty("progress", func(in Input) string { return in.ProgressJSON }),
			MaxChars("goal", func(in Input) string { return in.Goal }, func(l Limits) int { return l.Goal }),
			MaxChars("plan", func(in Input) string { return in.Plan }, func(l Limits) int { return l.Plan }),
			MaxChars("progress", func(in Input) string { return in.ProgressJSON }, func(l Limits) int { return l.Progress }),
			MaxChars("feedback", func(in Input) string { return in.Feedback }, func(l Limits) int { return l.Feedback }),
		},
	})
}

func Generation(in Input, lim Limits) (string, error) {
	return Build(PromptGeneratePlan, in, lim)
}

func Adaptation(in Input, lim Limits) (string, error) {
	return Build(PromptAdaptPlan, in, lim)
}
