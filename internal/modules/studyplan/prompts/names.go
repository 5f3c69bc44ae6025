package prompts

type PromptName string

const (
	PromptGeneratePlan PromptName = "generate_plan"
	PromptAdaptPlan    PromptName = "adapt_plan"
)
