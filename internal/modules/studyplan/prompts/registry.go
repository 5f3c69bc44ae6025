package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/format"
)

type Spec struct {
	Name       PromptName
	Version    int
	Body       string
	Validators []Validator
}

type Template struct {
	Name       PromptName
	Version    int
	render     *template.Template
	validators []Validator
}

var registry = map[PromptName]Template{}

// view is what templates see: the caller's Input with defaults filled in,
// plus the format contract block.
type view struct {
	Input
	Contract string
}

func MakeTemplate(s Spec) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	t, err := template.New(string(s.Name)).Option("missingkey=zero").Parse(s.Body)
	if err != nil {
		return Template{}, fmt.Errorf("%s template parse: %w", s.Name, err)
	}
	return Template{Name: s.Name, Version: s.Version, render: t, validators: s.Validators}, nil
}

func RegisterSpec(s Spec) {
	t, err := MakeTemplate(s)
	if err != nil {
		panic(err)
	}
	registry[t.Name] = t
}

// Build validates in against lim and renders the named prompt.
func Build(name PromptName, in Input, lim Limits) (string, error) {
	t, ok := registry[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt: %s", name)
	}
	for _, v := range t.validators {
		if err := v(in, lim); err != nil {
			return "", err
		}
	}
	var b bytes.Buffer
	if err := t.render.Execute(&b, view{Input: withDefaults(in), Contract: format.Instructions()}); err != nil {
		return "", fmt.Errorf("%s render: %w", name, err)
	}
	return strings.TrimSpace(b.String()) + "\n", nil
}

// Version returns the registered version of name, or 0 when unknown.
func Version(name PromptName) int {
	return registry[name].Version
}

func withDefaults(in Input) Input {
	in.Goal = strings.TrimSpace(in.Goal)
	in.Plan = strings.TrimSpace(in.Plan)
	if strings.TrimSpace(in.StartDate) == "" {
		in.StartDate = "today"
	}
	if strings.TrimSpace(in.Feedback) == "" {
		in.Feedback = "(none)"
	}
	if in.Goal == "" {
		in.Goal = "(not specified)"
	}
	if strings.TrimSpace(in.ProgressJSON) == "" {
		in.ProgressJSON = "{}"
	}
	return in
}
