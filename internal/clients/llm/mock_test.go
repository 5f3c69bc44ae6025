package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/format"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/prompts"
)

func TestMockGeneratesContractPlan(t *testing.T) {
	prompt, err := prompts.Generation(prompts.Input{Goal: "learn SQL", Days: 5}, prompts.Limits{})
	require.NoError(t, err)

	out, err := NewMock("").Complete(context.Background(), prompt)
	require.NoError(t, err)

	plan, err := format.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, 5, plan.Len())
	assert.Contains(t, plan.Days[0].Title, "learn SQL")
}

func TestMockEchoesAdaptedPlan(t *testing.T) {
	prev := format.Example()
	prompt, err := prompts.Adaptation(prompts.Input{Plan: prev, ProgressJSON: "{}"}, prompts.Limits{})
	require.NoError(t, err)

	out, err := NewMock("").Complete(context.Background(), prompt)
	require.NoError(t, err)

	got, err := format.Parse(out)
	require.NoError(t, err)
	want, _ := format.Parse(prev)
	assert.Equal(t, want.Days, got.Days)
}
