package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-studio/internal/conversation"
	"github.com/jonathan/cv-studio/internal/llm"
)

type fakeClient struct {
	prompts []string
	tiers   []llm.ModelTier
	output  string
	err     error
}

func (f *fakeClient) Decide(context.Context, string, []conversation.Message, []llm.ToolSpec) (*llm.Decision, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) GenerateText(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	return f.output, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestCleanJobDescription(t *testing.T) {
	client := &fakeClient{output: "Senior Go Engineer at Acme."}
	tr := New(client)

	result, err := tr.CleanJobDescription(t.Context(), "Cookies! Senior Go Engineer at Acme. Apply now!")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer at Acme.", result)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Cookies! Senior Go Engineer at Acme. Apply now!")
	assert.NotContains(t, client.prompts[0], "{{.Content}}")
	assert.Equal(t, llm.TierLite, client.tiers[0])
}

func TestTranslateJobDescriptionTier(t *testing.T) {
	client := &fakeClient{output: "translated"}
	tr := New(client)

	_, err := tr.TranslateJobDescription(t.Context(), "Utvecklare sökes")
	require.NoError(t, err)
	assert.Equal(t, llm.TierLite, client.tiers[0])
}

func TestAnalyzeJobRequirements(t *testing.T) {
	client := &fakeClient{output: "- **Role**: Senior Go Engineer"}
	tr := New(client)

	result, err := tr.AnalyzeJobRequirements(t.Context(), "We need Go and Postgres.")
	require.NoError(t, err)
	assert.Contains(t, result, "**Role**")
	assert.Contains(t, client.prompts[0], "We need Go and Postgres.")
	assert.Equal(t, llm.TierStandard, client.tiers[0])
}

func TestPolishCVSubstitutesBothInputs(t *testing.T) {
	client := &fakeClient{output: "```markdown\n# CV\n\nPolished.\n```"}
	tr := New(client)

	result, err := tr.PolishCV(t.Context(), "Go role at Acme", "# CV\n\nDraft.")
	require.NoError(t, err)
	// Fences around the returned document are stripped.
	assert.Equal(t, "# CV\n\nPolished.", result)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Go role at Acme")
	assert.Contains(t, client.prompts[0], "# CV\n\nDraft.")
}

func TestTransformPropagatesError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}
	tr := New(client)

	_, err := tr.CleanJobDescription(t.Context(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clean-job-description")
	assert.ErrorContains(t, err, "quota exceeded")
}
