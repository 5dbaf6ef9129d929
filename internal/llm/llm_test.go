package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-studio/internal/conversation"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced))
}

func TestGetModelFallback(t *testing.T) {
	cfg := &Config{Models: map[ModelTier]string{
		TierStandard: "gemini-2.5-flash",
	}}

	// Unconfigured tiers fall back to the nearest configured one.
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierAdvanced))
}

func TestToContentsRoles(t *testing.T) {
	history := []conversation.Message{
		{Role: conversation.RoleUser, Content: "tailor my CV"},
		{Role: conversation.RoleAssistant, Content: "Reading the template first.", ToolCalls: []conversation.ToolCall{
			{ID: "c1", Name: "read_template", Args: map[string]any{}},
		}},
		{Role: conversation.RoleTool, ToolCallID: "c1", ToolName: "read_template", Content: "# Template"},
		{Role: conversation.RoleUser, Content: "looks good"},
	}

	contents := toContents(history)
	require.Len(t, contents, 4)

	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, genai.Text("tailor my CV"), contents[0].Parts[0])

	assert.Equal(t, "model", contents[1].Role)
	require.Len(t, contents[1].Parts, 2)
	call, ok := contents[1].Parts[1].(genai.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "read_template", call.Name)

	assert.Equal(t, "function", contents[2].Role)
	resp, ok := contents[2].Parts[0].(genai.FunctionResponse)
	require.True(t, ok)
	assert.Equal(t, "read_template", resp.Name)
	assert.Equal(t, "# Template", resp.Response["output"])

	assert.Equal(t, "user", contents[3].Role)
}

func TestToContentsMergesAdjacentToolResults(t *testing.T) {
	history := []conversation.Message{
		{Role: conversation.RoleUser, Content: "go"},
		{Role: conversation.RoleAssistant, ToolCalls: []conversation.ToolCall{
			{ID: "c1", Name: "read_template"},
			{ID: "c2", Name: "read_profile"},
		}},
		{Role: conversation.RoleTool, ToolCallID: "c1", ToolName: "read_template", Content: "t"},
		{Role: conversation.RoleTool, ToolCallID: "c2", ToolName: "read_profile", Content: "p"},
	}

	contents := toContents(history)
	require.Len(t, contents, 3)

	// Both function responses ride in one "function" content, in call order.
	assert.Equal(t, "function", contents[2].Role)
	require.Len(t, contents[2].Parts, 2)
	first := contents[2].Parts[0].(genai.FunctionResponse)
	second := contents[2].Parts[1].(genai.FunctionResponse)
	assert.Equal(t, "read_template", first.Name)
	assert.Equal(t, "read_profile", second.Name)
}

func TestToContentsSkipsSystemMessages(t *testing.T) {
	history := []conversation.Message{
		{Role: conversation.RoleSystem, Content: "you are an assistant"},
		{Role: conversation.RoleUser, Content: "hi"},
	}

	contents := toContents(history)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
}

func TestParseDecisionText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text("All done.")},
			},
		}},
	}

	decision, err := parseDecision(resp)
	require.NoError(t, err)
	assert.Equal(t, "All done.", decision.Text)
	assert.Empty(t, decision.ToolCalls)
}

func TestParseDecisionToolCalls(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: "model",
				Parts: []genai.Part{
					genai.FunctionCall{Name: "read_template", Args: map[string]any{}},
					genai.FunctionCall{Name: "read_cv", Args: map[string]any{"job_name": "google"}},
				},
			},
		}},
	}

	decision, err := parseDecision(resp)
	require.NoError(t, err)
	require.Len(t, decision.ToolCalls, 2)
	assert.Equal(t, "read_template", decision.ToolCalls[0].Name)
	assert.Equal(t, "read_cv", decision.ToolCalls[1].Name)
	assert.Equal(t, "google", decision.ToolCalls[1].Args["job_name"])
	// Identifiers are assigned locally and must be distinct.
	assert.NotEmpty(t, decision.ToolCalls[0].ID)
	assert.NotEqual(t, decision.ToolCalls[0].ID, decision.ToolCalls[1].ID)
}

func TestParseDecisionEmptyResponse(t *testing.T) {
	decision, err := parseDecision(&genai.GenerateContentResponse{})
	require.NoError(t, err)
	assert.Empty(t, decision.Text)
	assert.Empty(t, decision.ToolCalls)
}

func TestToFunctionDeclarations(t *testing.T) {
	specs := []ToolSpec{
		{
			Name:        "write_cv",
			Description: "Save a tailored CV.",
			Params: []ParamSpec{
				{Name: "job_name", Description: "Job identifier.", Required: true},
				{Name: "content", Description: "CV markdown.", Required: true},
			},
		},
		{Name: "read_template", Description: "Read the CV template."},
	}

	decls := toFunctionDeclarations(specs)
	require.Len(t, decls, 2)

	require.NotNil(t, decls[0].Parameters)
	assert.Equal(t, genai.TypeObject, decls[0].Parameters.Type)
	assert.Contains(t, decls[0].Parameters.Properties, "job_name")
	assert.Equal(t, genai.TypeString, decls[0].Parameters.Properties["content"].Type)
	assert.ElementsMatch(t, []string{"job_name", "content"}, decls[0].Parameters.Required)

	// Parameterless tools declare no schema at all.
	assert.Nil(t, decls[1].Parameters)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(t.Context(), nil, "")
	assert.Error(t, err)
}

func TestCleanFencedBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", "# CV\n\nBody.", "# CV\n\nBody."},
		{"plain fence", "```\n# CV\n```", "# CV"},
		{"language tag", "```markdown\n# CV\n\nBody.\n```", "# CV\n\nBody."},
		{"unclosed fence", "```markdown\n# CV", "# CV"},
		{"surrounding whitespace", "\n\n```md\n# CV\n```\n\n", "# CV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFencedBlock(tt.input))
		})
	}
}
