package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/jonathan/cv-studio/internal/conversation"
)

// ToolSpec declares a tool to the decision step: a name, a description the
// model reads, and a flat object schema of string-typed arguments. The same
// declaration drives both the model's function-calling schema and the
// registry's argument validation.
type ToolSpec struct {
	Name        string
	Description string
	Params      []ParamSpec
}

// ParamSpec describes a single tool argument.
type ParamSpec struct {
	Name        string
	Description string
	Required    bool
}

// Decision is the output of one decision step: either a final textual answer
// (zero tool calls) or one or more tool calls to execute, never both
// semantically — when calls are present the text is incidental commentary.
type Decision struct {
	Text      string
	ToolCalls []conversation.ToolCall
}

// Client is the boundary to the LLM provider.
type Client interface {
	// Decide runs one decision step over the full conversation history.
	Decide(ctx context.Context, system string, history []conversation.Message, tools []ToolSpec) (*Decision, error)
	// GenerateText produces plain text for a fixed-instruction transform.
	GenerateText(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// Close releases provider resources.
	Close() error
}

// GeminiClient implements Client on Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

// Decide sends the system instruction, the declared tools, and the full
// conversation to the model and parses its reply into text and tool calls.
func (c *GeminiClient) Decide(ctx context.Context, system string, history []conversation.Message, tools []ToolSpec) (*Decision, error) {
	modelName := c.config.GetModel(TierAdvanced)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", TierAdvanced)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	if len(tools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: toFunctionDeclarations(tools)}}
	}

	contents := toContents(history)
	if len(contents) == 0 {
		return nil, fmt.Errorf("conversation is empty")
	}

	session := model.StartChat()
	session.History = contents[:len(contents)-1]

	resp, err := session.SendMessage(ctx, contents[len(contents)-1].Parts...)
	if err != nil {
		return nil, fmt.Errorf("decision request failed: %w", err)
	}

	return parseDecision(resp)
}

// GenerateText produces plain text output for a transform prompt.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractText(resp)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// toContents converts the domain conversation into Gemini contents. Adjacent
// messages with the same wire role are merged into one content, which is how
// the API expects a batch of function responses to arrive.
func toContents(history []conversation.Message) []*genai.Content {
	var contents []*genai.Content

	appendParts := func(role string, parts ...genai.Part) {
		if len(parts) == 0 {
			return
		}
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, parts...)
			return
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	for _, msg := range history {
		switch msg.Role {
		case conversation.RoleUser:
			appendParts("user", genai.Text(msg.Content))
		case conversation.RoleAssistant:
			var parts []genai.Part
			if msg.Content != "" {
				parts = append(parts, genai.Text(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				parts = append(parts, genai.FunctionCall{Name: call.Name, Args: call.Args})
			}
			appendParts("model", parts...)
		case conversation.RoleTool:
			appendParts("function", genai.FunctionResponse{
				Name:     msg.ToolName,
				Response: map[string]any{"output": msg.Content},
			})
		case conversation.RoleSystem:
			// System text travels via SystemInstruction, not the history.
		}
	}

	return contents
}

// parseDecision splits the model reply into commentary text and tool calls.
// Each call gets a fresh identifier for correlating its result.
func parseDecision(resp *genai.GenerateContentResponse) (*Decision, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		// An empty reply is a final (empty) answer, not an error.
		return &Decision{}, nil
	}

	decision := &Decision{}
	var texts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			texts = append(texts, string(p))
		case genai.FunctionCall:
			decision.ToolCalls = append(decision.ToolCalls, conversation.ToolCall{
				ID:   uuid.NewString(),
				Name: p.Name,
				Args: p.Args,
			})
		}
	}
	decision.Text = strings.TrimSpace(strings.Join(texts, ""))

	return decision, nil
}

func toFunctionDeclarations(tools []ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		decl := &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
		}
		if len(tool.Params) > 0 {
			schema := &genai.Schema{
				Type:       genai.TypeObject,
				Properties: make(map[string]*genai.Schema, len(tool.Params)),
			}
			for _, param := range tool.Params {
				schema.Properties[param.Name] = &genai.Schema{
					Type:        genai.TypeString,
					Description: param.Description,
				}
				if param.Required {
					schema.Required = append(schema.Required, param.Name)
				}
			}
			decl.Parameters = schema
		}
		decls = append(decls, decl)
	}
	return decls
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
