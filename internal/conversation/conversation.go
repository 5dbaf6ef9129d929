// Package conversation provides the message types exchanged between the agent
// loop, the LLM decision step, and the tool registry.
package conversation

// Role identifies the author of a message.
type Role string

// Message roles. Tool messages carry the result of a single tool call.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a structured tool invocation request emitted by an assistant
// message. ID correlates the call with its result message.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Message is a single conversational turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
	// ToolCalls is set on assistant messages that request tool execution.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID is set on tool messages and names the originating call.
	ToolCallID string `json:"tool_call_id,omitempty"`
	// ToolName is set on tool messages; Gemini correlates function responses
	// by name rather than by ID.
	ToolName string `json:"tool_name,omitempty"`
}

// Conversation is an append-only sequence of messages owned by a single agent
// session. It is discarded when the session ends.
type Conversation struct {
	messages []Message
}

// New returns a conversation seeded with the given user message.
func New(userMessage string) *Conversation {
	c := &Conversation{}
	c.AppendUser(userMessage)
	return c
}

// AppendUser appends a user message.
func (c *Conversation) AppendUser(content string) {
	c.messages = append(c.messages, Message{Role: RoleUser, Content: content})
}

// AppendAssistant appends an assistant message, optionally carrying tool calls.
func (c *Conversation) AppendAssistant(content string, calls []ToolCall) {
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: content, ToolCalls: calls})
}

// AppendToolResult appends the result of a tool call.
func (c *Conversation) AppendToolResult(call ToolCall, result string) {
	c.messages = append(c.messages, Message{
		Role:       RoleTool,
		Content:    result,
		ToolCallID: call.ID,
		ToolName:   call.Name,
	})
}

// Messages returns the messages in append order. The returned slice must not
// be mutated by callers.
func (c *Conversation) Messages() []Message {
	return c.messages
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// LastAssistantText returns the content of the most recent assistant message
// that carries text, or empty string if there is none.
func (c *Conversation) LastAssistantText() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		m := c.messages[i]
		if m.Role == RoleAssistant && m.Content != "" {
			return m.Content
		}
	}
	return ""
}
