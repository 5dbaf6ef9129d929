// Package agent runs the conversational control loop: it feeds the
// conversation to the LLM decision step, dispatches the tool calls the model
// requests, and repeats until the model answers in plain text.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/cv-studio/internal/conversation"
	"github.com/jonathan/cv-studio/internal/llm"
	"github.com/jonathan/cv-studio/internal/observability"
	"github.com/jonathan/cv-studio/internal/prompts"
)

// DefaultMaxTurns bounds the number of decision rounds in one Run. The model
// normally finishes a request in a handful of rounds; the bound exists so a
// model stuck in a tool-calling cycle cannot spin forever.
const DefaultMaxTurns = 32

// Mode selects which of the assistant's two operating modes a message is
// intended for. The prefix is advisory: the model decides how to act.
type Mode string

// Operating modes.
const (
	ModeNone    Mode = ""
	ModeCV      Mode = "cv"
	ModeProfile Mode = "profile"
)

// PrefixMode prepends the advisory mode marker to a user message.
func PrefixMode(mode Mode, message string) string {
	switch mode {
	case ModeCV:
		return "[CV MODE] " + message
	case ModeProfile:
		return "[PROFILE EDIT MODE] " + message
	default:
		return message
	}
}

// Decider is the decision step of the loop: one model call over the full
// conversation, returning either tool calls or a final answer.
type Decider interface {
	Decide(ctx context.Context, system string, history []conversation.Message, tools []llm.ToolSpec) (*llm.Decision, error)
}

// Executor dispatches tool calls from a closed catalogue.
type Executor interface {
	Definitions() []llm.ToolSpec
	Execute(ctx context.Context, call conversation.ToolCall) string
}

// Result is the outcome of one agent run.
type Result struct {
	// Text is the assistant's final answer.
	Text string
	// ProfileUpdated reports whether a profile write succeeded during the run.
	ProfileUpdated bool
	// Rounds is the number of decision rounds taken.
	Rounds int
	// Truncated is set when the run hit the round bound before the model
	// produced a final answer. Text then carries a truncation notice.
	Truncated bool
}

// Agent owns the control loop configuration. It is stateless across runs;
// per-conversation state lives in Session.
type Agent struct {
	decider  Decider
	executor Executor
	system   string
	maxTurns int
	printer  *observability.Printer
}

// Option configures an Agent.
type Option func(*Agent)

// WithMaxTurns overrides the decision round bound.
func WithMaxTurns(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxTurns = n
		}
	}
}

// WithSystemInstruction overrides the embedded system instruction.
func WithSystemInstruction(system string) Option {
	return func(a *Agent) { a.system = system }
}

// WithPrinter enables verbose per-round output.
func WithPrinter(p *observability.Printer) Option {
	return func(a *Agent) { a.printer = p }
}

// New creates an Agent with the embedded system instruction.
func New(decider Decider, executor Executor, opts ...Option) *Agent {
	a := &Agent{
		decider:  decider,
		executor: executor,
		system:   prompts.System(),
		maxTurns: DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Session is one conversation with the assistant. Not safe for concurrent
// use; a session serves a single sequential flow.
type Session struct {
	agent *Agent
	conv  *conversation.Conversation
}

// NewSession starts an empty conversation.
func (a *Agent) NewSession() *Session {
	return &Session{agent: a, conv: &conversation.Conversation{}}
}

// Run executes a single message as a throwaway session.
func (a *Agent) Run(ctx context.Context, message string) (*Result, error) {
	return a.NewSession().Send(ctx, message)
}

// Send appends a user message to the session and runs the control loop until
// the model produces a final answer or the round bound is hit.
func (s *Session) Send(ctx context.Context, message string) (*Result, error) {
	a := s.agent
	s.conv.AppendUser(message)

	result := &Result{}
	tools := a.executor.Definitions()

	for result.Rounds < a.maxTurns {
		decision, err := a.decider.Decide(ctx, a.system, s.conv.Messages(), tools)
		if err != nil {
			return nil, fmt.Errorf("decision step failed: %w", err)
		}
		result.Rounds++
		a.printer.PrintDecisionRound(result.Rounds, len(decision.ToolCalls))

		s.conv.AppendAssistant(decision.Text, decision.ToolCalls)

		// No tool calls means the text is the final answer, even when empty.
		if len(decision.ToolCalls) == 0 {
			result.Text = decision.Text
			return result, nil
		}

		// Dispatch the whole batch in request order; the model sees all
		// results together on the next round, never a partial batch.
		for _, call := range decision.ToolCalls {
			a.printer.PrintToolCall(call)
			output := a.executor.Execute(ctx, call)
			a.printer.PrintToolResult(call, output)
			s.conv.AppendToolResult(call, output)

			if call.Name == "write_user_data" && strings.Contains(output, "Profile updated successfully") {
				result.ProfileUpdated = true
			}
		}
	}

	result.Truncated = true
	result.Text = truncationNotice(s.conv.LastAssistantText(), a.maxTurns)
	return result, nil
}

// History returns the session's messages in order.
func (s *Session) History() []conversation.Message {
	return s.conv.Messages()
}

func truncationNotice(lastText string, maxTurns int) string {
	notice := fmt.Sprintf("(The assistant stopped after %d tool-use rounds without reaching a final answer. The partial work above has been saved where tools reported success.)", maxTurns)
	if lastText == "" {
		return notice
	}
	return lastText + "\n\n" + notice
}
