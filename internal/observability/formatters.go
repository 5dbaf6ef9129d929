// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/cv-studio/internal/conversation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxResultLines is the number of tool result lines shown before truncating
	maxResultLines = 8
)

// Printer handles formatted output for verbose mode. A nil Printer is valid
// and prints nothing.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintToolCall outputs a tool invocation the model requested.
func (p *Printer) PrintToolCall(call conversation.ToolCall) {
	if p == nil {
		return
	}

	var sb strings.Builder
	if len(call.Args) == 0 {
		sb.WriteString("(no arguments)")
	} else {
		keys := make([]string, 0, len(call.Args))
		for key := range call.Args {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			sb.WriteString(fmt.Sprintf("%s: %s\n", key, summarizeValue(call.Args[key])))
		}
	}

	p.printBox(fmt.Sprintf("Tool call: %s", call.Name), strings.TrimRight(sb.String(), "\n"))
}

// PrintToolResult outputs the result of an executed tool call, truncated to a
// few lines.
func (p *Printer) PrintToolResult(call conversation.ToolCall, result string) {
	if p == nil {
		return
	}

	lines := strings.Split(result, "\n")
	if len(lines) > maxResultLines {
		shown := lines[:maxResultLines]
		shown = append(shown, fmt.Sprintf("... and %d more lines", len(lines)-maxResultLines))
		lines = shown
	}

	p.printBox(fmt.Sprintf("Result: %s", call.Name), strings.Join(lines, "\n"))
}

// PrintDecisionRound outputs the decision round counter.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDecisionRound(round int, toolCalls int) {
	if p == nil {
		return
	}
	if toolCalls == 0 {
		fmt.Fprintf(p.out, "round %d: final answer\n", round)
		return
	}
	fmt.Fprintf(p.out, "round %d: %d tool call(s)\n", round, toolCalls)
}

// summarizeValue renders an argument value for display, abbreviating long
// document payloads.
func summarizeValue(value any) string {
	text := fmt.Sprintf("%v", value)
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) > 120 {
		return fmt.Sprintf("%s... (%d chars)", text[:40], len(text))
	}
	return text
}
