package llm

import "strings"

// CleanFencedBlock strips a surrounding markdown code fence from model
// output. Models routinely wrap whole documents in ```markdown fences even
// when asked not to; the body is returned unchanged when no fence is found.
func CleanFencedBlock(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}

	// Drop the opening fence line (which may carry a language tag) and a
	// closing fence if present.
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
