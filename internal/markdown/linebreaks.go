// Package markdown provides the line-break normalization applied to CV
// documents before they are persisted and rendered.
package markdown

import "strings"

// NormalizeLineBreaks patches CV markdown so that adjacent single lines inside
// the header block, the SKILLS section, and the EDUCATION section end with a
// trailing double space. Pandoc treats the double space as a hard line break,
// which keeps contact lines, skill categories, and education entries on their
// own lines instead of being merged into one paragraph.
//
// This is a best-effort textual patch, not a Markdown parse: it looks only at
// line prefixes ("#", "##", "**") and line adjacency, and it must tolerate any
// markdown input. Applying it twice yields the same output as applying it once.
func NormalizeLineBreaks(content string) string {
	lines := strings.Split(content, "\n")
	kinds := classifyLines(lines)

	out := make([]string, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if kinds[i] != kindNone && i+1 < len(lines) && kinds[i+1] == kinds[i] {
			out[i] = trimmed + "  "
		} else {
			out[i] = trimmed
		}
	}
	return strings.Join(out, "\n")
}

type lineKind int

const (
	kindNone lineKind = iota
	kindHeader
	kindSkill
	kindEducation
)

// classifyLines assigns a break-eligible kind to each line. Lines of the same
// kind that are vertically adjacent get the hard-break marker.
func classifyLines(lines []string) []lineKind {
	kinds := make([]lineKind, len(lines))

	inHeaderBlock := true
	section := ""

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "## ") {
			inHeaderBlock = false
			section = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(trimmed, "## ")))
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		switch {
		case inHeaderBlock:
			// Contact lines under the top-level name heading.
			kinds[i] = kindHeader
		case strings.Contains(section, "SKILL") && strings.HasPrefix(trimmed, "**"):
			// Category lines like "**Core:** ..." stay one per line.
			kinds[i] = kindSkill
		case strings.Contains(section, "EDUCATION") && !isBullet(trimmed):
			// Degree and institution lines, but never bullet lists.
			kinds[i] = kindEducation
		}
	}

	return kinds
}

func isBullet(trimmed string) bool {
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ")
}
