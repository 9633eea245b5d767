package core

import (
	"regexp"
	"strings"
)

var (
	branchSummaryRegex = regexp.MustCompile(`^<summary>\s*<h3[^>]*>\s*✨\s*(.+?)\s*</h3>\s*</summary>$`)
	todoHeadingRegex   = regexp.MustCompile(`(?i)^##\s*(?:📝\s*)?todo$`)
	checkboxRegex      = regexp.MustCompile(`^[-*]\s+\[([ xX])\]\s+(.*)$`)

	// older bodies glue consecutive branch blocks together
	adjacentBlocksRegex = regexp.MustCompile(`(?m)^</details>[ \t]*<details>`)
)

// ParseBody recovers the branch sections and todo list of a rendered daily
// issue body. It never fails: anything it does not recognise is skipped, so
// a hand-edited or foreign body yields partial or empty state.
func ParseBody(body string) IssueState {
	var state IssueState

	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = adjacentBlocksRegex.ReplaceAllString(body, "</details>\n<details>")
	lines := strings.Split(body, "\n")
	inTodo := false

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		switch {
		case todoHeadingRegex.MatchString(line):
			inTodo = true
		case isSectionMarker(line):
			inTodo = false
		case line == "<details>":
			name, end, ok := parseBranchBlock(lines, i)
			if !ok {
				continue
			}
			content := strings.Trim(strings.Join(lines[end.start:end.stop], "\n"), "\n")
			if _, found := state.Branch(name); !found || content != "" {
				state.AppendCommit(name, content)
			}
			inTodo = false
			i = end.next - 1
		case inTodo:
			if m := checkboxRegex.FindStringSubmatch(line); m != nil {
				text := strings.TrimSpace(m[2])
				if text == "" {
					continue
				}
				state.Todos = append(state.Todos, TodoItem{Checked: m[1] != " ", Text: text})
			}
		}
	}

	return state
}

type blockBounds struct {
	start int // first content line
	stop  int // line holding the closing tag, or len(lines)
	next  int // line to resume scanning at
}

// parseBranchBlock reads a branch block opened at lines[open]. The block
// ends at the first line that is exactly </details>; quoted commit blocks
// close with "> </details>" and do not end it.
func parseBranchBlock(lines []string, open int) (string, blockBounds, bool) {
	i := open + 1
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) {
		return "", blockBounds{}, false
	}

	m := branchSummaryRegex.FindStringSubmatch(strings.TrimSpace(lines[i]))
	if m == nil {
		return "", blockBounds{}, false
	}

	b := blockBounds{start: i + 1, stop: len(lines), next: len(lines)}
	for j := i + 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "</details>" {
			b.stop = j
			b.next = j + 1
			break
		}
	}

	return m[1], b, true
}

func isSectionMarker(line string) bool {
	return strings.HasPrefix(line, `<div align="center">`) ||
		strings.HasPrefix(line, "# ") ||
		strings.HasPrefix(line, "## ")
}

