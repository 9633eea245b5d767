package core

import "strings"

const uncheckedPrefix = "- [ ]"

// RenderChecklist turns bullet lines into unchecked checklist lines.
// Lines without a leading "-" or "*" are kept unchanged.
func RenderChecklist(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			line = uncheckedPrefix + " " + strings.TrimSpace(line[1:])
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// ExtractTodos collects the unchecked items of a rendered checklist
func ExtractTodos(checklist string) []TodoItem {
	var todos []TodoItem
	for _, line := range strings.Split(checklist, "\n") {
		if !strings.HasPrefix(line, uncheckedPrefix) {
			continue
		}
		text := strings.TrimSpace(strings.TrimPrefix(line, uncheckedPrefix))
		if text == "" {
			continue
		}
		todos = append(todos, TodoItem{Text: text})
	}
	return todos
}
