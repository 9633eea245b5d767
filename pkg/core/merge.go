package core

import "strings"

// MergeTodos appends incoming todos to base. Items are matched by text:
// a known item keeps its position and only ever moves from unchecked to
// checked, an unknown item is appended in incoming order. When base holds
// the same text more than once, its last occurrence is the one updated.
// Neither input is modified.
func MergeTodos(base, incoming []TodoItem) []TodoItem {
	result := make([]TodoItem, 0, len(base)+len(incoming))
	positions := make(map[string]int, len(base)+len(incoming))

	for _, todo := range base {
		positions[strings.TrimSpace(todo.Text)] = len(result)
		result = append(result, todo)
	}

	for _, todo := range incoming {
		key := strings.TrimSpace(todo.Text)
		if idx, ok := positions[key]; ok {
			if todo.Checked && !result[idx].Checked {
				result[idx].Checked = true
			}
			continue
		}
		positions[key] = len(result)
		result = append(result, todo)
	}

	return result
}

// CarryForward returns the unchecked todos of a previous day
func CarryForward(todos []TodoItem) []TodoItem {
	var carried []TodoItem
	for _, todo := range todos {
		if todo.Checked {
			continue
		}
		carried = append(carried, TodoItem{Text: todo.Text})
	}
	return carried
}
