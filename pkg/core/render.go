package core

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	dailyLogTitle   = "Daily Development Log"
	branchSummaryH2 = "## 📊 Branch Summary"
	todoH2          = "## 📝 Todo"
	centerOpen      = `<div align="center">`
	centerClose     = "</div>"
)

// RenderBody renders the full daily issue body. Branches and todos are
// written in the order given; ParseBody reads the result back.
func RenderBody(title string, state IssueState) string {
	var sb strings.Builder

	sb.WriteString("# " + title + "\n\n")
	writeHeading(&sb, branchSummaryH2)

	blocks := make([]string, 0, len(state.Branches))
	for _, b := range state.Branches {
		blocks = append(blocks, renderBranchBlock(b))
	}
	sb.WriteString(strings.Join(blocks, "\n\n"))
	sb.WriteString("\n\n")

	writeHeading(&sb, todoH2)
	sb.WriteString(RenderTodos(state.Todos))

	return sb.String()
}

func writeHeading(sb *strings.Builder, heading string) {
	sb.WriteString(centerOpen + "\n\n")
	sb.WriteString(heading + "\n\n")
	sb.WriteString(centerClose + "\n\n")
}

func renderBranchBlock(b Branch) string {
	return fmt.Sprintf("<details>\n<summary><h3 style=\"display: inline;\">✨ %s</h3></summary>\n\n%s\n</details>", b.Name, b.Content)
}

// RenderTodos renders one checklist line per todo
func RenderTodos(todos []TodoItem) string {
	lines := make([]string, 0, len(todos))
	for _, todo := range todos {
		box := "[ ]"
		if todo.Checked {
			box = "[x]"
		}
		lines = append(lines, fmt.Sprintf("- %s %s", box, todo.Text))
	}
	return strings.Join(lines, "\n")
}

// RenderCommitSection renders the collapsible block logged for one commit
func RenderCommitSection(rec CommitRecord, sha, author, clock string) string {
	var sb strings.Builder

	sb.WriteString("> <details>\n")
	sb.WriteString(fmt.Sprintf("> <summary>💫 %s - %s</summary>\n", clock, rec.Title))
	sb.WriteString(">\n")
	sb.WriteString(fmt.Sprintf("> Type: %s (%s)\n", rec.Type, rec.Category.Description))
	sb.WriteString(fmt.Sprintf("> Commit: `%s`\n", sha))
	sb.WriteString(fmt.Sprintf("> Author: %s\n", author))
	sb.WriteString(">\n")
	sb.WriteString(quote(rec.Body))

	if rec.Footer != "" {
		sb.WriteString("\n> **Related Issues:**\n")
		sb.WriteString(quote(rec.Footer))
	}

	sb.WriteString("\n> </details>")
	return sb.String()
}

func quote(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

// BranchName strips the refs/heads/ prefix from a git ref
func BranchName(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}

// BranchDisplayName title-cases a branch name for its section heading.
// Every run of cased letters is title-cased on its own, so a letter that
// follows a digit, an underscore or any other uncased character starts a
// new word: "feature_x" becomes "Feature_X" and "v2fix" becomes "V2Fix".
func BranchDisplayName(branch string) string {
	caser := cases.Title(language.Und)

	var sb strings.Builder
	start, inWord := 0, false
	for i, r := range branch {
		if cased := isCased(r); cased != inWord {
			flushSegment(&sb, caser, branch[start:i], inWord)
			start, inWord = i, cased
		}
	}
	flushSegment(&sb, caser, branch[start:], inWord)

	return sb.String()
}

func flushSegment(sb *strings.Builder, caser cases.Caser, segment string, word bool) {
	if word {
		segment = caser.String(segment)
	}
	sb.WriteString(segment)
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// RepoName returns the repository part of owner/repo without a leading dot
func RepoName(fullName string) string {
	name := fullName
	if idx := strings.LastIndex(fullName, "/"); idx >= 0 {
		name = fullName[idx+1:]
	}
	return strings.TrimPrefix(name, ".")
}

// IssueTitle builds the title of the daily issue for a date
func IssueTitle(prefix, date, repoName string) string {
	return fmt.Sprintf("%s %s (%s) - %s", prefix, dailyLogTitle, date, repoName)
}

// IsDailyIssueFor reports whether the title belongs to the daily issue of date
func IsDailyIssueFor(title, date string) bool {
	return strings.Contains(title, fmt.Sprintf("%s (%s)", dailyLogTitle, date))
}

// IsDailyIssue reports whether the title belongs to any daily issue
func IsDailyIssue(prefix, title string) bool {
	return strings.HasPrefix(title, prefix+" "+dailyLogTitle)
}
