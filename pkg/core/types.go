package core

import (
	"strings"
	"time"
)

// CommitRecord represents a commit message parsed with the daily log grammar
type CommitRecord struct {
	Type     string
	Title    string
	Body     string
	Todo     string
	Footer   string
	Category Category
}

// Category describes how a commit type is presented in the log
type Category struct {
	Emoji       string
	Label       string
	Description string
}

// OtherCategory is used for commit types missing from the table
var OtherCategory = Category{Emoji: "🔍", Label: "other", Description: "Other"}

var categories = map[string]Category{
	"feat":     {Emoji: "✨", Label: "feature", Description: "New Feature"},
	"fix":      {Emoji: "🐛", Label: "bug", Description: "Bug Fix"},
	"refactor": {Emoji: "♻️", Label: "refactor", Description: "Code Refactoring"},
	"docs":     {Emoji: "📝", Label: "documentation", Description: "Documentation Update"},
	"test":     {Emoji: "✅", Label: "test", Description: "Test Update"},
	"chore":    {Emoji: "🔧", Label: "chore", Description: "Build/Config Update"},
	"style":    {Emoji: "💄", Label: "style", Description: "Code Style Update"},
	"perf":     {Emoji: "⚡️", Label: "performance", Description: "Performance Improvement"},
}

// LookupCategory returns the category for a commit type, falling back to OtherCategory
func LookupCategory(commitType string) Category {
	if c, ok := categories[strings.ToLower(strings.TrimSpace(commitType))]; ok {
		return c
	}
	return OtherCategory
}

// TodoItem is a single checklist entry. Text is its identity.
type TodoItem struct {
	Checked bool
	Text    string
}

// Branch holds the rendered commit blocks of one branch
type Branch struct {
	Name    string
	Content string
}

// IssueState is the structured content of a daily issue body
type IssueState struct {
	Branches []Branch
	Todos    []TodoItem
}

// Branch returns the content stored for the named branch
func (s *IssueState) Branch(name string) (string, bool) {
	for _, b := range s.Branches {
		if b.Name == name {
			return b.Content, true
		}
	}
	return "", false
}

// AppendCommit adds a commit block to the named branch. Existing content is
// kept as is and the block follows it after a blank line; unknown branches
// are added at the end.
func (s *IssueState) AppendCommit(name, block string) {
	for i := range s.Branches {
		if s.Branches[i].Name == name {
			s.Branches[i].Content += "\n\n" + block
			return
		}
	}
	s.Branches = append(s.Branches, Branch{Name: name, Content: block})
}

// Issue is the subset of a tracker issue the daily log works with
type Issue struct {
	Number    int
	Title     string
	Body      string
	URL       string
	UpdatedAt time.Time
}

// Commit is the subset of a repository commit the daily log works with
type Commit struct {
	SHA     string
	Message string
	Author  string
	Parents []string
}

// Config represents the GitHub Action configuration
type Config struct {
	GitHubToken     string `json:"-"`
	Timezone        string `json:"timezone,omitempty"`
	IssuePrefix     string `json:"issue_prefix,omitempty"`
	IssueLabel      string `json:"issue_label,omitempty"`
	ExcludedPattern string `json:"excluded_commits,omitempty"`
	DryRun          bool   `json:"dry_run,omitempty"`
	CheckConflicts  bool   `json:"check_conflicts,omitempty"`
}
