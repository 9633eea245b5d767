package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderBody(t *testing.T) {
	state := IssueState{
		Branches: []Branch{
			{Name: "Main", Content: "main content"},
			{Name: "Develop", Content: "develop content"},
		},
		Todos: []TodoItem{{Checked: true, Text: "done"}, {Text: "open"}},
	}

	want := `# 📅 Daily Development Log (2026-10-15) - repo

<div align="center">

## 📊 Branch Summary

</div>

<details>
<summary><h3 style="display: inline;">✨ Main</h3></summary>

main content
</details>

<details>
<summary><h3 style="display: inline;">✨ Develop</h3></summary>

develop content
</details>

<div align="center">

## 📝 Todo

</div>

- [x] done
- [ ] open`

	assert.Equal(t, want, RenderBody("📅 Daily Development Log (2026-10-15) - repo", state))
}

func TestRenderCommitSection(t *testing.T) {
	rec, ok := ParseCommitMessage("[feat] Add cache\n\n[body]Implements LRU.\nWith eviction.\n\n[footer]Closes #1")
	assert.True(t, ok)

	want := "> <details>\n" +
		"> <summary>💫 09:30:00 - Add cache</summary>\n" +
		">\n" +
		"> Type: feat (New Feature)\n" +
		"> Commit: `abc123`\n" +
		"> Author: octocat\n" +
		">\n" +
		"> Implements LRU.\n" +
		"> With eviction.\n" +
		"> **Related Issues:**\n" +
		"> Closes #1\n" +
		"> </details>"

	assert.Equal(t, want, RenderCommitSection(rec, "abc123", "octocat", "09:30:00"))
}

func TestRenderCommitSectionSurvivesParse(t *testing.T) {
	rec, ok := ParseCommitMessage("[fix] Tricky\n\n[body]</details>\n<details>\n## Todo\n- [ ] not a todo")
	assert.True(t, ok)

	section := RenderCommitSection(rec, "abc", "me", "10:00:00")
	var state IssueState
	state.AppendCommit("Main", section)

	got := ParseBody(RenderBody("title", state))

	assert.Equal(t, state.Branches, got.Branches)
	assert.Empty(t, got.Todos)
}

func TestAppendCommit(t *testing.T) {
	var state IssueState
	state.AppendCommit("Main", "first")
	state.AppendCommit("Develop", "other")
	state.AppendCommit("Main", "second")

	assert.Equal(t, []Branch{
		{Name: "Main", Content: "first\n\nsecond"},
		{Name: "Develop", Content: "other"},
	}, state.Branches)

	content, ok := state.Branch("Main")
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(content, "first"))

	_, ok = state.Branch("Missing")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "main", BranchName("refs/heads/main"))
	assert.Equal(t, "feature/login", BranchName("refs/heads/feature/login"))
	assert.Equal(t, "Main", BranchDisplayName("main"))
	assert.Equal(t, "Develop", BranchDisplayName("develop"))
	assert.Equal(t, "Feature/Login", BranchDisplayName("feature/login"))
	assert.Equal(t, "Feature_X", BranchDisplayName("feature_x"))
	assert.Equal(t, "V2Fix", BranchDisplayName("v2fix"))
	assert.Equal(t, "Hotfix-Api", BranchDisplayName("HOTFIX-api"))
	assert.Equal(t, "Release/1.2", BranchDisplayName("release/1.2"))
	assert.Equal(t, "", BranchDisplayName(""))

	assert.Equal(t, "repo", RepoName("owner/repo"))
	assert.Equal(t, "github", RepoName("owner/.github"))
	assert.Equal(t, "solo", RepoName("solo"))

	title := IssueTitle("📅", "2026-10-15", "repo")
	assert.Equal(t, "📅 Daily Development Log (2026-10-15) - repo", title)
	assert.True(t, IsDailyIssueFor(title, "2026-10-15"))
	assert.False(t, IsDailyIssueFor(title, "2026-10-14"))
	assert.True(t, IsDailyIssue("📅", title))
	assert.False(t, IsDailyIssue("📅", "Unrelated bug report"))
}
