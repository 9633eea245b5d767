package core

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultExcludedPattern skips housekeeping commits
const DefaultExcludedPattern = `^(chore|docs|style):`

// commitRegex implements the commit grammar:
//
//	[<type>] <title>
//
//	[body]<body>
//
//	[todo]<todo>        (optional)
//
//	[footer]<footer>    (optional)
//
// Tags are case-insensitive and each trailing section runs to the next tag or
// the end of the message.
var commitRegex = regexp.MustCompile(`(?is)\[(.*?)\] (.*?)\n\n\[body\](.*?)(?:\n\n\[todo\](.*?))?(?:\n\n\[footer\](.*?))?$`)

// ParseCommitMessage extracts a CommitRecord from a raw commit message.
// It returns false when the message does not follow the grammar.
func ParseCommitMessage(message string) (CommitRecord, bool) {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	message = strings.TrimRight(message, " \t\n")

	match := commitRegex.FindStringSubmatch(message)
	if match == nil {
		return CommitRecord{}, false
	}

	commitType := strings.ToLower(strings.TrimSpace(match[1]))
	return CommitRecord{
		Type:     commitType,
		Title:    strings.TrimSpace(match[2]),
		Body:     strings.TrimSpace(match[3]),
		Todo:     strings.TrimSpace(match[4]),
		Footer:   strings.TrimSpace(match[5]),
		Category: LookupCategory(commitType),
	}, true
}

// CompileExclusion compiles an exclusion expression. The expression always
// matches from the start of the message.
func CompileExclusion(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		expr = DefaultExcludedPattern
	}
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid exclusion pattern %q: %w", expr, err)
	}
	return re, nil
}

// IsExcluded reports whether a commit message should not be logged
func IsExcluded(pattern *regexp.Regexp, message string) bool {
	if pattern == nil {
		return false
	}
	return pattern.MatchString(message)
}

// IsMergeMessage reports whether the message was generated by a merge
func IsMergeMessage(message string) bool {
	return strings.HasPrefix(message, "Merge")
}
