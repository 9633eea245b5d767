package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/ksysoev/daily-log-action/pkg/core"
	"golang.org/x/oauth2"
)

const perPage = 100

// Client handles interaction with the GitHub API
type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClient creates a new GitHub client
func NewClient(token, repoFullName string) (*Client, error) {
	return newClient(NewRawClient(token), repoFullName)
}

// NewRawClient creates a new raw GitHub client
func NewRawClient(token string) *github.Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return github.NewClient(tc)
}

func newClient(client *github.Client, repoFullName string) (*Client, error) {
	parts := strings.Split(repoFullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/repo", repoFullName)
	}

	return &Client{
		client: client,
		owner:  parts[0],
		repo:   parts[1],
	}, nil
}

// ListOpenIssues returns every open issue carrying the label, in the order
// GitHub lists them. Pull requests are skipped.
func (c *Client) ListOpenIssues(ctx context.Context, label string) ([]core.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		Labels:      []string{label},
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var issues []core.Issue
	for {
		page, resp, err := c.client.Issues.ListByRepo(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues labeled %q: %w", label, err)
		}

		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, toIssue(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

// GetIssue reads a single issue
func (c *Client) GetIssue(ctx context.Context, number int) (core.Issue, error) {
	issue, _, err := c.client.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return core.Issue{}, fmt.Errorf("failed to get issue #%d: %w", number, err)
	}
	return toIssue(issue), nil
}

// CreateIssue opens a new issue
func (c *Client) CreateIssue(ctx context.Context, title, body string, labels []string) (core.Issue, error) {
	issue, _, err := c.client.Issues.Create(ctx, c.owner, c.repo, &github.IssueRequest{
		Title:  &title,
		Body:   &body,
		Labels: &labels,
	})
	if err != nil {
		return core.Issue{}, fmt.Errorf("failed to create issue %q: %w", title, err)
	}
	return toIssue(issue), nil
}

// EditIssueBody replaces the body of an issue
func (c *Client) EditIssueBody(ctx context.Context, number int, body string) error {
	_, _, err := c.client.Issues.Edit(ctx, c.owner, c.repo, number, &github.IssueRequest{
		Body: &body,
	})
	if err != nil {
		return fmt.Errorf("failed to update issue #%d: %w", number, err)
	}
	return nil
}

// CloseIssue closes an issue
func (c *Client) CloseIssue(ctx context.Context, number int) error {
	_, _, err := c.client.Issues.Edit(ctx, c.owner, c.repo, number, &github.IssueRequest{
		State: github.String("closed"),
	})
	if err != nil {
		return fmt.Errorf("failed to close issue #%d: %w", number, err)
	}
	return nil
}

// GetCommit reads the message, author and parents of a commit
func (c *Client) GetCommit(ctx context.Context, sha string) (core.Commit, error) {
	commit, _, err := c.client.Repositories.GetCommit(ctx, c.owner, c.repo, sha, nil)
	if err != nil {
		return core.Commit{}, fmt.Errorf("failed to get commit %s: %w", sha, err)
	}

	parents := make([]string, 0, len(commit.Parents))
	for _, p := range commit.Parents {
		parents = append(parents, p.GetSHA())
	}

	return core.Commit{
		SHA:     commit.GetSHA(),
		Message: commit.GetCommit().GetMessage(),
		Author:  commit.GetCommit().GetAuthor().GetName(),
		Parents: parents,
	}, nil
}

func toIssue(issue *github.Issue) core.Issue {
	return core.Issue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		URL:       issue.GetHTMLURL(),
		UpdatedAt: issue.GetUpdatedAt().Time,
	}
}
