package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	_ "time/tzdata"

	"github.com/ksysoev/daily-log-action/pkg/config"
	"github.com/ksysoev/daily-log-action/pkg/dailylog"
	"github.com/ksysoev/daily-log-action/pkg/github"
	"github.com/sethvargo/go-githubactions"
)

func main() {
	// Set up action
	action := githubactions.New()
	ctx := context.Background()

	cfg, err := config.Load(action, os.Getenv)
	if err != nil {
		action.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		action.Fatalf("Invalid configuration: %v", err)
	}

	// Get GitHub context
	eventName := os.Getenv("GITHUB_EVENT_NAME")
	if eventName != "push" && eventName != "workflow_dispatch" {
		action.Fatalf("This action only works on push or workflow_dispatch events, got: %s", eventName)
	}

	repoFullName := os.Getenv("GITHUB_REPOSITORY")
	if repoFullName == "" {
		action.Fatalf("GITHUB_REPOSITORY environment variable is not set")
	}

	sha := os.Getenv("GITHUB_SHA")
	if sha == "" {
		action.Fatalf("GITHUB_SHA environment variable is not set")
	}

	ref := os.Getenv("GITHUB_REF")
	if !strings.HasPrefix(ref, "refs/heads/") {
		action.Fatalf("GITHUB_REF must point to a branch, got: %s", ref)
	}

	// Initialize GitHub client
	client, err := github.NewClient(cfg.GitHubToken, repoFullName)
	if err != nil {
		action.Fatalf("Failed to create GitHub client: %v", err)
	}

	daily, err := dailylog.New(cfg, client, action)
	if err != nil {
		action.Fatalf("Failed to set up daily log: %v", err)
	}

	action.Group("Daily development log")
	res, err := daily.Run(ctx, dailylog.Event{
		Repository: repoFullName,
		Ref:        ref,
		SHA:        sha,
	})
	action.EndGroup()
	if err != nil {
		action.Fatalf("Failed to update daily log: %v", err)
	}

	action.SetOutput("status", string(res.Status))
	if res.IssueNumber != 0 {
		action.SetOutput("issue_number", strconv.Itoa(res.IssueNumber))
		action.SetOutput("issue_url", res.IssueURL)
	}

	action.Infof("Daily log action completed: %s", res.Status)
}
