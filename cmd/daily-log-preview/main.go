package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/ghodss/yaml"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/ksysoev/daily-log-action/pkg/config"
	"github.com/ksysoev/daily-log-action/pkg/core"
	"github.com/ksysoev/daily-log-action/pkg/dailylog"
	"github.com/sethvargo/go-githubactions"
)

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	message       string
	branch        string
	sha           string
	author        string
	repo          string
	bodyFile      string
	previousFiles []string
	cfgFile       string
	printConfig   bool
	help          bool
}

func run(rawArgs []string, stdin *os.File, stdout, stderr io.Writer) error {
	var opts options
	flags := pflag.NewFlagSet("daily-log-preview", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVarP(&opts.help, "help", "h", false, "show help")
	flags.StringVarP(&opts.message, "message", "m", "", "commit `message` to log (read from stdin when piped)")
	flags.StringVarP(&opts.branch, "branch", "b", "main", "branch `name` the commit was pushed to")
	flags.StringVar(&opts.sha, "sha", "0000000", "commit `sha` shown in the log")
	flags.StringVar(&opts.author, "author", "preview", "commit `author` shown in the log")
	flags.StringVar(&opts.repo, "repo", "owner/repo", "repository `owner/name`")
	flags.StringVar(&opts.bodyFile, "body-file", "", "`file` holding today's current issue body")
	flags.StringArrayVar(&opts.previousFiles, "previous-file", nil, "`file` holding a previous day's issue body")
	flags.StringVarP(&opts.cfgFile, "config", "c", "", "YAML config `file`")
	flags.BoolVar(&opts.printConfig, "print-config", false, "print the resolved configuration and exit")

	if err := flags.Parse(rawArgs[1:]); err != nil {
		return err
	}
	if opts.help {
		fmt.Fprintf(stdout, "%s [flags]\n\nRender the daily log issue body a commit would produce.\n\nFLAGS\n%s", rawArgs[0], flags.FlagUsages())
		return nil
	}

	action := githubactions.New(githubactions.WithWriter(stderr))
	cfg, err := config.Load(action, func(key string) string {
		if key == "DAILY_LOG_CONFIG" && opts.cfgFile != "" {
			return opts.cfgFile
		}
		return os.Getenv(key)
	})
	if err != nil {
		return err
	}
	cfg.DryRun = true

	if opts.printConfig {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, string(b))
		return nil
	}

	if opts.message == "" && !isatty.IsTerminal(stdin.Fd()) && !isatty.IsCygwinTerminal(stdin.Fd()) {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		opts.message = string(b)
	}
	if opts.message == "" {
		return errors.New("a commit message is required (--message or stdin)")
	}

	now := time.Now()
	tracker, err := newPreviewTracker(cfg, opts, now)
	if err != nil {
		return err
	}

	daily, err := dailylog.New(cfg, tracker, action, dailylog.WithClock(func() time.Time { return now }))
	if err != nil {
		return err
	}

	res, err := daily.Run(context.Background(), dailylog.Event{
		Repository: opts.repo,
		Ref:        "refs/heads/" + opts.branch,
		SHA:        opts.sha,
	})
	if err != nil {
		return err
	}

	switch res.Status {
	case dailylog.StatusExcluded:
		fmt.Fprintln(stdout, "commit type is excluded, nothing would be logged")
	case dailylog.StatusSkipped:
		fmt.Fprintln(stdout, "commit message does not follow the daily log format, nothing would be logged")
	default:
		fmt.Fprintln(stdout, res.Body)
	}
	return nil
}

// previewTracker serves issues read from local files. It is only used with
// dry runs, so it never has to persist anything.
type previewTracker struct {
	commit core.Commit
	issues []core.Issue
}

func newPreviewTracker(cfg core.Config, opts options, now time.Time) (*previewTracker, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	today := now.In(loc)
	repoName := core.RepoName(opts.repo)

	t := &previewTracker{
		commit: core.Commit{SHA: opts.sha, Message: opts.message, Author: opts.author},
	}

	if opts.bodyFile != "" {
		body, err := os.ReadFile(opts.bodyFile)
		if err != nil {
			return nil, err
		}
		t.issues = append(t.issues, core.Issue{
			Number: 1,
			Title:  core.IssueTitle(cfg.IssuePrefix, today.Format("2006-01-02"), repoName),
			Body:   string(body),
		})
	}

	for i, path := range opts.previousFiles {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		day := today.AddDate(0, 0, -(i + 1))
		t.issues = append(t.issues, core.Issue{
			Number: i + 2,
			Title:  core.IssueTitle(cfg.IssuePrefix, day.Format("2006-01-02"), repoName),
			Body:   string(body),
		})
	}

	return t, nil
}

func (t *previewTracker) ListOpenIssues(ctx context.Context, label string) ([]core.Issue, error) {
	return t.issues, nil
}

func (t *previewTracker) GetIssue(ctx context.Context, number int) (core.Issue, error) {
	for _, issue := range t.issues {
		if issue.Number == number {
			return issue, nil
		}
	}
	return core.Issue{}, fmt.Errorf("issue #%d not found", number)
}

func (t *previewTracker) CreateIssue(ctx context.Context, title, body string, labels []string) (core.Issue, error) {
	return core.Issue{}, errors.New("preview does not create issues")
}

func (t *previewTracker) EditIssueBody(ctx context.Context, number int, body string) error {
	return errors.New("preview does not edit issues")
}

func (t *previewTracker) CloseIssue(ctx context.Context, number int) error {
	return errors.New("preview does not close issues")
}

func (t *previewTracker) GetCommit(ctx context.Context, sha string) (core.Commit, error) {
	return t.commit, nil
}
