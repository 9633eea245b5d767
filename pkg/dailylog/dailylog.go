// Package dailylog keeps one development log issue per day up to date with
// the commits pushed to a repository.
//
// Every run re-derives its state from the open issues of the tracker. Two
// runs for the same day race on the same issue; enable CheckConflicts to
// re-read the issue right before writing it.
package dailylog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ksysoev/daily-log-action/pkg/core"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"

	maxWriteAttempts = 3
)

// ErrConcurrentUpdate is returned when the daily issue kept changing while
// this run tried to write it.
var ErrConcurrentUpdate = errors.New("daily issue was modified concurrently")

// Tracker is the issue tracker the daily log is kept in
type Tracker interface {
	ListOpenIssues(ctx context.Context, label string) ([]core.Issue, error)
	GetIssue(ctx context.Context, number int) (core.Issue, error)
	CreateIssue(ctx context.Context, title, body string, labels []string) (core.Issue, error)
	EditIssueBody(ctx context.Context, number int, body string) error
	CloseIssue(ctx context.Context, number int) error
	GetCommit(ctx context.Context, sha string) (core.Commit, error)
}

// Logger receives progress messages. *githubactions.Action satisfies it.
type Logger interface {
	Infof(msg string, args ...any)
	Warningf(msg string, args ...any)
	Debugf(msg string, args ...any)
}

// Event identifies the pushed commit
type Event struct {
	Repository string
	Ref        string
	SHA        string
}

// Status describes what a run did
type Status string

const (
	StatusCreated  Status = "created"
	StatusUpdated  Status = "updated"
	StatusExcluded Status = "excluded"
	StatusSkipped  Status = "skipped"
)

// Result summarizes a run
type Result struct {
	Status      Status
	IssueNumber int
	IssueURL    string
	Body        string
	Closed      []int
	Carried     int
}

// DailyLog processes commit events
type DailyLog struct {
	cfg      core.Config
	tracker  Tracker
	log      Logger
	location *time.Location
	excluded *regexp.Regexp
	now      func() time.Time
}

// Option customizes a DailyLog
type Option func(*DailyLog)

// WithClock overrides the source of the current time
func WithClock(now func() time.Time) Option {
	return func(d *DailyLog) {
		d.now = now
	}
}

// New creates a DailyLog for a validated configuration
func New(cfg core.Config, tracker Tracker, log Logger, opts ...Option) (*DailyLog, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}

	excluded, err := core.CompileExclusion(cfg.ExcludedPattern)
	if err != nil {
		return nil, err
	}

	d := &DailyLog{
		cfg:      cfg,
		tracker:  tracker,
		log:      log,
		location: location,
		excluded: excluded,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run logs the commit of the event into today's issue
func (d *DailyLog) Run(ctx context.Context, ev Event) (Result, error) {
	commit, err := d.loggedCommit(ctx, ev.SHA)
	if err != nil {
		return Result{}, err
	}

	if core.IsExcluded(d.excluded, commit.Message) {
		d.log.Infof("Excluded commit type: %s", firstLine(commit.Message))
		return Result{Status: StatusExcluded}, nil
	}

	rec, ok := core.ParseCommitMessage(commit.Message)
	if !ok {
		d.log.Infof("Commit %s does not follow the daily log format, skipping", commit.SHA)
		return Result{Status: StatusSkipped}, nil
	}

	now := d.now().In(d.location)
	date := now.Format(dateLayout)
	title := core.IssueTitle(d.cfg.IssuePrefix, date, core.RepoName(ev.Repository))

	issues, err := d.tracker.ListOpenIssues(ctx, d.cfg.IssueLabel)
	if err != nil {
		return Result{}, err
	}

	today, previous := d.classify(issues, date)
	carried := carriedTodos(previous)

	branch := core.BranchName(ev.Ref)
	section := core.RenderCommitSection(rec, commit.SHA, commit.Author, now.Format(timeLayout))
	fromCommit := core.ExtractTodos(core.RenderChecklist(rec.Todo))
	d.log.Debugf("commit adds %d todo(s), %d carried from previous days", len(fromCommit), len(carried))

	var res Result
	if today != nil {
		res, err = d.update(ctx, *today, title, func(state core.IssueState) core.IssueState {
			state.AppendCommit(core.BranchDisplayName(branch), section)
			state.Todos = core.MergeTodos(core.MergeTodos(state.Todos, fromCommit), carried)
			return state
		})
	} else {
		var state core.IssueState
		state.AppendCommit(core.BranchDisplayName(branch), section)
		state.Todos = core.MergeTodos(fromCommit, carried)

		labels := []string{d.cfg.IssueLabel, "branch:" + branch, "type:" + rec.Category.Label}
		res, err = d.create(ctx, title, core.RenderBody(title, state), labels)
	}
	if err != nil {
		return Result{}, err
	}
	res.Carried = len(carried)

	for _, issue := range previous {
		if d.cfg.DryRun {
			d.log.Infof("Dry run: would close previous issue #%d", issue.Number)
			continue
		}
		if err := d.tracker.CloseIssue(ctx, issue.Number); err != nil {
			return res, err
		}
		d.log.Infof("Closed previous issue #%d", issue.Number)
		res.Closed = append(res.Closed, issue.Number)
	}

	return res, nil
}

// loggedCommit returns the commit to log. A merge commit is replaced by its
// second parent, the tip of the merged branch.
func (d *DailyLog) loggedCommit(ctx context.Context, sha string) (core.Commit, error) {
	commit, err := d.tracker.GetCommit(ctx, sha)
	if err != nil {
		return core.Commit{}, err
	}

	if core.IsMergeMessage(commit.Message) && len(commit.Parents) > 1 {
		d.log.Debugf("merge commit %s, logging parent %s", sha, commit.Parents[1])
		return d.tracker.GetCommit(ctx, commit.Parents[1])
	}
	return commit, nil
}

// classify picks today's issue and the open issues of previous days. The
// first issue matching today wins; further matches are reported and left
// untouched.
func (d *DailyLog) classify(issues []core.Issue, date string) (*core.Issue, []core.Issue) {
	var today *core.Issue
	var previous []core.Issue

	for i := range issues {
		issue := issues[i]
		switch {
		case core.IsDailyIssueFor(issue.Title, date):
			if today != nil {
				d.log.Warningf("Found another daily issue for %s (#%d), using #%d", date, issue.Number, today.Number)
				continue
			}
			today = &issue
		case core.IsDailyIssue(d.cfg.IssuePrefix, issue.Title):
			previous = append(previous, issue)
		}
	}

	return today, previous
}

func carriedTodos(previous []core.Issue) []core.TodoItem {
	var carried []core.TodoItem
	for _, issue := range previous {
		state := core.ParseBody(issue.Body)
		carried = core.MergeTodos(carried, core.CarryForward(state.Todos))
	}
	return carried
}

func (d *DailyLog) create(ctx context.Context, title, body string, labels []string) (Result, error) {
	res := Result{Status: StatusCreated, Body: body}

	if d.cfg.DryRun {
		d.log.Infof("Dry run: would create issue %q\n%s", title, body)
		return res, nil
	}

	issue, err := d.tracker.CreateIssue(ctx, title, body, labels)
	if err != nil {
		return Result{}, err
	}
	d.log.Infof("Created new issue #%d", issue.Number)

	res.IssueNumber = issue.Number
	res.IssueURL = issue.URL
	return res, nil
}

// update rewrites today's issue with apply. With CheckConflicts the issue
// is re-read before writing and apply is re-run on the fresh body whenever
// it changed since it was read.
func (d *DailyLog) update(ctx context.Context, issue core.Issue, title string, apply func(core.IssueState) core.IssueState) (Result, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		existing := core.ParseBody(issue.Body)
		d.log.Debugf("issue #%d has %d todo(s) across %d branch(es)", issue.Number, len(existing.Todos), len(existing.Branches))
		body := core.RenderBody(title, apply(existing))

		res := Result{Status: StatusUpdated, IssueNumber: issue.Number, IssueURL: issue.URL, Body: body}
		if d.cfg.DryRun {
			d.log.Infof("Dry run: would update issue #%d\n%s", issue.Number, body)
			return res, nil
		}

		if d.cfg.CheckConflicts {
			fresh, err := d.tracker.GetIssue(ctx, issue.Number)
			if err != nil {
				return Result{}, err
			}
			if !fresh.UpdatedAt.Equal(issue.UpdatedAt) {
				d.log.Warningf("Issue #%d changed while updating (attempt %d/%d), retrying", issue.Number, attempt, maxWriteAttempts)
				issue = fresh
				continue
			}
		}

		if err := d.tracker.EditIssueBody(ctx, issue.Number, body); err != nil {
			return Result{}, err
		}
		d.log.Infof("Updated issue #%d", issue.Number)
		return res, nil
	}

	return Result{}, fmt.Errorf("issue #%d: %w", issue.Number, ErrConcurrentUpdate)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
