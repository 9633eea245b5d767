// Package config assembles the action configuration from action inputs,
// environment variables, an optional YAML file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ghodss/yaml"
	"github.com/imdario/mergo"
	"github.com/ksysoev/daily-log-action/pkg/core"
	"github.com/sethvargo/go-githubactions"
)

const (
	DefaultTimezone    = "Asia/Seoul"
	DefaultIssuePrefix = "📅"
	DefaultIssueLabel  = "daily-log"
)

// InputGetter reads action inputs. *githubactions.Action satisfies it.
type InputGetter interface {
	GetInput(name string) string
}

var _ InputGetter = (*githubactions.Action)(nil)

// ValidationError reports a configuration value that cannot be used
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Default returns the built-in configuration
func Default() core.Config {
	return core.Config{
		Timezone:        DefaultTimezone,
		IssuePrefix:     DefaultIssuePrefix,
		IssueLabel:      DefaultIssueLabel,
		ExcludedPattern: core.DefaultExcludedPattern,
	}
}

// Load builds the configuration. Action inputs win over environment
// variables, which win over the YAML file, which wins over the defaults.
func Load(inputs InputGetter, getenv func(string) string) (core.Config, error) {
	lookup := func(input, env string) string {
		if v := inputs.GetInput(input); v != "" {
			return v
		}
		return getenv(env)
	}

	dryRun, err := parseBool("dry_run", lookup("dry_run", "DAILY_LOG_DRY_RUN"))
	if err != nil {
		return core.Config{}, err
	}
	checkConflicts, err := parseBool("check_conflicts", lookup("check_conflicts", "DAILY_LOG_CHECK_CONFLICTS"))
	if err != nil {
		return core.Config{}, err
	}

	cfg := core.Config{
		GitHubToken:     lookup("github_token", "GITHUB_TOKEN"),
		Timezone:        lookup("timezone", "TIMEZONE"),
		IssuePrefix:     lookup("issue_prefix", "ISSUE_PREFIX"),
		IssueLabel:      lookup("issue_label", "ISSUE_LABEL"),
		ExcludedPattern: lookup("excluded_commits", "EXCLUDED_COMMITS"),
		DryRun:          dryRun,
		CheckConflicts:  checkConflicts,
	}

	if path := lookup("config_file", "DAILY_LOG_CONFIG"); path != "" {
		fileCfg, err := ReadFile(path)
		if err != nil {
			return core.Config{}, err
		}
		if err := mergo.Merge(&cfg, fileCfg); err != nil {
			return core.Config{}, fmt.Errorf("failed to merge %s: %w", path, err)
		}
	}

	if err := mergo.Merge(&cfg, Default()); err != nil {
		return core.Config{}, fmt.Errorf("failed to apply defaults: %w", err)
	}

	return cfg, nil
}

// ReadFile reads a YAML configuration file
func ReadFile(path string) (core.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg core.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return core.Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values the daily log cannot run without
func Validate(cfg core.Config) error {
	if cfg.GitHubToken == "" {
		return &ValidationError{Field: "github_token", Err: errors.New("token is required")}
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return &ValidationError{Field: "timezone", Err: err}
	}
	if _, err := core.CompileExclusion(cfg.ExcludedPattern); err != nil {
		return &ValidationError{Field: "excluded_commits", Err: err}
	}
	if cfg.IssueLabel == "" {
		return &ValidationError{Field: "issue_label", Err: errors.New("label is required")}
	}
	return nil
}

func parseBool(field, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, &ValidationError{Field: field, Err: err}
	}
	return b, nil
}
