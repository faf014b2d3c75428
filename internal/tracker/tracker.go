// Package tracker drives the external GitHub issue/PR pair that tracks a
// modification cycle. Every call shells out to the gh CLI; results are
// parsed from the URL gh prints. Failures are degraded, not fatal: callers
// get a zero identifier plus a warning and keep going.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sohei-t/modflow/internal/config"
	"github.com/sohei-t/modflow/internal/ui"
)

// defaultOwner is the account used when detection fails. Degrading to the
// pipeline's home account keeps URL formatting working offline.
const defaultOwner = "sohei-t"

// appLabelColor is the fixed color for app-scoped labels.
const appLabelColor = "c5def5"

var (
	issueURLRe = regexp.MustCompile(`/issues/(\d+)`)
	pullURLRe  = regexp.MustCompile(`/pull/(\d+)`)
)

// Manager wraps gh CLI operations against the portfolio repository.
type Manager struct {
	owner string
	repo  string
	gh    string
	out   *ui.Printer

	// cmdRunner allows tests to inject fake commands.
	cmdRunner func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New creates a manager for the configured repository. The account identity
// comes from config, then the GITHUB_USERNAME environment variable; when
// both are empty it is detected lazily on first use.
func New(cfg config.GitHubConfig, out *ui.Printer) *Manager {
	owner := cfg.Username
	if owner == "" {
		owner = os.Getenv("GITHUB_USERNAME")
	}
	repo := cfg.Repo
	if repo == "" {
		repo = config.DefaultRepo
	}
	return &Manager{
		owner: owner,
		repo:  repo,
		gh:    findGH(),
		out:   out,
	}
}

// findGH locates the gh binary, preferring user-local installs over PATH.
func findGH() string {
	if home, err := os.UserHomeDir(); err == nil {
		local := filepath.Join(home, "bin", "gh")
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}
	if _, err := os.Stat("/usr/local/bin/gh"); err == nil {
		return "/usr/local/bin/gh"
	}
	return "gh"
}

// execGH runs a gh subcommand and returns its stdout.
func (m *Manager) execGH(ctx context.Context, args ...string) (string, error) {
	var cmd *exec.Cmd
	if m.cmdRunner != nil {
		cmd = m.cmdRunner(ctx, m.gh, args...)
	} else {
		cmd = exec.CommandContext(ctx, m.gh, args...)
	}
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return string(output), fmt.Errorf("%s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return string(output), err
	}
	return string(output), nil
}

// Owner returns the account identity, detecting it via `gh api user` when
// it has not been resolved yet. Detection failure falls back to the default
// account rather than erroring.
func (m *Manager) Owner(ctx context.Context) string {
	if m.owner != "" {
		return m.owner
	}
	if out, err := m.execGH(ctx, "api", "user", "--jq", ".login"); err == nil {
		if login := strings.TrimSpace(out); login != "" {
			m.owner = login
			return m.owner
		}
	}
	m.owner = defaultOwner
	return m.owner
}

// RepoFull returns the owner/repo identity every gh call is scoped to.
func (m *Manager) RepoFull(ctx context.Context) string {
	return m.Owner(ctx) + "/" + m.repo
}

// EnsureAppLabel makes sure the app-scoped label exists, creating it when
// absent. Neither a failed listing nor a failed creation aborts the caller.
func (m *Manager) EnsureAppLabel(ctx context.Context, appName string) {
	label := "app:" + appName

	out, err := m.execGH(ctx, "label", "list",
		"--repo", m.RepoFull(ctx),
		"--search", label,
	)
	if err == nil && strings.Contains(out, label) {
		return
	}

	_, err = m.execGH(ctx, "label", "create", label,
		"--repo", m.RepoFull(ctx),
		"--color", appLabelColor,
		"--description", "App: "+appName,
	)
	if err != nil {
		m.out.Warning("ラベル作成失敗: %v", err)
		return
	}
	m.out.Success("ラベル作成: %s", label)
}

// CreateIssue opens a tracking issue and returns its number, or 0 when
// creation failed (degraded mode). The title is prefixed with the app name
// and the app-scoped label is always attached.
func (m *Manager) CreateIssue(ctx context.Context, appName, title, body string, labels []string) int {
	m.EnsureAppLabel(ctx, appName)

	args := []string{
		"issue", "create",
		"--repo", m.RepoFull(ctx),
		"--title", fmt.Sprintf("[%s] %s", appName, title),
		"--body", body,
	}
	for _, label := range append([]string{"app:" + appName}, labels...) {
		args = append(args, "--label", label)
	}

	out, err := m.execGH(ctx, args...)
	if err != nil {
		m.out.Warning("Issue作成失敗: %v", err)
		return 0
	}

	number := parseNumber(issueURLRe, out)
	if number == 0 {
		m.out.Warning("Issue作成失敗: URLを解析できません: %s", strings.TrimSpace(out))
		return 0
	}
	m.out.Success("Issue作成: #%d", number)
	m.out.Printf("     URL: %s\n", strings.TrimSpace(out))
	return number
}

// CreatePullRequest opens a PR for the fix branch and returns its number,
// or 0 on failure. The body is prefixed with a Fixes line so the issue
// auto-closes on merge.
func (m *Manager) CreatePullRequest(ctx context.Context, appName string, issueNumber int, title, body, branchName string) int {
	fullBody := fmt.Sprintf(`Fixes #%d

## 変更内容
%s

## 関連Issue
- #%d
`, issueNumber, body, issueNumber)

	out, err := m.execGH(ctx,
		"pr", "create",
		"--repo", m.RepoFull(ctx),
		"--title", fmt.Sprintf("fix(%s): %s", appName, title),
		"--body", fullBody,
		"--head", branchName,
		"--base", "main",
	)
	if err != nil {
		m.out.Warning("PR作成失敗: %v", err)
		return 0
	}

	number := parseNumber(pullURLRe, out)
	if number == 0 {
		m.out.Warning("PR作成失敗: URLを解析できません: %s", strings.TrimSpace(out))
		return 0
	}
	m.out.Success("PR作成: #%d", number)
	m.out.Printf("     URL: %s\n", strings.TrimSpace(out))
	return number
}

// MergePullRequest merges the PR and deletes its branch. A failure is
// reported once and never retried; the operator merges by hand instead.
func (m *Manager) MergePullRequest(ctx context.Context, prNumber int) bool {
	_, err := m.execGH(ctx,
		"pr", "merge", fmt.Sprintf("%d", prNumber),
		"--repo", m.RepoFull(ctx),
		"--merge",
		"--delete-branch",
	)
	if err != nil {
		m.out.Warning("PRマージ失敗: %v", err)
		return false
	}
	m.out.Success("PR #%d マージ完了", prNumber)
	return true
}

// IssueURL formats the issue URL for the tracked repository.
func (m *Manager) IssueURL(ctx context.Context, issueNumber int) string {
	return fmt.Sprintf("https://github.com/%s/issues/%d", m.RepoFull(ctx), issueNumber)
}

// PullURL formats the PR URL for the tracked repository.
func (m *Manager) PullURL(ctx context.Context, prNumber int) string {
	return fmt.Sprintf("https://github.com/%s/pull/%d", m.RepoFull(ctx), prNumber)
}

// PagesURL formats the published app URL on GitHub Pages.
func (m *Manager) PagesURL(ctx context.Context, appName string) string {
	return fmt.Sprintf("https://%s.github.io/%s/%s/", m.Owner(ctx), m.repo, appName)
}

// parseNumber extracts the trailing numeric path segment matched by re from
// command output, returning 0 when nothing matches.
func parseNumber(re *regexp.Regexp, output string) int {
	match := re.FindStringSubmatch(output)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}
