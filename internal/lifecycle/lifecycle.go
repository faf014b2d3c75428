// Package lifecycle implements the Phase 7 modification state machine:
// request → execute → complete-fix, with best-effort GitHub issue/PR
// tracking around each cycle. External tracking failures degrade; only
// local-state and publish failures abort a transition.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/sohei-t/modflow/internal/appinfo"
	"github.com/sohei-t/modflow/internal/config"
	"github.com/sohei-t/modflow/internal/ledger"
	"github.com/sohei-t/modflow/internal/publish"
	"github.com/sohei-t/modflow/internal/state"
	"github.com/sohei-t/modflow/internal/tracker"
	"github.com/sohei-t/modflow/internal/ui"
)

// phaseNames labels the upstream pipeline phases a fix may re-run.
var phaseNames = map[int]string{
	3: "実装",
	4: "改善ループ",
	5: "完成処理",
	6: "ポートフォリオ公開",
}

// PhaseName returns the human label for a pipeline phase.
func PhaseName(phase int) string {
	if name, ok := phaseNames[phase]; ok {
		return name
	}
	return fmt.Sprintf("Phase %d", phase)
}

// Tracker is the slice of the tracking bridge the lifecycle consumes.
// Identifier-returning methods report 0 in degraded mode, never an error.
type Tracker interface {
	CreateIssue(ctx context.Context, appName, title, body string, labels []string) int
	CreatePullRequest(ctx context.Context, appName string, issueNumber int, title, body, branchName string) int
	MergePullRequest(ctx context.Context, prNumber int) bool
	IssueURL(ctx context.Context, issueNumber int) string
	PullURL(ctx context.Context, prNumber int) string
	PagesURL(ctx context.Context, appName string) string
}

// Workflow orchestrates modification cycles for one project directory.
type Workflow struct {
	projectDir string
	appName    string

	ledger    *ledger.Ledger
	tracker   Tracker
	publisher publish.Publisher
	out       *ui.Printer
}

// New loads the project's workflow state and wires up the collaborators.
// A missing state file is not an error here; each operation decides whether
// it can run without state.
func New(projectDir string, cfg *config.Config, publisher publish.Publisher, out *ui.Printer) (*Workflow, error) {
	store := state.NewStore(projectDir)
	if err := store.Load(); err != nil {
		return nil, err
	}

	return &Workflow{
		projectDir: projectDir,
		appName:    appinfo.AppName(projectDir),
		ledger:     ledger.New(store),
		tracker:    tracker.New(cfg.GitHub, out),
		publisher:  publisher,
		out:        out,
	}, nil
}

// state returns the loaded workflow state, nil when none exists.
func (w *Workflow) state() *state.State {
	return w.ledger.Store().State()
}

// resolveAppName picks the app name for external operations.
func (w *Workflow) resolveAppName(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if w.appName != "" {
		return w.appName
	}
	if st := w.state(); st != nil {
		if st.AppName != "" {
			return st.AppName
		}
		if st.Portfolio.AppName != "" {
			return st.Portfolio.AppName
		}
		return st.ProjectName
	}
	return ""
}

// truncateTitle shortens feedback into an issue/PR title.
func truncateTitle(feedback string) string {
	runes := []rune(feedback)
	if len(runes) <= 50 {
		return feedback
	}
	return string(runes[:50]) + "..."
}
