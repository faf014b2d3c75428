package lifecycle

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sohei-t/modflow/internal/ledger"
	"github.com/sohei-t/modflow/internal/publish"
	"github.com/sohei-t/modflow/internal/state"
	"github.com/sohei-t/modflow/internal/ui"
)

// fakeTracker scripts the tracking bridge. Zero identifiers model the
// degraded path.
type fakeTracker struct {
	issueNumber int
	prNumber    int
	mergeOK     bool

	createdIssues int
	createdPRs    int
	merges        int
	lastPRBranch  string
}

func (f *fakeTracker) CreateIssue(ctx context.Context, appName, title, body string, labels []string) int {
	f.createdIssues++
	return f.issueNumber
}

func (f *fakeTracker) CreatePullRequest(ctx context.Context, appName string, issueNumber int, title, body, branchName string) int {
	f.createdPRs++
	f.lastPRBranch = branchName
	return f.prNumber
}

func (f *fakeTracker) MergePullRequest(ctx context.Context, prNumber int) bool {
	f.merges++
	return f.mergeOK
}

func (f *fakeTracker) IssueURL(ctx context.Context, n int) string {
	return fmt.Sprintf("https://github.com/acct/ai-agent-portfolio/issues/%d", n)
}

func (f *fakeTracker) PullURL(ctx context.Context, n int) string {
	return fmt.Sprintf("https://github.com/acct/ai-agent-portfolio/pull/%d", n)
}

func (f *fakeTracker) PagesURL(ctx context.Context, appName string) string {
	return fmt.Sprintf("https://acct.github.io/ai-agent-portfolio/%s/", appName)
}

// fakePublisher records publish calls and can be told to fail.
type fakePublisher struct {
	fail  bool
	calls []publish.Request
}

func (f *fakePublisher) Publish(ctx context.Context, req publish.Request) (publish.Result, error) {
	f.calls = append(f.calls, req)
	if f.fail {
		return publish.Result{Message: "publish exploded"}, fmt.Errorf("publish failed")
	}
	return publish.Result{Message: "ok"}, nil
}

type testEnv struct {
	dir       string
	workflow  *Workflow
	tracker   *fakeTracker
	publisher *fakePublisher
	out       *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "20250101-todo-agent")
	if err := os.MkdirAll(filepath.Join(dir, "project", "public"), 0755); err != nil {
		t.Fatal(err)
	}

	store := state.NewStore(dir)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	tr := &fakeTracker{}
	pub := &fakePublisher{}
	w := &Workflow{
		projectDir: dir,
		appName:    "todo",
		ledger:     ledger.New(store),
		tracker:    tr,
		publisher:  pub,
		out:        ui.New(&buf),
	}
	return &testEnv{dir: dir, workflow: w, tracker: tr, publisher: pub, out: &buf}
}

func TestRequestModificationClassifiesAndPersists(t *testing.T) {
	env := newTestEnv(t)
	env.tracker.issueNumber = 42

	err := env.workflow.RequestModification(context.Background(), "ボタンの色を青から緑に変更", nil, RequestOptions{})
	if err != nil {
		t.Fatalf("RequestModification() error: %v", err)
	}

	cycle := env.workflow.ledger.Pending()
	if cycle == nil {
		t.Fatal("no pending cycle recorded")
	}
	if cycle.Category != "ui" {
		t.Errorf("Category = %q, want ui", cycle.Category)
	}
	if len(cycle.PhasesToRerun) != 2 || cycle.PhasesToRerun[0] != 3 || cycle.PhasesToRerun[1] != 6 {
		t.Errorf("PhasesToRerun = %v, want [3 6]", cycle.PhasesToRerun)
	}
	if cycle.Status != state.CyclePending {
		t.Errorf("Status = %q, want pending", cycle.Status)
	}
	if cycle.Tracking == nil || cycle.Tracking.IssueNumber != 42 {
		t.Errorf("Tracking = %+v, want issue 42 attached", cycle.Tracking)
	}
	if env.tracker.createdIssues != 1 {
		t.Errorf("createdIssues = %d, want 1", env.tracker.createdIssues)
	}
}

func TestRequestModificationExplicitPhases(t *testing.T) {
	env := newTestEnv(t)

	err := env.workflow.RequestModification(context.Background(), "大幅な修正", []int{3, 4, 5, 6}, RequestOptions{SkipIssue: true})
	if err != nil {
		t.Fatal(err)
	}

	cycle := env.workflow.ledger.Pending()
	if cycle.Category != "custom" {
		t.Errorf("Category = %q, want custom for explicit phases", cycle.Category)
	}
	if len(cycle.PhasesToRerun) != 4 {
		t.Errorf("PhasesToRerun = %v", cycle.PhasesToRerun)
	}
	if env.tracker.createdIssues != 0 {
		t.Error("SkipIssue must suppress issue creation")
	}
}

func TestRequestModificationDegradedWithoutIssue(t *testing.T) {
	env := newTestEnv(t)
	env.tracker.issueNumber = 0 // creation fails

	err := env.workflow.RequestModification(context.Background(), "ログイン機能のバグを修正", nil, RequestOptions{})
	if err != nil {
		t.Fatalf("issue failure must not block the request: %v", err)
	}

	cycle := env.workflow.ledger.Pending()
	if cycle == nil {
		t.Fatal("cycle not recorded in degraded mode")
	}
	if cycle.Category != "logic" {
		t.Errorf("Category = %q, want logic", cycle.Category)
	}
	if cycle.Tracking != nil {
		t.Errorf("Tracking = %+v, want nil in degraded mode", cycle.Tracking)
	}
}

func TestSecondRequestOverwritesPending(t *testing.T) {
	env := newTestEnv(t)

	if err := env.workflow.RequestModification(context.Background(), "色を変更", nil, RequestOptions{SkipIssue: true}); err != nil {
		t.Fatal(err)
	}
	if err := env.workflow.RequestModification(context.Background(), "バグを修正", nil, RequestOptions{SkipIssue: true}); err != nil {
		t.Fatal(err)
	}

	st := env.workflow.state()
	if len(st.Modifications) != 1 {
		t.Errorf("len(Modifications) = %d, want 1 (overwritten, not queued)", len(st.Modifications))
	}
	if st.Modifications[0].Feedback != "バグを修正" {
		t.Errorf("surviving feedback = %q", st.Modifications[0].Feedback)
	}
}

func TestExecuteModificationStartsCycle(t *testing.T) {
	env := newTestEnv(t)
	if err := env.workflow.RequestModification(context.Background(), "色を変更", nil, RequestOptions{SkipIssue: true}); err != nil {
		t.Fatal(err)
	}
	before := *env.workflow.ledger.Pending()

	if err := env.workflow.ExecuteModification(context.Background()); err != nil {
		t.Fatalf("ExecuteModification() error: %v", err)
	}

	cycle := env.workflow.ledger.Pending()
	if cycle.Status != state.CycleInProgress {
		t.Errorf("Status = %q, want in_progress", cycle.Status)
	}
	if cycle.Feedback != before.Feedback || cycle.Category != before.Category {
		t.Error("ExecuteModification altered the recorded plan")
	}
	if len(cycle.PhasesToRerun) != len(before.PhasesToRerun) {
		t.Error("ExecuteModification altered the phase list")
	}
}

func TestExecuteModificationWithoutPendingFails(t *testing.T) {
	env := newTestEnv(t)
	if err := env.workflow.ExecuteModification(context.Background()); err == nil {
		t.Error("expected error with no pending modification")
	}
	if len(env.publisher.calls) != 0 {
		t.Error("no external call expected on the fatal path")
	}
}

func TestCompleteFixHappyPath(t *testing.T) {
	env := newTestEnv(t)
	env.tracker.issueNumber = 42
	env.tracker.prNumber = 7
	env.tracker.mergeOK = true

	ctx := context.Background()
	if err := env.workflow.RequestModification(ctx, "色を変更", nil, RequestOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := env.workflow.ExecuteModification(ctx); err != nil {
		t.Fatal(err)
	}
	if err := env.workflow.CompleteFix(ctx, CompleteOptions{}); err != nil {
		t.Fatalf("CompleteFix() error: %v", err)
	}

	st := env.workflow.state()
	cycle := st.Modifications[0]
	if cycle.Status != state.CycleCompleted {
		t.Errorf("Status = %q, want completed", cycle.Status)
	}
	if cycle.Tracking.PRNumber != 7 {
		t.Errorf("PRNumber = %d, want 7", cycle.Tracking.PRNumber)
	}
	if len(env.publisher.calls) != 1 {
		t.Fatalf("publish calls = %d, want 1", len(env.publisher.calls))
	}
	if env.tracker.createdPRs != 1 || env.tracker.merges != 1 {
		t.Errorf("createdPRs = %d, merges = %d, want 1 each", env.tracker.createdPRs, env.tracker.merges)
	}
	if env.tracker.lastPRBranch == "" {
		t.Error("PR created without a branch name")
	}
}

func TestCompleteFixFullyDegradedStillCompletes(t *testing.T) {
	env := newTestEnv(t)
	// No issue, no PR, no merge: every tracking step absent.
	env.tracker.issueNumber = 0

	ctx := context.Background()
	if err := env.workflow.RequestModification(ctx, "色を変更", nil, RequestOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := env.workflow.ExecuteModification(ctx); err != nil {
		t.Fatal(err)
	}
	if err := env.workflow.CompleteFix(ctx, CompleteOptions{}); err != nil {
		t.Fatalf("CompleteFix() must succeed on the degraded path: %v", err)
	}

	cycle := env.workflow.state().Modifications[0]
	if cycle.Status != state.CycleCompleted {
		t.Errorf("Status = %q, want completed", cycle.Status)
	}
	if env.tracker.createdPRs != 0 || env.tracker.merges != 0 {
		t.Error("no PR/merge expected without an issue")
	}
}

func TestCompleteFixPublishFailureBlocksCompletion(t *testing.T) {
	env := newTestEnv(t)
	env.tracker.issueNumber = 42
	env.publisher.fail = true

	ctx := context.Background()
	if err := env.workflow.RequestModification(ctx, "色を変更", nil, RequestOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := env.workflow.ExecuteModification(ctx); err != nil {
		t.Fatal(err)
	}

	if err := env.workflow.CompleteFix(ctx, CompleteOptions{}); err == nil {
		t.Fatal("expected error when the publisher fails")
	}

	cycle := env.workflow.ledger.Pending()
	if cycle == nil || cycle.Status != state.CycleInProgress {
		t.Error("cycle must stay in progress after a publish failure")
	}
	if env.tracker.createdPRs != 0 {
		t.Error("no PR may be created when the publish failed")
	}
}

func TestCompleteFixMergeFailureStillCompletes(t *testing.T) {
	env := newTestEnv(t)
	env.tracker.issueNumber = 42
	env.tracker.prNumber = 7
	env.tracker.mergeOK = false

	ctx := context.Background()
	if err := env.workflow.RequestModification(ctx, "色を変更", nil, RequestOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := env.workflow.CompleteFix(ctx, CompleteOptions{}); err != nil {
		t.Fatalf("merge failure must not block completion: %v", err)
	}

	if got := env.workflow.state().Modifications[0].Status; got != state.CycleCompleted {
		t.Errorf("Status = %q, want completed", got)
	}
}

func TestCompleteFixMissingPublicDirIsFatal(t *testing.T) {
	env := newTestEnv(t)
	if err := os.RemoveAll(filepath.Join(env.dir, "project")); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := env.workflow.RequestModification(ctx, "色を変更", nil, RequestOptions{SkipIssue: true}); err != nil {
		t.Fatal(err)
	}
	if err := env.workflow.CompleteFix(ctx, CompleteOptions{}); err == nil {
		t.Fatal("expected error when project/public is missing")
	}
	if len(env.publisher.calls) != 0 {
		t.Error("publish must not run when the source path is missing")
	}
}

func TestCompleteFixWithoutStateFails(t *testing.T) {
	env := newTestEnv(t)
	if err := env.workflow.CompleteFix(context.Background(), CompleteOptions{}); err == nil {
		t.Error("expected error with no workflow state")
	}
}

func TestRepublishSkipsAgentReview(t *testing.T) {
	env := newTestEnv(t)

	ctx := context.Background()
	if err := env.workflow.RequestModification(ctx, "色を変更", nil, RequestOptions{SkipIssue: true}); err != nil {
		t.Fatal(err)
	}
	if err := env.workflow.Republish(ctx, CompleteOptions{}); err != nil {
		t.Fatalf("Republish() error: %v", err)
	}

	if len(env.publisher.calls) != 1 {
		t.Fatalf("publish calls = %d, want 1", len(env.publisher.calls))
	}
	if !env.publisher.calls[0].SkipAgentReview {
		t.Error("Republish must skip the agent review gate")
	}
	if got := env.workflow.state().Modifications[0].Status; got != state.CycleCompleted {
		t.Errorf("Status = %q, want completed after republish", got)
	}
}

func TestRepublishFailureLeavesCycleActive(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.fail = true

	ctx := context.Background()
	if err := env.workflow.RequestModification(ctx, "色を変更", nil, RequestOptions{SkipIssue: true}); err != nil {
		t.Fatal(err)
	}
	if err := env.workflow.Republish(ctx, CompleteOptions{}); err == nil {
		t.Fatal("expected republish failure")
	}
	if env.workflow.ledger.Pending() == nil {
		t.Error("cycle must stay active after a failed republish")
	}
}

func TestCompleteWorkflow(t *testing.T) {
	env := newTestEnv(t)

	ctx := context.Background()
	if err := env.workflow.RequestModification(ctx, "色を変更", nil, RequestOptions{SkipIssue: true}); err != nil {
		t.Fatal(err)
	}
	if err := env.workflow.CompleteWorkflow(); err != nil {
		t.Fatalf("CompleteWorkflow() error: %v", err)
	}
	if got := env.workflow.state().Status; got != state.WorkflowCompleted {
		t.Errorf("workflow status = %q, want completed", got)
	}
}

func TestCompleteWorkflowWithoutStateFails(t *testing.T) {
	env := newTestEnv(t)
	if err := env.workflow.CompleteWorkflow(); err == nil {
		t.Error("expected error with no workflow state")
	}
}

func TestShowStatusWithoutState(t *testing.T) {
	env := newTestEnv(t)
	if err := env.workflow.ShowStatus(); err != nil {
		t.Fatalf("ShowStatus() error: %v", err)
	}
	if env.out.Len() == 0 {
		t.Error("expected status output")
	}
}

func TestPhaseName(t *testing.T) {
	tests := []struct {
		phase int
		want  string
	}{
		{3, "実装"},
		{4, "改善ループ"},
		{5, "完成処理"},
		{6, "ポートフォリオ公開"},
		{9, "Phase 9"},
	}
	for _, tt := range tests {
		if got := PhaseName(tt.phase); got != tt.want {
			t.Errorf("PhaseName(%d) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
