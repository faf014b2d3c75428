package lifecycle

import (
	"context"
	"fmt"

	"github.com/sohei-t/modflow/internal/appinfo"
	"github.com/sohei-t/modflow/internal/publish"
	"github.com/sohei-t/modflow/internal/tracker"
)

// CompleteOptions tune the completion transitions.
type CompleteOptions struct {
	AppName     string
	SkipConfirm bool
	// DryRun suppresses every external mutating call.
	DryRun bool
}

// CompleteFix finishes the pending cycle: publish, then PR creation and
// merge as best-effort tracking bookkeeping. Publish failure aborts and the
// cycle stays in progress; tracking failures only warn, because the
// authoritative side effect (the publish) already happened.
func (w *Workflow) CompleteFix(ctx context.Context, opts CompleteOptions) error {
	w.out.Banner("🔄 修正完了処理（PR → マージ → 公開）")

	if w.state() == nil {
		w.out.Error("ワークフロー状態が見つかりません")
		return fmt.Errorf("no workflow state")
	}
	cycle := w.ledger.Pending()
	if cycle == nil {
		w.out.Error("保留中の修正依頼がありません")
		return fmt.Errorf("no pending modification")
	}

	appName := w.resolveAppName(opts.AppName)
	w.out.Printf("\n  🎯 アプリ: %s\n", appName)
	w.out.Printf("  📝 修正内容: %s\n", cycle.Feedback)

	issueNumber := 0
	branchName := ""
	if cycle.Tracking != nil {
		issueNumber = cycle.Tracking.IssueNumber
		branchName = cycle.Tracking.BranchName
	}
	if issueNumber != 0 {
		w.out.Printf("  📌 Issue: #%d\n", issueNumber)
	}

	// Step 1: the publish source must exist locally before anything runs.
	w.out.Section("Step 1: 変更をコミット")
	if _, err := appinfo.PublicDir(w.projectDir); err != nil {
		w.out.Error("project/public/ が見つかりません: %s", w.projectDir)
		return err
	}

	// Step 2: publish. This is the authoritative side effect; failure here
	// leaves the cycle in progress so the operator can retry.
	w.out.Section("Step 2: GitHub公開")
	result, err := w.publisher.Publish(ctx, publish.Request{
		SourceDir:   w.projectDir,
		AppName:     appName,
		DryRun:      opts.DryRun,
		SkipConfirm: true,
	})
	if err != nil {
		w.out.Error("GitHub公開に失敗しました: %s", result.Message)
		return err
	}

	// Step 3: PR creation, only when an issue tracks this cycle.
	prNumber := 0
	if issueNumber != 0 && !opts.DryRun {
		w.out.Section("Step 3: PR作成")

		title := truncateTitle(cycle.Feedback)
		body := fmt.Sprintf(`## 変更内容
%s

## 変更ファイル
- `+"`%s/`"+` 配下のファイルを更新

## テスト
- 手動テスト完了
`, cycle.Feedback, appName)

		if branchName == "" {
			branchName = tracker.BranchName(appName, issueNumber, "")
		}
		prNumber = w.tracker.CreatePullRequest(ctx, appName, issueNumber, title, body, branchName)
		if prNumber != 0 {
			cycle.Tracking.PRNumber = prNumber
			if err := w.ledger.Store().Save(); err != nil {
				w.out.Warning("PR番号の保存に失敗しました: %v", err)
			}
		}
	}

	// Step 4: merge, only when a PR exists. The issue auto-closes via the
	// Fixes linkage.
	if prNumber != 0 && !opts.DryRun {
		w.out.Section("Step 4: PRマージ")
		if w.tracker.MergePullRequest(ctx, prNumber) {
			w.out.Success("Issue #%d は自動的にクローズされました", issueNumber)
		} else {
			w.out.Warning("PRマージに失敗しました（手動でマージしてください）")
		}
	}

	// Step 5: the cycle completes regardless of the tracking outcome.
	if err := w.ledger.Complete(cycle); err != nil {
		return err
	}

	w.out.Banner("✅ 修正完了")
	w.out.Printf("\n  📦 公開URL: %s\n", w.tracker.PagesURL(ctx, appName))
	if issueNumber != 0 {
		w.out.Printf("  📌 Issue: %s (Closed)\n", w.tracker.IssueURL(ctx, issueNumber))
	}
	if prNumber != 0 {
		w.out.Printf("  📌 PR: %s (Merged)\n", w.tracker.PullURL(ctx, prNumber))
	}
	w.out.Printf("\n  次回修正時:\n")
	w.out.Printf("  modflow request \"修正内容\"\n")

	return nil
}

// Republish re-runs only the terminal publish phase, with the agent review
// gate skipped: the fix already went through review in its original cycle.
func (w *Workflow) Republish(ctx context.Context, opts CompleteOptions) error {
	w.out.Banner("🔄 再公開（Phase 6 再実行）")

	if w.state() == nil {
		w.out.Error("ワークフロー状態が見つかりません")
		return fmt.Errorf("no workflow state")
	}

	appName := w.resolveAppName(opts.AppName)
	if appName == "" {
		w.out.Error("アプリ名が特定できません")
		return fmt.Errorf("app name not found")
	}

	w.out.Printf("\n  アプリ名: %s\n", appName)
	w.out.Printf("  ソース: %s\n", w.projectDir)

	result, err := w.publisher.Publish(ctx, publish.Request{
		SourceDir:       w.projectDir,
		AppName:         appName,
		DryRun:          opts.DryRun,
		SkipConfirm:     opts.SkipConfirm,
		SkipAgentReview: true,
	})
	if err != nil {
		w.out.Error("再公開失敗: %s", result.Message)
		return err
	}

	if cycle := w.ledger.Pending(); cycle != nil {
		if err := w.ledger.Complete(cycle); err != nil {
			return err
		}
	}
	w.out.Success("再公開完了")

	return nil
}

// CompleteWorkflow marks the whole project finished, independent of any
// pending cycle.
func (w *Workflow) CompleteWorkflow() error {
	w.out.Banner("🎉 ワークフロー完了")

	st := w.state()
	if st == nil {
		w.out.Error("ワークフロー状態が見つかりません")
		return fmt.Errorf("no workflow state")
	}

	if err := w.ledger.CompleteWorkflow(); err != nil {
		return err
	}

	w.out.Printf("\n  ワークフローが正常に完了しました。\n")
	w.out.Printf("\n  プロジェクト: %s\n", st.ProjectName)
	if st.Portfolio.AppURL != "" {
		w.out.Printf("  公開URL: %s\n", st.Portfolio.AppURL)
	}
	if len(st.Modifications) > 0 {
		w.out.Printf("\n  修正イテレーション: %d 回\n", len(st.Modifications))
	}

	return nil
}
