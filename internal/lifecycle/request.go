package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sohei-t/modflow/internal/appinfo"
	"github.com/sohei-t/modflow/internal/classify"
	"github.com/sohei-t/modflow/internal/state"
	"github.com/sohei-t/modflow/internal/tracker"
)

// RequestOptions tune how a modification request is recorded.
type RequestOptions struct {
	// AppName overrides app-name auto-detection.
	AppName string
	// SkipIssue suppresses tracking-issue creation.
	SkipIssue bool
	// DryRun suppresses every external mutating call.
	DryRun bool
}

// RequestModification records a new fix request: classify the feedback,
// open a tracking issue (best effort), and persist the pending cycle.
// The tracking issue failing never blocks the request.
func (w *Workflow) RequestModification(ctx context.Context, feedback string, phases []int, opts RequestOptions) error {
	w.out.Banner("📝 Phase 7: 修正ワークフロー（Issue/PR管理）")

	appName := w.resolveAppName(opts.AppName)
	if appName == "" {
		w.out.Error("アプリ名が特定できません")
		return fmt.Errorf("app name not found")
	}
	w.out.Printf("\n  🎯 対象アプリ: %s\n", appName)

	if w.state() == nil {
		w.out.Warning("ワークフロー状態が見つかりません（新規作成）")
		w.ledger.Store().Initialize(appinfo.ProjectName(w.projectDir), appName)
	}

	category := classify.CategoryCustom
	var labels []string
	if phases == nil {
		category, phases, labels = classify.Classify(feedback)
		w.out.Info("修正タイプ: %s", classify.Describe(category))
	}

	w.out.Printf("\n  修正内容: %s\n", feedback)
	w.out.Printf("  再実行フェーズ: %v\n", phases)

	issueNumber := 0
	branchName := ""
	title := truncateTitle(feedback)

	if !opts.SkipIssue && !opts.DryRun {
		w.out.Section("1️⃣ GitHub Issue作成")

		issueNumber = w.tracker.CreateIssue(ctx, appName, title, w.issueBody(feedback, category, phases, appName), labels)
		if issueNumber != 0 {
			branchName = tracker.BranchName(appName, issueNumber, title)
			w.out.Printf("\n  📌 ブランチ名: %s\n", branchName)
		} else {
			w.out.Warning("Issue作成に失敗しましたが、修正は続行できます")
		}
	}

	cycle, replaced, err := w.ledger.RecordRequest(feedback, string(category), phases, labels)
	if err != nil {
		return err
	}
	if replaced {
		w.out.Warning("未完了の修正依頼を上書きしました（同時に追跡できる修正は1件です）")
	}

	if issueNumber != 0 {
		artifact := &state.TrackingArtifact{
			IssueNumber: issueNumber,
			BranchName:  branchName,
			CreatedAt:   time.Now(),
		}
		if err := w.ledger.AttachTracking(cycle, artifact); err != nil {
			return err
		}
	}

	w.out.Success("修正依頼を記録しました")

	w.out.Banner("📋 次のステップ")
	if issueNumber != 0 {
		w.out.Printf("\n  Issue: %s\n", w.tracker.IssueURL(ctx, issueNumber))
	}
	w.out.Printf("\n  1. 以下のフェーズを再実行してください:\n")
	for _, phase := range phases {
		w.out.Printf("     - Phase %d: %s\n", phase, PhaseName(phase))
	}
	w.out.Printf("\n  2. 修正完了後、以下を実行:\n")
	w.out.Printf("     modflow complete-fix\n")
	w.out.Printf("     → PR作成 → マージ → 公開\n")

	return nil
}

// issueBody renders the tracking-issue body.
func (w *Workflow) issueBody(feedback string, category classify.Category, phases []int, appName string) string {
	phaseList := make([]string, len(phases))
	for i, p := range phases {
		phaseList[i] = fmt.Sprintf("Phase %d", p)
	}

	return fmt.Sprintf(`## 修正内容
%s

## 修正タイプ
%s

## 再実行フェーズ
%s

## 環境
- プロジェクト: %s
- アプリ名: %s

---
自動生成 by modflow
`, feedback, classify.Describe(category), strings.Join(phaseList, ", "), w.projectDir, appName)
}
