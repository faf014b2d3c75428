package lifecycle

import (
	"context"
	"fmt"

	"github.com/sohei-t/modflow/internal/state"
)

// ExecuteModification marks the pending cycle in progress and prints the
// re-run guidance for its phases. No external calls are made.
func (w *Workflow) ExecuteModification(ctx context.Context) error {
	w.out.Banner("🔧 Phase 7: 修正実行")

	cycle := w.ledger.Pending()
	if cycle == nil {
		w.out.Error("保留中の修正依頼がありません")
		return fmt.Errorf("no pending modification")
	}

	w.out.Printf("\n  イテレーション: #%d\n", cycle.Iteration)
	w.out.Printf("  修正内容: %s\n", cycle.Feedback)
	w.out.Printf("  再実行フェーズ: %v\n", cycle.PhasesToRerun)

	if cycle.Tracking != nil && cycle.Tracking.IssueNumber != 0 {
		w.out.Printf("\n  📌 関連Issue: #%d\n", cycle.Tracking.IssueNumber)
		w.out.Printf("     %s\n", w.tracker.IssueURL(ctx, cycle.Tracking.IssueNumber))
		if cycle.Tracking.BranchName != "" {
			w.out.Printf("  📌 作業ブランチ: %s\n", cycle.Tracking.BranchName)
		}
	}

	// Re-running execute on an already started cycle just re-prints the
	// guidance; the transition happens once.
	if cycle.Status == state.CyclePending {
		if err := w.ledger.Start(cycle); err != nil {
			return err
		}
	}

	w.out.Section("修正実行ガイダンス")
	w.out.Printf("\n  以下の手順で修正を実行してください:\n\n")

	for i, phase := range cycle.PhasesToRerun {
		w.out.Printf("  %d. Phase %d（%s）\n", i+1, phase, PhaseName(phase))
		switch phase {
		case 3:
			w.out.Printf("     修正内容: %s\n", cycle.Feedback)
			w.out.Printf("     → 該当するコードを修正してください\n")
		case 4:
			w.out.Printf("     → テストを実行し、問題があれば修正してください\n")
		case 5:
			w.out.Printf("     → ドキュメントを更新してください（必要な場合）\n")
		case 6:
			w.out.Printf("     → 自動実行されます（complete-fix コマンド）\n")
		}
		w.out.Printf("\n")
	}

	w.out.Printf("\n  【修正完了後】\n")
	w.out.Printf("  以下のコマンドでPR作成 → マージ → 公開を一括実行:\n")
	w.out.Printf("  modflow complete-fix\n")

	return nil
}
