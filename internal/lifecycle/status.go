package lifecycle

import (
	"github.com/sohei-t/modflow/internal/state"
)

// statusMarker maps a cycle status to its trace marker.
func statusMarker(s state.CycleStatus) string {
	switch s {
	case state.CyclePending:
		return "⏳"
	case state.CycleInProgress:
		return "🔧"
	case state.CycleCompleted:
		return "✅"
	}
	return "・"
}

// ShowStatus prints the current workflow state and the next action to take.
func (w *Workflow) ShowStatus() error {
	w.out.Banner("📊 ワークフロー状態")

	st := w.state()
	if st == nil {
		w.out.Info("ワークフロー状態が見つかりません")
		w.out.Printf("\n  次のアクション:\n")
		w.out.Printf("  modflow request \"修正内容\" で修正依頼を登録してください\n")
		return nil
	}

	w.out.Printf("\n  プロジェクト: %s\n", st.ProjectName)
	if st.AppName != "" {
		w.out.Printf("  アプリ名: %s\n", st.AppName)
	}
	w.out.Printf("  状態: %s\n", st.Status)
	if st.Portfolio.AppURL != "" {
		w.out.Printf("  公開URL: %s\n", st.Portfolio.AppURL)
	}

	if len(st.Modifications) > 0 {
		w.out.Printf("\n  修正履歴:\n")
		for _, m := range st.Modifications {
			w.out.Printf("    %s #%d [%s] %s\n", statusMarker(m.Status), m.Iteration, m.Category, truncateTitle(m.Feedback))
			if m.Tracking != nil && m.Tracking.IssueNumber != 0 {
				w.out.Printf("        Issue #%d", m.Tracking.IssueNumber)
				if m.Tracking.PRNumber != 0 {
					w.out.Printf(" / PR #%d", m.Tracking.PRNumber)
				}
				w.out.Printf("\n")
			}
		}
	}

	w.out.Printf("\n  次のアクション:\n")
	switch {
	case st.Status == state.WorkflowCompleted:
		w.out.Printf("  ワークフローは完了しています\n")
	case w.ledger.Pending() == nil:
		w.out.Printf("  modflow request \"修正内容\" で修正依頼を登録してください\n")
	case w.ledger.Pending().Status == state.CyclePending:
		w.out.Printf("  modflow execute で修正ガイダンスを表示してください\n")
	default:
		w.out.Printf("  modflow complete-fix で修正を完了してください\n")
	}

	return nil
}
