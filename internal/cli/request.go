package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sohei-t/modflow/internal/lifecycle"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var requestCmd = &cobra.Command{
	Use:   "request <feedback>",
	Short: "Record a fix request and open a tracking issue",
	Long: `Record a modification request. The feedback text is classified to decide
which pipeline phases must re-run, a tracking issue is opened (best effort),
and the pending cycle is persisted.

Examples:
  modflow request "ボタンの色を青から緑に変更"
  modflow request "大幅な修正" --phases 3,4,5,6
  modflow request "テスト" --skip-issue`,
	Args: cobra.ExactArgs(1),
	RunE: runRequest,
}

func init() {
	rootCmd.AddCommand(requestCmd)

	requestCmd.Flags().String("phases", "", "phases to re-run (comma-separated, e.g. 3,4,6); default is auto-classification")
	requestCmd.Flags().Bool("skip-issue", false, "skip tracking-issue creation")
	requestCmd.Flags().String("app-name", "", "app name (default is auto-detected)")
}

func runRequest(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow(cmd)
	if err != nil {
		return err
	}

	var phases []int
	if raw, _ := cmd.Flags().GetString("phases"); raw != "" {
		phases, err = parsePhases(raw)
		if err != nil {
			return err
		}
	}

	skipIssue, _ := cmd.Flags().GetBool("skip-issue")
	appName, _ := cmd.Flags().GetString("app-name")

	return w.RequestModification(cmd.Context(), args[0], phases, lifecycle.RequestOptions{
		AppName:   appName,
		SkipIssue: skipIssue,
		DryRun:    viper.GetBool("dry_run"),
	})
}

// parsePhases parses a comma-separated phase list such as "3,4,6".
func parsePhases(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	phases := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		phase, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid phase %q: %w", part, err)
		}
		phases = append(phases, phase)
	}
	if len(phases) == 0 {
		return nil, fmt.Errorf("no phases in %q", raw)
	}
	return phases, nil
}
