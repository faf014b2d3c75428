package cli

import (
	"github.com/sohei-t/modflow/internal/lifecycle"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var completeFixCmd = &cobra.Command{
	Use:   "complete-fix",
	Short: "Finish the pending fix: publish, create and merge the PR",
	Long: `Complete the pending modification cycle. The app is re-published, a PR is
created against the tracking issue (best effort) and merged, and the cycle is
marked completed. A publish failure aborts; tracking failures only warn.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := newWorkflow(cmd)
		if err != nil {
			return err
		}
		return w.CompleteFix(cmd.Context(), lifecycle.CompleteOptions{
			SkipConfirm: viper.GetBool("yes"),
			DryRun:      viper.GetBool("dry_run"),
		})
	},
}

func init() {
	rootCmd.AddCommand(completeFixCmd)
}
