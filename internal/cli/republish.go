package cli

import (
	"github.com/sohei-t/modflow/internal/lifecycle"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var republishCmd = &cobra.Command{
	Use:   "republish",
	Short: "Re-run only the publish phase (no PR)",
	Long: `Re-run the terminal publish phase for the app with the agent review gate
skipped, then mark the pending cycle completed. Use for fix cycles that need
no issue/PR bookkeeping.`,
	Args: cobra.NoArgs,
	RunE: runRepublish,
}

func init() {
	rootCmd.AddCommand(republishCmd)

	republishCmd.Flags().String("app-name", "", "app name (default is auto-detected)")
}

func runRepublish(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow(cmd)
	if err != nil {
		return err
	}

	appName, _ := cmd.Flags().GetString("app-name")
	return w.Republish(cmd.Context(), lifecycle.CompleteOptions{
		AppName:     appName,
		SkipConfirm: viper.GetBool("yes"),
		DryRun:      viper.GetBool("dry_run"),
	})
}
