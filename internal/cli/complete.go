package cli

import (
	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Mark the whole workflow finished",
	Long: `Mark the project workflow completed. This is independent of any pending
modification cycle; the cycle history is retained.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := newWorkflow(cmd)
		if err != nil {
			return err
		}
		return w.CompleteWorkflow()
	},
}

func init() {
	rootCmd.AddCommand(completeCmd)
}
