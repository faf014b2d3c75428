package cli

import (
	"github.com/spf13/cobra"
)

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Start the pending fix and show the re-run guidance",
	Long: `Mark the pending modification in progress and print step-by-step guidance
for the phases it re-runs. No external calls are made.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := newWorkflow(cmd)
		if err != nil {
			return err
		}
		return w.ExecuteModification(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(executeCmd)
}
