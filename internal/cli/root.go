package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sohei-t/modflow/internal/config"
	"github.com/sohei-t/modflow/internal/lifecycle"
	"github.com/sohei-t/modflow/internal/publish"
	"github.com/sohei-t/modflow/internal/ui"
	"github.com/sohei-t/modflow/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "modflow",
	Short: "modflow - post-review modification workflow for the portfolio pipeline",
	Long: `modflow coordinates Phase 7 of the portfolio pipeline: it records a fix
request after user review, decides which earlier phases must re-run, tracks
the fix through a GitHub issue/PR pair, and drives it to re-publication.

Example:
  modflow request "ボタンの色を青から緑に変更"
  modflow execute
  modflow complete-fix`,
	// Without a subcommand, show the workflow status.
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := newWorkflow(cmd)
		if err != nil {
			return err
		}
		return w.ShowStatus()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <path>/.modflow.yaml)")
	rootCmd.PersistentFlags().String("path", ".", "project directory")
	rootCmd.PersistentFlags().Bool("dry-run", false, "suppress all external mutating calls")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "skip confirmation prompts")
	_ = viper.BindPFlag("path", rootCmd.PersistentFlags().Lookup("path"))
	_ = viper.BindPFlag("dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
	_ = viper.BindPFlag("yes", rootCmd.PersistentFlags().Lookup("yes"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := filepath.Abs(viper.GetString("path"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error resolving project path:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".modflow")
	}

	viper.SetEnvPrefix("MODFLOW")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// newWorkflow builds the lifecycle for the project directory the command
// targets, selecting the dry-run publisher when --dry-run is set.
func newWorkflow(cmd *cobra.Command) (*lifecycle.Workflow, error) {
	projectDir, err := filepath.Abs(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var publisher publish.Publisher
	if viper.GetBool("dry_run") {
		publisher = publish.DryRunPublisher{}
	} else {
		publisher = publish.NewCommandPublisher(cfg.Publish.Command)
	}

	return lifecycle.New(projectDir, cfg, publisher, ui.New(os.Stdout))
}
