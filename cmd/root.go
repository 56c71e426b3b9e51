package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"brassworks.dev/fieldsmith/internal/config"
)

var (
	cfgPath        string
	verbose        bool
	nonInteractive bool
	assumeYes      bool

	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fieldsmith",
	Short: "Generate one source class per remote custom field definition",
	Long: `fieldsmith renders one source-code artifact per remote custom field,
driven by a declarative mapping configuration. Runs are incremental: a
persisted generation map records what was written so unchanged fields are
never rewritten.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			log, err = zap.NewDevelopment()
		} else {
			log, err = zap.NewProduction()
		}
		if err != nil {
			// An environment problem, not a generation failure.
			return &config.Error{Msg: "initializing logger: " + err.Error()}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "fieldsmith.yaml", "path to the mapping configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; ambiguous names fail")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip the bulk confirmation prompt")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Msg: err.Error()}
	})
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return ExitCodeFor(err)
}
