package cmd

import (
	"github.com/spf13/cobra"

	"brassworks.dev/fieldsmith/internal/generator"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry run: report what a full generation would do without writing",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 {
			return &UsageError{Msg: "plan takes no arguments"}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline(true)
		if err != nil {
			return err
		}
		defer p.close()

		ok, results, err := p.gen.GenerateAll(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range results {
			switch r.Outcome {
			case generator.Written:
				cmd.Printf("would write  %s  %s\n", r.FieldID, r.Path)
			case generator.Unchanged:
				cmd.Printf("unchanged    %s  %s\n", r.FieldID, r.Path)
			case generator.Skipped:
				cmd.Printf("skip (%s)  %s\n", r.Reason, r.FieldID)
			case generator.Failed:
				cmd.PrintErrf("failed       %s: %v\n", r.FieldID, r.Err)
			}
		}
		if !ok {
			failed := 0
			for _, r := range results {
				if r.Outcome == generator.Failed {
					failed++
				}
			}
			return &GenerationError{Failed: failed}
		}
		return p.finish()
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
