package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"brassworks.dev/fieldsmith/internal/compressor"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle <template-dir> <out.zip>",
	Short: "Package a template directory into a distributable zip bundle",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return &UsageError{Msg: "expected a template directory and an output path"}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := compressor.PackBundle(args[0], args[1]); err != nil {
			return err
		}
		log.Info("template bundle written",
			zap.String("dir", args[0]), zap.String("bundle", args[1]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)
}
