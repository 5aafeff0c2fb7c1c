package main

import (
	"github.com/spf13/cobra"
)

// AttachCLIFlags attaches command line flags to command
func AttachCLIFlags(rootCmd *cobra.Command) error {
	rootCmd.PersistentFlags().StringP("config", "c", "", "the config file to use")
	rootCmd.PersistentFlags().StringP("lcov-output", "o", "", "the directory in which to store results")
	rootCmd.PersistentFlags().String("html-output", "", "the directory in which to store html output")
	rootCmd.PersistentFlags().String("cov-tools-dir", "", "the location of coverage scripts (cov-init and cov-analyze)")
	rootCmd.PersistentFlags().String("build-output-dir", "", "the directory holding the build artifact archives")
	rootCmd.PersistentFlags().Bool("skip-init", false, "skip initialization (useful if a run stopped partway through)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "be more verbose")

	return nil
}
