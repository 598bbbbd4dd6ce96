package main

import (
	"github.com/spf13/cobra"
)

// cfgFile is the --config flag value, shared by all subcommands.
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "brandtune",
	Short: "Turn brand feedback into emotion-matched songs",
	Long: `brandtune clusters social-media documents into topics, derives each
topic's dominant emotion, and produces one short song per topic: a
synthesized vocal over a procedurally composed instrumental bed, mixed
to a fixed duration.

The run subcommand executes the full pipeline; serve exposes the report
and song files of a finished run over HTTP.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./brandtune.yaml)")
}
