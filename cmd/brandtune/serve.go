package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pulselab/brandtune/internal/config"
	"github.com/pulselab/brandtune/internal/logging"
	"github.com/pulselab/brandtune/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report and songs of a finished run over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			cfg.Serve.Addr = v
		}
		if v, _ := cmd.Flags().GetString("output"); v != "" {
			cfg.OutputDir = v
		}

		log := logging.New(cfg.LogLevel)
		slog.SetDefault(log)

		return web.NewServer(web.ServerConfig{
			Addr:      cfg.Serve.Addr,
			OutputDir: cfg.OutputDir,
			Logger:    log,
		}).Run()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
	serveCmd.Flags().String("output", "", "output directory of the run to serve (overrides config)")

	rootCmd.AddCommand(serveCmd)
}
