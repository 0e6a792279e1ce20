package main

import (
	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-spider/internal/dashboard"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve charts over the harvested output",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		log.Info("Starting Dashboard", "port", cfg.Dashboard.Port, "dir", cfg.Output.Dir)
		return dashboard.StartServer(cfg.Output.Dir, cfg.Dashboard.Port)
	},
}
