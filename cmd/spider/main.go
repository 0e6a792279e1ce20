package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-spider/internal/config"
	"github.com/qepting91/reddit-spider/internal/logger"
)

var (
	ConfigPath string
	LogLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(refsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "spider",
	Short:        "Discover and harvest related subreddits starting from a seed",
	SilenceUsage: true,
}

// loadConfig reads the configuration and installs the default logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if LogLevel != "" {
		cfg.Logging.Level = LogLevel
	}
	log := logger.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)
	return cfg, log, nil
}
