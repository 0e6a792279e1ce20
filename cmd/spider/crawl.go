package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-spider/internal/collector"
	"github.com/qepting91/reddit-spider/internal/crawler"
	"github.com/qepting91/reddit-spider/internal/harvest"
	"github.com/qepting91/reddit-spider/internal/journal"
	"github.com/qepting91/reddit-spider/internal/publish"
	"github.com/qepting91/reddit-spider/internal/relevance"
	"github.com/qepting91/reddit-spider/internal/storage"
)

var (
	CrawlSeed   string
	CrawlTarget int
	CrawlMode   string
)

func init() {
	crawlCmd.Flags().StringVar(&CrawlSeed, "seed", "", "Override crawl.seed")
	crawlCmd.Flags().IntVar(&CrawlTarget, "target", 0, "Override crawl.target_count")
	crawlCmd.Flags().StringVar(&CrawlMode, "mode", "", "Override collector.mode (api, public, mock)")
}

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run the discovery traversal from the seed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if CrawlSeed != "" {
			cfg.Crawl.Seed = CrawlSeed
		}
		if CrawlTarget > 0 {
			cfg.Crawl.TargetCount = CrawlTarget
		}
		if CrawlMode != "" {
			cfg.Collector.Mode = CrawlMode
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		log.Info("Configuration loaded", "config", cfg.String())

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client, err := collector.NewCollector(cfg.CollectorOptions())
		if err != nil {
			return fmt.Errorf("failed to initialize collector: %w", err)
		}
		log.Info("Collector initialized", "mode", cfg.Collector.Mode)

		sink := storage.NewSink(cfg.Output.Dir)
		v := relevance.New(client, cfg.RelevanceConfig(), log)
		h := harvest.New(client, sink, cfg.HarvestConfig(), log)
		c := crawler.New(cfg.CrawlerConfig(), v, h, log)

		if cfg.Journal.Path != "" {
			j, err := journal.Open(cfg.Journal.Path)
			if err != nil {
				return err
			}
			defer j.Close()
			c.Recorder = j
		}
		if cfg.Publish.Bucket != "" {
			p, err := publish.NewS3(ctx, publish.Config{
				Bucket:       cfg.Publish.Bucket,
				Prefix:       cfg.Publish.Prefix,
				Region:       cfg.Publish.Region,
				Profile:      cfg.Publish.Profile,
				UsePathStyle: cfg.Publish.UsePathStyle,
			}, sink.Path)
			if err != nil {
				return fmt.Errorf("failed to initialize publisher: %w", err)
			}
			c.Publisher = p
		}

		sum, err := c.Run(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "Approved %d/%d communities (processed %d, visited %d):\n",
			len(sum.Approved), cfg.Crawl.TargetCount, sum.Processed, sum.Visited)
		for _, name := range sum.Approved {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
		}
		if err != nil {
			// Interrupted runs keep what they harvested.
			log.Info("Shutdown signal received", "err", err)
		}
		return nil
	},
}
