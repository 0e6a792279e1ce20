// Package config loads the spider configuration from YAML, .env and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/qepting91/reddit-spider/internal/collector"
	"github.com/qepting91/reddit-spider/internal/crawler"
	"github.com/qepting91/reddit-spider/internal/harvest"
	"github.com/qepting91/reddit-spider/internal/ingest"
	"github.com/qepting91/reddit-spider/internal/relevance"
)

// Configuration validation errors.
var (
	ErrInvalidSeed           = errors.New("crawl.seed must be a valid community name")
	ErrInvalidTargetCount    = errors.New("crawl.target_count must be at least 1")
	ErrInvalidSampleSize     = errors.New("crawl.validation_sample_size must be non-negative")
	ErrInvalidHarvestLimit   = errors.New("crawl.harvest_limit must be at least 1")
	ErrInvalidMinSubscribers = errors.New("crawl.min_subscribers must be non-negative")
	ErrInvalidCommentCap     = errors.New("crawl.comment_cap must be non-negative")
	ErrInvalidCandidateDelay = errors.New("crawl.candidate_delay must be non-negative")
	ErrNoPositiveKeywords    = errors.New("relevance.positive_keywords must not be empty")
	ErrInvalidMaxAttempts    = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidRetryDelay     = errors.New("retry.delay must be non-negative")
	ErrInvalidMode           = errors.New("collector.mode must be one of: api, public, mock")
	ErrMissingOutputDir      = errors.New("output.dir is required")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat      = errors.New("logging.format must be 'json' or 'text'")
)

// Config represents the complete spider configuration.
type Config struct {
	Crawl     CrawlConfig     `yaml:"crawl"`
	Relevance RelevanceConfig `yaml:"relevance"`
	Retry     RetryPolicy     `yaml:"retry"`
	Collector CollectorConfig `yaml:"collector"`
	Output    OutputConfig    `yaml:"output"`
	Journal   JournalConfig   `yaml:"journal"`
	Publish   PublishConfig   `yaml:"publish"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CrawlConfig bounds the traversal.
type CrawlConfig struct {
	Seed                 string        `yaml:"seed"`
	TargetCount          int           `yaml:"target_count"`
	ValidationSampleSize int           `yaml:"validation_sample_size"`
	HarvestLimit         int           `yaml:"harvest_limit"`
	MinSubscribers       int           `yaml:"min_subscribers"`
	CommentCap           int           `yaml:"comment_cap"`
	ExcludedAuthors      []string      `yaml:"excluded_authors"`
	ExcludedAuthorsFile  string        `yaml:"excluded_authors_file"`
	Blocklist            []string      `yaml:"blocklist"`
	BlocklistFile        string        `yaml:"blocklist_file"`
	CandidateDelay       time.Duration `yaml:"candidate_delay"`
}

// RelevanceConfig holds the keyword vocabulary of the heuristic.
type RelevanceConfig struct {
	PositiveKeywords []string `yaml:"positive_keywords"`
	NegativeKeywords []string `yaml:"negative_keywords"`
	CanonicalTerm    string   `yaml:"canonical_term"`
	// KeywordsFile, when set, replaces both keyword lists.
	KeywordsFile string `yaml:"keywords_file"`
}

// RetryPolicy defines retry behavior of a harvest.
type RetryPolicy struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
}

// CollectorConfig selects the upstream client. Credentials come from the
// environment only.
type CollectorConfig struct {
	Mode         string        `yaml:"mode"`
	UserAgent    string        `yaml:"user_agent"`
	RateInterval time.Duration `yaml:"rate_interval"`
	BaseURL      string        `yaml:"base_url"`

	ClientID     string `yaml:"-"`
	ClientSecret string `yaml:"-"`
	Username     string `yaml:"-"`
	Password     string `yaml:"-"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// JournalConfig enables the SQLite run journal when Path is set.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// PublishConfig enables S3 upload of finished files when Bucket is set.
type PublishConfig struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Profile      string `yaml:"profile"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

type DashboardConfig struct {
	Port string `yaml:"port"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Crawl: CrawlConfig{
			Seed:                 "GamingLaptops",
			TargetCount:          20,
			ValidationSampleSize: 20,
			HarvestLimit:         1000,
			MinSubscribers:       100,
			CommentCap:           10,
			ExcludedAuthors:      []string{"AutoModerator"},
			Blocklist:            []string{"gaming", "pcgaming", "techsupport", "buildapc"},
			CandidateDelay:       2 * time.Second,
		},
		Relevance: RelevanceConfig{
			PositiveKeywords: []string{
				"battery", "hinge", "screen", "keyboard", "touchpad", "trackpad",
				"thermal", "paste", "undervolt", "wattage", "charger", "lid", "ips",
				"oled", "backlight", "gaming laptop", "notebook", "laptop",
			},
			NegativeKeywords: []string{"handheld", "console", "desktop", "buildapc", "ally"},
			CanonicalTerm:    "laptop",
		},
		Retry: RetryPolicy{
			MaxAttempts: 3,
			Delay:       5 * time.Second,
		},
		Collector: CollectorConfig{
			Mode: collector.ModeAPI,
		},
		Output:    OutputConfig{Dir: "data/raw"},
		Dashboard: DashboardConfig{Port: "8080"},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads an optional YAML file over the defaults, then applies .env
// and environment overrides, resolves list files and validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.loadLists(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("COLLECTOR_MODE"); v != "" {
		c.Collector.Mode = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		c.Collector.UserAgent = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Dashboard.Port = v
	}
	c.Collector.ClientID = os.Getenv("REDDIT_CLIENT_ID")
	c.Collector.ClientSecret = os.Getenv("REDDIT_CLIENT_SECRET")
	c.Collector.Username = os.Getenv("REDDIT_USERNAME")
	c.Collector.Password = os.Getenv("REDDIT_PASSWORD")
}

func (c *Config) loadLists() error {
	if f := c.Relevance.KeywordsFile; f != "" {
		pos, neg, err := ingest.LoadKeywords(f)
		if err != nil {
			return fmt.Errorf("failed to load keywords: %w", err)
		}
		c.Relevance.PositiveKeywords, c.Relevance.NegativeKeywords = pos, neg
	}
	if f := c.Crawl.ExcludedAuthorsFile; f != "" {
		names, err := ingest.LoadNames(f)
		if err != nil {
			return fmt.Errorf("failed to load excluded authors: %w", err)
		}
		c.Crawl.ExcludedAuthors = names
	}
	if f := c.Crawl.BlocklistFile; f != "" {
		names, err := ingest.LoadNames(f)
		if err != nil {
			return fmt.Errorf("failed to load blocklist: %w", err)
		}
		c.Crawl.Blocklist = names
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !ingest.ValidName(c.Crawl.Seed) {
		return fmt.Errorf("%w: %q", ErrInvalidSeed, c.Crawl.Seed)
	}
	if c.Crawl.TargetCount < 1 {
		return ErrInvalidTargetCount
	}
	if c.Crawl.ValidationSampleSize < 0 {
		return ErrInvalidSampleSize
	}
	if c.Crawl.HarvestLimit < 1 {
		return ErrInvalidHarvestLimit
	}
	if c.Crawl.MinSubscribers < 0 {
		return ErrInvalidMinSubscribers
	}
	if c.Crawl.CommentCap < 0 {
		return ErrInvalidCommentCap
	}
	if c.Crawl.CandidateDelay < 0 {
		return ErrInvalidCandidateDelay
	}
	if len(c.Relevance.PositiveKeywords) == 0 {
		return ErrNoPositiveKeywords
	}
	if c.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}
	if c.Retry.Delay < 0 {
		return ErrInvalidRetryDelay
	}
	switch c.Collector.Mode {
	case collector.ModeAPI, collector.ModePublic, collector.ModeMock:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Collector.Mode)
	}
	if c.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return ErrInvalidLogFormat
	}
	return nil
}

// CrawlerConfig is the traversal driver's view of the configuration.
func (c *Config) CrawlerConfig() crawler.Config {
	return crawler.Config{
		Seed:           c.Crawl.Seed,
		TargetCount:    c.Crawl.TargetCount,
		Blocklist:      append([]string(nil), c.Crawl.Blocklist...),
		CandidateDelay: c.Crawl.CandidateDelay,
	}
}

// RelevanceConfig is the validator's view of the configuration.
func (c *Config) RelevanceConfig() relevance.Config {
	return relevance.Config{
		MinSubscribers: c.Crawl.MinSubscribers,
		SampleSize:     c.Crawl.ValidationSampleSize,
		Positive:       append([]string(nil), c.Relevance.PositiveKeywords...),
		Negative:       append([]string(nil), c.Relevance.NegativeKeywords...),
		CanonicalTerm:  c.Relevance.CanonicalTerm,
	}
}

// HarvestConfig is the harvester's view of the configuration.
func (c *Config) HarvestConfig() harvest.Config {
	return harvest.Config{
		Limit:           c.Crawl.HarvestLimit,
		CommentCap:      c.Crawl.CommentCap,
		ExcludedAuthors: append([]string(nil), c.Crawl.ExcludedAuthors...),
		Attempts:        c.Retry.MaxAttempts,
		Delay:           c.Retry.Delay,
	}
}

// CollectorOptions selects the upstream client.
func (c *Config) CollectorOptions() collector.Options {
	return collector.Options{
		Mode:         c.Collector.Mode,
		UserAgent:    c.Collector.UserAgent,
		ClientID:     c.Collector.ClientID,
		ClientSecret: c.Collector.ClientSecret,
		Username:     c.Collector.Username,
		Password:     c.Collector.Password,
		RateInterval: c.Collector.RateInterval,
		BaseURL:      c.Collector.BaseURL,
	}
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Seed: %s, Target: %d, Mode: %s, Output: %s}",
		c.Crawl.Seed,
		c.Crawl.TargetCount,
		c.Collector.Mode,
		c.Output.Dir,
	)
}
