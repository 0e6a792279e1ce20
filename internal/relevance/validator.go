// Package relevance decides whether a candidate community is on topic.
package relevance

import (
	"context"
	"log/slog"
	"strings"

	"github.com/qepting91/reddit-spider/internal/domain"
)

// Heuristic weights. They are tuning constants, kept as-is.
const (
	metadataPositive = 5
	metadataNegative = -5
	itemPositive     = 1
	itemCanonical    = 2
	itemNegative     = -2
	acceptAbove      = 5
)

// Config is the immutable validator configuration.
type Config struct {
	MinSubscribers int
	SampleSize     int
	Positive       []string
	Negative       []string
	// CanonicalTerm earns an item a bonus on top of its positive match.
	CanonicalTerm string
}

// Verdict is the outcome of validating one candidate.
type Verdict struct {
	Accepted bool
	// Scored is false when the candidate was rejected before scoring.
	Scored  bool
	Score   int
	Sampled int
	// Reason is set for rejections caused by an error class.
	Reason domain.ErrorKind
}

type Validator struct {
	collector domain.Collector
	cfg       Config
	logger    *slog.Logger
}

func New(collector domain.Collector, cfg Config, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Positive = lowerAll(cfg.Positive)
	cfg.Negative = lowerAll(cfg.Negative)
	cfg.CanonicalTerm = strings.ToLower(strings.TrimSpace(cfg.CanonicalTerm))
	return &Validator{
		collector: collector,
		cfg:       cfg,
		logger:    logger.With("component", "relevance"),
	}
}

// Validate fetches metadata and a sample of items for name and scores them.
// Failures never escape: they reject the candidate.
func (v *Validator) Validate(ctx context.Context, name string) Verdict {
	community, err := v.collector.FetchCommunity(ctx, name)
	if err != nil || community == nil {
		v.logger.Info("Metadata unavailable", "sub", name, "err", err)
		return Verdict{Reason: domain.KindMetadataUnavailable}
	}
	if community.Subscribers < v.cfg.MinSubscribers {
		v.logger.Info("Too small", "sub", name, "subscribers", community.Subscribers, "min", v.cfg.MinSubscribers)
		return Verdict{Reason: domain.KindTooSmall}
	}

	score := v.scoreMetadata(community)

	var items []domain.Item
	if v.cfg.SampleSize > 0 {
		items, _, err = v.collector.FetchItems(ctx, name, domain.Page{Limit: v.cfg.SampleSize})
		if err != nil {
			v.logger.Info("Sample fetch failed", "sub", name, "err", err)
			return Verdict{Scored: true, Score: score, Reason: domain.KindOf(err)}
		}
		if len(items) > v.cfg.SampleSize {
			items = items[:v.cfg.SampleSize]
		}
	}
	for _, it := range items {
		score += v.scoreItem(it)
	}

	verdict := Verdict{
		Accepted: score > acceptAbove,
		Scored:   true,
		Score:    score,
		Sampled:  len(items),
	}
	v.logger.Info("Validated", "sub", name, "score", score, "sampled", len(items), "accepted", verdict.Accepted)
	return verdict
}

func (v *Validator) scoreMetadata(c *domain.Community) int {
	text := strings.ToLower(c.Description + " " + c.Title)
	score := 0
	if containsAny(text, v.cfg.Positive) {
		score += metadataPositive
	}
	if containsAny(text, v.cfg.Negative) {
		score += metadataNegative
	}
	return score
}

// scoreItem counts each polarity at most once per item.
func (v *Validator) scoreItem(it domain.Item) int {
	text := strings.ToLower(it.Title + " " + it.Body)
	score := 0
	if containsAny(text, v.cfg.Positive) {
		score += itemPositive
		if v.cfg.CanonicalTerm != "" && strings.Contains(text, v.cfg.CanonicalTerm) {
			score += itemCanonical
		}
	}
	if containsAny(text, v.cfg.Negative) {
		score += itemNegative
	}
	return score
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
