// Package crawler drives the breadth-first discovery and harvest of
// communities starting from a seed.
package crawler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qepting91/reddit-spider/internal/frontier"
	"github.com/qepting91/reddit-spider/internal/harvest"
	"github.com/qepting91/reddit-spider/internal/relevance"
)

// Config is the immutable traversal configuration.
type Config struct {
	Seed        string
	TargetCount int
	// Blocklist names are dropped when popped, without validation.
	Blocklist      []string
	CandidateDelay time.Duration
}

type Validator interface {
	Validate(ctx context.Context, name string) relevance.Verdict
}

type Harvester interface {
	Harvest(ctx context.Context, name string) harvest.Result
}

// Recorder keeps an audit trail of a run. It never feeds the frontier.
type Recorder interface {
	StartRun(ctx context.Context, run Run) error
	RecordCandidate(ctx context.Context, o Outcome) error
	FinishRun(ctx context.Context, s Summary) error
}

// Publisher ships a finished output file somewhere else.
type Publisher interface {
	Publish(ctx context.Context, name string) error
}

type Run struct {
	ID        string
	Seed      string
	Target    int
	StartedAt time.Time
}

// Outcome is one processed candidate. Harvest is nil for rejections.
type Outcome struct {
	RunID       string
	Name        string
	Verdict     relevance.Verdict
	Harvest     *harvest.Result
	Queued      int
	ProcessedAt time.Time
}

type Summary struct {
	RunID      string
	Approved   []string
	Processed  int
	Harvested  int
	Failed     int
	Visited    int
	Remaining  int
	FinishedAt time.Time
}

type Crawler struct {
	cfg       Config
	validator Validator
	harvester Harvester
	blocked   map[string]struct{}
	logger    *slog.Logger

	Recorder  Recorder
	Publisher Publisher
	// Sleep waits out the inter-candidate delay.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

func New(cfg Config, v Validator, h Harvester, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.Default()
	}
	blocked := make(map[string]struct{}, len(cfg.Blocklist))
	for _, b := range cfg.Blocklist {
		blocked[strings.ToLower(b)] = struct{}{}
	}
	return &Crawler{
		cfg:       cfg,
		validator: v,
		harvester: h,
		blocked:   blocked,
		logger:    logger.With("component", "crawler"),
		Sleep:     harvest.Sleep,
		Now:       time.Now,
	}
}

// Run explores from the seed until TargetCount communities are approved or
// the frontier is empty. It only returns an error when ctx ends the run
// early; the summary is valid either way.
func (c *Crawler) Run(ctx context.Context) (Summary, error) {
	run := Run{ID: uuid.NewString(), Seed: c.cfg.Seed, Target: c.cfg.TargetCount, StartedAt: c.Now()}
	sum := Summary{RunID: run.ID}
	c.record(func() error { return c.Recorder.StartRun(ctx, run) })

	f := frontier.New()
	f.Push(c.cfg.Seed)
	c.logger.Info("Starting spider", "run", run.ID, "seed", c.cfg.Seed, "target", c.cfg.TargetCount)

	var err error
	for len(sum.Approved) < c.cfg.TargetCount {
		if err = ctx.Err(); err != nil {
			break
		}
		name, ok := f.Pop()
		if !ok {
			break
		}
		if _, skip := c.blocked[strings.ToLower(name)]; skip {
			c.logger.Debug("Blocklisted", "sub", name)
			continue
		}

		c.logger.Info("Processing", "sub", name, "queued", f.Len(), "visited", f.Visited())
		out := Outcome{RunID: run.ID, Name: name}
		out.Verdict = c.validator.Validate(ctx, name)
		sum.Processed++

		if out.Verdict.Accepted {
			sum.Approved = append(sum.Approved, name)
			res := c.harvester.Harvest(ctx, name)
			out.Harvest = &res
			if res.Success {
				sum.Harvested++
				for _, l := range res.Links {
					if f.Push(l) {
						out.Queued++
					}
				}
				c.logger.Info("Links found", "sub", name, "links", len(res.Links), "queued", out.Queued)
				c.publish(ctx, name)
			} else {
				sum.Failed++
			}
			c.logger.Info("Progress", "approved", len(sum.Approved), "target", c.cfg.TargetCount)
		}

		out.ProcessedAt = c.Now()
		c.record(func() error { return c.Recorder.RecordCandidate(ctx, out) })

		if err = c.Sleep(ctx, c.cfg.CandidateDelay); err != nil {
			break
		}
	}

	sum.Visited = f.Visited()
	sum.Remaining = f.Len()
	sum.FinishedAt = c.Now()
	// The journal outlives an interrupted run context.
	c.record(func() error { return c.Recorder.FinishRun(context.WithoutCancel(ctx), sum) })

	if err != nil {
		c.logger.Warn("Run interrupted", "approved", sum.Approved, "err", err)
		return sum, err
	}
	c.logger.Info("Done", "approved", sum.Approved, "processed", sum.Processed, "visited", sum.Visited)
	return sum, nil
}

func (c *Crawler) record(fn func() error) {
	if c.Recorder == nil {
		return
	}
	if err := fn(); err != nil {
		c.logger.Warn("Journal write failed", "err", err)
	}
}

func (c *Crawler) publish(ctx context.Context, name string) {
	if c.Publisher == nil {
		return
	}
	if err := c.Publisher.Publish(ctx, name); err != nil {
		c.logger.Warn("Publish failed", "sub", name, "err", err)
	}
}
