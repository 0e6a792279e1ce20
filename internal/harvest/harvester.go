// Package harvest downloads an approved community into its output file.
package harvest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/qepting91/reddit-spider/internal/domain"
	"github.com/qepting91/reddit-spider/internal/links"
)

// DefaultPageSize is the largest listing page the platform serves.
const DefaultPageSize = 100

const progressEvery = 50

// Config is the immutable harvester configuration.
type Config struct {
	Limit           int
	PageSize        int
	CommentCap      int
	ExcludedAuthors []string
	Attempts        int
	Delay           time.Duration
}

// RecordSink receives records as soon as they are produced.
type RecordSink interface {
	Open(name string) error
	Append(r domain.Record) error
	Close() error
}

// Result describes one harvest. Links is empty unless Success is true.
type Result struct {
	Links    []string
	Success  bool
	Records  int
	Attempts int
	Err      error
}

type Harvester struct {
	collector domain.Collector
	sink      RecordSink
	cfg       Config
	excluded  map[string]struct{}
	logger    *slog.Logger

	// Sleep waits out the retry backoff.
	Sleep func(ctx context.Context, d time.Duration) error
}

func New(collector domain.Collector, sink RecordSink, cfg Config, logger *slog.Logger) *Harvester {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageSize <= 0 || cfg.PageSize > DefaultPageSize {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.CommentCap < 0 {
		cfg.CommentCap = 0
	}
	excluded := make(map[string]struct{}, len(cfg.ExcludedAuthors))
	for _, a := range cfg.ExcludedAuthors {
		excluded[strings.ToLower(a)] = struct{}{}
	}
	return &Harvester{
		collector: collector,
		sink:      sink,
		cfg:       cfg,
		excluded:  excluded,
		logger:    logger.With("component", "harvest"),
		Sleep:     Sleep,
	}
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Harvest fetches up to Limit items of name with their top comments and
// streams them to the sink. A transient failure restarts the whole fetch,
// re-truncating the output file; any other failure gives up at once.
func (h *Harvester) Harvest(ctx context.Context, name string) Result {
	h.logger.Info("Harvesting", "sub", name, "limit", h.cfg.Limit)

	var res Result
	for attempt := 1; attempt <= h.cfg.Attempts; attempt++ {
		res.Attempts = attempt
		found, n, err := h.attempt(ctx, name)
		res.Records = n
		if err == nil {
			res.Links = found
			res.Success = true
			res.Err = nil
			h.logger.Info("Harvest complete", "sub", name, "records", n, "links", len(found), "attempt", attempt)
			return res
		}
		res.Err = err

		kind := domain.KindOf(err)
		if !kind.Retryable() || ctx.Err() != nil {
			h.logger.Error("Harvest aborted", "sub", name, "kind", kind, "records", n, "err", err)
			return res
		}
		if attempt == h.cfg.Attempts {
			break
		}
		h.logger.Warn("Network error, retrying", "sub", name, "attempt", attempt, "left", h.cfg.Attempts-attempt, "err", err)
		if err := h.Sleep(ctx, h.cfg.Delay); err != nil {
			res.Err = err
			return res
		}
	}
	h.logger.Error("Harvest failed", "sub", name, "attempts", h.cfg.Attempts, "err", res.Err)
	return res
}

func (h *Harvester) attempt(ctx context.Context, name string) ([]string, int, error) {
	if err := h.sink.Open(name); err != nil {
		return nil, 0, err
	}
	defer h.sink.Close()

	var (
		found   []string
		seen    = make(map[string]struct{})
		records int
		fetched int
		after   string
	)
	collect := func(text string) {
		for _, l := range links.Extract(text) {
			if _, ok := seen[l]; !ok {
				seen[l] = struct{}{}
				found = append(found, l)
			}
		}
	}

	for fetched < h.cfg.Limit {
		size := min(h.cfg.PageSize, h.cfg.Limit-fetched)
		items, next, err := h.collector.FetchItems(ctx, name, domain.Page{Limit: size, After: after})
		if err != nil {
			return found, records, err
		}
		if len(items) > size {
			items = items[:size]
		}
		for _, it := range items {
			fetched++
			if fetched%progressEvery == 0 {
				h.logger.Info("Progress", "sub", name, "items", fetched)
			}
			n, err := h.item(ctx, it, collect)
			records += n
			if err != nil {
				return found, records, err
			}
		}
		if next == "" || len(items) == 0 {
			break
		}
		after = next
	}
	return found, records, nil
}

// item writes one submission and its retained comments. Submissions without
// a body are dropped along with their comments.
func (h *Harvester) item(ctx context.Context, it domain.Item, collect func(string)) (int, error) {
	if isBlank(it.Body) {
		return 0, nil
	}
	if err := h.sink.Append(domain.SubmissionRecord(it)); err != nil {
		return 0, err
	}
	written := 1
	collect(it.Body)

	comments, err := h.collector.FetchComments(ctx, it.ID)
	if err != nil {
		if ctx.Err() != nil {
			return written, ctx.Err()
		}
		err = domain.NewFetchError(domain.KindCommentExpansion, "comments", it.ID, err)
		h.logger.Warn("Skipping comments", "item", it.ID, "err", err)
		return written, nil
	}

	for _, c := range h.retain(comments) {
		collect(c.Body)
		if isBlank(c.Body) {
			continue
		}
		if err := h.sink.Append(domain.CommentRecord(it.ID, c)); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// retain keeps the first CommentCap comments, then drops excluded authors.
func (h *Harvester) retain(comments []domain.Comment) []domain.Comment {
	if len(comments) > h.cfg.CommentCap {
		comments = comments[:h.cfg.CommentCap]
	}
	kept := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		if _, ok := h.excluded[strings.ToLower(c.Author)]; ok {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
