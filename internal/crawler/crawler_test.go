package crawler

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/qepting91/reddit-spider/internal/harvest"
	"github.com/qepting91/reddit-spider/internal/relevance"
)

type fakeValidator struct {
	accept map[string]bool
	calls  []string
}

func (f *fakeValidator) Validate(_ context.Context, name string) relevance.Verdict {
	f.calls = append(f.calls, name)
	if f.accept[name] {
		return relevance.Verdict{Accepted: true, Scored: true, Score: 10}
	}
	return relevance.Verdict{Scored: true, Score: 0}
}

type fakeHarvester struct {
	results map[string]harvest.Result
	calls   []string
}

func (f *fakeHarvester) Harvest(_ context.Context, name string) harvest.Result {
	f.calls = append(f.calls, name)
	if r, ok := f.results[name]; ok {
		return r
	}
	return harvest.Result{Success: true}
}

type fakeRecorder struct {
	started  []Run
	outcomes []Outcome
	finished []Summary
}

func (f *fakeRecorder) StartRun(_ context.Context, r Run) error {
	f.started = append(f.started, r)
	return nil
}

func (f *fakeRecorder) RecordCandidate(_ context.Context, o Outcome) error {
	f.outcomes = append(f.outcomes, o)
	return errors.New("disk full")
}

func (f *fakeRecorder) FinishRun(_ context.Context, s Summary) error {
	f.finished = append(f.finished, s)
	return nil
}

type fakePublisher struct {
	names []string
}

func (f *fakePublisher) Publish(_ context.Context, name string) error {
	f.names = append(f.names, name)
	return nil
}

func newTestCrawler(cfg Config, v Validator, h Harvester) (*Crawler, *[]time.Duration) {
	c := New(cfg, v, h, nil)
	var sleeps []time.Duration
	c.Sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return c, &sleeps
}

func TestRun_BreadthFirstWithDedup(t *testing.T) {
	v := &fakeValidator{accept: map[string]bool{"Seed": true, "B": true, "C": true, "D": true}}
	h := &fakeHarvester{results: map[string]harvest.Result{
		"Seed": {Success: true, Links: []string{"B", "C", "b", "seed"}},
		"B":    {Success: true, Links: []string{"D", "c"}},
		"C":    {Success: true, Links: []string{"E"}},
	}}
	c, sleeps := newTestCrawler(Config{Seed: "Seed", TargetCount: 10, CandidateDelay: 2 * time.Second}, v, h)

	sum, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if want := []string{"Seed", "B", "C", "D", "E"}; !reflect.DeepEqual(v.calls, want) {
		t.Errorf("Expected validation order %v, got %v", want, v.calls)
	}
	if want := []string{"Seed", "B", "C", "D"}; !reflect.DeepEqual(sum.Approved, want) {
		t.Errorf("Expected approved %v, got %v", want, sum.Approved)
	}
	if sum.Visited != 5 || sum.Processed != 5 || sum.Remaining != 0 {
		t.Errorf("Unexpected summary: %+v", sum)
	}
	if len(*sleeps) != 5 {
		t.Errorf("Expected one delay per processed candidate, got %d", len(*sleeps))
	}
	for _, d := range *sleeps {
		if d != 2*time.Second {
			t.Errorf("Expected fixed delay 2s, got %v", d)
		}
	}
}

func TestRun_StopsAtTarget(t *testing.T) {
	v := &fakeValidator{accept: map[string]bool{"s": true, "a": true, "b": true, "c": true}}
	h := &fakeHarvester{results: map[string]harvest.Result{
		"s": {Success: true, Links: []string{"a", "b", "c"}},
	}}
	c, _ := newTestCrawler(Config{Seed: "s", TargetCount: 2}, v, h)

	sum, err := c.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Approved) != 2 || len(h.calls) != 2 {
		t.Errorf("Expected exactly 2 approvals and harvests, got %v / %v", sum.Approved, h.calls)
	}
	if sum.Remaining != 2 {
		t.Errorf("Expected 2 candidates left in the frontier, got %d", sum.Remaining)
	}
}

func TestRun_FailedHarvestContinues(t *testing.T) {
	v := &fakeValidator{accept: map[string]bool{"s": true, "bad": true, "good": true}}
	h := &fakeHarvester{results: map[string]harvest.Result{
		"s":   {Success: true, Links: []string{"bad", "good"}},
		"bad": {Success: false, Records: 3, Links: []string{"never"}},
	}}
	pub := &fakePublisher{}
	c, _ := newTestCrawler(Config{Seed: "s", TargetCount: 5}, v, h)
	c.Publisher = pub

	sum, err := c.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"s", "bad", "good"}; !reflect.DeepEqual(sum.Approved, want) {
		t.Errorf("Expected failed harvest to stay approved, got %v", sum.Approved)
	}
	if sum.Failed != 1 || sum.Harvested != 2 {
		t.Errorf("Unexpected counters: %+v", sum)
	}
	for _, name := range v.calls {
		if name == "never" {
			t.Error("Links of a failed harvest must not be queued")
		}
	}
	if want := []string{"s", "good"}; !reflect.DeepEqual(pub.names, want) {
		t.Errorf("Expected publish of successful harvests only, got %v", pub.names)
	}
}

func TestRun_Blocklist(t *testing.T) {
	v := &fakeValidator{accept: map[string]bool{"s": true}}
	h := &fakeHarvester{results: map[string]harvest.Result{
		"s": {Success: true, Links: []string{"Gaming", "other"}},
	}}
	c, sleeps := newTestCrawler(Config{Seed: "s", TargetCount: 5, Blocklist: []string{"gaming"}}, v, h)

	sum, _ := c.Run(context.Background())
	if want := []string{"s", "other"}; !reflect.DeepEqual(v.calls, want) {
		t.Errorf("Expected blocklisted candidate to be skipped, got %v", v.calls)
	}
	if sum.Processed != 2 || len(*sleeps) != 2 {
		t.Errorf("Expected 2 processed with 2 delays, got %d / %d", sum.Processed, len(*sleeps))
	}
}

func TestRun_RecorderAndRejections(t *testing.T) {
	v := &fakeValidator{accept: map[string]bool{"s": true}}
	h := &fakeHarvester{results: map[string]harvest.Result{
		"s": {Success: true, Links: []string{"x", "y", "x"}},
	}}
	rec := &fakeRecorder{}
	c, _ := newTestCrawler(Config{Seed: "s", TargetCount: 3}, v, h)
	c.Recorder = rec

	sum, err := c.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.started) != 1 || rec.started[0].ID != sum.RunID || rec.started[0].Seed != "s" {
		t.Errorf("Unexpected run start: %+v", rec.started)
	}
	if len(rec.outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes despite journal errors, got %d", len(rec.outcomes))
	}
	if o := rec.outcomes[0]; o.Harvest == nil || o.Queued != 2 || !o.Verdict.Accepted {
		t.Errorf("Unexpected seed outcome: %+v", o)
	}
	if o := rec.outcomes[1]; o.Harvest != nil || o.Verdict.Accepted {
		t.Errorf("Expected rejection without harvest, got %+v", o)
	}
	if len(rec.finished) != 1 || len(rec.finished[0].Approved) != 1 {
		t.Errorf("Unexpected run finish: %+v", rec.finished)
	}
}

func TestRun_Interrupted(t *testing.T) {
	v := &fakeValidator{accept: map[string]bool{"s": true, "a": true}}
	h := &fakeHarvester{results: map[string]harvest.Result{
		"s": {Success: true, Links: []string{"a", "b"}},
	}}
	rec := &fakeRecorder{}
	c := New(Config{Seed: "s", TargetCount: 5, CandidateDelay: time.Hour}, v, h, nil)
	c.Recorder = rec

	ctx, cancel := context.WithCancel(context.Background())
	c.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return harvest.Sleep(ctx, d)
	}

	sum, err := c.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if sum.Processed != 1 || sum.Remaining != 2 {
		t.Errorf("Expected to stop after the first candidate, got %+v", sum)
	}
	if len(rec.finished) != 1 {
		t.Error("Expected the run to be closed in the journal")
	}
}

func TestRun_EmptyFrontier(t *testing.T) {
	v := &fakeValidator{}
	c, _ := newTestCrawler(Config{Seed: "lonely", TargetCount: 3}, v, &fakeHarvester{})
	sum, err := c.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Approved) != 0 || sum.Processed != 1 || sum.Visited != 1 {
		t.Errorf("Unexpected summary: %+v", sum)
	}
}
