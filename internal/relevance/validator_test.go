package relevance

import (
	"context"
	"errors"
	"testing"

	"github.com/qepting91/reddit-spider/internal/domain"
)

type fakeCollector struct {
	community *domain.Community
	metaErr   error
	items     []domain.Item
	itemsErr  error
	asked     int
}

func (f *fakeCollector) FetchCommunity(_ context.Context, _ string) (*domain.Community, error) {
	return f.community, f.metaErr
}

func (f *fakeCollector) FetchItems(_ context.Context, _ string, page domain.Page) ([]domain.Item, string, error) {
	f.asked = page.Limit
	return f.items, "", f.itemsErr
}

func (f *fakeCollector) FetchComments(_ context.Context, _ string) ([]domain.Comment, error) {
	return nil, nil
}

func testConfig() Config {
	return Config{
		MinSubscribers: 100,
		SampleSize:     20,
		Positive:       []string{"battery", "Hinge", "laptop"},
		Negative:       []string{"console", "desktop"},
		CanonicalTerm:  "laptop",
	}
}

func TestValidate_ScoreBoundary(t *testing.T) {
	fc := &fakeCollector{
		community: &domain.Community{Subscribers: 500, Description: "All about battery life", Title: "Portables"},
	}
	v := New(fc, testConfig(), nil)

	verdict := v.Validate(context.Background(), "portables")
	if verdict.Score != 5 || verdict.Accepted {
		t.Fatalf("Expected score 5 to reject, got %+v", verdict)
	}

	fc.items = []domain.Item{{Title: "Hinge squeaks"}}
	verdict = v.Validate(context.Background(), "portables")
	if verdict.Score != 6 || !verdict.Accepted {
		t.Fatalf("Expected score 6 to accept, got %+v", verdict)
	}
}

func TestValidate_ItemScoring(t *testing.T) {
	testCases := []struct {
		name  string
		items []domain.Item
		want  int
	}{
		{"many positives count once", []domain.Item{{Title: "battery hinge", Body: "battery again"}}, 1},
		{"canonical bonus", []domain.Item{{Title: "new laptop"}}, 3},
		{"negative", []domain.Item{{Body: "console and desktop"}}, -2},
		{"mixed", []domain.Item{{Title: "laptop vs desktop"}}, 1},
		{"empty item", []domain.Item{{}}, 0},
		{"case insensitive", []domain.Item{{Title: "BATTERY"}}, 1},
		{"title and body joined", []domain.Item{{Title: "bat", Body: "tery"}}, 0},
	}
	for _, tc := range testCases {
		fc := &fakeCollector{
			community: &domain.Community{Subscribers: 1000},
			items:     tc.items,
		}
		verdict := New(fc, testConfig(), nil).Validate(context.Background(), "x")
		if verdict.Score != tc.want {
			t.Errorf("[%s] Expected score=%d but actual=%d", tc.name, tc.want, verdict.Score)
		}
	}
}

func TestValidate_MetadataScoring(t *testing.T) {
	fc := &fakeCollector{
		community: &domain.Community{Subscribers: 1000, Description: "laptops but no desktop", Title: ""},
	}
	if verdict := New(fc, testConfig(), nil).Validate(context.Background(), "x"); verdict.Score != 0 {
		t.Errorf("Expected +5-5=0, got %d", verdict.Score)
	}
}

func TestValidate_TooSmall(t *testing.T) {
	fc := &fakeCollector{
		community: &domain.Community{Subscribers: 99, Description: "laptop"},
		items:     []domain.Item{{Title: "laptop"}, {Title: "laptop"}},
	}
	verdict := New(fc, testConfig(), nil).Validate(context.Background(), "tiny")
	if verdict.Accepted || verdict.Scored || verdict.Reason != domain.KindTooSmall {
		t.Errorf("Expected unscored too_small rejection, got %+v", verdict)
	}
	if fc.asked != 0 {
		t.Error("Expected no sample fetch for a small community")
	}
}

func TestValidate_MetadataUnavailable(t *testing.T) {
	fc := &fakeCollector{metaErr: domain.NewFetchError(domain.KindNetworkFatal, "about", "gone", errors.New("404"))}
	verdict := New(fc, testConfig(), nil).Validate(context.Background(), "gone")
	if verdict.Accepted || verdict.Reason != domain.KindMetadataUnavailable {
		t.Errorf("Expected metadata_unavailable rejection, got %+v", verdict)
	}

	fc = &fakeCollector{}
	verdict = New(fc, testConfig(), nil).Validate(context.Background(), "nil")
	if verdict.Accepted || verdict.Reason != domain.KindMetadataUnavailable {
		t.Errorf("Expected nil metadata to reject, got %+v", verdict)
	}
}

func TestValidate_SampleFailureRejects(t *testing.T) {
	fc := &fakeCollector{
		community: &domain.Community{Subscribers: 1000, Description: "laptop"},
		itemsErr:  domain.NewFetchError(domain.KindNetworkTransient, "items", "x", errors.New("reset")),
	}
	verdict := New(fc, testConfig(), nil).Validate(context.Background(), "x")
	if verdict.Accepted || verdict.Reason != domain.KindNetworkTransient {
		t.Errorf("Expected rejection on sample failure, got %+v", verdict)
	}
}

func TestValidate_SampleCapped(t *testing.T) {
	cfg := testConfig()
	cfg.SampleSize = 2
	fc := &fakeCollector{
		community: &domain.Community{Subscribers: 1000},
		items:     []domain.Item{{Title: "laptop"}, {Title: "laptop"}, {Title: "laptop"}},
	}
	verdict := New(fc, cfg, nil).Validate(context.Background(), "x")
	if fc.asked != 2 {
		t.Errorf("Expected sample limit 2, got %d", fc.asked)
	}
	if verdict.Sampled != 2 || verdict.Score != 6 {
		t.Errorf("Expected 2 sampled items scoring 6, got %+v", verdict)
	}
}
