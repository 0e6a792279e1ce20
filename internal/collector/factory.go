package collector

import (
	"fmt"
	"time"

	"github.com/qepting91/reddit-spider/internal/domain"
)

// Collector modes.
const (
	ModeAPI    = "api"
	ModePublic = "public"
	ModeMock   = "mock"
)

// Options selects and parameterises a collector.
type Options struct {
	Mode         string
	UserAgent    string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	// RateInterval is the minimum spacing between API calls; zero picks
	// the mode's default.
	RateInterval time.Duration
	// BaseURL overrides the public endpoint host.
	BaseURL string
}

// NewCollector selects the correct implementation based on the mode
func NewCollector(opts Options) (domain.Collector, error) {
	switch opts.Mode {
	case ModeAPI:
		if opts.ClientID == "" || opts.ClientSecret == "" {
			return nil, fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET are required for api mode")
		}
		return NewAPIClient(
			opts.ClientID,
			opts.ClientSecret,
			opts.Username,
			opts.Password,
			opts.UserAgent,
			opts.RateInterval,
		)
	case ModePublic:
		if opts.UserAgent == "" {
			return nil, fmt.Errorf("REDDIT_USER_AGENT is required for public mode")
		}
		return NewPublicClient(opts.UserAgent, opts.BaseURL, opts.RateInterval)
	case ModeMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", opts.Mode)
	}
}
