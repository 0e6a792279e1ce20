package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/qepting91/reddit-spider/internal/domain"
	"golang.org/x/time/rate"
)

// APIClient talks to the authenticated OAuth API.
type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

func NewAPIClient(id, secret, user, pass, userAgent string, every time.Duration) (*APIClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}

	client, err := reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, err
	}

	// API Rate Limit: ~60 reqs/min (safe buffer)
	if every <= 0 {
		every = time.Second
	}
	limiter := rate.NewLimiter(rate.Every(every), 1)

	return &APIClient{client: client, limiter: limiter}, nil
}

func (ac *APIClient) FetchCommunity(ctx context.Context, name string) (*domain.Community, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, classify("about", name, err)
	}

	sr, _, err := ac.client.Subreddit.Get(ctx, name)
	if err != nil {
		return nil, classify("about", name, fmt.Errorf("authenticated api error: %w", err))
	}
	return communityFromSubreddit(sr), nil
}

func (ac *APIClient) FetchItems(ctx context.Context, name string, page domain.Page) ([]domain.Item, string, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, "", classify("hot", name, err)
	}

	posts, resp, err := ac.client.Subreddit.HotPosts(ctx, name, &reddit.ListOptions{Limit: page.Limit, After: page.After})
	if err != nil {
		return nil, "", classify("hot", name, fmt.Errorf("authenticated api error: %w", err))
	}

	result := make([]domain.Item, 0, len(posts))
	for _, p := range posts {
		result = append(result, itemFromPost(p))
	}
	var next string
	if resp != nil {
		next = resp.After
	}
	return result, next, nil
}

// FetchComments returns the top-level comments of a post. The trailing
// "more" stub of the listing is never followed.
func (ac *APIClient) FetchComments(ctx context.Context, itemID string) ([]domain.Comment, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, classify("comments", itemID, err)
	}

	pc, _, err := ac.client.Post.Get(ctx, itemID)
	if err != nil {
		return nil, classify("comments", itemID, fmt.Errorf("authenticated api error: %w", err))
	}
	if pc == nil {
		return nil, nil
	}
	return commentsFrom(pc.Comments), nil
}

func communityFromSubreddit(sr *reddit.Subreddit) *domain.Community {
	if sr == nil {
		return nil
	}
	return &domain.Community{
		Name:        sr.Name,
		Title:       sr.Title,
		Description: sr.Description,
		Subscribers: sr.Subscribers,
	}
}

func itemFromPost(p *reddit.Post) domain.Item {
	return domain.Item{
		ID:     p.ID,
		Title:  p.Title,
		Body:   p.Body,
		URL:    p.URL,
		Author: p.Author,
		Score:  p.Score,
	}
}

func commentsFrom(cs []*reddit.Comment) []domain.Comment {
	out := make([]domain.Comment, 0, len(cs))
	for _, c := range cs {
		if c == nil {
			continue
		}
		out = append(out, domain.Comment{Body: c.Body, Author: c.Author, Score: c.Score})
	}
	return out
}
