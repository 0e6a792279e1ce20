package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/qepting91/reddit-spider/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultPublicURL serves the unauthenticated .json listings.
const DefaultPublicURL = "https://www.reddit.com"

// PublicClient reads the public .json endpoints without credentials.
type PublicClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	baseURL    string
}

type child struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listing struct {
	Data struct {
		After    string  `json:"after"`
		Children []child `json:"children"`
	} `json:"data"`
}

type aboutResponse struct {
	Data struct {
		DisplayName       string `json:"display_name"`
		Title             string `json:"title"`
		PublicDescription string `json:"public_description"`
		Subscribers       int    `json:"subscribers"`
	} `json:"data"`
}

type postData struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Selftext string `json:"selftext"`
	URL      string `json:"url"`
	Author   string `json:"author"`
	Score    int    `json:"score"`
}

type commentData struct {
	Body   string `json:"body"`
	Author string `json:"author"`
	Score  int    `json:"score"`
}

func NewPublicClient(userAgent, baseURL string, every time.Duration) (*PublicClient, error) {
	if baseURL == "" {
		baseURL = DefaultPublicURL
	}
	// Public JSON Limit: 1 req / 2 seconds (Stricter)
	if every <= 0 {
		every = 2 * time.Second
	}
	return &PublicClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(every), 1),
		userAgent:  userAgent,
		baseURL:    baseURL,
	}, nil
}

func (pc *PublicClient) FetchCommunity(ctx context.Context, name string) (*domain.Community, error) {
	var about aboutResponse
	if err := pc.get(ctx, "/r/"+url.PathEscape(name)+"/about.json", nil, &about); err != nil {
		return nil, classify("about", name, err)
	}
	return &domain.Community{
		Name:        about.Data.DisplayName,
		Title:       about.Data.Title,
		Description: about.Data.PublicDescription,
		Subscribers: about.Data.Subscribers,
	}, nil
}

func (pc *PublicClient) FetchItems(ctx context.Context, name string, page domain.Page) ([]domain.Item, string, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(page.Limit))
	if page.After != "" {
		q.Set("after", page.After)
	}
	var l listing
	if err := pc.get(ctx, "/r/"+url.PathEscape(name)+"/hot.json", q, &l); err != nil {
		return nil, "", classify("hot", name, err)
	}

	var items []domain.Item
	for _, c := range l.Data.Children {
		if c.Kind != "t3" {
			continue
		}
		var d postData
		if err := json.Unmarshal(c.Data, &d); err != nil {
			return nil, "", classify("hot", name, err)
		}
		items = append(items, domain.Item{
			ID:     d.ID,
			Title:  d.Title,
			Body:   d.Selftext,
			URL:    d.URL,
			Author: d.Author,
			Score:  d.Score,
		})
	}
	return items, l.Data.After, nil
}

// FetchComments reads the comment listing of a post with depth 1, so only
// top-level comments come back; "more" stubs are dropped.
func (pc *PublicClient) FetchComments(ctx context.Context, itemID string) ([]domain.Comment, error) {
	q := url.Values{}
	q.Set("depth", "1")
	var pair []listing
	if err := pc.get(ctx, "/comments/"+url.PathEscape(itemID)+".json", q, &pair); err != nil {
		return nil, classify("comments", itemID, err)
	}
	if len(pair) < 2 {
		return nil, nil
	}

	var comments []domain.Comment
	for _, c := range pair[1].Data.Children {
		if c.Kind != "t1" {
			continue
		}
		var d commentData
		if err := json.Unmarshal(c.Data, &d); err != nil {
			return nil, classify("comments", itemID, err)
		}
		comments = append(comments, domain.Comment{Body: d.Body, Author: d.Author, Score: d.Score})
	}
	return comments, nil
}

func (pc *PublicClient) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := pc.limiter.Wait(ctx); err != nil {
		return err
	}

	if q == nil {
		q = url.Values{}
	}
	q.Set("raw_json", "1")
	u := fmt.Sprintf("%s%s?%s", pc.baseURL, path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", pc.userAgent)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
