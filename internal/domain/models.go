package domain

import "context"

// Record types written to the output files.
const (
	RecordSubmission = "submission"
	RecordComment    = "comment"

	// SubmissionAuthor stands in for the poster on submission records.
	SubmissionAuthor = "OP"
)

// Community is the metadata needed to judge a candidate.
type Community struct {
	Name        string
	Title       string
	Description string
	Subscribers int
}

// Item is one submission harvested from a community.
type Item struct {
	ID       string
	Title    string
	Body     string
	URL      string
	Author   string
	Score    int
	Comments []Comment
}

// Comment is a top-level reply to an Item.
type Comment struct {
	Body   string
	Author string
	Score  int
}

// Record is the clean data structure for storage, one per line.
type Record struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Body   string `json:"body"`
	Author string `json:"author"`
	Score  int    `json:"score"`
	URL    string `json:"url,omitempty"`
}

// SubmissionRecord flattens an Item.
func SubmissionRecord(it Item) Record {
	return Record{
		ID:     it.ID,
		Type:   RecordSubmission,
		Body:   it.Body,
		Author: SubmissionAuthor,
		Score:  it.Score,
		URL:    it.URL,
	}
}

// CommentRecord flattens a Comment, linking it to its parent item.
func CommentRecord(parentID string, c Comment) Record {
	return Record{
		ID:     parentID,
		Type:   RecordComment,
		Body:   c.Body,
		Author: c.Author,
		Score:  c.Score,
	}
}

// Page selects one slice of a community listing.
type Page struct {
	Limit int
	After string
}

// Collector defines the interface for data fetching
type Collector interface {
	FetchCommunity(ctx context.Context, name string) (*Community, error)
	// FetchItems returns one page of items in the platform's hot ranking and
	// the cursor for the next page ("" when the listing is exhausted).
	FetchItems(ctx context.Context, name string, page Page) ([]Item, string, error)
	// FetchComments returns the top-level comments of an item without
	// following "load more" placeholders.
	FetchComments(ctx context.Context, itemID string) ([]Comment, error)
}
