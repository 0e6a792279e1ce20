package collector

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/qepting91/reddit-spider/internal/domain"
)

// MockCommunity is one community of the in-memory graph.
type MockCommunity struct {
	domain.Community
	Items []domain.Item
}

// MockClient implements domain.Collector over a fixed community graph, so a
// whole crawl can be exercised without network access.
type MockClient struct {
	communities map[string]MockCommunity
	comments    map[string][]domain.Comment
}

// NewMockClient returns a client over a small laptop-themed graph.
func NewMockClient() *MockClient {
	return NewMockClientFrom(demoGraph())
}

// NewMockClientFrom builds a client over the given communities. Item
// comments are served through FetchComments and stripped from listings.
func NewMockClientFrom(communities []MockCommunity) *MockClient {
	mc := &MockClient{
		communities: make(map[string]MockCommunity, len(communities)),
		comments:    make(map[string][]domain.Comment),
	}
	for _, c := range communities {
		items := make([]domain.Item, len(c.Items))
		for i, it := range c.Items {
			mc.comments[it.ID] = it.Comments
			it.Comments = nil
			items[i] = it
		}
		c.Items = items
		mc.communities[strings.ToLower(c.Name)] = c
	}
	return mc
}

func (mc *MockClient) lookup(op, name string) (MockCommunity, error) {
	c, ok := mc.communities[strings.ToLower(name)]
	if !ok {
		return c, classify(op, name, &StatusError{StatusCode: http.StatusNotFound})
	}
	return c, nil
}

func (mc *MockClient) FetchCommunity(ctx context.Context, name string) (*domain.Community, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify("about", name, err)
	}
	c, err := mc.lookup("about", name)
	if err != nil {
		return nil, err
	}
	community := c.Community
	return &community, nil
}

// FetchItems pages through a community using the item index as cursor.
func (mc *MockClient) FetchItems(ctx context.Context, name string, page domain.Page) ([]domain.Item, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", classify("hot", name, err)
	}
	c, err := mc.lookup("hot", name)
	if err != nil {
		return nil, "", err
	}
	start := 0
	if page.After != "" {
		if start, err = strconv.Atoi(page.After); err != nil {
			return nil, "", classify("hot", name, errors.New("bad cursor "+page.After))
		}
	}
	start = min(start, len(c.Items))
	end := min(start+max(page.Limit, 0), len(c.Items))
	var next string
	if end < len(c.Items) {
		next = strconv.Itoa(end)
	}
	return append([]domain.Item(nil), c.Items[start:end]...), next, nil
}

func (mc *MockClient) FetchComments(ctx context.Context, itemID string) ([]domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify("comments", itemID, err)
	}
	return append([]domain.Comment(nil), mc.comments[itemID]...), nil
}

func demoGraph() []MockCommunity {
	return []MockCommunity{
		{
			Community: domain.Community{Name: "GamingLaptops", Title: "Gaming Laptops", Description: "Everything about the gaming laptop", Subscribers: 350000},
			Items: []domain.Item{
				{ID: "gl1", Title: "Thermal paste swap", Body: "Repasted my laptop, temps dropped 10C. Guide over at r/LaptopRepair", URL: "https://www.reddit.com/r/GamingLaptops/comments/gl1", Author: "heatsink", Score: 412,
					Comments: []domain.Comment{
						{Body: "Which paste? r/thinkpad folks swear by PTM7950", Author: "coolbreeze", Score: 55},
						{Body: "Please read the rules.", Author: "AutoModerator", Score: 1},
						{Body: "Undervolt too, check r/Undervolting", Author: "volts", Score: 20},
					}},
				{ID: "gl2", Title: "Which to buy?", Body: "Budget 1200, need a good screen and battery. Also asked r/SuggestALaptop", URL: "https://www.reddit.com/r/GamingLaptops/comments/gl2", Author: "shopper", Score: 90,
					Comments: []domain.Comment{
						{Body: "Try r/gaming too", Author: "lurker", Score: 3},
					}},
				{ID: "gl3", Title: "Look at this setup", URL: "https://i.imgur.com/setup.jpg", Author: "pics", Score: 800},
			},
		},
		{
			Community: domain.Community{Name: "LaptopRepair", Title: "Laptop Repair", Description: "Fixing hinges, keyboards and screens", Subscribers: 42000},
			Items: []domain.Item{
				{ID: "lr1", Title: "Hinge snapped", Body: "Left hinge broke on my notebook. Replacement part?", URL: "https://www.reddit.com/r/LaptopRepair/comments/lr1", Author: "fixer", Score: 33,
					Comments: []domain.Comment{{Body: "Check r/LaptopDeals for donor units", Author: "parts", Score: 4}}},
				{ID: "lr2", Title: "Keyboard backlight dead", Body: "Backlight on laptop keyboard stopped working", URL: "https://www.reddit.com/r/LaptopRepair/comments/lr2", Author: "dim", Score: 12},
			},
		},
		{
			Community: domain.Community{Name: "thinkpad", Title: "ThinkPad", Description: "The ThinkPad notebook community", Subscribers: 250000},
			Items: []domain.Item{
				{ID: "tp1", Title: "X1 battery life", Body: "New laptop battery lasts 9 hours", URL: "https://www.reddit.com/r/thinkpad/comments/tp1", Author: "red_nub", Score: 150},
				{ID: "tp2", Title: "Trackpad vs trackpoint", Body: "The touchpad is fine but trackpoint forever", URL: "https://www.reddit.com/r/thinkpad/comments/tp2", Author: "nub", Score: 70},
			},
		},
		{
			Community: domain.Community{Name: "SuggestALaptop", Title: "Suggest a Laptop", Description: "Laptop buying advice", Subscribers: 180000},
			Items: []domain.Item{
				{ID: "sl1", Title: "OLED laptop under 1000?", Body: "Want an oled screen laptop", URL: "https://www.reddit.com/r/SuggestALaptop/comments/sl1", Author: "buyer", Score: 8},
			},
		},
		{
			Community: domain.Community{Name: "Undervolting", Title: "Undervolting", Description: "Lower voltage, lower temps", Subscribers: 60},
		},
		{
			Community: domain.Community{Name: "gaming", Title: "Gaming", Description: "Video games", Subscribers: 40000000},
		},
		{
			Community: domain.Community{Name: "LaptopDeals", Title: "Laptop Deals", Description: "Discounts", Subscribers: 90000},
			Items: []domain.Item{
				{ID: "ld1", Title: "Console bundle", Body: "Console deal, not a laptop", URL: "https://www.reddit.com/r/LaptopDeals/comments/ld1", Author: "deals", Score: 5},
			},
		},
	}
}
