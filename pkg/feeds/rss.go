package feeds

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/domain"
	"github.com/mmcdole/gofeed"
)

const maxSummaryRunes = 1500

// rssFetcher handles RSS, Atom and JSON feeds through gofeed.
type rssFetcher struct {
	client HTTPClient
	parser *gofeed.Parser
}

// NewRSSFetcher builds a fetcher that downloads with client and parses with gofeed.
func NewRSSFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &rssFetcher{client: client, parser: gofeed.NewParser()}
}

func (f *rssFetcher) Type() string { return TypeRSS }

func (f *rssFetcher) Fetch(ctx context.Context, feed Feed) ([]domain.FeedItem, error) {
	if strings.TrimSpace(feed.URL) == "" {
		return nil, fmt.Errorf("feed %q url is empty", feed.ID)
	}

	raw, err := download(ctx, f.client, feed)
	if err != nil {
		return nil, err
	}

	parsed, err := f.parser.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feed.ID, err)
	}

	items := make([]domain.FeedItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil {
			continue
		}
		link := strings.TrimSpace(it.Link)
		if link == "" {
			// without a link there is nothing to deduplicate on
			continue
		}
		summary := it.Description
		if strings.TrimSpace(summary) == "" {
			summary = it.Content
		}
		items = append(items, domain.FeedItem{
			FeedID:  feed.ID,
			Title:   strings.TrimSpace(it.Title),
			Link:    link,
			Summary: PlainText(summary, maxSummaryRunes),
		})
	}
	return items, nil
}
