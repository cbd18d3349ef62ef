package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/domain"
)

type googleNewsSitemap struct {
	URLs []googleNewsURL `xml:"url"`
}

type googleNewsURL struct {
	Loc       string `xml:"loc"`
	NewsTitle string `xml:"news>title"`
}

func parseGoogleNewsSitemap(data []byte) ([]googleNewsURL, error) {
	var sitemap googleNewsSitemap
	if err := xml.Unmarshal(data, &sitemap); err != nil {
		return nil, err
	}
	return sitemap.URLs, nil
}

// sitemapFetcher reads Google News sitemaps. Entries carry no summary.
type sitemapFetcher struct {
	client HTTPClient
}

// NewSitemapFetcher builds a fetcher for Google News sitemap feeds.
func NewSitemapFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &sitemapFetcher{client: client}
}

func (f *sitemapFetcher) Type() string { return TypeGoogleNewsSitemap }

func (f *sitemapFetcher) Fetch(ctx context.Context, feed Feed) ([]domain.FeedItem, error) {
	if strings.TrimSpace(feed.URL) == "" {
		return nil, fmt.Errorf("feed %q url is empty", feed.ID)
	}

	raw, err := download(ctx, f.client, feed)
	if err != nil {
		return nil, err
	}

	urls, err := parseGoogleNewsSitemap(raw)
	if err != nil {
		return nil, fmt.Errorf("decode google news sitemap %s: %w", feed.ID, err)
	}

	items := make([]domain.FeedItem, 0, len(urls))
	for _, entry := range urls {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			continue
		}
		title := strings.TrimSpace(entry.NewsTitle)
		if title == "" {
			title = loc
		}
		items = append(items, domain.FeedItem{
			FeedID: feed.ID,
			Title:  title,
			Link:   loc,
		})
	}
	return items, nil
}
