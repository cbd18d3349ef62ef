package feeds

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/domain"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/pkg/httpclient"
)

// HTTPClient aliases the shared httpclient.Client interface for clarity within feeds.
type HTTPClient = httpclient.Client

// Fetcher retrieves the items of one feed, in the order the feed lists them.
type Fetcher interface {
	Type() string
	Fetch(ctx context.Context, f Feed) ([]domain.FeedItem, error)
}

// Registry resolves fetchers by feed type and is itself usable as a Fetcher.
type Registry struct {
	mu     sync.RWMutex
	byType map[string]Fetcher
}

// NewRegistry builds a registry from the given fetchers.
func NewRegistry(fetchers ...Fetcher) *Registry {
	r := &Registry{byType: make(map[string]Fetcher)}
	for _, f := range fetchers {
		r.Register(f)
	}
	return r
}

// Register associates f with its type, replacing any previous fetcher.
func (r *Registry) Register(f Fetcher) {
	if f == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(f.Type()))
	if key == "" {
		return
	}
	r.mu.Lock()
	r.byType[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the given feed.
func (r *Registry) FetcherFor(f Feed) (Fetcher, error) {
	typ := strings.ToLower(strings.TrimSpace(f.Type))
	if typ == "" {
		typ = TypeRSS
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if fetcher, ok := r.byType[typ]; ok {
		return fetcher, nil
	}
	return nil, fmt.Errorf("no fetcher registered for feed %q (type %q)", f.ID, f.Type)
}

// Fetch resolves the fetcher for f and returns its items.
func (r *Registry) Fetch(ctx context.Context, f Feed) ([]domain.FeedItem, error) {
	fetcher, err := r.FetcherFor(f)
	if err != nil {
		return nil, err
	}
	return fetcher.Fetch(ctx, f)
}

// DefaultHTTPClient returns a tuned client for feed downloads.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// DefaultRegistry wires up the known feed types.
func DefaultRegistry(client HTTPClient) *Registry {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return NewRegistry(NewRSSFetcher(client), NewSitemapFetcher(client))
}

func download(ctx context.Context, client HTTPClient, f Feed) ([]byte, error) {
	resp, err := client.Get(ctx, f.URL, Headers(f))
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", f.ID, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("feed %s returned status %d body: %s", f.ID, resp.StatusCode(), responseSnippet(body))
	}
	return body, nil
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
