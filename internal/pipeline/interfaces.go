package pipeline

import (
	"context"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/domain"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/pkg/feeds"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/pkg/publishers"
)

// FeedSource yields the items of one feed in feed order.
type FeedSource interface {
	Fetch(ctx context.Context, f feeds.Feed) ([]domain.FeedItem, error)
}

// Generator answers a prompt under a system role.
type Generator interface {
	Generate(ctx context.Context, prompt, role string) (string, error)
}

// Publisher delivers an article and reports the sink's response.
type Publisher interface {
	Publish(ctx context.Context, evt publishers.Event) (publishers.Receipt, error)
}

// Enricher looks up a description for an item that arrived without a summary.
type Enricher interface {
	Describe(ctx context.Context, f feeds.Feed, link string) (string, error)
}
