package domain

import (
	"strings"
	"time"
)

// Domain contains core models shared by adapters and the pipeline.

// FeedItem is one entry read from a feed. Link is the item's identity.
type FeedItem struct {
	FeedID  string
	Title   string
	Link    string
	Summary string
}

// Article is the payload handed to the publishing adapter.
type Article struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	SourceLink  string    `json:"source_link"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
}

// DefaultAuthor is the byline attached to every generated article.
const DefaultAuthor = "FinAI24 Newsbot"

// Categories is the closed set the classifier is asked to choose from, in prompt order.
var Categories = []string{
	"macro",
	"mercati",
	"geopolitica",
	"criptovalute",
	"tecnologia",
	"bancario-finanziario",
	"energia",
	"commodities",
	"startup",
	"altro",
}

// KnownCategory reports whether c is one of Categories (exact match).
func KnownCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryList renders Categories the way the classification prompt lists them.
func CategoryList() string {
	return strings.Join(Categories, ", ")
}
