package publishers

import (
	"time"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/domain"
)

// Event represents an article announced downstream.
type Event struct {
	RunID       string         `json:"run_id"`
	FeedID      string         `json:"feed_id"`
	Article     domain.Article `json:"article"`
	AnnouncedAt time.Time      `json:"announced_at"`
}

// NewEvent constructs an Event for the given run, feed and article, announced at at.
func NewEvent(runID, feedID string, article domain.Article, at time.Time) Event {
	return Event{
		RunID:       runID,
		FeedID:      feedID,
		Article:     article,
		AnnouncedAt: at.UTC(),
	}
}

// attributes are attached to queue messages so consumers can filter without decoding.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{}
	if e.FeedID != "" {
		attrs["feed_id"] = e.FeedID
	}
	if e.Article.Category != "" {
		attrs["category"] = e.Article.Category
	}
	if e.RunID != "" {
		attrs["run_id"] = e.RunID
	}
	return attrs
}
