package feeds

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/logger"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
)

// Enricher looks up an article's description meta tags. Calls are spaced by
// the feed's request delay so one site is not hammered.
type Enricher struct {
	client HTTPClient
	log    logger.Logger

	mu    sync.Mutex
	last  time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewEnricher constructs an enricher with the provided HTTP client (or default).
func NewEnricher(client HTTPClient, log logger.Logger) *Enricher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &Enricher{client: client, log: logger.Ensure(log), sleep: sleepCtx}
}

// Describe fetches link and returns its description. Failures are logged and
// returned; callers keep the item's empty summary.
func (e *Enricher) Describe(ctx context.Context, f Feed, link string) (string, error) {
	if err := e.throttle(ctx, f.RequestDelay()); err != nil {
		return "", err
	}

	desc, err := e.describe(ctx, f, link)
	if err != nil {
		e.log.WarnObj("article description scrape failed", "enrich_error", map[string]any{
			"feed_id": f.ID,
			"url":     link,
			"error":   err.Error(),
		})
		return "", err
	}
	return desc, nil
}

func (e *Enricher) throttle(ctx context.Context, delay time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.last.IsZero() && delay > 0 {
		if wait := delay - time.Since(e.last); wait > 0 {
			if err := e.sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	e.last = time.Now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (e *Enricher) describe(ctx context.Context, f Feed, link string) (string, error) {
	resp, err := e.client.Get(ctx, link, Headers(f))
	if err != nil {
		return "", fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("status %d body: %s", resp.StatusCode(), responseSnippet(resp.Body()))
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}
	return parseDescription(body)
}

func parseDescription(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	for _, sel := range []string{
		`meta[property="og:description"]`,
		`meta[name="twitter:description"]`,
		`meta[name="description"]`,
	} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return PlainText(v, maxSummaryRunes), nil
			}
		}
	}
	return "", fmt.Errorf("no description meta found")
}
