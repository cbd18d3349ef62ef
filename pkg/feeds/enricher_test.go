package feeds

import (
	"context"
	"testing"
	"time"
)

func TestEnricherDescribe(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"https://news.example/a": {statusCode: 200, body: []byte(`<html><head>
<meta property="og:description" content="  Descrizione OG  ">
<meta name="description" content="plain">
</head></html>`)},
		"https://news.example/c": {statusCode: 404, body: []byte("missing")},
	}}

	enr := NewEnricher(client, nil)
	var waits []time.Duration
	enr.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	feed := Feed{ID: "f", RequestDelayMs: 60000}

	got, err := enr.Describe(context.Background(), feed, "https://news.example/a")
	if err != nil || got != "Descrizione OG" {
		t.Fatalf("expected og description, got %q (%v)", got, err)
	}
	if _, err := enr.Describe(context.Background(), feed, "https://news.example/c"); err == nil {
		t.Fatalf("expected error for 404 page")
	}
	if len(client.calls) != 2 {
		t.Fatalf("expected 2 page fetches, got %v", client.calls)
	}
	if len(waits) != 1 || waits[0] <= 0 {
		t.Fatalf("second fetch must wait for the request delay, waits=%v", waits)
	}
}

func TestEnricherDescribeStopsOnCancelledThrottle(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{}}
	enr := NewEnricher(client, nil)
	enr.last = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := enr.Describe(ctx, Feed{ID: "f", RequestDelayMs: 60000}, "https://news.example/a"); err == nil {
		t.Fatalf("expected cancellation error")
	}
	if len(client.calls) != 0 {
		t.Fatalf("no fetch expected after cancellation, got %v", client.calls)
	}
}

func TestParseDescriptionFallsBackToMetaDescription(t *testing.T) {
	got, err := parseDescription([]byte(`<html><head><meta name="description" content="solo description"></head></html>`))
	if err != nil {
		t.Fatalf("parseDescription: %v", err)
	}
	if got != "solo description" {
		t.Fatalf("unexpected description %q", got)
	}
	if _, err := parseDescription([]byte(`<html></html>`)); err == nil {
		t.Fatalf("expected error without meta tags")
	}
}
