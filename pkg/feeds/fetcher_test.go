package feeds

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/domain"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/pkg/httpclient"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Finanza</title>
    <item>
      <title> BCE alza i tassi </title>
      <link>https://news.example/bce</link>
      <description><![CDATA[<p>La <b>BCE</b> ha deciso.</p>]]></description>
    </item>
    <item>
      <title>Senza link</title>
    </item>
    <item>
      <title>Borsa</title>
      <link>https://news.example/borsa</link>
    </item>
  </channel>
</rss>`

const sampleSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"
        xmlns:news="http://www.google.com/schemas/sitemap-news/0.9">
  <url>
    <loc>https://news.example/article-1</loc>
    <news:news>
      <news:title>Headline 1</news:title>
    </news:news>
  </url>
  <url>
    <loc>https://news.example/article-2</loc>
  </url>
  <url>
    <loc>   </loc>
  </url>
</urlset>`

// fakeResponse lets us stub the httpclient.Client interface.
type fakeResponse struct {
	body       []byte
	statusCode int
}

func (f fakeResponse) Body() []byte    { return f.body }
func (f fakeResponse) StatusCode() int { return f.statusCode }

// fakeHTTPClient returns canned responses per URL to avoid network calls.
type fakeHTTPClient struct {
	responses map[string]fakeResponse
	calls     []string
	headers   []map[string]string
}

func (f *fakeHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	f.calls = append(f.calls, url)
	f.headers = append(f.headers, headers)
	resp, ok := f.responses[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return resp, nil
}

func (f *fakeHTTPClient) Post(context.Context, string, map[string]string, any) (httpclient.Response, error) {
	return nil, errors.New("unexpected post")
}

func TestRSSFetcherKeepsOrderAndCleansSummary(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"https://news.example/rss": {body: []byte(sampleRSS), statusCode: 200},
	}}
	items, err := NewRSSFetcher(client).Fetch(context.Background(), Feed{ID: "fin", URL: "https://news.example/rss"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := []domain.FeedItem{
		{FeedID: "fin", Title: "BCE alza i tassi", Link: "https://news.example/bce", Summary: "La BCE ha deciso."},
		{FeedID: "fin", Title: "Borsa", Link: "https://news.example/borsa"},
	}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %#v", len(want), items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("item %d: expected %#v, got %#v", i, want[i], items[i])
		}
	}
	if client.headers[0]["User-Agent"] == "" {
		t.Fatalf("expected user agent header on feed download")
	}
}

func TestRSSFetcherStatusError(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"https://news.example/rss": {body: []byte("busy"), statusCode: 503},
	}}
	_, err := NewRSSFetcher(client).Fetch(context.Background(), Feed{ID: "fin", URL: "https://news.example/rss"})
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestRSSFetcherParseError(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"https://news.example/rss": {body: []byte("definitely not a feed"), statusCode: 200},
	}}
	if _, err := NewRSSFetcher(client).Fetch(context.Background(), Feed{ID: "fin", URL: "https://news.example/rss"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSitemapFetcher(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"https://news.example/sitemap.xml": {body: []byte(sampleSitemap), statusCode: 200},
	}}
	items, err := NewSitemapFetcher(client).Fetch(context.Background(), Feed{ID: "gn", URL: "https://news.example/sitemap.xml"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %#v", items)
	}
	if items[0].Title != "Headline 1" || items[1].Title != "https://news.example/article-2" {
		t.Fatalf("unexpected titles %#v", items)
	}
}

func TestRegistryDispatchesByType(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"https://news.example/rss":         {body: []byte(sampleRSS), statusCode: 200},
		"https://news.example/sitemap.xml": {body: []byte(sampleSitemap), statusCode: 200},
	}}
	reg := DefaultRegistry(client)

	rss, err := reg.Fetch(context.Background(), Feed{ID: "a", URL: "https://news.example/rss"})
	if err != nil || len(rss) != 2 {
		t.Fatalf("rss fetch: items=%d err=%v", len(rss), err)
	}
	gn, err := reg.Fetch(context.Background(), Feed{ID: "b", Type: TypeGoogleNewsSitemap, URL: "https://news.example/sitemap.xml"})
	if err != nil || len(gn) != 2 {
		t.Fatalf("sitemap fetch: items=%d err=%v", len(gn), err)
	}
	if _, err := reg.FetcherFor(Feed{ID: "c", Type: "atom-over-carrier-pigeon"}); err == nil {
		t.Fatalf("expected unknown type error")
	}
}

func TestPlainText(t *testing.T) {
	cases := map[string]string{
		"":                                  "",
		"  plain   text \n here ":           "plain text here",
		"<p>Ciao <a href='x'>mondo</a></p>": "Ciao mondo",
		"Rischi &amp; opportunità":          "Rischi & opportunità",
		"<script>alert(1)</script>ok":       "ok",
	}
	for in, want := range cases {
		if got := PlainText(in, 0); got != want {
			t.Fatalf("PlainText(%q) = %q, want %q", in, got, want)
		}
	}
	if got := PlainText("abcdefghij", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
}
