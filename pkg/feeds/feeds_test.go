package feeds

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadPlainTextSkipsBlankLines(t *testing.T) {
	path := writeFile(t, "feeds.txt", "https://a.example/rss\n\n   \n  https://b.example/feed.xml  \r\nhttps://a.example/rss\n")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"https://a.example/rss", "https://b.example/feed.xml", "https://a.example/rss"}
	if len(got) != len(want) {
		t.Fatalf("expected %d feeds, got %#v", len(want), got)
	}
	for i, f := range got {
		if f.URL != want[i] || f.ID != want[i] {
			t.Fatalf("feed %d: expected %q, got %#v", i, want[i], f)
		}
		if f.Type != TypeRSS {
			t.Fatalf("plain text feeds default to rss, got %q", f.Type)
		}
	}
}

func TestLoadEmptyPlainTextList(t *testing.T) {
	got, err := Load(writeFile(t, "feeds.txt", "\n\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no feeds, got %#v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	var storageErr *StorageError
	if !errors.As(err, &storageErr) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected StorageError wrapping not-exist, got %v", err)
	}
}

func TestLoadYAMLRegistry(t *testing.T) {
	path := writeFile(t, "feeds.yaml", `
feeds:
  - id: sole24ore
    name: Il Sole 24 Ore
    url: https://www.ilsole24ore.com/rss/finanza.xml
    request_delay_ms: 750
    config:
      user_agent: UA
  - url: https://news.example/sitemap.xml
    type: Google_News_Sitemap
`)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 feeds, got %d", len(got))
	}
	if got[0].ID != "sole24ore" || got[0].Type != TypeRSS || got[0].RequestDelay() != 750*time.Millisecond {
		t.Fatalf("unexpected first feed %#v", got[0])
	}
	if Headers(got[0])["User-Agent"] != "UA" {
		t.Fatalf("expected configured user agent, got %#v", Headers(got[0]))
	}
	if got[1].ID != "https://news.example/sitemap.xml" || got[1].Type != TypeGoogleNewsSitemap {
		t.Fatalf("unexpected second feed %#v", got[1])
	}
}

func TestLoadRegistryRejectsDuplicatesAndUnknownTypes(t *testing.T) {
	dup := writeFile(t, "feeds.json", `{"feeds":[{"id":"x","url":"https://a"},{"id":"x","url":"https://b"}]}`)
	if _, err := Load(dup); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	unknown := writeFile(t, "feeds.yml", "feeds:\n  - url: https://a\n    type: telegram\n")
	if _, err := Load(unknown); err == nil {
		t.Fatalf("expected unsupported type error")
	}
}

func TestHeadersDefaultUserAgent(t *testing.T) {
	h := Headers(Feed{})
	if h["User-Agent"] == "" {
		t.Fatalf("expected default user agent")
	}
	if _, ok := h["Accept"]; ok {
		t.Fatalf("empty values must be skipped")
	}
}
