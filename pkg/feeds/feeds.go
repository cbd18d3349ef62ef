package feeds

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Package feeds turns feed locators into ordered feed items.

const (
	TypeRSS               = "rss"
	TypeGoogleNewsSitemap = "google_news_sitemap"
)

// Feed is one configured source. Plain-text lists only set ID and URL.
type Feed struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Type           string         `json:"type" yaml:"type"`
	URL            string         `json:"url" yaml:"url"`
	RequestDelayMs int            `json:"request_delay_ms" yaml:"request_delay_ms"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type registry struct {
	Feeds []Feed `json:"feeds" yaml:"feeds"`
}

var defaultRequestDelayMs = 500

// StorageError reports that the feed list could not be read.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("read feeds file %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Load reads the feed list at path. Files ending in .yaml, .yml or .json are
// decoded as registries; anything else is one locator per non-blank line.
// Order is preserved and duplicates are kept, as each line is fetched.
func Load(path string) ([]Feed, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("feeds file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Err: err}
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".json":
		return parseRegistry(raw, ext)
	default:
		out, err := parseLocators(raw)
		if err != nil {
			return nil, &StorageError{Path: path, Err: err}
		}
		return out, nil
	}
}

func parseLocators(raw []byte) ([]Feed, error) {
	var out []Feed
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, sanitizeFeed(Feed{ID: line, URL: line}))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return out, nil
}

type unmarshalFn func([]byte, any) error

func parseRegistry(data []byte, ext string) ([]Feed, error) {
	fn := unmarshalFn(yaml.Unmarshal)
	name := "yaml"
	if ext == ".json" {
		fn, name = json.Unmarshal, "json"
	}

	var reg registry
	if err := fn(data, &reg); err != nil {
		return nil, fmt.Errorf("decode %s feeds: %w", name, err)
	}

	seen := make(map[string]struct{}, len(reg.Feeds))
	out := make([]Feed, 0, len(reg.Feeds))
	for i := range reg.Feeds {
		f := sanitizeFeed(reg.Feeds[i])
		if err := validateFeed(f); err != nil {
			return nil, fmt.Errorf("feeds[%d]: %w", i, err)
		}
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("duplicate feed id %q", f.ID)
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}

func sanitizeFeed(f Feed) Feed {
	f.URL = strings.TrimSpace(f.URL)
	f.ID = strings.TrimSpace(f.ID)
	if f.ID == "" {
		f.ID = f.URL
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	if f.Type == "" {
		f.Type = TypeRSS
	}
	if f.Config == nil {
		f.Config = map[string]any{}
	}
	if f.RequestDelayMs <= 0 {
		f.RequestDelayMs = defaultRequestDelayMs
	}
	return f
}

func validateFeed(f Feed) error {
	if f.URL == "" {
		return fmt.Errorf("url is required for feed %q", f.ID)
	}
	switch f.Type {
	case TypeRSS, TypeGoogleNewsSitemap:
	default:
		return fmt.Errorf("unsupported type %q for feed %q", f.Type, f.ID)
	}
	return nil
}

// RequestDelay returns the per-request throttle used when scraping article pages.
func (f Feed) RequestDelay() time.Duration {
	if f.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(f.RequestDelayMs) * time.Millisecond
}
