package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/domain"
)

func TestCMSPublishSendsStrapiEnvelope(t *testing.T) {
	var got struct {
		Data map[string]string `json:"data"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Fatalf("unexpected authorization %q", auth)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":7}}`))
	}))
	defer srv.Close()

	cms, err := NewCMS(srv.URL, "tok", nil, 2*time.Second)
	if err != nil {
		t.Fatalf("NewCMS: %v", err)
	}
	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	receipt, err := cms.Publish(context.Background(), domain.Article{
		Title:       "Titolo",
		Content:     "Testo",
		SourceLink:  "https://news.example/1",
		Category:    "mercati",
		PublishedAt: at,
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if receipt.StatusCode != http.StatusCreated || receipt.Body != `{"data":{"id":7}}` {
		t.Fatalf("unexpected receipt %+v", receipt)
	}

	want := map[string]string{
		"titolo":      "Titolo",
		"contenuto":   "Testo",
		"fonte":       "https://news.example/1",
		"categoria":   "mercati",
		"autore":      domain.DefaultAuthor,
		"publishedAt": "2026-03-02T08:30:00Z",
	}
	for k, v := range want {
		if got.Data[k] != v {
			t.Fatalf("field %s = %q, want %q", k, got.Data[k], v)
		}
	}
}

func TestCMSPublishNon2xxIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"status":403}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	cms, err := NewCMS(srv.URL, "tok", nil, time.Second)
	if err != nil {
		t.Fatalf("NewCMS: %v", err)
	}
	receipt, err := cms.Publish(context.Background(), domain.Article{Title: "t"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusForbidden || receipt.StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected status err=%d receipt=%d", statusErr.StatusCode, receipt.StatusCode)
	}
}

func TestNewCMSRequiresToken(t *testing.T) {
	if _, err := NewCMS("", " ", nil, 0); err == nil {
		t.Fatalf("expected missing token error")
	}
	cms, err := NewCMS("", "tok", nil, 0)
	if err != nil {
		t.Fatalf("NewCMS: %v", err)
	}
	if cms.url != DefaultCMSURL {
		t.Fatalf("expected default url, got %q", cms.url)
	}
}
