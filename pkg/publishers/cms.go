package publishers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/domain"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/pkg/httpclient"
)

// DefaultCMSURL is the Strapi collection articles are created in.
const DefaultCMSURL = "https://finai24-cms.onrender.com/api/articoli"

// strapiEnvelope is the body Strapi expects when creating an entry.
type strapiEnvelope struct {
	Data strapiArticle `json:"data"`
}

type strapiArticle struct {
	Titolo      string `json:"titolo"`
	Contenuto   string `json:"contenuto"`
	Fonte       string `json:"fonte"`
	Categoria   string `json:"categoria"`
	Autore      string `json:"autore"`
	PublishedAt string `json:"publishedAt"`
}

// CMS creates articles in a Strapi collection.
type CMS struct {
	url    string
	token  string
	client httpclient.Client
	now    func() time.Time
}

// NewCMS builds the Strapi publisher. A nil client falls back to resty.
func NewCMS(url, token string, client httpclient.Client, timeout time.Duration) (*CMS, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		url = DefaultCMSURL
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("strapi api token is required")
	}
	if client == nil {
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = httpclient.NewRestyClient(timeout)
	}
	return &CMS{url: url, token: token, client: client, now: time.Now}, nil
}

// Publish posts the article and returns the response status and body.
// A non-2xx response yields both the receipt and a *StatusError.
func (c *CMS) Publish(ctx context.Context, article domain.Article) (Receipt, error) {
	published := article.PublishedAt
	if published.IsZero() {
		published = c.now()
	}
	author := article.Author
	if author == "" {
		author = domain.DefaultAuthor
	}

	body := strapiEnvelope{Data: strapiArticle{
		Titolo:      article.Title,
		Contenuto:   article.Content,
		Fonte:       article.SourceLink,
		Categoria:   article.Category,
		Autore:      author,
		PublishedAt: published.UTC().Format(time.RFC3339Nano),
	}}

	resp, err := c.client.Post(ctx, c.url, map[string]string{
		"Authorization": "Bearer " + c.token,
	}, body)
	if err != nil {
		return Receipt{}, fmt.Errorf("strapi request: %w", err)
	}

	receipt := Receipt{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	if !receipt.OK() {
		return receipt, &StatusError{StatusCode: receipt.StatusCode, Body: readBodySnippet(resp.Body())}
	}
	return receipt, nil
}
