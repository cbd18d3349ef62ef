// Package pipeline drives one newsbot run: ledger load, feed walk,
// classification, generation, publication and ledger persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/domain"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/history"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/logger"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/pkg/feeds"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/pkg/publishers"
	"github.com/google/uuid"
)

// DefaultMaxPublications is the per-run publication quota.
const DefaultMaxPublications = 2

// Options tunes a run.
type Options struct {
	FeedsFile       string
	RetentionDays   int
	MaxPublications int
	Author          string
}

// Deps are the adapters a Service drives.
type Deps struct {
	Store     history.Store
	Source    FeedSource
	Generator Generator
	Publisher Publisher
	Logger    logger.Logger
	// Enricher is optional; when set, items without a summary get one from
	// their article page just before they are processed.
	Enricher Enricher
}

// Published describes one article accepted by the publisher.
type Published struct {
	Title      string
	Link       string
	Category   string
	StatusCode int
}

// Report summarizes a run. It is returned alongside errors with whatever
// progress was made before the abort.
type Report struct {
	RunID        string
	Feeds        int
	FeedErrors   int
	Skipped      int
	Published    []Published
	QuotaReached bool
	Aborted      bool
	LedgerSize   int
}

// Service coordinates a single sequential run.
type Service struct {
	store     history.Store
	source    FeedSource
	generator Generator
	publisher Publisher
	enricher  Enricher
	log       logger.Logger
	opts      Options

	now   func() time.Time
	runID func() string
}

// NewService validates deps and applies option defaults.
func NewService(deps Deps, opts Options) (*Service, error) {
	if deps.Store == nil || deps.Source == nil || deps.Generator == nil || deps.Publisher == nil {
		return nil, errors.New("pipeline requires store, source, generator and publisher")
	}
	if strings.TrimSpace(opts.FeedsFile) == "" {
		return nil, errors.New("feeds file is required")
	}
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = history.DefaultRetentionDays
	}
	if opts.MaxPublications <= 0 {
		opts.MaxPublications = DefaultMaxPublications
	}
	if opts.Author == "" {
		opts.Author = domain.DefaultAuthor
	}

	return &Service{
		store:     deps.Store,
		source:    deps.Source,
		generator: deps.Generator,
		publisher: deps.Publisher,
		enricher:  deps.Enricher,
		log:       logger.Ensure(deps.Logger),
		opts:      opts,
		now:       time.Now,
		runID:     uuid.NewString,
	}, nil
}

// Run executes one pass. Any item failure or cancellation aborts the run
// without persisting the ledger.
func (s *Service) Run(ctx context.Context) (Report, error) {
	if s == nil {
		return Report{}, errors.New("pipeline service is not initialized")
	}
	report := Report{RunID: s.runID()}

	entries, err := history.LoadPruned(s.store, s.opts.RetentionDays, s.now())
	if err != nil {
		return report, fmt.Errorf("load history: %w", err)
	}
	ledger := history.NewLedger(entries)

	feedList, err := feeds.Load(s.opts.FeedsFile)
	if err != nil {
		return report, fmt.Errorf("load feeds: %w", err)
	}
	report.Feeds = len(feedList)
	s.log.InfoObj("feeds loaded", "run", map[string]any{
		"run_id":      report.RunID,
		"feeds":       len(feedList),
		"feeds_file":  s.opts.FeedsFile,
		"ledger_size": ledger.Len(),
	})

	for _, f := range feedList {
		if err := ctx.Err(); err != nil {
			return s.abort(&report, fmt.Errorf("run cancelled: %w", err))
		}

		items, err := s.source.Fetch(ctx, f)
		if err != nil {
			report.FeedErrors++
			s.log.WarnObj("feed fetch failed", "feed_error", map[string]any{
				"run_id":  report.RunID,
				"feed_id": f.ID,
				"error":   err.Error(),
			})
			continue
		}

		for _, item := range items {
			if len(report.Published) >= s.opts.MaxPublications {
				report.QuotaReached = true
				break
			}
			if ledger.Contains(item.Link) {
				report.Skipped++
				continue
			}
			if err := ctx.Err(); err != nil {
				return s.abort(&report, fmt.Errorf("run cancelled: %w", err))
			}

			pub, err := s.process(ctx, report.RunID, f, item)
			if err != nil {
				s.log.ErrorObj(fmt.Sprintf("Errore con '%s': %v", item.Title, err), "item_error", map[string]any{
					"run_id": report.RunID,
					"link":   item.Link,
				})
				return s.abort(&report, err)
			}

			ledger.Record(item.Link, s.now())
			report.Published = append(report.Published, pub)
			s.log.InfoObj(fmt.Sprintf("Pubblicato: %s | Categoria: %s | Status: %d", pub.Title, pub.Category, pub.StatusCode), "published", map[string]any{
				"run_id":  report.RunID,
				"feed_id": item.FeedID,
				"link":    pub.Link,
			})
		}
	}

	if err := s.store.Save(ledger.Entries()); err != nil {
		return report, fmt.Errorf("save history: %w", err)
	}
	report.LedgerSize = ledger.Len()

	s.log.InfoObj(fmt.Sprintf("Operazione completata. Articoli pubblicati: %d", len(report.Published)), "run_result", map[string]any{
		"run_id":        report.RunID,
		"published":     len(report.Published),
		"skipped":       report.Skipped,
		"feed_errors":   report.FeedErrors,
		"quota_reached": report.QuotaReached,
		"ledger_size":   report.LedgerSize,
	})
	return report, nil
}

func (s *Service) abort(report *Report, err error) (Report, error) {
	report.Aborted = true
	return *report, err
}

// process classifies, writes and publishes one item.
func (s *Service) process(ctx context.Context, runID string, f feeds.Feed, item domain.FeedItem) (Published, error) {
	if item.Summary == "" && s.enricher != nil {
		// a failed lookup keeps the empty summary
		if desc, err := s.enricher.Describe(ctx, f, item.Link); err == nil {
			item.Summary = desc
		}
	}

	category, err := s.generator.Generate(ctx, classifyPrompt(item.Title, item.Summary), classifyRole)
	if err != nil {
		return Published{}, &StageError{Stage: StageClassify, Title: item.Title, Link: item.Link, Err: err}
	}
	category = strings.TrimSpace(category)
	if !domain.KnownCategory(category) {
		s.log.WarnObj("category outside the known set", "category", map[string]any{
			"run_id":   runID,
			"link":     item.Link,
			"category": category,
		})
	}

	content, err := s.generator.Generate(ctx, articlePrompt(item.Title, item.Summary, item.Link), articleRole)
	if err != nil {
		return Published{}, &StageError{Stage: StageGenerate, Title: item.Title, Link: item.Link, Err: err}
	}

	article := domain.Article{
		Title:       item.Title,
		Content:     content,
		SourceLink:  item.Link,
		Category:    category,
		Author:      s.opts.Author,
		PublishedAt: s.now().UTC(),
	}
	receipt, err := s.publisher.Publish(ctx, publishers.NewEvent(runID, item.FeedID, article, article.PublishedAt))
	if err != nil {
		return Published{}, &StageError{Stage: StagePublish, Title: item.Title, Link: item.Link, Err: err}
	}

	return Published{
		Title:      item.Title,
		Link:       item.Link,
		Category:   category,
		StatusCode: receipt.StatusCode,
	}, nil
}
