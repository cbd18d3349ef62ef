package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/config"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/generator"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/history"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/logger"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/pipeline"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/pkg/feeds"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/pkg/httpclient"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/pkg/publishers"
)

// Newsbot represents the newsbot runtime. It owns the adapters a run needs
// and releases them on Close.
type Newsbot struct {
	cfg       *config.Config
	store     history.Store
	generator generator.Generator
	fanout    *publishers.Fanout
	service   *pipeline.Service
	log       logger.Logger
}

// NewNewsbot builds a newsbot runtime from configuration.
func NewNewsbot(ctx context.Context, cfg *config.Config, log logger.Logger) (*Newsbot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	bot := &Newsbot{cfg: cfg, log: log}
	ok := false
	defer func() {
		if !ok {
			_ = bot.Close()
		}
	}()

	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	bot.store = store
	log.InfoObj("history store initialized", "storage_config", map[string]any{
		"type":           cfg.HistoryStore,
		"path":           StorePath(cfg),
		"retention_days": cfg.RetentionDays,
	})

	client := httpclient.NewRestyClient(cfg.RequestTimeout)
	source := feeds.DefaultRegistry(client)
	var enricher pipeline.Enricher
	if cfg.EnrichMissingSummary {
		enricher = feeds.NewEnricher(client, log)
	}

	gen, err := generator.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init generator: %w", err)
	}
	bot.generator = gen

	cms, err := publishers.NewCMS(cfg.StrapiAPIURL, cfg.StrapiAPIToken, client, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("init cms publisher: %w", err)
	}
	mirrors, err := buildMirrors(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	bot.fanout = publishers.NewFanout(cms, mirrors, log)

	service, err := pipeline.NewService(pipeline.Deps{
		Store:     store,
		Source:    source,
		Generator: gen,
		Publisher: bot.fanout,
		Logger:    log,
		Enricher:  enricher,
	}, pipeline.Options{
		FeedsFile:       cfg.FeedsFile,
		RetentionDays:   cfg.RetentionDays,
		MaxPublications: cfg.MaxPublications,
		Author:          cfg.ArticleAuthor,
	})
	if err != nil {
		return nil, fmt.Errorf("init pipeline: %w", err)
	}
	bot.service = service

	ok = true
	return bot, nil
}

// buildMirrors loads the optional mirror registry. No file means no mirrors.
func buildMirrors(ctx context.Context, cfg *config.Config, log logger.Logger) ([]publishers.Publisher, error) {
	if strings.TrimSpace(cfg.PublishersFile) == "" {
		return nil, nil
	}

	enabled, err := publishers.LoadMirrors(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	mirrors, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("mirror publishers loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return mirrors, nil
}

// Run executes a single pipeline pass.
func (n *Newsbot) Run(ctx context.Context) (pipeline.Report, error) {
	if n == nil || n.service == nil {
		return pipeline.Report{}, fmt.Errorf("newsbot is not initialized")
	}

	n.log.InfoObj(fmt.Sprintf("Avvio FinAI24 Newsbot - modello attivo: %s", n.generator.Model()), "newsbot_state", map[string]any{
		"provider":         n.cfg.GeneratorProvider,
		"model":            n.generator.Model(),
		"max_publications": n.cfg.MaxPublications,
		"mirrors":          n.fanout.Size(),
	})
	return n.service.Run(ctx)
}

// Close releases the store, generator and mirror clients.
func (n *Newsbot) Close() error {
	if n == nil {
		return nil
	}
	var errs []error
	if n.fanout != nil {
		errs = append(errs, n.fanout.Close())
	}
	if n.generator != nil {
		errs = append(errs, n.generator.Close())
	}
	if n.store != nil {
		errs = append(errs, n.store.Close())
	}
	return errors.Join(errs...)
}

// StorePath returns the location of the configured history backend.
func StorePath(cfg *config.Config) string {
	if cfg.HistoryStore == history.StoreBBolt {
		return cfg.BBoltPath
	}
	return cfg.HistoryFile
}

// OpenStore opens the configured history backend.
func OpenStore(cfg *config.Config) (history.Store, error) {
	store, err := history.NewStore(cfg.HistoryStore, StorePath(cfg))
	if err != nil {
		return nil, fmt.Errorf("init history store: %w", err)
	}
	return store, nil
}

// LoadHistory returns the ledger as a run would see it after pruning.
func LoadHistory(cfg *config.Config, now time.Time) ([]history.Entry, error) {
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	entries, err := history.LoadPruned(store, cfg.RetentionDays, now)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return entries, nil
}
