package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/venturescout/outreach-cli/internal/enrich"
	"github.com/venturescout/outreach-cli/internal/fetcher"
	"github.com/venturescout/outreach-cli/internal/ingest"
	"github.com/venturescout/outreach-cli/internal/store"
	"github.com/venturescout/outreach-cli/pkg/directory"
	"github.com/venturescout/outreach-cli/pkg/github"
)

// openStore opens the configured database backend.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "", "sqlite":
		return store.NewSQLite(cfg.Store.SQLitePath)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// newCoordinator wires the enrichment coordinator from config.
func newCoordinator(st store.Store) *enrich.Coordinator {
	fetch := fetcher.New(fetcher.Options{
		Timeout:      cfg.Enrich.HTTPTimeout(),
		RateLimiters: fetcher.DefaultRateLimiters(),
	})
	profile := enrich.NewProfileAdapter(fetch,
		cfg.Directory.StaticBaseURL, cfg.Directory.PagesBaseURL, cfg.Enrich.Pacing())

	gh := github.NewClient(cfg.CodeHost.Token, github.WithBaseURL(cfg.CodeHost.BaseURL))
	codeHost := enrich.NewCodeHostAdapter(gh, cfg.Enrich.Pacing())

	return enrich.NewCoordinator(st, profile, codeHost,
		enrich.WithPacing(cfg.Enrich.Pacing()),
		enrich.WithBudgetLimit(cfg.Enrich.BudgetLimit),
		enrich.WithCandidateLimit(cfg.Enrich.CandidateLimit),
		enrich.WithMaxContacts(cfg.Enrich.MaxContacts),
	)
}

// newSyncer wires the directory syncer from config.
func newSyncer() *ingest.Syncer {
	client := directory.NewClient(
		directory.WithPagedBaseURL(cfg.Directory.PagedBaseURL),
		directory.WithStaticBaseURL(cfg.Directory.StaticBaseURL),
	)
	return ingest.New(client, cfg.Directory.PagesBaseURL)
}
