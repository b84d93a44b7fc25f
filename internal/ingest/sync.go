// Package ingest pulls company listings from the startup directory and
// loads them into the store.
package ingest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/venturescout/outreach-cli/internal/model"
	"github.com/venturescout/outreach-cli/pkg/directory"
)

// maxPagesPerBatch bounds the paged walk in case the API misreports its
// page count.
const maxPagesPerBatch = 40

// Store is the persistence surface the syncer needs.
type Store interface {
	UpsertCompanies(ctx context.Context, companies []model.Company) (int, error)
}

// Syncer fetches listings for a set of batches from both directory
// endpoints, merges them by slug, and upserts the result.
type Syncer struct {
	client      directory.Client
	pageBaseURL string
}

// New creates a syncer. pageBaseURL is used to build a directory profile
// URL for listings that do not carry one.
func New(client directory.Client, pageBaseURL string) *Syncer {
	return &Syncer{client: client, pageBaseURL: strings.TrimRight(pageBaseURL, "/")}
}

// Sync fetches all batches concurrently and upserts the merged companies.
// Returns how many rows were written. A batch that fails entirely is
// logged and skipped; the sync fails only when every batch fails.
func (s *Syncer) Sync(ctx context.Context, st Store, batches []string) (int, error) {
	var (
		mu     sync.Mutex
		bySlug = make(map[string]model.Company)
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			listings, err := s.fetchBatch(gctx, batch)
			if err != nil {
				zap.L().Warn("batch fetch failed", zap.String("batch", batch), zap.Error(err))
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			for _, l := range listings {
				merge(bySlug, s.toCompany(l, batch))
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, eris.Wrap(err, "ingest: sync")
	}
	if len(batches) > 0 && failed == len(batches) {
		return 0, eris.New("ingest: all batches failed")
	}

	companies := make([]model.Company, 0, len(bySlug))
	for _, c := range bySlug {
		companies = append(companies, c)
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].Slug < companies[j].Slug })

	n, err := st.UpsertCompanies(ctx, companies)
	if err != nil {
		return 0, eris.Wrap(err, "ingest: upsert companies")
	}
	zap.L().Info("sync complete",
		zap.Int("batches", len(batches)-failed),
		zap.Int("companies", n))
	return n, nil
}

// fetchBatch combines the paged API walk with the static batch dump. The
// static dump usually carries richer descriptions; the paged API is the
// fresher of the two.
func (s *Syncer) fetchBatch(ctx context.Context, batch string) ([]directory.Listing, error) {
	var listings []directory.Listing

	var pagedErr error
	for page := 1; page <= maxPagesPerBatch; page++ {
		p, err := s.client.PagedCompanies(ctx, batch, page)
		if err != nil {
			pagedErr = err
			break
		}
		listings = append(listings, p.Companies...)
		if !p.HasNext() {
			break
		}
	}

	static, staticErr := s.client.BatchCompanies(ctx, batch)
	listings = append(listings, static...)

	if len(listings) == 0 {
		if pagedErr != nil {
			return nil, pagedErr
		}
		if staticErr != nil {
			return nil, staticErr
		}
	}
	return listings, nil
}

func (s *Syncer) toCompany(l directory.Listing, batch string) model.Company {
	if l.Batch == "" {
		l.Batch = batch
	}
	dirURL := l.URL
	if dirURL == "" && l.Slug != "" {
		dirURL = s.pageBaseURL + "/" + l.Slug
	}
	return model.Company{
		Name:            l.Name,
		Slug:            l.Slug,
		Website:         l.Website,
		OneLiner:        l.OneLiner,
		LongDescription: l.LongDescription,
		TeamSize:        int(l.TeamSize),
		Batch:           l.Batch,
		Status:          l.Status,
		Industries:      l.Industries,
		Tags:            l.Tags,
		Locations:       l.Locations,
		IsHiring:        l.IsHiring,
		LogoURL:         l.LogoURL,
		DirectoryURL:    dirURL,
	}
}

// merge keeps the record with more detail when a slug appears in both
// sources: longer description wins field by field, booleans OR together.
func merge(bySlug map[string]model.Company, c model.Company) {
	if c.Slug == "" || c.Name == "" {
		return
	}
	prev, ok := bySlug[c.Slug]
	if !ok {
		bySlug[c.Slug] = c
		return
	}

	if len(c.LongDescription) < len(prev.LongDescription) {
		c.LongDescription = prev.LongDescription
	}
	if c.OneLiner == "" {
		c.OneLiner = prev.OneLiner
	}
	if c.Website == "" {
		c.Website = prev.Website
	}
	if c.LogoURL == "" {
		c.LogoURL = prev.LogoURL
	}
	if c.TeamSize == 0 {
		c.TeamSize = prev.TeamSize
	}
	if len(c.Industries) == 0 {
		c.Industries = prev.Industries
	}
	if len(c.Tags) == 0 {
		c.Tags = prev.Tags
	}
	if len(c.Locations) == 0 {
		c.Locations = prev.Locations
	}
	c.IsHiring = c.IsHiring || prev.IsHiring
	bySlug[c.Slug] = c
}
