package enrich

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturescout/outreach-cli/internal/model"
	"github.com/venturescout/outreach-cli/internal/store"
)

type stubProfile struct {
	contacts []model.Contact
	err      error
	calls    int
	times    []time.Time
}

func (s *stubProfile) Discover(context.Context, model.Company) ([]model.Contact, error) {
	s.calls++
	s.times = append(s.times, time.Now())
	return s.contacts, s.err
}

type stubCodeHost struct {
	contacts   []model.Contact
	consume    int
	err        error
	allowances []int
	times      []time.Time
}

func (s *stubCodeHost) Search(_ context.Context, _ model.Company, _ string, maxCalls int) ([]model.Contact, int, error) {
	s.allowances = append(s.allowances, maxCalls)
	s.times = append(s.times, time.Now())
	if s.err != nil {
		return nil, 1, s.err
	}
	consumed := s.consume
	if consumed > maxCalls {
		consumed = maxCalls
	}
	return s.contacts, consumed, nil
}

func newEnrichStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })
	return st
}

func seedCompany(t *testing.T, st *store.SQLiteStore, name, slug, website string, score int) model.Company {
	t.Helper()
	ctx := context.Background()
	_, err := st.UpsertCompanies(ctx, []model.Company{{
		Name: name, Slug: slug, Website: website, Batch: "W25",
	}})
	require.NoError(t, err)

	companies, _, err := st.ListCompanies(ctx, store.CompanyFilter{Search: name})
	require.NoError(t, err)
	require.NotEmpty(t, companies)
	c := companies[0]
	require.NoError(t, st.UpdateRelevanceScore(ctx, c.ID, score))
	return c
}

func TestCoordinatorRun_EndToEnd(t *testing.T) {
	t.Parallel()
	st := newEnrichStore(t)
	ctx := context.Background()
	acme := seedCompany(t, st, "Acme", "acme", "https://www.acme.com", 40)

	profile := &stubProfile{contacts: []model.Contact{
		{Name: "Alice Smith", Role: "CEO", Source: model.SourceProfileScrape},
	}}
	codeHost := &stubCodeHost{
		contacts: []model.Contact{
			{Name: "Bob Ray", Email: "bob@acme.com", Source: model.SourceCodeHost},
		},
		consume: 3,
	}

	co := NewCoordinator(st, profile, codeHost, WithPacing(0))
	summary, err := co.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.EntitiesConsidered)
	assert.Equal(t, 1, summary.EntitiesEnriched)
	assert.Equal(t, 3, summary.CodeHostCalls)

	// 1 profile + 1 code host + 4 email patterns for Alice (Bob already has
	// an email) + company page + 2 people-search links
	assert.Equal(t, 9, summary.NewContacts)

	contacts, err := st.GetContacts(ctx, acme.ID)
	require.NoError(t, err)
	assert.Len(t, contacts, 9)

	var emails []string
	for _, c := range contacts {
		if c.Source == model.SourceEmailPattern {
			emails = append(emails, c.Email)
		}
	}
	assert.ElementsMatch(t, []string{
		"alice@acme.com", "alice.smith@acme.com", "asmith@acme.com", "alicesmith@acme.com",
	}, emails)
}

func TestCoordinatorRun_PacesSourceCalls(t *testing.T) {
	t.Parallel()
	st := newEnrichStore(t)
	ctx := context.Background()
	seedCompany(t, st, "Acme", "acme", "https://acme.com", 40)
	seedCompany(t, st, "Globex", "globex", "https://globex.com", 30)

	profile := &stubProfile{contacts: []model.Contact{
		{Name: "Alice Smith", Role: "CEO", Source: model.SourceProfileScrape},
	}}
	codeHost := &stubCodeHost{consume: 1}

	const pacing = 40 * time.Millisecond
	co := NewCoordinator(st, profile, codeHost, WithPacing(pacing))
	_, err := co.Run(ctx)
	require.NoError(t, err)

	require.Len(t, profile.times, 2)
	require.Len(t, codeHost.times, 2)

	// Successive source calls never go out back to back: each successful
	// network-bound call is followed by the pacing delay.
	assert.GreaterOrEqual(t, codeHost.times[0].Sub(profile.times[0]), pacing)
	assert.GreaterOrEqual(t, profile.times[1].Sub(codeHost.times[0]), pacing)
	assert.GreaterOrEqual(t, codeHost.times[1].Sub(profile.times[1]), pacing)
}

func TestCoordinatorRun_Idempotent(t *testing.T) {
	t.Parallel()
	st := newEnrichStore(t)
	ctx := context.Background()
	seedCompany(t, st, "Acme", "acme", "https://acme.com", 40)

	profile := &stubProfile{contacts: []model.Contact{
		{Name: "Alice Smith", Source: model.SourceProfileScrape},
	}}
	codeHost := &stubCodeHost{}

	// A high contact threshold keeps the company selectable on the second
	// run, so only the dedup layer prevents duplicates.
	co := NewCoordinator(st, profile, codeHost, WithPacing(0), WithMaxContacts(100))

	first, err := co.Run(ctx)
	require.NoError(t, err)
	assert.Positive(t, first.NewContacts)

	second, err := co.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, second.EntitiesConsidered)
	assert.Zero(t, second.NewContacts, "unchanged upstream data yields nothing new")
	assert.Zero(t, second.EntitiesEnriched)
}

func TestCoordinatorRun_SkipsSaturatedCompanies(t *testing.T) {
	t.Parallel()
	st := newEnrichStore(t)
	ctx := context.Background()
	seedCompany(t, st, "Acme", "acme", "https://acme.com", 40)

	profile := &stubProfile{contacts: []model.Contact{
		{Name: "Alice Smith", Source: model.SourceProfileScrape},
		{Name: "Bob Ray", Source: model.SourceProfileScrape},
	}}
	co := NewCoordinator(st, profile, &stubCodeHost{}, WithPacing(0))

	_, err := co.Run(ctx)
	require.NoError(t, err)

	summary, err := co.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.EntitiesConsidered, "companies with enough contacts drop out of selection")
	assert.Equal(t, 1, profile.calls, "no sources run on the second pass")
}

func TestCoordinatorRun_FailureIsolation(t *testing.T) {
	t.Parallel()
	st := newEnrichStore(t)
	ctx := context.Background()
	seedCompany(t, st, "Acme", "acme", "https://acme.com", 40)
	seedCompany(t, st, "Beta", "beta", "https://beta.com", 30)
	seedCompany(t, st, "Gamma", "gamma", "https://gamma.com", 20)

	profile := &stubProfile{err: eris.New("profile source down")}
	codeHost := &stubCodeHost{err: eris.New("code host down")}

	co := NewCoordinator(st, profile, codeHost, WithPacing(0))
	summary, err := co.Run(ctx)

	require.NoError(t, err, "source failures never abort the run")
	assert.Equal(t, 3, summary.EntitiesConsidered)
	assert.Equal(t, 3, profile.calls)
	assert.Equal(t, 3, summary.EntitiesEnriched, "network links still produce the company page record")

	entries, err := st.ListAudit(ctx, store.AuditFilter{Component: "enrich", Limit: 100})
	require.NoError(t, err)
	byAction := make(map[string]int)
	for _, e := range entries {
		if e.Outcome == model.OutcomeError {
			byAction[e.Action]++
		}
	}
	assert.Equal(t, 3, byAction["profile_scrape_error"])
	assert.Equal(t, 3, byAction["codehost_error"])
}

func TestCoordinatorRun_BudgetCeiling(t *testing.T) {
	t.Parallel()
	st := newEnrichStore(t)
	ctx := context.Background()
	seedCompany(t, st, "Acme", "acme", "https://acme.com", 40)
	seedCompany(t, st, "Beta", "beta", "https://beta.com", 30)
	seedCompany(t, st, "Gamma", "gamma", "https://gamma.com", 20)

	codeHost := &stubCodeHost{consume: 100}
	co := NewCoordinator(st, &stubProfile{}, codeHost, WithPacing(0), WithBudgetLimit(5))

	summary, err := co.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 5, summary.CodeHostCalls, "code-host calls never exceed the ceiling")
	assert.Equal(t, []int{5}, codeHost.allowances, "later companies skip the exhausted source")
}

func TestCoordinatorRun_NoEmailPatternsWithoutIdentities(t *testing.T) {
	t.Parallel()
	st := newEnrichStore(t)
	ctx := context.Background()
	acme := seedCompany(t, st, "Acme", "acme", "https://acme.com", 40)

	co := NewCoordinator(st, &stubProfile{}, &stubCodeHost{}, WithPacing(0))
	_, err := co.Run(ctx)
	require.NoError(t, err)

	contacts, err := st.GetContacts(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 1, "only the company page link is produced")
	assert.Equal(t, model.SourceNetworkURL, contacts[0].Source)
	for _, c := range contacts {
		assert.NotEqual(t, model.SourceEmailPattern, c.Source, "no fallback address without identities")
	}
}

func TestCoordinatorRun_NoTargets(t *testing.T) {
	t.Parallel()
	st := newEnrichStore(t)

	co := NewCoordinator(st, &stubProfile{}, &stubCodeHost{}, WithPacing(0))
	summary, err := co.Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, summary.EntitiesConsidered)
	assert.Zero(t, summary.NewContacts)

	entries, err := st.ListAudit(context.Background(), store.AuditFilter{Component: "enrich", Limit: 10})
	require.NoError(t, err)
	var actions []string
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, "no_targets")
}
