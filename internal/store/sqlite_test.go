package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturescout/outreach-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func seedCompany(t *testing.T, s *SQLiteStore, name, slug string, score int) model.Company {
	t.Helper()
	ctx := context.Background()
	_, err := s.UpsertCompanies(ctx, []model.Company{{
		Name: name, Slug: slug, Website: "https://" + slug + ".com",
		Batch: "W25", IsHiring: true,
	}})
	require.NoError(t, err)

	companies, _, err := s.ListCompanies(ctx, CompanyFilter{Search: name})
	require.NoError(t, err)
	require.NotEmpty(t, companies)
	c := companies[0]
	if score != 0 {
		require.NoError(t, s.UpdateRelevanceScore(ctx, c.ID, score))
		c.RelevanceScore = score
	}
	return c
}

func TestUpsertCompanies(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.UpsertCompanies(ctx, []model.Company{
		{Name: "Acme", Slug: "acme", OneLiner: "infra for robots", Batch: "W25", TeamSize: 4, IsHiring: true,
			Industries: []string{"B2B", "Infrastructure"}},
		{Name: "Beta Labs", Slug: "beta-labs", Batch: "S24"},
		{Name: "", Slug: "nameless"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "rows with empty names are skipped")

	// re-upserting the same slug updates in place and keeps the score
	acme := seedCompany(t, s, "Acme", "acme", 45)
	n, err = s.UpsertCompanies(ctx, []model.Company{
		{Name: "Acme", Slug: "acme", OneLiner: "updated one-liner", Batch: "W25"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetCompany(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated one-liner", got.OneLiner)
	assert.Equal(t, 45, got.RelevanceScore)

	_, total, err := s.ListCompanies(ctx, CompanyFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total, "no duplicate row created on re-upsert")
}

func TestListCompaniesFilters(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertCompanies(ctx, []model.Company{
		{Name: "Acme", Slug: "acme", Batch: "W25", IsHiring: true, OneLiner: "developer tools"},
		{Name: "Beta", Slug: "beta", Batch: "S24", IsHiring: false, OneLiner: "fintech rails"},
		{Name: "Gamma", Slug: "gamma", Batch: "W25", IsHiring: false, LongDescription: "ai developer platform"},
	})
	require.NoError(t, err)

	companies, total, err := s.ListCompanies(ctx, CompanyFilter{Batches: []string{"W25"}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, companies, 2)

	hiring := true
	companies, _, err = s.ListCompanies(ctx, CompanyFilter{Hiring: &hiring})
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme", companies[0].Name)

	companies, _, err = s.ListCompanies(ctx, CompanyFilter{Search: "developer"})
	require.NoError(t, err)
	assert.Len(t, companies, 2)

	_, total, err = s.ListCompanies(ctx, CompanyFilter{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestListCandidates(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	high := seedCompany(t, s, "High", "high", 80)
	mid := seedCompany(t, s, "Mid", "mid", 50)
	crowded := seedCompany(t, s, "Crowded", "crowded", 90)
	seedCompany(t, s, "Unscored", "unscored", 0)

	for _, name := range []string{"Ann Lee", "Bob Ray"} {
		inserted, err := s.InsertContactIfNew(ctx, crowded.ID, model.Contact{
			Name: name, Source: model.SourceProfileScrape,
		})
		require.NoError(t, err)
		require.True(t, inserted)
	}

	candidates, total, err := s.ListCandidates(ctx, 0, 100, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total, "unscored companies are not considered")
	require.Len(t, candidates, 2, "companies with enough contacts are excluded")
	assert.Equal(t, high.ID, candidates[0].ID, "ordered by score descending")
	assert.Equal(t, mid.ID, candidates[1].ID)

	candidates, total, err = s.ListCandidates(ctx, 0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, candidates, 0, "highest-scored company is saturated")
}

func TestInsertContactIfNew(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s, "Acme", "acme", 10)
	other := seedCompany(t, s, "Beta", "beta", 10)

	inserted, err := s.InsertContactIfNew(ctx, c.ID, model.Contact{
		Name: "Jane Doe", Role: "Founder", Email: "jane@acme.com", Source: model.SourceProfileScrape,
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	// same email, different name and source
	inserted, err = s.InsertContactIfNew(ctx, c.ID, model.Contact{
		Name: "J. Doe", Email: "jane@acme.com", Source: model.SourceCodeHost,
	})
	require.NoError(t, err)
	assert.False(t, inserted, "duplicate email within a company is rejected")

	// same name and source, no email
	inserted, err = s.InsertContactIfNew(ctx, c.ID, model.Contact{
		Name: "Jane Doe", Source: model.SourceProfileScrape,
	})
	require.NoError(t, err)
	assert.False(t, inserted, "same name from the same source is rejected")

	// same name from a different source is a new record
	inserted, err = s.InsertContactIfNew(ctx, c.ID, model.Contact{
		Name: "Jane Doe", Source: model.SourceNetworkURL, NetworkURL: "https://www.linkedin.com/search/results/people/?keywords=Jane%20Doe",
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	// same email is fine for a different company
	inserted, err = s.InsertContactIfNew(ctx, other.ID, model.Contact{
		Name: "Jane Doe", Email: "jane@acme.com", Source: model.SourceProfileScrape,
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	// empty names never insert
	inserted, err = s.InsertContactIfNew(ctx, c.ID, model.Contact{Name: "   ", Source: model.SourceProfileScrape})
	require.NoError(t, err)
	assert.False(t, inserted)

	contacts, err := s.GetContacts(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}

func TestOutreachFollowups(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s, "Acme", "acme", 10)

	old := time.Now().UTC().Add(-5 * 24 * time.Hour)
	recent := time.Now().UTC().Add(-1 * 24 * time.Hour)

	_, err := s.CreateOutreach(ctx, model.Outreach{CompanyID: c.ID, Status: model.OutreachSent, SentAt: &old})
	require.NoError(t, err)
	_, err = s.CreateOutreach(ctx, model.Outreach{CompanyID: c.ID, Status: model.OutreachSent, SentAt: &recent})
	require.NoError(t, err)
	_, err = s.CreateOutreach(ctx, model.Outreach{CompanyID: c.ID, Status: model.OutreachDrafted})
	require.NoError(t, err)

	cutoff := time.Now().UTC().Add(-3 * 24 * time.Hour)
	flagged, err := s.FlagFollowups(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)

	// flagging is idempotent
	flagged, err = s.FlagFollowups(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 0, flagged)

	n, err := s.CountNeedsFollowup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	counts, err := s.OutreachStatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["sent"])
	assert.Equal(t, 1, counts["drafted"])
}

func TestAuditLog(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s, "Acme", "acme", 10)

	require.NoError(t, s.AppendAudit(ctx, model.AuditEntry{
		Component: "enrich", Action: "start", RunID: "run-1",
	}))
	require.NoError(t, s.AppendAudit(ctx, model.AuditEntry{
		Component: "enrich", Action: "profile_scrape", Detail: "2 contacts",
		CompanyID: &c.ID, RunID: "run-1", Outcome: model.OutcomeSuccess,
	}))
	require.NoError(t, s.AppendAudit(ctx, model.AuditEntry{
		Component: "sync", Action: "fetch_error", Outcome: model.OutcomeError,
	}))

	entries, err := s.ListAudit(ctx, AuditFilter{RunID: "run-1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.OutcomeInfo, entries[1].Outcome, "outcome defaults to info")
	assert.Equal(t, model.OutcomeSuccess, entries[0].Outcome)

	entries, err = s.ListAudit(ctx, AuditFilter{Component: "sync"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fetch_error", entries[0].Action)
}

func TestStats(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	a := seedCompany(t, s, "Acme", "acme", 40)
	seedCompany(t, s, "Beta", "beta", 0)

	_, err := s.InsertContactIfNew(ctx, a.ID, model.Contact{Name: "Jane Doe", Source: model.SourceProfileScrape})
	require.NoError(t, err)
	_, err = s.InsertContactIfNew(ctx, a.ID, model.Contact{Name: "gh-jane", Source: model.SourceCodeHost})
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalCompanies)
	assert.Equal(t, 2, st.HiringCompanies)
	assert.Equal(t, 1, st.ScoredCompanies)
	assert.Equal(t, 2, st.TotalContacts)
	assert.Equal(t, 1, st.CompaniesEnriched)
	assert.Equal(t, 1, st.ContactsBySource["profile_scrape"])
	assert.Equal(t, 1, st.ContactsBySource["codehost_search"])
}
