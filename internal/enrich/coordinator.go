package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/venturescout/outreach-cli/internal/model"
)

const auditComponent = "enrich"

// Store is the persistence surface the coordinator needs.
type Store interface {
	ListCandidates(ctx context.Context, minScore, limit, excludeContactCountGTE int) ([]model.Company, int, error)
	InsertContactIfNew(ctx context.Context, companyID int64, c model.Contact) (bool, error)
	AppendAudit(ctx context.Context, e model.AuditEntry) error
}

// ProfileSource discovers contacts from a company's directory profile.
type ProfileSource interface {
	Discover(ctx context.Context, company model.Company) ([]model.Contact, error)
}

// CodeHostSource searches the code host for people related to a company.
// maxCalls is the remaining run budget; implementations must not consume
// more calls than that.
type CodeHostSource interface {
	Search(ctx context.Context, company model.Company, domain string, maxCalls int) ([]model.Contact, int, error)
}

// Option configures the coordinator.
type Option func(*Coordinator)

// WithPacing overrides the delay between network-bound source calls.
func WithPacing(d time.Duration) Option {
	return func(c *Coordinator) {
		c.pacing = d
	}
}

// WithBudgetLimit overrides the per-run code-host call ceiling.
func WithBudgetLimit(n int) Option {
	return func(c *Coordinator) {
		c.budgetLimit = n
	}
}

// WithCandidateLimit overrides how many top-scored companies are pulled.
func WithCandidateLimit(n int) Option {
	return func(c *Coordinator) {
		c.candidateLimit = n
	}
}

// WithMaxContacts overrides the contact count at which a company is
// considered enriched enough.
func WithMaxContacts(n int) Option {
	return func(c *Coordinator) {
		c.maxContacts = n
	}
}

// Coordinator runs the four contact sources against the highest-scored
// under-enriched companies, one company at a time. Sources run in a fixed
// order because later ones consume identities discovered by earlier ones;
// a failing source is logged and skipped, never fatal for the company or
// the run.
type Coordinator struct {
	store    Store
	profile  ProfileSource
	codeHost CodeHostSource

	pacing         time.Duration
	budgetLimit    int
	candidateLimit int
	maxContacts    int
}

// NewCoordinator creates a coordinator with default limits.
func NewCoordinator(store Store, profile ProfileSource, codeHost CodeHostSource, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:          store,
		profile:        profile,
		codeHost:       codeHost,
		pacing:         1500 * time.Millisecond,
		budgetLimit:    50,
		candidateLimit: 100,
		maxContacts:    2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one enrichment pass and returns aggregate counts. Source
// failures surface only in the audit log; the returned error is non-nil
// only when the candidate selection itself fails.
func (co *Coordinator) Run(ctx context.Context) (*model.EnrichmentSummary, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))

	co.audit(ctx, model.AuditEntry{
		Action: "start", RunID: runID,
		Detail: "Starting enrichment pass over profile, code host, email patterns and network links",
	})

	candidates, topScored, err := co.store.ListCandidates(ctx, 0, co.candidateLimit, co.maxContacts)
	if err != nil {
		co.audit(ctx, model.AuditEntry{
			Action: "candidates_error", RunID: runID, Outcome: model.OutcomeError,
			Detail: err.Error(),
		})
		return nil, eris.Wrap(err, "enrich: list candidates")
	}

	summary := &model.EnrichmentSummary{EntitiesConsidered: len(candidates)}
	if len(candidates) == 0 {
		co.audit(ctx, model.AuditEntry{
			Action: "no_targets", RunID: runID,
			Detail: "No companies to enrich (all have enough contacts or no scored companies)",
		})
		log.Info("enrichment pass found no targets")
		return summary, nil
	}

	co.audit(ctx, model.AuditEntry{
		Action: "targets_found", RunID: runID,
		Detail: fmt.Sprintf("Found %d companies to enrich (of %d top-scored)", len(candidates), topScored),
	})

	budget := NewBudget(co.budgetLimit)
	for _, company := range candidates {
		inserted := co.enrichCompany(ctx, company, budget, runID)
		if inserted > 0 {
			summary.EntitiesEnriched++
			summary.NewContacts += inserted
		}
	}
	summary.CodeHostCalls = budget.Used()

	co.audit(ctx, model.AuditEntry{
		Action: "complete", RunID: runID, Outcome: model.OutcomeSuccess,
		Detail: fmt.Sprintf("Enriched %d companies, found %d new contacts (code-host calls used: %d)",
			summary.EntitiesEnriched, summary.NewContacts, summary.CodeHostCalls),
	})
	log.Info("enrichment pass complete",
		zap.Int("considered", summary.EntitiesConsidered),
		zap.Int("enriched", summary.EntitiesEnriched),
		zap.Int("new_contacts", summary.NewContacts),
		zap.Int("codehost_calls", summary.CodeHostCalls))

	return summary, nil
}

// enrichCompany runs all four sources for one company and returns how many
// new contacts were stored. Identities from stored contacts feed forward
// into the pattern sources.
func (co *Coordinator) enrichCompany(ctx context.Context, company model.Company, budget *Budget, runID string) int {
	domain := DeriveDomain(company.Website)
	var identities []model.Contact
	newContacts := 0

	insert := func(contacts []model.Contact, feed bool) bool {
		for _, c := range contacts {
			ok, err := co.store.InsertContactIfNew(ctx, company.ID, c)
			if err != nil {
				co.audit(ctx, model.AuditEntry{
					Action: "store_error", CompanyID: &company.ID, RunID: runID, Outcome: model.OutcomeError,
					Detail: fmt.Sprintf("Storing contact for %s failed: %s", company.Name, clip(err.Error())),
				})
				return false
			}
			if ok {
				newContacts++
				if feed {
					identities = append(identities, c)
				}
			}
		}
		return true
	}

	// Source 1: directory profile.
	contacts, err := co.profile.Discover(ctx, company)
	if err != nil {
		co.audit(ctx, model.AuditEntry{
			Action: "profile_scrape_error", CompanyID: &company.ID, RunID: runID, Outcome: model.OutcomeError,
			Detail: fmt.Sprintf("Profile scrape failed for %s: %s", company.Name, clip(err.Error())),
		})
	} else {
		if !insert(contacts, true) {
			return newContacts
		}
		if len(contacts) > 0 {
			co.audit(ctx, model.AuditEntry{
				Action: "profile_scrape", CompanyID: &company.ID, RunID: runID, Outcome: model.OutcomeSuccess,
				Detail: fmt.Sprintf("Found %d contacts from profile for %s", len(contacts), company.Name),
			})
		}
		pause(ctx, co.pacing)
	}

	// Source 2: code-host search, gated on the run budget.
	if remaining := budget.Remaining(); remaining > 0 {
		contacts, calls, err := co.codeHost.Search(ctx, company, domain, remaining)
		budget.Consume(calls)
		if err != nil {
			co.audit(ctx, model.AuditEntry{
				Action: "codehost_error", CompanyID: &company.ID, RunID: runID, Outcome: model.OutcomeError,
				Detail: fmt.Sprintf("Code-host search failed for %s: %s", company.Name, clip(err.Error())),
			})
		} else {
			if !insert(contacts, true) {
				return newContacts
			}
			if len(contacts) > 0 {
				co.audit(ctx, model.AuditEntry{
					Action: "codehost_search", CompanyID: &company.ID, RunID: runID, Outcome: model.OutcomeSuccess,
					Detail: fmt.Sprintf("Found %d contacts from code host for %s", len(contacts), company.Name),
				})
			}
			pause(ctx, co.pacing)
		}
	}

	// Source 3: speculative email patterns. Needs a domain and at least one
	// discovered identity; there is no generic fallback address.
	if domain != "" && len(identities) > 0 {
		patterns := EmailPatterns(identities, domain)
		if !insert(patterns, false) {
			return newContacts
		}
		if len(patterns) > 0 {
			co.audit(ctx, model.AuditEntry{
				Action: "email_pattern", CompanyID: &company.ID, RunID: runID, Outcome: model.OutcomeSuccess,
				Detail: fmt.Sprintf("Generated %d email patterns for %s", len(patterns), company.Name),
			})
		}
	}

	// Source 4: network links, always attempted.
	links := NetworkLinks(identities, company.Name, company.Slug)
	if !insert(links, false) {
		return newContacts
	}
	if len(links) > 0 {
		co.audit(ctx, model.AuditEntry{
			Action: "network_url", CompanyID: &company.ID, RunID: runID, Outcome: model.OutcomeSuccess,
			Detail: fmt.Sprintf("Generated %d network links for %s", len(links), company.Name),
		})
	}

	return newContacts
}

func (co *Coordinator) audit(ctx context.Context, e model.AuditEntry) {
	e.Component = auditComponent
	if e.Outcome == "" {
		e.Outcome = model.OutcomeInfo
	}
	if err := co.store.AppendAudit(ctx, e); err != nil {
		zap.L().Warn("audit append failed", zap.String("action", e.Action), zap.Error(err))
	}
}

func clip(s string) string {
	return truncate(s, 200)
}
