// Package store implements persistence for companies, contacts, outreach
// tracking, and the append-only audit log.
package store

import (
	"context"
	"time"

	"github.com/venturescout/outreach-cli/internal/model"
)

// CompanyFilter specifies criteria for listing companies.
type CompanyFilter struct {
	Batches         []string `json:"batches,omitempty"`
	Hiring          *bool    `json:"hiring,omitempty"`
	Search          string   `json:"search,omitempty"`
	SortByRelevance bool     `json:"sort_by_relevance,omitempty"`
	Page            int      `json:"page,omitempty"`
	PerPage         int      `json:"per_page,omitempty"`
}

// ContactFilter specifies criteria for listing contacts.
type ContactFilter struct {
	CompanyID int64               `json:"company_id,omitempty"`
	Source    model.ContactSource `json:"source,omitempty"`
	Search    string              `json:"search,omitempty"`
	Limit     int                 `json:"limit,omitempty"`
	Offset    int                 `json:"offset,omitempty"`
}

// AuditFilter specifies criteria for listing audit entries.
type AuditFilter struct {
	Component string `json:"component,omitempty"`
	RunID     string `json:"run_id,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the outreach pipeline.
type Store interface {
	// Companies
	UpsertCompanies(ctx context.Context, companies []model.Company) (int, error)
	ListCompanies(ctx context.Context, f CompanyFilter) ([]model.Company, int, error)
	GetCompany(ctx context.Context, id int64) (*model.Company, error)
	ListScorable(ctx context.Context) ([]model.Company, error)
	UpdateRelevanceScore(ctx context.Context, id int64, score int) error

	// ListCandidates returns up to limit companies with relevance_score >
	// minScore, ordered by score descending, each carrying its denormalized
	// contact count, with companies at or above excludeContactCountGTE
	// contacts filtered out. The second return value is the size of the
	// top-scored set before the contact-count filter.
	ListCandidates(ctx context.Context, minScore, limit, excludeContactCountGTE int) ([]model.Company, int, error)

	// Contacts
	GetContacts(ctx context.Context, companyID int64) ([]model.Contact, error)
	ListContacts(ctx context.Context, f ContactFilter) ([]model.Contact, error)

	// InsertContactIfNew inserts the contact unless a duplicate exists for
	// the company. Empty names are rejected. Duplicate identity is
	// (company_id, email) when the email is non-empty, otherwise
	// (company_id, name, source). The check-then-insert pair runs inside a
	// single transaction so it is atomic per dedup key.
	InsertContactIfNew(ctx context.Context, companyID int64, c model.Contact) (bool, error)

	// Outreach
	CreateOutreach(ctx context.Context, o model.Outreach) (int64, error)
	FlagFollowups(ctx context.Context, sentBefore time.Time) (int, error)
	OutreachStatusCounts(ctx context.Context) (map[string]int, error)
	CountNeedsFollowup(ctx context.Context) (int, error)

	// Audit log (append-only)
	AppendAudit(ctx context.Context, e model.AuditEntry) error
	ListAudit(ctx context.Context, f AuditFilter) ([]model.AuditEntry, error)

	// Stats
	Stats(ctx context.Context) (*model.Stats, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
