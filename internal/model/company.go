// Package model defines the core domain types shared across the pipeline.
package model

import "time"

// Company is a startup-directory entry targeted for outreach.
type Company struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Website         string    `json:"website"`
	OneLiner        string    `json:"one_liner"`
	LongDescription string    `json:"long_description"`
	TeamSize        int       `json:"team_size"`
	Batch           string    `json:"batch"`
	Status          string    `json:"status"`
	Industries      []string  `json:"industries"`
	Tags            []string  `json:"tags"`
	Locations       []string  `json:"locations"`
	IsHiring        bool      `json:"is_hiring"`
	LogoURL         string    `json:"logo_url"`
	DirectoryURL    string    `json:"directory_url"`
	RelevanceScore  int       `json:"relevance_score"`
	ContactCount    int       `json:"contact_count,omitempty"` // denormalized, filled by candidate listing
	CreatedAt       time.Time `json:"created_at"`
}

// Domainable reports whether the company website is set at all. A derived
// domain may still be empty for malformed URLs.
func (c Company) Domainable() bool {
	return c.Website != ""
}

// EnrichmentSummary is the aggregate result of one coordinator run.
type EnrichmentSummary struct {
	EntitiesConsidered int `json:"entities_considered"`
	EntitiesEnriched   int `json:"entities_enriched"`
	NewContacts        int `json:"new_contacts"`
	CodeHostCalls      int `json:"codehost_calls"`
}

// Stats aggregates pipeline-wide counters for the dashboard endpoints.
type Stats struct {
	TotalCompanies    int            `json:"total_companies"`
	HiringCompanies   int            `json:"hiring_companies"`
	ScoredCompanies   int            `json:"scored_companies"`
	TotalContacts     int            `json:"total_contacts"`
	ContactsBySource  map[string]int `json:"contacts_by_source"`
	CompaniesEnriched int            `json:"companies_enriched"`
	OutreachByStatus  map[string]int `json:"outreach_by_status"`
	NeedsFollowup     int            `json:"needs_followup"`
}
