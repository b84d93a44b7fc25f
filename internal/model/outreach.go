package model

import "time"

// OutreachStatus tracks where a company sits in the outreach funnel.
type OutreachStatus string

const (
	OutreachNew       OutreachStatus = "new"
	OutreachDrafted   OutreachStatus = "drafted"
	OutreachSent      OutreachStatus = "sent"
	OutreachReplied   OutreachStatus = "replied"
	OutreachInterview OutreachStatus = "interview"
)

// Outreach records one outreach attempt against a company, optionally
// tied to a specific contact.
type Outreach struct {
	ID            int64          `json:"id"`
	CompanyID     int64          `json:"company_id"`
	ContactID     *int64         `json:"contact_id,omitempty"`
	Status        OutreachStatus `json:"status"`
	EmailDraft    string         `json:"email_draft,omitempty"`
	SentAt        *time.Time     `json:"sent_at,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	NeedsFollowup bool           `json:"needs_followup"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
