package model

import "time"

// Outcome tags an audit entry with its result severity.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
	OutcomeInfo    Outcome = "info"
)

// AuditEntry is an immutable, append-only record of a pipeline action.
// Entries are never updated or deleted.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Component string    `json:"component"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CompanyID *int64    `json:"company_id,omitempty"`
	RunID     string    `json:"run_id,omitempty"`
	Outcome   Outcome   `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
}
