package model

import (
	"strings"
	"time"
)

// ContactSource marks the provenance of a contact record.
type ContactSource string

const (
	SourceProfileScrape ContactSource = "profile_scrape"
	SourceCodeHost      ContactSource = "codehost_search"
	SourceEmailPattern  ContactSource = "email_pattern"
	SourceNetworkURL    ContactSource = "network_url"
)

// Valid reports whether s is a known provenance tag.
func (s ContactSource) Valid() bool {
	switch s {
	case SourceProfileScrape, SourceCodeHost, SourceEmailPattern, SourceNetworkURL:
		return true
	}
	return false
}

// Contact is a person or channel record owned by exactly one Company.
// Dedup identity is (company_id, email) when the email is non-empty,
// otherwise (company_id, name, source).
type Contact struct {
	ID          int64         `json:"id"`
	CompanyID   int64         `json:"company_id"`
	CompanyName string        `json:"company_name,omitempty"` // filled by joined listings
	Name        string        `json:"name"`
	Role        string        `json:"role"`
	Email       string        `json:"email"`
	NetworkURL  string        `json:"network_url"`
	Source      ContactSource `json:"source"`
	CreatedAt   time.Time     `json:"created_at"`
}

// HasEmail reports whether the contact carries a loosely valid email.
func (c Contact) HasEmail() bool {
	return strings.Contains(c.Email, "@")
}
