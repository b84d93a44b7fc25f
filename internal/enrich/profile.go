package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/venturescout/outreach-cli/internal/fetcher"
	"github.com/venturescout/outreach-cli/internal/model"
)

const maxProfileContacts = 5

// ProfileAdapter discovers founders from directory profile documents. Tier
// one reads the structured per-batch JSON mirror; tier two scrapes the
// public profile page. Upstream failures yield an empty result, never an
// error, so a broken profile cannot stall an enrichment pass.
type ProfileAdapter struct {
	fetch       *fetcher.Client
	docBaseURL  string
	pageBaseURL string
	pacing      time.Duration
}

// NewProfileAdapter creates a profile adapter over the given fetcher.
func NewProfileAdapter(fetch *fetcher.Client, docBaseURL, pageBaseURL string, pacing time.Duration) *ProfileAdapter {
	return &ProfileAdapter{
		fetch:       fetch,
		docBaseURL:  strings.TrimRight(docBaseURL, "/"),
		pageBaseURL: strings.TrimRight(pageBaseURL, "/"),
		pacing:      pacing,
	}
}

// Discover returns up to 5 founder contacts for the company.
func (a *ProfileAdapter) Discover(ctx context.Context, company model.Company) ([]model.Contact, error) {
	if company.Slug == "" {
		return nil, nil
	}

	contacts := a.fromBatchDocument(ctx, company)
	if len(contacts) == 0 {
		contacts = a.fromProfilePage(ctx, company)
	}
	if len(contacts) > maxProfileContacts {
		contacts = contacts[:maxProfileContacts]
	}
	return contacts, nil
}

func (a *ProfileAdapter) fromBatchDocument(ctx context.Context, company model.Company) []model.Contact {
	if company.Batch == "" {
		return nil
	}

	docURL := fmt.Sprintf("%s/batches/%s/%s.json",
		a.docBaseURL, strings.ToLower(company.Batch), company.Slug)
	resp, err := a.fetch.Get(ctx, docURL, nil, nil)
	if err != nil || !resp.OK() {
		return nil
	}

	var doc map[string]any
	if err := resp.JSON(&doc); err != nil {
		return nil
	}

	var contacts []model.Contact
	seen := make(map[string]bool)
	add := func(p person) {
		if seen[p.Name] {
			return
		}
		seen[p.Name] = true
		contacts = append(contacts, model.Contact{
			Name:       p.Name,
			Role:       p.Role,
			Email:      p.Email,
			NetworkURL: p.NetworkURL,
			Source:     model.SourceProfileScrape,
		})
	}

	if founders, ok := doc["founders"].([]any); ok {
		for _, f := range founders {
			if p, ok := parsePerson(f, "Founder"); ok {
				add(p)
			}
		}
	}
	for key, role := range map[string]string{"founder_names": "Founder", "team": "Team Member"} {
		items, ok := doc[key].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			if p, ok := parsePerson(item, role); ok {
				add(p)
			}
		}
	}

	pause(ctx, a.pacing)
	return contacts
}

var (
	nextDataRe = regexp.MustCompile(`(?s)<script id="__NEXT_DATA__" type="application/json">(.*?)</script>`)

	rolePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:Founder|Co-[Ff]ounder|CEO|CTO)[:\s,\-]+([A-Z][a-z]+ [A-Z][a-z]+)`),
		regexp.MustCompile(`([A-Z][a-z]+ [A-Z][a-z]+)[,\s\-]+(?:Founder|Co-[Ff]ounder|CEO|CTO)`),
	}
	roleKeywordRe = regexp.MustCompile(`CEO|CTO|Co-[Ff]ounder|Founder`)
)

func (a *ProfileAdapter) fromProfilePage(ctx context.Context, company model.Company) []model.Contact {
	pageURL := a.pageBaseURL + "/" + company.Slug
	resp, err := a.fetch.Get(ctx, pageURL, nil, nil)
	if err != nil || !resp.OK() {
		return nil
	}

	html := resp.Text()
	const maxScan = 100_000
	if len(html) > maxScan {
		html = html[:maxScan]
	}

	if contacts := parseEmbeddedData(html); len(contacts) > 0 {
		return contacts
	}
	return scrapeRoleMentions(html)
}

// parseEmbeddedData extracts founders from the page's embedded JSON island.
func parseEmbeddedData(html string) []model.Contact {
	m := nextDataRe.FindStringSubmatch(html)
	if m == nil {
		return nil
	}

	var next struct {
		Props struct {
			PageProps map[string]any `json:"pageProps"`
		} `json:"props"`
	}
	if err := json.Unmarshal([]byte(m[1]), &next); err != nil {
		return nil
	}

	props := next.Props.PageProps
	companyData := props
	if inner, ok := props["company"].(map[string]any); ok {
		companyData = inner
	}
	founders, ok := companyData["founders"].([]any)
	if !ok {
		return nil
	}

	var contacts []model.Contact
	seen := make(map[string]bool)
	for _, f := range founders {
		p, ok := parsePerson(f, "Founder")
		if !ok || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		contacts = append(contacts, model.Contact{
			Name:       p.Name,
			Role:       p.Role,
			NetworkURL: p.NetworkURL,
			Source:     model.SourceProfileScrape,
		})
	}
	return contacts
}

// scrapeRoleMentions falls back to matching role keywords next to two-token
// capitalized names in the raw page text.
func scrapeRoleMentions(html string) []model.Contact {
	var contacts []model.Contact
	seen := make(map[string]bool)
	for _, re := range rolePatterns {
		for _, m := range re.FindAllStringSubmatch(html, -1) {
			name := strings.TrimSpace(m[1])
			if seen[name] || len(name) <= 3 || len(name) >= 40 {
				continue
			}
			seen[name] = true
			role := roleKeywordRe.FindString(m[0])
			if role == "" {
				role = "Founder"
			}
			contacts = append(contacts, model.Contact{
				Name:   name,
				Role:   role,
				Source: model.SourceProfileScrape,
			})
		}
	}
	return contacts
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
