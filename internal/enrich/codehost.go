package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/venturescout/outreach-cli/internal/model"
	"github.com/venturescout/outreach-cli/pkg/github"
)

const (
	maxCodeHostContacts = 5
	hitsPerQuery        = 3
	bioTruncateLen      = 60
)

// CodeHostAdapter finds people who publicly associate themselves with a
// company on the code host. Every search query and every profile fetch
// costs one call against the run budget; the adapter never issues more
// calls than the allowance it was handed.
type CodeHostAdapter struct {
	client github.Client
	pacing time.Duration
}

// NewCodeHostAdapter creates a code-host adapter over the given client.
func NewCodeHostAdapter(client github.Client, pacing time.Duration) *CodeHostAdapter {
	return &CodeHostAdapter{client: client, pacing: pacing}
}

// Search looks up users matching the company name and domain and keeps the
// ones whose profile passes the relatedness test. Returns the accepted
// contacts and the number of calls consumed. A rate-limit response stops
// the search early without an error.
func (a *CodeHostAdapter) Search(ctx context.Context, company model.Company, domain string, maxCalls int) ([]model.Contact, int, error) {
	if company.Name == "" || maxCalls <= 0 {
		return nil, 0, nil
	}

	queries := []string{company.Name}
	if domain != "" {
		queries = append(queries, domain)
	}

	var contacts []model.Contact
	calls := 0
	seen := make(map[string]bool)

	for _, query := range queries {
		if calls >= maxCalls || len(contacts) >= maxCodeHostContacts {
			break
		}

		result, err := a.client.SearchUsers(ctx, query+" type:user", 5)
		calls++
		if eris.Is(err, github.ErrRateLimited) {
			break
		}
		if err != nil {
			continue
		}

		hits := result.Items
		if len(hits) > hitsPerQuery {
			hits = hits[:hitsPerQuery]
		}

		rateLimited := false
		for _, hit := range hits {
			if calls >= maxCalls || len(contacts) >= maxCodeHostContacts {
				break
			}
			if hit.Login == "" || seen[hit.Login] {
				continue
			}
			seen[hit.Login] = true

			pause(ctx, a.pacing)

			profile, err := a.client.GetUser(ctx, hit.Login)
			calls++
			if eris.Is(err, github.ErrRateLimited) {
				rateLimited = true
				break
			}
			if err != nil {
				continue
			}
			if c, ok := relatedContact(profile, company.Name, domain); ok {
				contacts = append(contacts, c)
			}
		}
		if rateLimited {
			break
		}

		pause(ctx, a.pacing)
	}

	return contacts, calls, nil
}

// relatedContact applies the relatedness heuristic: the company name must
// appear in the profile's declared organization or bio, or the derived
// domain in its email. Common company names can false-positive here; the
// tradeoff is accepted over attempting disambiguation.
func relatedContact(profile *github.User, companyName, domain string) (model.Contact, bool) {
	nameLower := strings.ToLower(companyName)
	related := strings.Contains(strings.ToLower(profile.Company), nameLower) ||
		strings.Contains(strings.ToLower(profile.Bio), nameLower) ||
		(domain != "" && strings.Contains(strings.ToLower(profile.Email), domain))
	if !related {
		return model.Contact{}, false
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}
	role := "GitHub Profile"
	if profile.Bio != "" {
		role = "GitHub: " + truncate(profile.Bio, bioTruncateLen)
	}
	return model.Contact{
		Name:   name,
		Role:   role,
		Email:  profile.Email,
		Source: model.SourceCodeHost,
	}, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
