package enrich

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/venturescout/outreach-cli/internal/model"
)

// EmailPatterns derives candidate addresses for every discovered identity
// with at least two name tokens and no already-known email. The addresses
// are speculative and unverified.
func EmailPatterns(identities []model.Contact, domain string) []model.Contact {
	if domain == "" {
		return nil
	}

	var contacts []model.Contact
	for _, id := range identities {
		name := strings.TrimSpace(id.Name)
		tokens := strings.Fields(name)
		if len(tokens) < 2 {
			continue
		}
		if id.HasEmail() {
			continue
		}

		first := strings.ToLower(tokens[0])
		last := strings.ToLower(tokens[len(tokens)-1])
		initial, _ := utf8.DecodeRuneInString(first)

		addresses := []string{
			first + "@" + domain,
			first + "." + last + "@" + domain,
			string(initial) + last + "@" + domain,
			first + last + "@" + domain,
		}
		for _, addr := range addresses {
			contacts = append(contacts, model.Contact{
				Name:   name,
				Role:   id.Role,
				Email:  addr,
				Source: model.SourceEmailPattern,
			})
		}
	}
	return contacts
}

// NetworkLinks emits one company-page link plus a people-search link for
// every identity that does not already carry a network URL.
func NetworkLinks(identities []model.Contact, companyName, slug string) []model.Contact {
	var contacts []model.Contact

	if clean := SanitizeSlug(slug); clean != "" {
		contacts = append(contacts, model.Contact{
			Name:       companyName + " (Company Page)",
			Role:       "Company LinkedIn",
			NetworkURL: "https://www.linkedin.com/company/" + clean,
			Source:     model.SourceNetworkURL,
		})
	}

	for _, id := range identities {
		name := strings.TrimSpace(id.Name)
		if name == "" || id.NetworkURL != "" {
			continue
		}
		encoded := url.QueryEscape(name + " " + companyName)
		contacts = append(contacts, model.Contact{
			Name:       name,
			Role:       id.Role,
			NetworkURL: "https://www.linkedin.com/search/results/people/?keywords=" + encoded,
			Source:     model.SourceNetworkURL,
		})
	}
	return contacts
}

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeSlug lower-cases a slug, folds accents, turns whitespace and
// underscores into hyphens, and drops everything outside [a-z0-9-].
func SanitizeSlug(slug string) string {
	if folded, _, err := transform.String(deaccent, slug); err == nil {
		slug = folded
	}
	slug = strings.ToLower(slug)

	var b strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '_', r == '-':
			b.WriteByte('-')
		}
	}
	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return strings.Trim(out, "-")
}
