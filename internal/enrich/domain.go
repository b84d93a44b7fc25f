package enrich

import (
	"net/url"
	"strings"
)

// DeriveDomain extracts a bare domain from a website URL: scheme stripped,
// leading "www." removed, lower-cased. Returns "" when nothing usable can
// be derived.
func DeriveDomain(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" {
		host = strings.SplitN(u.Path, "/", 2)[0]
	}
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if !strings.Contains(host, ".") {
		return ""
	}
	return host
}
