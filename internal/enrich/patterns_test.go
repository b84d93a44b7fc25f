package enrich

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturescout/outreach-cli/internal/model"
)

func TestEmailPatterns(t *testing.T) {
	t.Parallel()

	identities := []model.Contact{
		{Name: "Alice Smith", Role: "CEO"},
		{Name: "Bob Jones", Email: "bob@acme.com"},
		{Name: "Prince"},
	}

	contacts := EmailPatterns(identities, "acme.com")

	require.Len(t, contacts, 4, "known emails and single-token names are skipped")
	var addrs []string
	for _, c := range contacts {
		addrs = append(addrs, c.Email)
		assert.Equal(t, "Alice Smith", c.Name)
		assert.Equal(t, "CEO", c.Role)
		assert.Equal(t, model.SourceEmailPattern, c.Source)
	}
	assert.Equal(t, []string{
		"alice@acme.com",
		"alice.smith@acme.com",
		"asmith@acme.com",
		"alicesmith@acme.com",
	}, addrs)
}

func TestEmailPatterns_NoIdentitiesNoFallback(t *testing.T) {
	t.Parallel()
	assert.Empty(t, EmailPatterns(nil, "acme.com"))
	assert.Empty(t, EmailPatterns([]model.Contact{{Name: "Alice Smith"}}, ""))
}

func TestEmailPatterns_MiddleNameUsesFirstAndLast(t *testing.T) {
	t.Parallel()

	contacts := EmailPatterns([]model.Contact{{Name: "Mary Jane Watson"}}, "acme.com")
	require.Len(t, contacts, 4)
	assert.Equal(t, "mary.watson@acme.com", contacts[1].Email)
	assert.Equal(t, "mwatson@acme.com", contacts[2].Email)
}

func TestEmailPatterns_AccentedFirstName(t *testing.T) {
	t.Parallel()

	contacts := EmailPatterns([]model.Contact{{Name: "Édouard Martin"}}, "acme.com")
	require.Len(t, contacts, 4)
	assert.Equal(t, "émartin@acme.com", contacts[2].Email)
	for _, c := range contacts {
		assert.True(t, utf8.ValidString(c.Email), "email %q", c.Email)
	}
}

func TestNetworkLinks(t *testing.T) {
	t.Parallel()

	identities := []model.Contact{
		{Name: "Alice Smith", Role: "CEO"},
		{Name: "Bob Jones", NetworkURL: "https://www.linkedin.com/in/bobjones"},
	}

	contacts := NetworkLinks(identities, "Acme", "acme")

	require.Len(t, contacts, 2, "identities with a known URL are skipped")
	assert.Equal(t, "Acme (Company Page)", contacts[0].Name)
	assert.Equal(t, "Company LinkedIn", contacts[0].Role)
	assert.Equal(t, "https://www.linkedin.com/company/acme", contacts[0].NetworkURL)
	assert.Equal(t, model.SourceNetworkURL, contacts[0].Source)

	assert.Equal(t, "Alice Smith", contacts[1].Name)
	assert.Equal(t, "https://www.linkedin.com/search/results/people/?keywords=Alice+Smith+Acme", contacts[1].NetworkURL)
}

func TestNetworkLinks_NoIdentitiesStillEmitsCompanyPage(t *testing.T) {
	t.Parallel()

	contacts := NetworkLinks(nil, "Acme", "acme")
	require.Len(t, contacts, 1)
	assert.Equal(t, "Acme (Company Page)", contacts[0].Name)
}

func TestSanitizeSlug(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"acme", "acme"},
		{"Acme, Inc!", "acme-inc"},
		{"beta_labs", "beta-labs"},
		{"  double  space  ", "double-space"},
		{"Café Noir", "cafe-noir"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeSlug(tc.in), "slug %q", tc.in)
	}
}

func TestDeriveDomain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"https://www.acme.com", "acme.com"},
		{"http://acme.io/about", "acme.io"},
		{"acme.dev", "acme.dev"},
		{"www.acme.co.uk", "acme.co.uk"},
		{"", ""},
		{"localhost", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveDomain(tc.in), "website %q", tc.in)
	}
}

func TestBudget(t *testing.T) {
	t.Parallel()

	b := NewBudget(5)
	assert.Equal(t, 5, b.Remaining())
	b.Consume(3)
	assert.Equal(t, 2, b.Remaining())
	assert.Equal(t, 3, b.Used())
	b.Consume(4)
	assert.Equal(t, 0, b.Remaining())
	assert.Equal(t, 7, b.Used())
	assert.Equal(t, 5, b.Limit())
}
