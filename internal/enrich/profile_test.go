package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturescout/outreach-cli/internal/fetcher"
	"github.com/venturescout/outreach-cli/internal/model"
)

func newProfileAdapter(t *testing.T, docHandler, pageHandler http.HandlerFunc) *ProfileAdapter {
	t.Helper()
	docSrv := httptest.NewServer(docHandler)
	pageSrv := httptest.NewServer(pageHandler)
	t.Cleanup(docSrv.Close)
	t.Cleanup(pageSrv.Close)
	return NewProfileAdapter(fetcher.New(fetcher.Options{}), docSrv.URL, pageSrv.URL, 0)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

func TestProfileDiscover_BatchDocument(t *testing.T) {
	t.Parallel()

	adapter := newProfileAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/batches/w25/acme.json", r.URL.Path)
		w.Write([]byte(`{
			"founders": [
				{"full_name": "Alice Smith", "title": "CEO", "linkedin_url": "https://www.linkedin.com/in/alicesmith"},
				"Bob Jones",
				{"company": "no name here"}
			],
			"founder_names": ["Alice Smith", "Carol White"],
			"team": [{"name": "Dan Black", "role": "Engineer"}]
		}`))
	}, notFound)

	contacts, err := adapter.Discover(context.Background(), model.Company{
		Slug: "acme", Batch: "W25",
	})

	require.NoError(t, err)
	require.Len(t, contacts, 4, "names are deduplicated within the call")
	assert.Equal(t, "Alice Smith", contacts[0].Name)
	assert.Equal(t, "CEO", contacts[0].Role)
	assert.Equal(t, "https://www.linkedin.com/in/alicesmith", contacts[0].NetworkURL)
	assert.Equal(t, "Bob Jones", contacts[1].Name)
	assert.Equal(t, "Founder", contacts[1].Role)
	assert.Equal(t, "Carol White", contacts[2].Name)
	assert.Equal(t, "Dan Black", contacts[3].Name)
	assert.Equal(t, "Engineer", contacts[3].Role)
	for _, c := range contacts {
		assert.Equal(t, model.SourceProfileScrape, c.Source)
	}
}

func TestProfileDiscover_PageEmbeddedData(t *testing.T) {
	t.Parallel()

	adapter := newProfileAdapter(t, notFound, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme", r.URL.Path)
		w.Write([]byte(`<html><body>
			<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"company":{"founders":[{"full_name":"Alice Smith","title":"CTO"}]}}}}</script>
		</body></html>`))
	})

	contacts, err := adapter.Discover(context.Background(), model.Company{
		Slug: "acme", Batch: "W25",
	})

	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Alice Smith", contacts[0].Name)
	assert.Equal(t, "CTO", contacts[0].Role)
}

func TestProfileDiscover_PageRoleMentions(t *testing.T) {
	t.Parallel()

	adapter := newProfileAdapter(t, notFound, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<p>Founder: Alice Smith leads the team.</p>
			<p>Bob Jones, CTO, built the core engine.</p>
		</body></html>`))
	})

	contacts, err := adapter.Discover(context.Background(), model.Company{
		Slug: "acme", Batch: "W25",
	})

	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Alice Smith", contacts[0].Name)
	assert.Equal(t, "Founder", contacts[0].Role)
	assert.Equal(t, "Bob Jones", contacts[1].Name)
	assert.Equal(t, "CTO", contacts[1].Role)
}

func TestProfileDiscover_CapsAtFive(t *testing.T) {
	t.Parallel()

	adapter := newProfileAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"founders": ["Ann One", "Ben Two", "Cam Three", "Dee Four", "Eli Five", "Fay Six"]}`))
	}, notFound)

	contacts, err := adapter.Discover(context.Background(), model.Company{Slug: "acme", Batch: "W25"})

	require.NoError(t, err)
	assert.Len(t, contacts, 5)
}

func TestProfileDiscover_NoSlug(t *testing.T) {
	t.Parallel()

	adapter := newProfileAdapter(t, notFound, notFound)
	contacts, err := adapter.Discover(context.Background(), model.Company{Name: "Acme"})

	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestProfileDiscover_UpstreamFailuresSwallowed(t *testing.T) {
	t.Parallel()

	adapter := newProfileAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	contacts, err := adapter.Discover(context.Background(), model.Company{Slug: "acme", Batch: "W25"})

	require.NoError(t, err)
	assert.Empty(t, contacts)
}
