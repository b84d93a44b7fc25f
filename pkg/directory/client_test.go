package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagedCompanies_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "W25", r.URL.Query().Get("batch"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"companies": [
				{"id": 1, "name": "Acme", "slug": "acme", "team_size": 4, "isHiring": true,
				 "all_locations": ["San Francisco, CA, USA"]},
				{"id": 2, "name": "Beta Labs", "slug": "beta-labs", "team_size": null, "is_hiring": false}
			],
			"page": 2,
			"totalPages": 3
		}`))
	}))
	defer srv.Close()

	client := NewClient(WithPagedBaseURL(srv.URL))
	page, err := client.PagedCompanies(context.Background(), "W25", 2)

	require.NoError(t, err)
	require.Len(t, page.Companies, 2)
	assert.Equal(t, "Acme", page.Companies[0].Name)
	assert.Equal(t, 4, int(page.Companies[0].TeamSize))
	assert.True(t, page.Companies[0].IsHiring)
	assert.Equal(t, []string{"San Francisco, CA, USA"}, page.Companies[0].Locations)
	assert.Equal(t, 0, int(page.Companies[1].TeamSize))
	assert.False(t, page.Companies[1].IsHiring)
	assert.True(t, page.HasNext())
}

func TestPagedCompanies_BareList(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "name": "Acme", "slug": "acme"}]`))
	}))
	defer srv.Close()

	client := NewClient(WithPagedBaseURL(srv.URL))
	page, err := client.PagedCompanies(context.Background(), "W25", 1)

	require.NoError(t, err)
	require.Len(t, page.Companies, 1)
	assert.Equal(t, 1, page.Page)
	assert.False(t, page.HasNext())
}

func TestPagedCompanies_RetriesTransientFailure(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"companies": [], "page": 1, "totalPages": 1}`))
	}))
	defer srv.Close()

	client := NewClient(WithPagedBaseURL(srv.URL))
	page, err := client.PagedCompanies(context.Background(), "W25", 1)

	require.NoError(t, err)
	assert.Empty(t, page.Companies)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestBatchCompanies_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/batches/w25.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "name": "Acme", "slug": "acme", "long_description": "We build infra.",
			 "team_size": "12", "all_locations": "San Francisco, CA, USA; Remote"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(WithStaticBaseURL(srv.URL))
	listings, err := client.BatchCompanies(context.Background(), "W25")

	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, 12, int(listings[0].TeamSize))
	assert.Equal(t, []string{"San Francisco, CA, USA", "Remote"}, listings[0].Locations)
}

func TestBatchCompanies_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithStaticBaseURL(srv.URL))
	listings, err := client.BatchCompanies(context.Background(), "X99")

	require.NoError(t, err)
	assert.Nil(t, listings)
}

func TestBatchCompanies_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`bad request`))
	}))
	defer srv.Close()

	client := NewClient(WithStaticBaseURL(srv.URL))
	_, err := client.BatchCompanies(context.Background(), "W25")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
