// Package github provides a minimal client for the GitHub user search API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/venturescout/outreach-cli/internal/fetcher"
)

// ErrRateLimited is returned when GitHub refuses a request with 403. Callers
// should stop issuing search calls for the rest of the run.
var ErrRateLimited = eris.New("github: rate limited")

// Client defines the GitHub operations used for contact discovery.
type Client interface {
	// SearchUsers runs a user search query and returns matching users.
	SearchUsers(ctx context.Context, query string, perPage int) (*SearchResult, error)
	// GetUser fetches the full public profile for a login.
	GetUser(ctx context.Context, login string) (*User, error)
}

// SearchResult is the user search response.
type SearchResult struct {
	TotalCount int    `json:"total_count"`
	Items      []User `json:"items"`
}

// User is a GitHub user, partial on search hits and full on profile fetches.
type User struct {
	Login    string `json:"login"`
	Name     string `json:"name"`
	Company  string `json:"company"`
	Blog     string `json:"blog"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	HTMLURL  string `json:"html_url"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

// Option configures the GitHub client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a GitHub API client. An empty token means anonymous
// requests against the much lower unauthenticated rate limit.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: "https://api.github.com",
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "github: create request")
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", fetcher.DefaultUserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "github: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "github: read response body")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, eris.Errorf("github: unexpected status %d: %s", resp.StatusCode, string(body))
	}
}

func (c *httpClient) SearchUsers(ctx context.Context, query string, perPage int) (*SearchResult, error) {
	if perPage <= 0 {
		perPage = 5
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", fmt.Sprint(perPage))

	body, err := c.get(ctx, "/search/users", params)
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "github: unmarshal search response")
	}
	return &result, nil
}

func (c *httpClient) GetUser(ctx context.Context, login string) (*User, error) {
	body, err := c.get(ctx, "/users/"+url.PathEscape(login), nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, eris.Wrap(err, "github: unmarshal user response")
	}
	return &user, nil
}
