// Package directory provides a client for the startup directory APIs: the
// paged company listing endpoint and the static per-batch JSON mirrors.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the directory listing operations.
type Client interface {
	// PagedCompanies fetches one page of listings for a batch from the
	// paged API.
	PagedCompanies(ctx context.Context, batch string, page int) (*Page, error)
	// BatchCompanies fetches the full static listing dump for a batch.
	BatchCompanies(ctx context.Context, batch string) ([]Listing, error)
}

// Listing is one company record as the directory APIs return it. The paged
// and static endpoints disagree on field names and types, so the shape is
// deliberately tolerant.
type Listing struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Website         string   `json:"website"`
	OneLiner        string   `json:"one_liner"`
	LongDescription string   `json:"long_description"`
	TeamSize        FlexInt  `json:"team_size"`
	Batch           string   `json:"batch"`
	Status          string   `json:"status"`
	Industries      []string `json:"industries"`
	Tags            []string `json:"tags"`
	Locations       []string `json:"all_locations"`
	IsHiring        bool     `json:"-"`
	LogoURL         string   `json:"small_logo_thumb_url"`
	URL             string   `json:"url"`
}

// UnmarshalJSON accepts both the camelCase and snake_case hiring flags and
// a locations field that may be a list or a comma-joined string.
func (l *Listing) UnmarshalJSON(data []byte) error {
	type alias Listing
	aux := struct {
		*alias
		HiringCamel *bool           `json:"isHiring"`
		HiringSnake *bool           `json:"is_hiring"`
		RawLocs     json.RawMessage `json:"all_locations"`
	}{alias: (*alias)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.HiringCamel != nil:
		l.IsHiring = *aux.HiringCamel
	case aux.HiringSnake != nil:
		l.IsHiring = *aux.HiringSnake
	}
	if len(aux.RawLocs) > 0 {
		var list []string
		if err := json.Unmarshal(aux.RawLocs, &list); err == nil {
			l.Locations = list
		} else {
			var joined string
			if err := json.Unmarshal(aux.RawLocs, &joined); err == nil && joined != "" {
				parts := strings.Split(joined, ";")
				for i := range parts {
					parts[i] = strings.TrimSpace(parts[i])
				}
				l.Locations = parts
			}
		}
	}
	return nil
}

// FlexInt unmarshals from a JSON number, numeric string, or null.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(int(v))
	return nil
}

// Page is one page of paged API results.
type Page struct {
	Companies  []Listing `json:"companies"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	NextPage   *int      `json:"nextPage"`
}

// HasNext reports whether another page follows this one.
func (p *Page) HasNext() bool {
	if p.NextPage != nil {
		return true
	}
	return p.TotalPages > 0 && p.Page < p.TotalPages
}

// Option configures the directory client.
type Option func(*httpClient)

// WithPagedBaseURL sets a custom paged API base URL (for testing).
func WithPagedBaseURL(url string) Option {
	return func(c *httpClient) {
		c.pagedBaseURL = url
	}
}

// WithStaticBaseURL sets a custom static mirror base URL (for testing).
func WithStaticBaseURL(url string) Option {
	return func(c *httpClient) {
		c.staticBaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	pagedBaseURL  string
	staticBaseURL string
	http          *http.Client
}

// NewClient creates a directory client with production endpoints.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		pagedBaseURL:  "https://api.ycombinator.com/v0.1/companies",
		staticBaseURL: "https://yc-oss.github.io/api",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// retryDo executes an HTTP request with exponential backoff retries on
// transient failures (429, 500, 502, 503).
func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		retryReq := req.Clone(ctx)

		resp, err := c.http.Do(retryReq)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "directory: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("directory: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

func (c *httpClient) PagedCompanies(ctx context.Context, batch string, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("batch", batch)
	params.Set("page", strconv.Itoa(page))
	reqURL := c.pagedBaseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "directory: create paged request")
	}
	req.Header.Set("Accept", "application/json")

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "directory: paged request failed")
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("directory: paged unexpected status %d: %s", statusCode, string(body))
	}

	// Some deployments return a bare list instead of the page envelope.
	var result Page
	if err := json.Unmarshal(body, &result); err != nil {
		var list []Listing
		if listErr := json.Unmarshal(body, &list); listErr != nil {
			return nil, eris.Wrap(err, "directory: unmarshal paged response")
		}
		result = Page{Companies: list, Page: page}
	}
	if result.Page == 0 {
		result.Page = page
	}
	return &result, nil
}

func (c *httpClient) BatchCompanies(ctx context.Context, batch string) ([]Listing, error) {
	reqURL := fmt.Sprintf("%s/batches/%s.json", c.staticBaseURL, strings.ToLower(batch))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "directory: create batch request")
	}
	req.Header.Set("Accept", "application/json")

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "directory: batch request failed")
	}
	if statusCode == http.StatusNotFound {
		return nil, nil
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("directory: batch unexpected status %d: %s", statusCode, string(body))
	}

	var list []Listing
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, eris.Wrap(err, "directory: unmarshal batch response")
	}
	return list, nil
}
