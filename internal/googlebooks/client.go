// Package googlebooks queries the Google Books volumes API. A single
// search call answers both lookup modes, so this is the simplest
// provider: build a query, fetch, take the first result.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/zanabooks/zana/internal/books"
)

const (
	defaultBaseURL = "https://www.googleapis.com"
	volumesPath    = "/books/v1/volumes"
)

// volumesResponse matches the volumes endpoint payload. Rating fields
// decode as pointers so that "absent" and "zero" stay distinguishable.
type volumesResponse struct {
	Items []volumeItem `json:"items"`
}

type volumeItem struct {
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Description         string   `json:"description"`
	PageCount           uint32   `json:"pageCount"`
	AverageRating       *float32 `json:"averageRating"`
	RatingsCount        *uint32  `json:"ratingsCount"`
	CanonicalVolumeLink string   `json:"canonicalVolumeLink"`
	InfoLink            string   `json:"infoLink"`
}

// Client is a Google Books API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient books.HTTPDoer
}

// Compile-time check that Client implements the provider contract.
var _ books.Client = (*Client)(nil)

// NewClient creates a new Google Books client. The API key may be
// empty; Google Books answers keyless requests at a reduced quota.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: books.NewHTTPClient(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c books.HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the Google Books API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// BookByISBN returns a book by ISBN, queried as a scoped isbn: term.
func (c *Client) BookByISBN(ctx context.Context, isbn string) (*books.Book, error) {
	return c.fetchBook(ctx, "isbn:"+normalizeISBN(isbn))
}

// BookByAuthorTitle returns a book by author and title, queried as two
// scoped terms. The volumes endpoint treats adjacent terms as AND.
func (c *Client) BookByAuthorTitle(ctx context.Context, author, title string) (*books.Book, error) {
	return c.fetchBook(ctx, fmt.Sprintf("inauthor:%s intitle:%s", author, title))
}

func (c *Client) fetchBook(ctx context.Context, query string) (*books.Book, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", "1")
	// Trim the payload to the one field group we read.
	params.Set("fields", "items")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	endpoint := c.baseURL + volumesPath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &books.TransportError{Err: err}
	}
	req.Header.Set("User-Agent", books.UserAgent)

	slog.Debug("Fetching book from Google Books", "query", query)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &books.TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var volumes volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&volumes); err != nil {
		return nil, &books.TransportError{Err: fmt.Errorf("decoding volumes response: %w", err)}
	}

	if len(volumes.Items) == 0 {
		return nil, books.ErrNotFound
	}

	// First item only; ordering is the provider's own relevance.
	info := volumes.Items[0].VolumeInfo
	link := info.CanonicalVolumeLink
	if link == "" {
		link = info.InfoLink
	}

	return &books.Book{
		PageCount:    info.PageCount,
		Description:  info.Description,
		ProviderLink: link,
		Rating:       books.NewRating(info.AverageRating, info.RatingsCount),
	}, nil
}

// classifyStatus maps the response status onto the shared taxonomy.
// Google Books reports quota exhaustion as 403, so it joins 429 in the
// rate-limit kind.
func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return books.ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(resp.Body)
		return &books.HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// normalizeISBN strips hyphens and spaces from an ISBN.
func normalizeISBN(isbn string) string {
	normalized := strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(normalized, " ", "")
}
