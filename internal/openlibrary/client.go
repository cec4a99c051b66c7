// Package openlibrary queries the OpenLibrary API. One lookup spans up
// to three calls: the edition record, its parent work, and the work's
// community ratings. Only the first call is required; the work and
// ratings calls enrich the result, and when they fail the Book is
// returned without a description or rating instead of failing the
// whole lookup.
package openlibrary

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

const defaultBaseURL = "https://openlibrary.org"

// editionResponse is the edition record reached directly by ISBN.
type editionResponse struct {
	Key           string `json:"key"`
	NumberOfPages uint32 `json:"number_of_pages"`
	Works         []struct {
		Key string `json:"key"`
	} `json:"works"`
}

// workResponse is the work record shared by all editions of a book.
// Description is either a bare string or an object with a "value" key.
type workResponse struct {
	Description any `json:"description"`
}

// ratingsResponse is the ratings record fetched per work. Average is
// null for works nobody has rated yet.
type ratingsResponse struct {
	Summary struct {
		Average *float32 `json:"average"`
		Count   *uint32  `json:"count"`
	} `json:"summary"`
}

// searchResponse is the free-text search payload, trimmed via the
// fields parameter to the two values the lookup consumes.
type searchResponse struct {
	Docs []struct {
		Key                 string `json:"key"`
		NumberOfPagesMedian uint32 `json:"number_of_pages_median"`
	} `json:"docs"`
}

// Client is an OpenLibrary API client.
type Client struct {
	baseURL    string
	httpClient books.HTTPDoer
}

// Compile-time check that Client implements the provider contract.
var _ books.Client = (*Client)(nil)

// NewClient creates a new OpenLibrary client. No API key is required.
func NewClient(opts ...Option) *Client {
	client := &Client{
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

// WithBaseURL sets a custom base URL for the OpenLibrary API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// BookByISBN returns a book by ISBN.
//
// The edition fetch is required: any failure there is the result of the
// whole operation and the remaining calls are not attempted. A 404 on
// the edition means the book does not exist at OpenLibrary.
func (c *Client) BookByISBN(ctx context.Context, isbn string) (*books.Book, error) {
	slog.Debug("Fetching book from OpenLibrary", "isbn", isbn)

	var edition editionResponse
	endpoint := c.baseURL + "/isbn/" + normalizeISBN(isbn) + ".json"
	if err := c.getJSON(ctx, endpoint, &edition); err != nil {
		return nil, err
	}

	book := &books.Book{
		PageCount:    edition.NumberOfPages,
		ProviderLink: c.baseURL + edition.Key,
	}

	if len(edition.Works) == 0 || edition.Works[0].Key == "" {
		// Orphan edition with no parent work; nothing to enrich from.
		return book, nil
	}

	c.enrich(ctx, book, edition.Works[0].Key)
	return book, nil
}

// BookByAuthorTitle returns a book by author and title.
//
// The free-text search replaces the edition fetch as the required first
// step; the result already carries the work key, so enrichment proceeds
// exactly as for an ISBN lookup.
func (c *Client) BookByAuthorTitle(ctx context.Context, author, title string) (*books.Book, error) {
	slog.Debug("Searching OpenLibrary", "author", author, "title", title)

	params := url.Values{}
	params.Set("author", author)
	params.Set("title", title)
	params.Set("limit", "1")
	params.Set("fields", "key,number_of_pages_median")

	var search searchResponse
	endpoint := c.baseURL + "/search.json?" + params.Encode()
	if err := c.getJSON(ctx, endpoint, &search); err != nil {
		return nil, err
	}

	if len(search.Docs) == 0 {
		return nil, books.ErrNotFound
	}

	doc := search.Docs[0]
	book := &books.Book{
		PageCount:    doc.NumberOfPagesMedian,
		ProviderLink: c.baseURL + doc.Key,
	}

	if doc.Key != "" {
		c.enrich(ctx, book, doc.Key)
	}
	return book, nil
}

// enrich fills in the description from the work record and the rating
// from the ratings record. Both fetches are keyed off the work
// reference independently, so a failed work fetch does not block the
// ratings fetch. Failures of either kind are absorbed and leave the
// field at its documented default.
func (c *Client) enrich(ctx context.Context, book *books.Book, workKey string) {
	var work workResponse
	if err := c.getJSON(ctx, c.baseURL+workKey+".json", &work); err != nil {
		slog.Debug("Work fetch failed, continuing without description", "work", workKey, "error", err)
	} else {
		book.Description = extractDescription(work.Description)
	}

	var ratings ratingsResponse
	if err := c.getJSON(ctx, c.baseURL+workKey+"/ratings.json", &ratings); err != nil {
		slog.Debug("Ratings fetch failed, continuing without rating", "work", workKey, "error", err)
		return
	}
	book.Rating = books.NewRating(ratings.Summary.Average, ratings.Summary.Count)
}

// getJSON performs one GET and classifies the outcome into the shared
// taxonomy before decoding the body into target.
func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &books.TransportError{Err: err}
	}
	req.Header.Set("User-Agent", books.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &books.TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return books.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return books.ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(resp.Body)
		return &books.HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &books.TransportError{Err: fmt.Errorf("decoding response from %s: %w", endpoint, err)}
	}
	return nil
}

// extractDescription handles the two forms a work description can take.
func extractDescription(desc any) string {
	switch v := desc.(type) {
	case string:
		return v
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			return val
		}
	}
	return ""
}

// normalizeISBN strips hyphens and spaces from an ISBN.
func normalizeISBN(isbn string) string {
	normalized := strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(normalized, " ", "")
}
