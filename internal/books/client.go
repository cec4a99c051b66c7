package books

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Version is reported in the User-Agent header of provider requests.
const Version = "1.0.0"

// UserAgent identifies this client to provider APIs. The gzip marker
// follows the Google API guidance for compressed responses.
const UserAgent = "zana/" + Version + " (gzip)"

// clientTimeout bounds both connection establishment and the full
// exchange. Exceeding either surfaces as a TransportError.
const clientTimeout = 30 * time.Second

// Client is the contract every provider implements. Both operations
// return a fully populated Book or exactly one taxonomy error; there is
// no partial result.
type Client interface {
	// BookByISBN looks a book up by its unique identifier.
	BookByISBN(ctx context.Context, isbn string) (*Book, error)
	// BookByAuthorTitle looks a book up by free-text author and title
	// when no identifier is known.
	BookByAuthorTitle(ctx context.Context, author, title string) (*Book, error)
}

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// NewHTTPClient returns the shared transport capability used by
// provider clients. It is constructed once by the caller and passed to
// each provider; connection pooling lives here, not in the providers.
// Gzip is negotiated and decompressed transparently by net/http.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: clientTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: clientTimeout,
			}).DialContext,
		},
	}
}
