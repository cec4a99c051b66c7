package books

import (
	"errors"
	"fmt"
)

// The closed set of failure kinds a provider lookup can produce.
// Status codes are classified exactly once, at the point where a
// response is first inspected; callers only ever see these kinds.
var (
	// ErrNotFound is returned when the provider answered but no matching
	// record exists, either as an explicit not-found status or as a
	// successful response with an empty result list.
	ErrNotFound = errors.New("book not found")
	// ErrRateLimited is returned when the provider throttled the request.
	// That is a 429, plus 403 for providers that use it for quota
	// exhaustion.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrUnsupportedLookup is returned when a provider does not implement
	// the requested lookup mode. It is evaluated before any HTTP call is
	// made, so it never reflects a runtime failure.
	ErrUnsupportedLookup = errors.New("lookup mode not supported by provider")
)

// HTTPError is any non-2xx response not covered by ErrNotFound or
// ErrRateLimited. It preserves the exact status code and raw body so
// callers can diagnose the request or integration.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// TransportError wraps failures where no usable response was obtained:
// connection, timeout, TLS and DNS errors, and 2xx payloads that could
// not be decoded.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("http client error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is the not-found kind.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited reports whether err is the rate-limit kind.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// AsHTTPError returns the wrapped HTTPError, if err is one.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// AsTransportError returns the wrapped TransportError, if err is one.
func AsTransportError(err error) (*TransportError, bool) {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr, true
	}
	return nil, false
}
