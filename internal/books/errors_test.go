package books

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelHelpers(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("openlibrary lookup: %w", ErrNotFound)))
	assert.False(t, IsNotFound(ErrRateLimited))

	assert.True(t, IsRateLimited(ErrRateLimited))
	assert.True(t, IsRateLimited(fmt.Errorf("googlebooks lookup: %w", ErrRateLimited)))
	assert.False(t, IsRateLimited(errors.New("something else")))
}

func TestAsHTTPError(t *testing.T) {
	orig := &HTTPError{StatusCode: 503, Body: "unavailable"}

	httpErr, ok := AsHTTPError(fmt.Errorf("lookup: %w", orig))
	require.True(t, ok)
	assert.Equal(t, 503, httpErr.StatusCode)
	assert.Equal(t, "unavailable", httpErr.Body)
	assert.Equal(t, "unexpected status 503: unavailable", httpErr.Error())

	_, ok = AsHTTPError(ErrNotFound)
	assert.False(t, ok)
}

func TestAsTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	orig := &TransportError{Err: cause}

	transportErr, ok := AsTransportError(fmt.Errorf("lookup: %w", orig))
	require.True(t, ok)
	assert.Equal(t, cause, transportErr.Err)
	// Unwrap exposes the cause for errors.Is chains.
	assert.True(t, errors.Is(transportErr, cause))

	_, ok = AsTransportError(ErrRateLimited)
	assert.False(t, ok)
}
