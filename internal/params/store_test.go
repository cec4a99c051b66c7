package params

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken = "token-1234"
	testLabel = "test"
)

// newIPv4TestServer starts a test server bound to IPv4 loopback to avoid IPv6 listener issues.
func newIPv4TestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)

	server := httptest.NewUnstartedServer(handler)
	server.Listener = listener
	server.Start()

	t.Cleanup(server.Close)
	return server
}

func newTestStore(t *testing.T, handler http.Handler) *AWSStore {
	t.Helper()
	server := newIPv4TestServer(t, handler)
	return NewAWSStore(server.URL, testToken, testLabel, WithHTTPClient(server.Client()))
}

func TestParameterSuccess(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/systemsmanager/parameters/get", r.URL.Path)
		assert.Equal(t, "test/param-name", r.URL.Query().Get("name"))
		assert.Equal(t, testLabel, r.URL.Query().Get("label"))
		assert.Equal(t, "false", r.URL.Query().Get("withDecryption"))
		assert.Equal(t, testToken, r.Header.Get(TokenHeader))

		_, _ = w.Write([]byte(`{"Parameter":{"ARN":"arn:aws:ssm:us-east-2:111122223333:parameter/test/param-name","DataType":"text","Name":"test/param-name","Type":"SecureString","Value":"param-value","Version":3}}`))
	}))

	value, err := store.Parameter(context.Background(), "test/param-name", false)
	require.NoError(t, err)
	assert.Equal(t, "param-value", value)
}

func TestParameterWithDecryption(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("withDecryption"))
		_, _ = w.Write([]byte(`{"Parameter":{"Value":"secret-value"}}`))
	}))

	value, err := store.Parameter(context.Background(), "test/param-name", true)
	require.NoError(t, err)
	assert.Equal(t, "secret-value", value)
}

func TestParameterNon200IsServiceError(t *testing.T) {
	for _, status := range []int{201, 300, 400, 401, 403, 404, 429, 500, 503} {
		store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("Error returned"))
		}))

		_, err := store.Parameter(context.Background(), "test/param-name", false)
		assert.True(t, errors.Is(err, ErrService), "status %d", status)
	}
}

func TestParameterNonJSONIsServiceError(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("This is not JSON"))
	}))

	_, err := store.Parameter(context.Background(), "test/param-name", false)
	assert.True(t, errors.Is(err, ErrService))
}

func TestParameterEmptyValueIsServiceError(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Parameter":{"Value":""}}`))
	}))

	_, err := store.Parameter(context.Background(), "test/param-name", false)
	assert.True(t, errors.Is(err, ErrService))
}

func TestParameterUnreachableHostIsServiceError(t *testing.T) {
	server := newIPv4TestServer(t, http.NotFoundHandler())
	addr := server.URL
	server.Close()

	store := NewAWSStore(addr, testToken, testLabel)

	_, err := store.Parameter(context.Background(), "test/param-name", false)
	assert.True(t, errors.Is(err, ErrService))
}
