// Package params retrieves named configuration values from the AWS
// Parameters and Secrets Lambda extension, which proxies SSM Parameter
// Store over localhost HTTP. It is deliberately independent of the
// book provider taxonomy: every failure here collapses into the single
// ErrService kind.
package params

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TokenHeader carries the session token that authenticates requests
// against the extension.
const TokenHeader = "X-Aws-Parameters-Secrets-Token"

const getPath = "/systemsmanager/parameters/get"

// ErrService covers every way a parameter fetch can fail: transport
// errors, non-200 statuses, bodies that do not decode, and empty
// values. Callers check it with errors.Is; the wrapped detail is for
// diagnostics only.
var ErrService = errors.New("parameter store request failed")

// Store retrieves named string parameters.
type Store interface {
	Parameter(ctx context.Context, name string, decrypt bool) (string, error)
}

// Doer is an interface for making HTTP requests.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// AWSStore reads parameters through the Lambda extension endpoint,
// scoped to one environment label.
type AWSStore struct {
	baseURL    string
	token      string
	label      string
	httpClient Doer
}

// Compile-time check that AWSStore implements Store.
var _ Store = (*AWSStore)(nil)

// NewAWSStore creates a store that queries baseURL with the given
// session token, labeling every request with the environment label.
func NewAWSStore(baseURL, token, label string, opts ...Option) *AWSStore {
	store := &AWSStore{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		label:      label,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Option is a functional option for configuring the AWSStore.
type Option func(*AWSStore)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c Doer) Option {
	return func(store *AWSStore) {
		if c != nil {
			store.httpClient = c
		}
	}
}

// parameterEnvelope is the extension's response; only the value is
// consumed, the ARN/type/version metadata is ignored.
type parameterEnvelope struct {
	Parameter struct {
		Value string `json:"Value"`
	} `json:"Parameter"`
}

// Parameter returns the string value of the named parameter. decrypt
// requests SecureString decryption on the SSM side.
func (s *AWSStore) Parameter(ctx context.Context, name string, decrypt bool) (string, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("label", s.label)
	params.Set("withDecryption", strconv.FormatBool(decrypt))

	endpoint := s.baseURL + getPath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrService, err)
	}
	req.Header.Set(TokenHeader, s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrService, resp.StatusCode)
	}

	var envelope parameterEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrService, err)
	}

	if envelope.Parameter.Value == "" {
		return "", fmt.Errorf("%w: empty value for parameter %s", ErrService, name)
	}

	return envelope.Parameter.Value, nil
}
