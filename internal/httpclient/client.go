// Package httpclient is the JSON-over-HTTP client the upstream geocoders are queried with.
package httpclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single request when the caller passes no timeout.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a non-2xx body ends up in a StatusError.
const maxErrorBody = 512

var (
	version = "dev"
	// UserAgent is sent with every request. Nominatim rejects requests without one.
	UserAgent = fmt.Sprintf("geocode-map/%s (%s; %s)", version, runtime.GOOS, runtime.GOARCH)

	ErrNonPointerTarget = errors.New("target must be a non-nil pointer")
)

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client wraps http.Client with JSON decoding and request logging.
type Client struct {
	*http.Client
	log zerolog.Logger
}

// New returns a client. timeout <= 0 selects DefaultTimeout.
func New(log zerolog.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	}
	return &Client{
		Client: &http.Client{Timeout: timeout, Transport: transport},
		log:    log,
	}
}

// GetJSON performs a GET request for endpoint with the given query and headers and decodes the JSON
// response into target. Non-2xx responses yield a *StatusError and leave target untouched.
func (c *Client) GetJSON(ctx context.Context, endpoint string, query url.Values, headers map[string]string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNonPointerTarget
	}

	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	request.Header.Set("User-Agent", UserAgent)
	request.Header.Set("Accept", "application/json")
	for k, v := range headers {
		request.Header.Set(k, v)
	}

	start := time.Now()
	response, err := c.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Error().Err(err).Msg("failed to close HTTP response body")
		}
	}(response.Body)

	c.log.Debug().
		Str("host", reqURL.Host).
		Str("path", reqURL.Path).
		Int("status", response.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("upstream request")

	if response.StatusCode < 200 || response.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return &StatusError{StatusCode: response.StatusCode, Body: string(body)}
	}

	if err = json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}
