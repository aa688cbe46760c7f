package connection

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/plmtools/centric-cli/internal/infra/buildinfo"
	"github.com/plmtools/centric-cli/internal/telemetry/logger"
)

// Envelope is the outcome of a single request attempt.
type Envelope struct {
	StatusCode int
	Body       []byte
}

// HTTPClient performs individual HTTP requests against the API.
type HTTPClient struct {
	client    *http.Client
	userAgent string
}

// NewHTTPClient creates a new HTTP client with the given timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		client:    &http.Client{Timeout: timeout},
		userAgent: "centric-cli/" + buildinfo.Version,
	}
}

// Do sends one request and reads the full response body. Any HTTP
// status is returned in the envelope; only network-level failures
// (connect, DNS, timeout) produce an error, always a *TransportError.
func (c *HTTPClient) Do(ctx context.Context, method, url string, body []byte, token string) (*Envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.Debug("sending request",
		"method", method,
		"url", url,
		"auth", logger.MaskBearer(req.Header.Get("Authorization")),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	return &Envelope{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// NormalizeBaseURL ensures a scheme prefix and strips any trailing slash.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL != "" && !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// JoinURL joins a base URL with path segments, normalizing slashes.
func JoinURL(baseURL string, segments ...string) string {
	parts := []string{NormalizeBaseURL(baseURL)}
	for _, seg := range segments {
		seg = strings.Trim(seg, "/")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "/")
}
