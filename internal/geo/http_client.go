package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stavnycha/whereami/internal/logger"
	"github.com/stavnycha/whereami/internal/metrics"
)

const (
	// DefaultBaseURL is the ipinfo.io endpoint; GET /<ip> returns {"ip": ..., "country": ...}
	DefaultBaseURL = "http://ipinfo.io"
	// DefaultTimeout bounds a lookup when no timeout is configured
	DefaultTimeout = 5 * time.Second

	// BackendHTTP is the metric and log label of HTTPClient
	BackendHTTP = "http"

	maxResponseSize = 1 << 20
	userAgent       = "whereami"
)

// HTTPClientConfig configures an HTTPClient
type HTTPClientConfig struct {
	BaseURL    string        // Provider base URL, the address is appended as a path segment
	Token      string        // Optional bearer token
	Timeout    time.Duration // Upper bound for one lookup
	HTTPClient *http.Client  // Optional, built from Timeout when nil
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
}

// HTTPClient looks up countries from a provider reachable over HTTP
//
// Request:  GET <base-url>/<address>
// Response: JSON object with at least a "country" string field
type HTTPClient struct {
	instrumentation
	client  *http.Client
	baseURL string
	token   string
}

// NewHTTPClient creates an HTTP geolocation client
// Missing values fall back to DefaultBaseURL and DefaultTimeout
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &HTTPClient{
		instrumentation: newInstrumentation(BackendHTTP, cfg.Metrics, cfg.Logger),
		client:          client,
		baseURL:         baseURL,
		token:           strings.TrimSpace(cfg.Token),
	}
}

// Lookup resolves address to a country
// Returns NotFound for an absent or invalid address without calling the
// provider, and for any provider or network failure
func (c *HTTPClient) Lookup(ctx context.Context, address string) Outcome {
	return c.lookup(ctx, address, c.fetchCountry)
}

// fetchCountry performs the provider request for one address
func (c *HTTPClient) fetchCountry(ctx context.Context, address string) (string, error) {
	endpoint, err := url.JoinPath(c.baseURL, address)
	if err != nil {
		return "", fmt.Errorf("building request URL: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("doing request: %w", err)
	}
	defer response.Body.Close()

	body := io.LimitReader(response.Body, maxResponseSize)

	switch {
	case response.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, address)
	case response.StatusCode < 200 || response.StatusCode > 299:
		return "", fmt.Errorf("%w: %d %s (%s)", ErrBadHTTPStatus,
			response.StatusCode, http.StatusText(response.StatusCode), bodyToSingleLine(body))
	}

	var data struct {
		IP      string `json:"ip"`
		Country string `json:"country"`
	}
	if err := json.NewDecoder(body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	// Drain what is left so the connection can be reused
	_, _ = io.Copy(io.Discard, body)

	if strings.TrimSpace(data.Country) == "" {
		return "", ErrNoCountry
	}

	return data.Country, nil
}

// bodyToSingleLine reads body for error messages, flattening line breaks
func bodyToSingleLine(body io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(body, 512))
	if err != nil {
		return ""
	}
	line := strings.ReplaceAll(string(b), "\n", " ")
	line = strings.ReplaceAll(line, "\r", "")
	return strings.TrimSpace(line)
}
