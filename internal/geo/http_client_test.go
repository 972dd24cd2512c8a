package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stavnycha/whereami/internal/logger"
	"github.com/stavnycha/whereami/internal/metrics"
)

// providerStub is a fake geolocation provider that counts requests
type providerStub struct {
	server   *httptest.Server
	requests atomic.Int32
	lastPath atomic.Value
	lastAuth atomic.Value
}

// newProviderStub starts a provider answering with status and body
func newProviderStub(t *testing.T, status int, body string) *providerStub {
	t.Helper()

	stub := &providerStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.requests.Add(1)
		stub.lastPath.Store(r.URL.Path)
		stub.lastAuth.Store(r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(stub.server.Close)

	return stub
}

// newTestClient creates a client pointed at baseURL
func newTestClient(baseURL string, m *metrics.Metrics) *HTTPClient {
	return NewHTTPClient(HTTPClientConfig{
		BaseURL: baseURL,
		Timeout: time.Second,
		Metrics: m,
		Logger:  logger.NewNop(),
	})
}

// TestHTTPClient_Lookup_Found tests a successful provider response
func TestHTTPClient_Lookup_Found(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"ip":"11.111.111.1","country":"Country name"}`)
	m := newTestMetrics()
	client := newTestClient(stub.server.URL, m)

	outcome := client.Lookup(context.Background(), "11.111.111.1")

	if !outcome.Found {
		t.Fatal("expected Found outcome")
	}
	if outcome.Country != "Country name" {
		t.Errorf("expected country 'Country name', got '%s'", outcome.Country)
	}
	if path := stub.lastPath.Load(); path != "/11.111.111.1" {
		t.Errorf("expected request path '/11.111.111.1', got %v", path)
	}
	if got := counterValue(t, m.GeoLookupsTotal.WithLabelValues(BackendHTTP, resultFound)); got != 1 {
		t.Errorf("expected 1 found lookup, got %v", got)
	}
}

// TestHTTPClient_Lookup_IPv6 tests that IPv6 addresses become a single path segment
func TestHTTPClient_Lookup_IPv6(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"ip":"2001:4860:4860::8888","country":"US"}`)
	client := newTestClient(stub.server.URL, nil)

	outcome := client.Lookup(context.Background(), "2001:4860:4860::8888")

	if !outcome.Found || outcome.Country != "US" {
		t.Errorf("expected Found(US), got %+v", outcome)
	}
	if path := stub.lastPath.Load(); path != "/2001:4860:4860::8888" {
		t.Errorf("expected request path '/2001:4860:4860::8888', got %v", path)
	}
}

// TestHTTPClient_Lookup_AbsentAddress tests that no request is sent without an address
func TestHTTPClient_Lookup_AbsentAddress(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"ip":"","country":"Nowhere"}`)
	m := newTestMetrics()
	client := newTestClient(stub.server.URL, m)

	outcome := client.Lookup(context.Background(), "")

	if outcome.Found {
		t.Errorf("expected NotFound, got %+v", outcome)
	}
	if n := stub.requests.Load(); n != 0 {
		t.Errorf("expected no provider request, got %d", n)
	}
	if got := counterValue(t, m.GeoLookupsTotal.WithLabelValues(BackendHTTP, resultSkipped)); got != 1 {
		t.Errorf("expected 1 skipped lookup, got %v", got)
	}
}

// TestHTTPClient_Lookup_InvalidAddress tests that non-IP addresses are not sent
func TestHTTPClient_Lookup_InvalidAddress(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"country":"Nowhere"}`)
	client := newTestClient(stub.server.URL, nil)

	for _, address := range []string{"not-an-ip", "192.168.1", "300.300.300.300", "../admin"} {
		t.Run(address, func(t *testing.T) {
			if outcome := client.Lookup(context.Background(), address); outcome.Found {
				t.Errorf("expected NotFound, got %+v", outcome)
			}
		})
	}

	if n := stub.requests.Load(); n != 0 {
		t.Errorf("expected no provider request, got %d", n)
	}
}

// TestHTTPClient_Lookup_NotFoundStatus tests a 404 from the provider
func TestHTTPClient_Lookup_NotFoundStatus(t *testing.T) {
	stub := newProviderStub(t, http.StatusNotFound, `{"error":"Wrong ip"}`)
	m := newTestMetrics()
	client := newTestClient(stub.server.URL, m)

	outcome := client.Lookup(context.Background(), "11.111.111.1")

	if outcome.Found {
		t.Errorf("expected NotFound, got %+v", outcome)
	}
	if got := counterValue(t, m.GeoLookupsTotal.WithLabelValues(BackendHTTP, resultNotFound)); got != 1 {
		t.Errorf("expected 1 not found lookup, got %v", got)
	}
	// A missing record is an expected answer, not a failure
	if got := counterValue(t, m.GeoLookupErrors.WithLabelValues(BackendHTTP, "status")); got != 0 {
		t.Errorf("expected no status error, got %v", got)
	}
}

// TestHTTPClient_Lookup_Failures tests that provider failures degrade to NotFound
func TestHTTPClient_Lookup_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		errorType string
	}{
		{"server error", http.StatusInternalServerError, "boom", "status"},
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, "status"},
		{"redirect status", http.StatusNotModified, "", "status"},
		{"malformed body", http.StatusOK, "not json", "decode"},
		{"empty body", http.StatusOK, "", "decode"},
		{"country wrong type", http.StatusOK, `{"ip":"11.111.111.1","country":42}`, "decode"},
		{"missing country", http.StatusOK, `{"ip":"11.111.111.1"}`, "no_country"},
		{"blank country", http.StatusOK, `{"ip":"11.111.111.1","country":"  "}`, "no_country"},
		{"null country", http.StatusOK, `{"ip":"11.111.111.1","country":null}`, "no_country"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newProviderStub(t, tt.status, tt.body)
			m := newTestMetrics()
			client := newTestClient(stub.server.URL, m)

			outcome := client.Lookup(context.Background(), "11.111.111.1")

			if outcome.Found {
				t.Errorf("expected NotFound, got %+v", outcome)
			}
			if got := counterValue(t, m.GeoLookupErrors.WithLabelValues(BackendHTTP, tt.errorType)); got != 1 {
				t.Errorf("expected 1 %s error, got %v", tt.errorType, got)
			}
		})
	}
}

// TestHTTPClient_Lookup_Unreachable tests a provider that refuses connections
func TestHTTPClient_Lookup_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	m := newTestMetrics()
	client := newTestClient(baseURL, m)

	outcome := client.Lookup(context.Background(), "11.111.111.1")

	if outcome.Found {
		t.Errorf("expected NotFound, got %+v", outcome)
	}
	if got := counterValue(t, m.GeoLookupErrors.WithLabelValues(BackendHTTP, "backend")); got != 1 {
		t.Errorf("expected 1 backend error, got %v", got)
	}
}

// TestHTTPClient_Lookup_Timeout tests that a slow provider is abandoned
func TestHTTPClient_Lookup_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	m := newTestMetrics()
	client := NewHTTPClient(HTTPClientConfig{
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
		Metrics: m,
		Logger:  logger.NewNop(),
	})

	start := time.Now()
	outcome := client.Lookup(context.Background(), "11.111.111.1")
	elapsed := time.Since(start)

	if outcome.Found {
		t.Errorf("expected NotFound, got %+v", outcome)
	}
	if elapsed > time.Second {
		t.Errorf("expected lookup to give up quickly, took %s", elapsed)
	}
	if got := counterValue(t, m.GeoLookupErrors.WithLabelValues(BackendHTTP, "timeout")); got != 1 {
		t.Errorf("expected 1 timeout error, got %v", got)
	}
}

// TestHTTPClient_Lookup_CanceledContext tests that a canceled request yields NotFound
func TestHTTPClient_Lookup_CanceledContext(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"country":"Country name"}`)
	m := newTestMetrics()
	client := newTestClient(stub.server.URL, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := client.Lookup(ctx, "11.111.111.1")

	if outcome.Found {
		t.Errorf("expected NotFound, got %+v", outcome)
	}
	if got := counterValue(t, m.GeoLookupErrors.WithLabelValues(BackendHTTP, "canceled")); got != 1 {
		t.Errorf("expected 1 canceled error, got %v", got)
	}
}

// TestHTTPClient_Token tests the optional bearer token
func TestHTTPClient_Token(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"country":"AU"}`)

	client := NewHTTPClient(HTTPClientConfig{
		BaseURL: stub.server.URL,
		Token:   "secret",
		Logger:  logger.NewNop(),
	})
	client.Lookup(context.Background(), "1.1.1.1")

	if auth := stub.lastAuth.Load(); auth != "Bearer secret" {
		t.Errorf("expected 'Bearer secret', got %v", auth)
	}

	client = newTestClient(stub.server.URL, nil)
	client.Lookup(context.Background(), "1.1.1.1")

	if auth := stub.lastAuth.Load(); auth != "" {
		t.Errorf("expected no Authorization header, got %v", auth)
	}
}

// TestNewHTTPClient_Defaults tests default configuration values
func TestNewHTTPClient_Defaults(t *testing.T) {
	client := NewHTTPClient(HTTPClientConfig{Logger: logger.NewNop()})

	if client.baseURL != DefaultBaseURL {
		t.Errorf("expected base URL %s, got %s", DefaultBaseURL, client.baseURL)
	}
	if client.client.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %s, got %s", DefaultTimeout, client.client.Timeout)
	}
}

// TestNewHTTPClient_TrailingSlash tests base URL normalization
func TestNewHTTPClient_TrailingSlash(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"country":"AU"}`)
	client := newTestClient(stub.server.URL+"/", nil)

	client.Lookup(context.Background(), "1.1.1.1")

	if path := stub.lastPath.Load(); path != "/1.1.1.1" {
		t.Errorf("expected request path '/1.1.1.1', got %v", path)
	}
}

// TestHTTPClient_Lookup_Idempotent tests repeated identical lookups
func TestHTTPClient_Lookup_Idempotent(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"ip":"1.1.1.1","country":"Australia"}`)
	client := newTestClient(stub.server.URL, nil)

	first := client.Lookup(context.Background(), "1.1.1.1")
	for i := 0; i < 5; i++ {
		if got := client.Lookup(context.Background(), "1.1.1.1"); got != first {
			t.Fatalf("lookup %d: expected %+v, got %+v", i, first, got)
		}
	}
	if n := stub.requests.Load(); n != 6 {
		t.Errorf("expected one provider request per lookup (6), got %d", n)
	}
}
