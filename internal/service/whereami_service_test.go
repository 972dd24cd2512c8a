package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stavnycha/whereami/internal/geo"
	"github.com/stavnycha/whereami/internal/logger"
	"github.com/stavnycha/whereami/internal/metrics"
)

func strPtrValue(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

// TestWhereAmIService_WhereAmI tests result assembly
func TestWhereAmIService_WhereAmI(t *testing.T) {
	tests := []struct {
		name            string
		info            RequestInfo
		expectIP        *string
		expectCountry   *string
		expectLanguage  *string
		expectLookupArg string
	}{
		{
			name:            "everything known",
			info:            RequestInfo{RemoteAddr: "11.111.111.1:54321", AcceptLanguage: "en-AU,en-US;q=0.7,en;q=0.3"},
			expectIP:        ptr("11.111.111.1"),
			expectCountry:   ptr("Country name"),
			expectLanguage:  ptr("en-AU"),
			expectLookupArg: "11.111.111.1",
		},
		{
			name:            "no accept-language",
			info:            RequestInfo{RemoteAddr: "11.111.111.1:54321"},
			expectIP:        ptr("11.111.111.1"),
			expectCountry:   ptr("Country name"),
			expectLookupArg: "11.111.111.1",
		},
		{
			name:            "unknown country",
			info:            RequestInfo{RemoteAddr: "10.0.0.1:80", AcceptLanguage: "da, en-GB;q=0.8"},
			expectIP:        ptr("10.0.0.1"),
			expectLanguage:  ptr("da"),
			expectLookupArg: "10.0.0.1",
		},
		{
			name:            "no remote address",
			info:            RequestInfo{AcceptLanguage: "fr"},
			expectLanguage:  ptr("fr"),
			expectLookupArg: "",
		},
		{
			name:            "nothing known",
			info:            RequestInfo{AcceptLanguage: ";q=0.5, ,"},
			expectLookupArg: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator := geo.NewMockLocator(map[string]string{"11.111.111.1": "Country name"})
			svc := NewWhereAmIService(locator, nil, logger.NewNop())

			result := svc.WhereAmI(context.Background(), tt.info)

			if strPtrValue(result.IP) != strPtrValue(tt.expectIP) {
				t.Errorf("expected ip %s, got %s", strPtrValue(tt.expectIP), strPtrValue(result.IP))
			}
			if strPtrValue(result.Country) != strPtrValue(tt.expectCountry) {
				t.Errorf("expected country %s, got %s", strPtrValue(tt.expectCountry), strPtrValue(result.Country))
			}
			if strPtrValue(result.Language) != strPtrValue(tt.expectLanguage) {
				t.Errorf("expected language %s, got %s", strPtrValue(tt.expectLanguage), strPtrValue(result.Language))
			}

			calls := locator.Calls()
			if len(calls) != 1 || calls[0] != tt.expectLookupArg {
				t.Errorf("expected one lookup for %q, got %v", tt.expectLookupArg, calls)
			}
		})
	}
}

func ptr(s string) *string {
	return &s
}

// blockingLocator waits for its context before answering
type blockingLocator struct {
	started chan struct{}
	once    sync.Once
}

func (b *blockingLocator) Lookup(ctx context.Context, _ string) geo.Outcome {
	b.once.Do(func() { close(b.started) })
	<-ctx.Done()
	return geo.NotFound()
}

// TestWhereAmIService_CanceledRequest tests that a canceled request still yields a result
func TestWhereAmIService_CanceledRequest(t *testing.T) {
	locator := &blockingLocator{started: make(chan struct{})}
	svc := NewWhereAmIService(locator, nil, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-locator.started
		cancel()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		result := svc.WhereAmI(ctx, RequestInfo{RemoteAddr: "1.1.1.1:1", AcceptLanguage: "de"})
		if result.Country != nil {
			t.Errorf("expected null country, got %s", *result.Country)
		}
		if strPtrValue(result.IP) != "1.1.1.1" {
			t.Errorf("expected ip 1.1.1.1, got %s", strPtrValue(result.IP))
		}
		if strPtrValue(result.Language) != "de" {
			t.Errorf("expected language de, got %s", strPtrValue(result.Language))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WhereAmI did not return after cancellation")
	}
}

// TestWhereAmIService_RequestID tests that a chi request ID in the context is accepted
func TestWhereAmIService_RequestID(t *testing.T) {
	svc := NewWhereAmIService(geo.NewMockLocator(nil), nil, logger.NewNop())
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")

	result := svc.WhereAmI(ctx, RequestInfo{RemoteAddr: "1.1.1.1:1"})
	if strPtrValue(result.IP) != "1.1.1.1" {
		t.Errorf("expected ip 1.1.1.1, got %s", strPtrValue(result.IP))
	}
}

// TestWhereAmIService_LanguageMetrics tests negotiation accounting
func TestWhereAmIService_LanguageMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	svc := NewWhereAmIService(geo.NewMockLocator(nil), m, logger.NewNop())

	svc.WhereAmI(context.Background(), RequestInfo{AcceptLanguage: "en"})
	svc.WhereAmI(context.Background(), RequestInfo{AcceptLanguage: "en;q=2"})
	svc.WhereAmI(context.Background(), RequestInfo{})

	for label, want := range map[string]float64{"found": 1, "absent": 2} {
		var metric dto.Metric
		if err := m.LanguageNegotiations.WithLabelValues(label).Write(&metric); err != nil {
			t.Fatalf("failed to read counter: %v", err)
		}
		if got := metric.GetCounter().GetValue(); got != want {
			t.Errorf("expected %v %s negotiations, got %v", want, label, got)
		}
	}
}

// TestNewWhereAmIService_NilLogger tests the default logger fallback
func TestNewWhereAmIService_NilLogger(t *testing.T) {
	svc := NewWhereAmIService(geo.NewMockLocator(nil), nil, nil)
	if svc.logger == nil {
		t.Error("expected a default logger")
	}
}
