// Package geo resolves caller addresses to countries.
//
// Every Locator degrades to NotFound on failure: an unreachable provider,
// a timeout, an unexpected status or a malformed body all mean "country
// unknown" for the caller. Failures are logged and counted before they are
// swallowed.
package geo

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stavnycha/whereami/internal/logger"
	"github.com/stavnycha/whereami/internal/metrics"
)

// Locator resolves an address to a country
// An empty address means the caller's address is unknown
type Locator interface {
	Lookup(ctx context.Context, address string) Outcome
}

// Lookup results used as metric labels
const (
	resultFound    = "found"
	resultNotFound = "not_found"
	resultSkipped  = "skipped"
	resultInvalid  = "invalid_address"
)

// countryFetcher performs the actual backend query for a valid address
type countryFetcher func(ctx context.Context, address string) (country string, err error)

// instrumentation holds what every backend shares: address validation,
// metrics and logging around a countryFetcher
type instrumentation struct {
	backend  string
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func newInstrumentation(backend string, m *metrics.Metrics, log *logger.Logger) instrumentation {
	if log == nil {
		log = logger.NewDefault()
	}
	scoped := log.WithComponent("GeoLocator").With().Str("backend", backend).Logger()
	return instrumentation{
		backend:  backend,
		validate: validator.New(),
		metrics:  m,
		logger:   &logger.Logger{Logger: &scoped},
	}
}

// lookup runs fetch for address and turns every failure into NotFound
//
// Flow:
//  1. Absent address: NotFound, backend not queried
//  2. Address that is not an IP literal: NotFound, backend not queried
//  3. Query the backend once (no retries)
//  4. Found on a non-empty country, NotFound otherwise
func (in instrumentation) lookup(ctx context.Context, address string, fetch countryFetcher) Outcome {
	// Step 1: nothing to look up
	if address == "" {
		in.countResult(resultSkipped)
		return NotFound()
	}

	log := in.logger.WithIP(address)

	// Step 2: only IPv4/IPv6 literals are worth a query
	if err := in.validate.Var(address, "ip"); err != nil {
		log.Debug().Msg("Address is not an IP literal, skipping geolocation")
		in.countResult(resultInvalid)
		return NotFound()
	}

	// Step 3: single attempt against the backend
	start := time.Now()
	country, err := fetch(ctx, address)
	if in.metrics != nil {
		in.metrics.GeoLookupDuration.WithLabelValues(in.backend).Observe(time.Since(start).Seconds())
	}

	// Step 4: degrade any failure to NotFound
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Debug().Msg("No geolocation record for address")
		} else {
			errorType := classify(ctx, err)
			log.Warn().Err(err).Str("error_type", errorType).Msg("Geolocation lookup failed")
			if in.metrics != nil {
				in.metrics.GeoLookupErrors.WithLabelValues(in.backend, errorType).Inc()
			}
		}
		in.countResult(resultNotFound)
		return NotFound()
	}

	if country == "" {
		log.Debug().Msg("Geolocation record has no country")
		in.countResult(resultNotFound)
		return NotFound()
	}

	log.Debug().Str("country", country).Msg("Geolocation lookup successful")
	in.countResult(resultFound)
	return Found(country)
}

func (in instrumentation) countResult(result string) {
	if in.metrics != nil {
		in.metrics.GeoLookupsTotal.WithLabelValues(in.backend, result).Inc()
	}
}

// classify maps a lookup error to a metric label
func classify(ctx context.Context, err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, ErrBadHTTPStatus):
		return "status"
	case errors.Is(err, ErrMalformedResponse):
		return "decode"
	case errors.Is(err, ErrNoCountry):
		return "no_country"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return "canceled"
	default:
		return "backend"
	}
}
