package service

import (
	"context"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stavnycha/whereami/internal/address"
	"github.com/stavnycha/whereami/internal/geo"
	"github.com/stavnycha/whereami/internal/language"
	"github.com/stavnycha/whereami/internal/logger"
	"github.com/stavnycha/whereami/internal/metrics"
	"github.com/stavnycha/whereami/internal/models"
	"golang.org/x/sync/errgroup"
)

// RequestInfo is the part of an inbound request the service needs
type RequestInfo struct {
	RemoteAddr     string // Transport-level peer address, usually host:port
	AcceptLanguage string // Raw Accept-Language header, empty when absent
}

// WhereAmIService answers "where am I" for a single caller
// This is the service layer - it sits between the handler and the geo backend
//
// Responsibilities:
//   - Derive the caller's address
//   - Geolocate it
//   - Negotiate the preferred language
//   - Assemble the result
type WhereAmIService struct {
	locator geo.Locator      // Geolocation backend (HTTP provider or local dataset)
	metrics *metrics.Metrics // Metrics collector
	logger  *logger.Logger   // Structured logger
}

// NewWhereAmIService creates a new service
//
// Parameters:
//   - locator: any implementation of the geo.Locator interface
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewWhereAmIService(locator geo.Locator, m *metrics.Metrics, log *logger.Logger) *WhereAmIService {
	if log == nil {
		log = logger.NewDefault()
	}
	return &WhereAmIService{
		locator: locator,
		metrics: m,
		logger:  log.WithComponent("WhereAmIService"),
	}
}

// WhereAmI builds the result for one request. It never fails: anything
// that cannot be determined is left absent in the result.
//
// Flow:
//  1. Resolve the caller's address
//  2. Start the geo lookup in the background
//  3. Parse Accept-Language while the lookup is in flight
//  4. Wait for the lookup and assemble the result
func (s *WhereAmIService) WhereAmI(ctx context.Context, info RequestInfo) *models.WhereAmIResult {
	log := s.logger.WithRequestID(middleware.GetReqID(ctx))

	// Step 1: address
	ip := address.Resolve(info.RemoteAddr)

	// Step 2: geolocation runs concurrently with language parsing
	var outcome geo.Outcome
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		outcome = s.locator.Lookup(gctx, ip)
		return nil
	})

	// Step 3: language
	lang, ok := language.Parse(info.AcceptLanguage)
	s.countLanguage(ok)

	// Step 4: Lookup never returns an error, Wait only synchronizes
	_ = g.Wait()

	log.Debug().
		Str("ip", ip).
		Bool("country_found", outcome.Found).
		Str("country", outcome.Country).
		Str("language", lang).
		Msg("Resolved caller")

	return models.NewWhereAmIResult(ip, outcome.Country, lang)
}

func (s *WhereAmIService) countLanguage(found bool) {
	if s.metrics == nil {
		return
	}
	result := "absent"
	if found {
		result = "found"
	}
	s.metrics.LanguageNegotiations.WithLabelValues(result).Inc()
}
