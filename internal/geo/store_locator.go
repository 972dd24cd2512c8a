package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stavnycha/whereami/internal/logger"
	"github.com/stavnycha/whereami/internal/metrics"
	"github.com/stavnycha/whereami/internal/store"
)

// StoreLocator serves lookups from a local dataset (CSV, MySQL or Redis)
// It follows the same contract as HTTPClient: any miss or store failure is NotFound
type StoreLocator struct {
	instrumentation
	store store.Store
}

// NewStoreLocator wraps s; backend names it in logs and metrics ("csv", "mysql", "redis")
func NewStoreLocator(s store.Store, backend string, m *metrics.Metrics, log *logger.Logger) *StoreLocator {
	return &StoreLocator{
		instrumentation: newInstrumentation(backend, m, log),
		store:           s,
	}
}

// Lookup resolves address to a country using the dataset
func (l *StoreLocator) Lookup(ctx context.Context, address string) Outcome {
	return l.lookup(ctx, address, l.fetchCountry)
}

// Close releases the underlying store
func (l *StoreLocator) Close() error {
	return l.store.Close()
}

func (l *StoreLocator) fetchCountry(ctx context.Context, address string) (string, error) {
	start := time.Now()
	record, err := l.store.FindByIP(ctx, address)
	l.observeQuery(err, time.Since(start))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, address)
		}
		return "", err
	}

	return record.Country, nil
}

// observeQuery records datastore metrics for one FindByIP call
func (l *StoreLocator) observeQuery(err error, elapsed time.Duration) {
	if l.metrics == nil {
		return
	}

	status := "success"
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}

	l.metrics.DatastoreQueriesTotal.WithLabelValues(l.backend, "find_by_ip", status).Inc()
	l.metrics.DatastoreQueryDuration.WithLabelValues(l.backend, "find_by_ip").Observe(elapsed.Seconds())
}
