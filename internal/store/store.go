package store

import (
	"context"
	"errors"

	"github.com/stavnycha/whereami/internal/models"
)

// ErrNotFound is returned by every Store when an IP has no record
var ErrNotFound = errors.New("IP address not found")

// Store defines the interface for local geolocation datasets
// Allows multiple implementations (CSV, MySQL, Redis) and easy testing with mocks
type Store interface {
	// FindByIP looks up the geolocation record of an IP address
	// Returns ErrNotFound when the dataset has no entry for it
	FindByIP(ctx context.Context, ip string) (*models.GeoRecord, error)

	// Close cleans up resources (database connections, file handles, etc.)
	Close() error
}
