package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/stavnycha/whereami/internal/models"
)

// CSVStore implements Store interface using a CSV file
// It loads all data into memory for fast lookups
type CSVStore struct {
	// data maps IP addresses to geolocation records
	data map[string]*models.GeoRecord
}

// NewCSVStore creates a new CSV store by reading a CSV file
//
// CSV Format: ip,city,country (first row is a header)
// Example: 8.8.8.8,Mountain View,United States
func NewCSVStore(filePath string) (*CSVStore, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Rows with a wrong column count are skipped below, not rejected by the reader
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	store := &CSVStore{
		data: make(map[string]*models.GeoRecord),
	}

	for i, record := range records {
		// Skip header row
		if i == 0 {
			continue
		}

		// Skip invalid records instead of failing the whole file
		if len(record) != 3 {
			continue
		}

		ip := strings.TrimSpace(record[0])
		if ip == "" {
			continue
		}

		store.data[ip] = &models.GeoRecord{
			IP:      ip,
			City:    strings.TrimSpace(record[1]),
			Country: strings.TrimSpace(record[2]),
		}
	}

	return store, nil
}

// FindByIP looks up an IP address in the store
// Implements the Store interface method
func (s *CSVStore) FindByIP(_ context.Context, ip string) (*models.GeoRecord, error) {
	record, exists := s.data[ip]
	if !exists {
		return nil, ErrNotFound
	}
	return record, nil
}

// Records returns every record of the dataset
// Used to seed other stores from the same file
func (s *CSVStore) Records() []*models.GeoRecord {
	records := make([]*models.GeoRecord, 0, len(s.data))
	for _, record := range s.data {
		records = append(records, record)
	}
	return records
}

// Close is a no-op: all data is in memory
func (s *CSVStore) Close() error {
	return nil
}
