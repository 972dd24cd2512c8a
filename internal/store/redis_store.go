package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stavnycha/whereami/internal/models"
)

// keyPrefix namespaces geolocation records in Redis
const keyPrefix = "ip:"

// RedisStore implements Store interface using Redis
//
// Key format: ip:<ip_address>   e.g. ip:8.8.8.8
// Value:      JSON-encoded GeoRecord without the IP
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number (0-15, default is 0)
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func recordKey(ip string) string {
	return keyPrefix + ip
}

// FindByIP looks up an IP address in Redis
// Implements the Store interface method
func (s *RedisStore) FindByIP(ctx context.Context, ip string) (*models.GeoRecord, error) {
	val, err := s.client.Get(ctx, recordKey(ip)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("Redis query failed: %w", err)
	}

	var record models.GeoRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation record: %w", err)
	}

	// IP is not part of the JSON value, it lives in the key
	record.IP = ip

	return &record, nil
}

// Set adds or updates an IP address in Redis (no expiration)
func (s *RedisStore) Set(ctx context.Context, ip, city, country string) error {
	data, err := json.Marshal(models.GeoRecord{City: city, Country: country})
	if err != nil {
		return fmt.Errorf("failed to encode geolocation record: %w", err)
	}

	if err := s.client.Set(ctx, recordKey(ip), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}

	return nil
}

// LoadFromCSV copies every record of a CSV dataset into Redis
// Writes go through a single pipeline. Returns the number of records loaded.
func (s *RedisStore) LoadFromCSV(ctx context.Context, csvPath string) (int, error) {
	csvStore, err := NewCSVStore(csvPath)
	if err != nil {
		return 0, fmt.Errorf("failed to load CSV: %w", err)
	}
	defer csvStore.Close()

	records := csvStore.Records()
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("failed to encode IP %s: %w", record.IP, err)
			}
			pipe.Set(ctx, recordKey(record.IP), data, 0)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to store records in Redis: %w", err)
	}

	return len(records), nil
}

// IsEmpty reports whether Redis holds no geolocation record
func (s *RedisStore) IsEmpty(ctx context.Context) (bool, error) {
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	if iter.Next(ctx) {
		return false, nil
	}
	if err := iter.Err(); err != nil {
		return false, fmt.Errorf("failed to check Redis keys: %w", err)
	}
	return true, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
