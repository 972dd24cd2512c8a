package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stavnycha/whereami/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ipCountryTable holds one row per address: ip (primary key), city, country
const ipCountryTable = "ip2country"

// IPCountryModel is the GORM model for the ip2country table
type IPCountryModel struct {
	IP      string `gorm:"column:ip;primaryKey;size:45"`
	City    string `gorm:"column:city"`
	Country string `gorm:"column:country"`
}

// TableName overrides GORM's pluralized default ("ip_country_models")
func (IPCountryModel) TableName() string {
	return ipCountryTable
}

// toRecord converts a row into the dataset record shared by all stores
func (m IPCountryModel) toRecord() *models.GeoRecord {
	return &models.GeoRecord{
		IP:      m.IP,
		City:    m.City,
		Country: m.Country,
	}
}

// MySQLConfig configures the connection pool of a MySQLStore
type MySQLConfig struct {
	DSN             string        // user:password@tcp(host:port)/dbname?parseTime=true
	MaxOpenConns    int           // 25 when zero
	MaxIdleConns    int           // 5 when zero
	ConnMaxLifetime time.Duration // 5 minutes when zero
}

func (c MySQLConfig) withDefaults() MySQLConfig {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 5 * time.Minute
	}
	return c
}

// MySQLStore serves the geolocation dataset from MySQL through GORM
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore connects to MySQL and checks the connection within ctx
func NewMySQLStore(ctx context.Context, cfg MySQLConfig) (*MySQLStore, error) {
	cfg = cfg.withDefaults()

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL with GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

// FindByIP returns the row for ip, ErrNotFound when there is none
// The query is abandoned when ctx is canceled
func (s *MySQLStore) FindByIP(ctx context.Context, ip string) (*models.GeoRecord, error) {
	var row IPCountryModel

	err := s.db.WithContext(ctx).Where("ip = ?", ip).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	return row.toRecord(), nil
}

// Count returns the number of rows in the dataset
func (s *MySQLStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&IPCountryModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting %s rows: %w", ipCountryTable, err)
	}
	return count, nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
