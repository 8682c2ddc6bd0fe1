package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tuneshelf/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// kvEntry is the row shape of the key-value table.
type kvEntry struct {
	K string `gorm:"column:k;primaryKey;size:191"`
	V string `gorm:"column:v;type:longtext"`
}

// TableName sets the table name for kvEntry.
func (kvEntry) TableName() string { return "kv_entries" }

// GormStore backs the key-value medium with a MySQL table of (key,
// value) rows, one row per top-level storage key.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore connects to MySQL via GORM, migrates the kv table and
// configures the connection pool.
func NewGormStore(cfg *config.Config) (*GormStore, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database with GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Get returns the value stored under key.
func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := s.db.WithContext(ctx).First(&entry, "k = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read kv row %s: %w", key, err)
	}
	return entry.V, true, nil
}

// Set stores value under key, inserting or updating the row.
func (s *GormStore) Set(ctx context.Context, key, value string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&kvEntry{K: key, V: value}).Error
	if err != nil {
		return fmt.Errorf("failed to upsert kv row %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *GormStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&kvEntry{}, "k = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete kv row %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
