// Package sqlite stores collections as rows of a single GORM-managed table.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type collectionRecord struct {
	Name      string `gorm:"primaryKey"`
	Records   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (collectionRecord) TableName() string { return "planning_collections" }

type Store struct {
	db *gorm.DB
}

// Open connects to the database file at path with WAL journaling and migrates
// the collections table. Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_journal_mode=WAL"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db)
}

// New uses an existing connection.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&collectionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	var rec collectionRecord
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(rec.Records), nil
}

func (s *Store) Save(ctx context.Context, name string, records []byte) error {
	rec := collectionRecord{Name: name, Records: string(records), UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"records", "updated_at"}),
	}).Create(&rec).Error
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
