package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// A row of the key value table that holds the application state
type AppStateRow struct {
	Name      string `gorm:"primaryKey"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (AppStateRow) TableName() string {
	return "app_state"
}

// SQLStore implements Store on a SQLite database through gorm
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore opens the SQLite database at dataSourceName and
// migrates the schema
func NewSQLStore(dataSourceName string) (*SQLStore, error) {
	if dataSourceName != ":memory:" {
		dir := filepath.Dir(dataSourceName)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&AppStateRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) LoadState(ctx context.Context) (State, error) {
	var row AppStateRow
	err := s.db.WithContext(ctx).Where(&AppStateRow{Name: StateKey}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return EmptyState(), nil
	}
	if err != nil {
		return EmptyState(), fmt.Errorf("failed to get key %s: %w", StateKey, err)
	}
	return decodeState(row.Payload)
}

func (s *SQLStore) SaveState(ctx context.Context, state State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	row := AppStateRow{Name: StateKey, Payload: data}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
