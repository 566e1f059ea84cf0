package store

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reports/config"
	"reports/models"
)

// Store is one brand's durable order store. Brands never share a store;
// cross-brand coordination does not exist. Migration is create-if-missing
// only.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}

	if err := db.AutoMigrate(&models.OrderLine{}, &models.AsinMeta{}, &models.ImportRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// OpenBrand opens the store for one brand under the configured data dir,
// creating the brand's directories on first use.
func OpenBrand(cfg *config.Config, brandID string) (*Store, error) {
	if err := cfg.EnsureBrandDirs(brandID); err != nil {
		return nil, err
	}
	return Open(cfg.BrandDBPath(brandID))
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
