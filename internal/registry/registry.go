package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reports/models"
)

var (
	ErrBrandNotFound = errors.New("brand not found")
	ErrBrandExists   = errors.New("brand id already exists")
)

// Registry is the shared brand/user database. Unlike the per-brand order
// stores it is a single instance for the whole deployment; production
// wiring backs it with Postgres, tests use sqlite.
type Registry struct {
	db *gorm.DB
}

func Open(dialector gorm.Dialector) (*Registry, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.Brand{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate registry: %w", err)
	}

	return &Registry{db: db}, nil
}

func (r *Registry) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Brands returns every brand ordered by name.
func (r *Registry) Brands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.WithContext(ctx).Order("name").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}
	return brands, nil
}

func (r *Registry) Brand(ctx context.Context, id string) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBrandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query brand: %w", err)
	}
	return &brand, nil
}

// CreateBrand registers a new brand. A missing ID is generated; a
// duplicate ID is rejected.
func (r *Registry) CreateBrand(ctx context.Context, brand *models.Brand) error {
	if brand.Name == "" {
		return fmt.Errorf("brand name is required")
	}
	if brand.ID == "" {
		brand.ID = uuid.NewString()
	}

	if _, err := r.Brand(ctx, brand.ID); err == nil {
		return ErrBrandExists
	} else if !errors.Is(err, ErrBrandNotFound) {
		return err
	}

	if err := r.db.WithContext(ctx).Create(brand).Error; err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}

// UpdateBrand renames a brand. Brand IDs are immutable: they key the data
// directory layout on disk.
func (r *Registry) UpdateBrand(ctx context.Context, id, name string) (*models.Brand, error) {
	if name == "" {
		return nil, fmt.Errorf("brand name is required")
	}

	brand, err := r.Brand(ctx, id)
	if err != nil {
		return nil, err
	}

	brand.Name = name
	if err := r.db.WithContext(ctx).Save(brand).Error; err != nil {
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}
	return brand, nil
}

// DeleteBrand removes the registry row only; the brand's order store and
// archive stay on disk.
func (r *Registry) DeleteBrand(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Brand{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete brand: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBrandNotFound
	}
	return nil
}

// DisplayName resolves a brand ID to its display name, or "" when the
// brand is unknown. Used by the ingestion backfill to strip brand-name
// prefixes from product titles.
func (r *Registry) DisplayName(ctx context.Context, brandID string) (string, error) {
	brand, err := r.Brand(ctx, brandID)
	if errors.Is(err, ErrBrandNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return brand.Name, nil
}
