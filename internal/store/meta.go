package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reports/models"
)

// AsinMeta returns the metadata record for one ASIN, or nil when absent.
func (s *Store) AsinMeta(ctx context.Context, asin string) (*models.AsinMeta, error) {
	var meta models.AsinMeta
	err := s.db.WithContext(ctx).First(&meta, "asin = ?", asin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query asin meta: %w", err)
	}
	return &meta, nil
}

// AllAsinMeta returns every metadata record ordered by ASIN.
func (s *Store) AllAsinMeta(ctx context.Context) ([]models.AsinMeta, error) {
	var metas []models.AsinMeta
	if err := s.db.WithContext(ctx).Order("asin").Find(&metas).Error; err != nil {
		return nil, fmt.Errorf("failed to query asin meta: %w", err)
	}
	return metas, nil
}

// UpsertAsinMeta inserts or wholesale-replaces a metadata record.
func (s *Store) UpsertAsinMeta(ctx context.Context, meta models.AsinMeta) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asin"}},
		UpdateAll: true,
	}).Create(&meta).Error
	if err != nil {
		return fmt.Errorf("failed to upsert asin meta: %w", err)
	}
	return nil
}

// DeleteAsinMeta removes one metadata record. Deleting an absent ASIN is
// not an error.
func (s *Store) DeleteAsinMeta(ctx context.Context, asin string) error {
	if err := s.db.WithContext(ctx).Delete(&models.AsinMeta{}, "asin = ?", asin).Error; err != nil {
		return fmt.Errorf("failed to delete asin meta: %w", err)
	}
	return nil
}

type backfillRow struct {
	ASIN        string
	ProductName string
}

// EnsureAsinMeta creates title-only metadata records for ASINs that appear
// in order lines but have no metadata yet. The candidate title is the
// lowest (deterministic) non-empty product name seen for the ASIN with the
// brand display name stripped from its front. Existing records are never
// overwritten.
func (s *Store) EnsureAsinMeta(ctx context.Context, brandDisplayName string) error {
	var rows []backfillRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT o.asin AS asin, MIN(o.product_name) AS product_name
		FROM orders o
		LEFT JOIN asin_meta m ON o.asin = m.asin
		WHERE o.asin IS NOT NULL
		  AND TRIM(o.asin) <> ''
		  AND m.asin IS NULL
		  AND o.product_name IS NOT NULL
		  AND TRIM(o.product_name) <> ''
		  AND TRIM(o.product_name) <> '-'
		GROUP BY o.asin
	`).Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to query asins missing meta: %w", err)
	}

	var toInsert []models.AsinMeta
	for _, row := range rows {
		title := deriveTitle(row.ProductName, brandDisplayName)
		if title == "" {
			continue
		}
		t := title
		toInsert = append(toInsert, models.AsinMeta{ASIN: row.ASIN, TitleOverride: &t})
	}

	if len(toInsert) == 0 {
		return nil
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asin"}},
		DoNothing: true,
	}).Create(&toInsert).Error
	if err != nil {
		return fmt.Errorf("failed to backfill asin meta: %w", err)
	}
	return nil
}

// deriveTitle turns a raw product name into a backfill title. A leading
// brand-name prefix is stripped case-insensitively along with the
// punctuation that usually follows it. Returns "" when nothing usable
// remains or the name is the "-" placeholder.
func deriveTitle(productName, brandDisplayName string) string {
	name := strings.TrimSpace(productName)
	if name == "" || name == "-" {
		return ""
	}

	brand := strings.TrimSpace(brandDisplayName)
	if brand == "" {
		return name
	}

	if strings.HasPrefix(strings.ToLower(name), strings.ToLower(brand)) {
		name = strings.TrimLeft(name[len(brand):], " ,:-")
	}
	return name
}
