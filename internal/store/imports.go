package store

import (
	"context"
	"fmt"

	"reports/models"
)

// RecordImport appends one audit entry. Entries are never updated or
// deleted.
func (s *Store) RecordImport(ctx context.Context, rec *models.ImportRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}

// Imports returns the import history, newest first.
func (s *Store) Imports(ctx context.Context) ([]models.ImportRecord, error) {
	var recs []models.ImportRecord
	err := s.db.WithContext(ctx).
		Order("imported_at DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	return recs, nil
}
