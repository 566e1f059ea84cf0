package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"

	"reports/models"
)

// ReplaceLines reconciles a batch of normalized order lines into the store.
// Every existing row whose order identifier appears in the batch is deleted
// and the batch is inserted, all in one transaction. Reimporting the same
// (or a corrected) report is therefore idempotent per order identifier.
// An empty batch returns 0 without touching the store.
func (s *Store) ReplaceLines(ctx context.Context, lines []models.OrderLine) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{}, len(lines))
	orderIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AmazonOrderID]; !ok {
			seen[l.AmazonOrderID] = struct{}{}
			orderIDs = append(orderIDs, l.AmazonOrderID)
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("amazon_order_id IN ?", orderIDs).Delete(&models.OrderLine{}).Error; err != nil {
			return fmt.Errorf("failed to delete existing orders: %w", err)
		}
		if err := tx.CreateInBatches(lines, 500).Error; err != nil {
			return fmt.Errorf("failed to insert orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(lines), nil
}

// LineQuery selects order lines for aggregation. Only lines with a purchase
// date and an item price qualify. Start is inclusive, End exclusive.
type LineQuery struct {
	Start            time.Time
	End              time.Time
	SalesChannel     string // raw sales-channel value, e.g. "amazon.com"; empty = all
	ExcludeCancelled bool
}

// Lines returns the order lines matching q, unordered.
func (s *Store) Lines(ctx context.Context, q LineQuery) ([]models.OrderLine, error) {
	tx := s.db.WithContext(ctx).
		Where("purchase_date IS NOT NULL").
		Where("item_price IS NOT NULL").
		Where("purchase_date >= ? AND purchase_date < ?", q.Start, q.End)

	if q.SalesChannel != "" {
		tx = tx.Where("lower(COALESCE(sales_channel, '')) = ?", q.SalesChannel)
	}
	if q.ExcludeCancelled {
		tx = tx.Where("lower(COALESCE(item_status, '')) NOT IN ('cancelled', 'canceled')")
	}

	var lines []models.OrderLine
	if err := tx.Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	return lines, nil
}

// LatestUpdateDate returns the most recent last-updated timestamp across
// all order lines, or nil for an empty store.
func (s *Store) LatestUpdateDate(ctx context.Context) (*time.Time, error) {
	var latest sql.NullTime
	err := s.db.WithContext(ctx).
		Raw("SELECT MAX(last_updated_date) FROM orders").
		Scan(&latest).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query latest update date: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	t := latest.Time
	return &t, nil
}
