package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	scrapdomain "github.com/utkalworks/floorops/internal/scraplog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() scrapdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, l *scrapdomain.ScrapLog) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO scrap_logs (id, scrap_type, estimated_weight, yard, status, logged_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID,
		l.ScrapType,
		l.EstimatedWeight,
		l.Yard,
		l.Status,
		l.LoggedBy,
		l.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*scrapdomain.ScrapLog, error) {
	var log scrapdomain.ScrapLog
	err := db.WithContext(ctx).Raw(
		`SELECT id, scrap_type, estimated_weight, yard, status, logged_by, created_at, dispatched_at
		 FROM scrap_logs WHERE id = ?`,
		id,
	).Scan(&log).Error
	if err != nil {
		return nil, err
	}
	if log.ID == 0 {
		return nil, nil
	}
	return &log, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, limit int) ([]scrapdomain.ScrapLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []scrapdomain.ScrapLog
	err := db.WithContext(ctx).Raw(
		`SELECT id, scrap_type, estimated_weight, yard, status, logged_by, created_at, dispatched_at
		 FROM scrap_logs ORDER BY created_at DESC LIMIT ?`,
		limit,
	).Scan(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) MarkDispatched(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE scrap_logs SET status = ?, dispatched_at = ? WHERE id = ?`,
		scrapdomain.StatusDispatched,
		at,
		id,
	).Error
}

func (r *repo) WeightBetween(ctx context.Context, db *gorm.DB, start, end time.Time) (float64, error) {
	var row struct {
		TotalKg float64 `gorm:"column:total_kg"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(estimated_weight), 0) as total_kg
		 FROM scrap_logs WHERE created_at >= ? AND created_at < ?`,
		start,
		end,
	).Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.TotalKg, nil
}
