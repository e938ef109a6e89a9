package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, log *ProductionLog) error
	List(ctx context.Context, db *gorm.DB, date *time.Time, limit int) ([]ProductionLog, error)
	ListByDate(ctx context.Context, db *gorm.DB, date time.Time) ([]ProductionLog, error)
	ListBetween(ctx context.Context, db *gorm.DB, start, end time.Time) ([]ProductionLog, error)
	Latest(ctx context.Context, db *gorm.DB) (*ProductionLog, error)
	TotalsBetween(ctx context.Context, db *gorm.DB, start, end time.Time) (Totals, error)
}
