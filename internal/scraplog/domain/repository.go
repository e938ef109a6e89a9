package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, log *ScrapLog) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ScrapLog, error)
	List(ctx context.Context, db *gorm.DB, limit int) ([]ScrapLog, error)
	MarkDispatched(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	WeightBetween(ctx context.Context, db *gorm.DB, start, end time.Time) (float64, error)
}
