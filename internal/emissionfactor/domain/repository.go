package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListFactors(ctx context.Context, db *gorm.DB) ([]EmissionFactor, error)
	FindFactor(ctx context.Context, db *gorm.DB, stage string) (*EmissionFactor, error)
	InsertFactor(ctx context.Context, db *gorm.DB, factor *EmissionFactor) error
	UpdateFactor(ctx context.Context, db *gorm.DB, factor *EmissionFactor) error
	ListConfig(ctx context.Context, db *gorm.DB) ([]AppConfig, error)
	UpsertConfig(ctx context.Context, db *gorm.DB, row *AppConfig) error
}
