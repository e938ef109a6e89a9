package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows a history query. Zero values mean no filter.
type ListFilter struct {
	MeterType MeterType
	MeterID   string
	Limit     int
}

// SeriesSummary describes one known (meter_type, meter_id) series.
type SeriesSummary struct {
	MeterType    MeterType `json:"meter_type"`
	MeterID      string    `json:"meter_id"`
	Unit         string    `json:"unit"`
	ReadingCount int64     `json:"reading_count"`
	LastReading  time.Time `json:"last_reading"`
	LastValue    float64   `json:"last_value"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, reading *MeterReading) error
	FindLatest(ctx context.Context, db *gorm.DB, meterType MeterType, meterID string) (*MeterReading, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]MeterReading, error)
	LatestPerSeries(ctx context.Context, db *gorm.DB) ([]MeterReading, error)
	ListSeries(ctx context.Context, db *gorm.DB) ([]SeriesSummary, error)
	SumPositiveDeltas(ctx context.Context, db *gorm.DB, meterType MeterType, start, end time.Time) (float64, error)
	ReadingsBetween(ctx context.Context, db *gorm.DB, meterType MeterType, start, end time.Time) ([]MeterReading, error)
}
