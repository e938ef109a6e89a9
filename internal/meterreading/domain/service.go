package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Record(ctx context.Context, req RecordRequest) (*RecordResponse, error)
	List(ctx context.Context, req ListRequest) ([]ReadingResponse, error)
	Latest(ctx context.Context) ([]ReadingResponse, error)
	Series(ctx context.Context) ([]SeriesSummary, error)
	ConsumptionBetween(ctx context.Context, meterType MeterType, start, end time.Time) (float64, error)
	ReadingsBetween(ctx context.Context, meterType MeterType, start, end time.Time) ([]ReadingResponse, error)
}

type RecordRequest struct {
	MeterType    string   `json:"meter_type"`
	MeterID      string   `json:"meter_id"`
	ReadingValue *float64 `json:"reading_value"`
	PhotoData    *string  `json:"photo_data,omitempty"`
	OCRRaw       *string  `json:"ocr_raw,omitempty"`
	RecordedBy   string   `json:"-"`
}

type ListRequest struct {
	MeterType string
	MeterID   string
	Limit     int
}

type ReadingResponse struct {
	ID               string    `json:"id"`
	MeterType        MeterType `json:"meter_type"`
	MeterID          string    `json:"meter_id"`
	ReadingValue     float64   `json:"reading_value"`
	Unit             string    `json:"unit"`
	ConsumptionDelta *float64  `json:"consumption_delta"`
	RecordedBy       string    `json:"recorded_by"`
	RecordedAt       time.Time `json:"recorded_at"`
}

type RecordResponse struct {
	ReadingResponse
	PrevReading *float64 `json:"prev_reading"`
}

var (
	ErrReadingRequired  = errors.New("reading_value_required")
	ErrInvalidMeterType = errors.New("invalid_meter_type")
)
