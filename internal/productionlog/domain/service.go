package domain

import (
	"context"
	"errors"
	"time"

	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
)

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error)
	Preview(ctx context.Context, entries []factordomain.StageEntry) (factordomain.Estimate, error)
	List(ctx context.Context, req ListRequest) ([]LogResponse, error)
	Today(ctx context.Context) ([]LogResponse, error)
	LatestSnapshot(ctx context.Context) ([]factordomain.StageEntry, error)
	TotalsBetween(ctx context.Context, start, end time.Time) (Totals, error)
	LogsBetween(ctx context.Context, start, end time.Time) ([]LogResponse, error)
}

type SubmitRequest struct {
	LogDate      string                   `json:"log_date"`
	ShiftType    *string                  `json:"shift_type,omitempty"`
	StageEntries []factordomain.StageEntry `json:"stage_entries"`
	WasteKg      float64                  `json:"waste_kg"`
	Notes        *string                  `json:"notes,omitempty"`
	LoggedBy     string                   `json:"-"`
}

type ListRequest struct {
	Date  string
	Limit int
}

type LogResponse struct {
	ID                string                    `json:"id"`
	LogDate           string                    `json:"log_date"`
	ShiftType         *string                   `json:"shift_type"`
	StageEntries      []factordomain.StageEntry `json:"stage_entries"`
	WasteKg           float64                   `json:"waste_kg"`
	Notes             *string                   `json:"notes"`
	EstElectricityKWh float64                   `json:"est_electricity_kwh"`
	EstWaterKL        float64                   `json:"est_water_kl"`
	DirectCO2Kg       float64                   `json:"direct_co2_kg"`
	LoggedBy          string                    `json:"logged_by"`
	LoggedAt          time.Time                 `json:"logged_at"`
}

type SubmitResponse struct {
	LogResponse
	Emissions factordomain.Estimate `json:"emissions"`
}

var (
	ErrLogDateRequired      = errors.New("log_date_required")
	ErrInvalidLogDate       = errors.New("invalid_log_date")
	ErrStageEntriesRequired = errors.New("stage_entries_required")
)
