package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	List(ctx context.Context) (*ListResponse, error)
	UpsertFactor(ctx context.Context, req UpsertFactorRequest) (*FactorResponse, error)
	SetConfig(ctx context.Context, req SetConfigRequest) (*ConfigResponse, error)
	LoadFactorSet(ctx context.Context) (FactorSet, error)
}

type UpsertFactorRequest struct {
	Stage                 string   `json:"-"`
	ElectricityKWhPerUnit *float64 `json:"electricity_kwh_per_unit,omitempty"`
	WaterKLPerUnit        *float64 `json:"water_kl_per_unit,omitempty"`
	DirectCO2KgPerUnit    *float64 `json:"direct_co2_kg_per_unit,omitempty"`
	Notes                 *string  `json:"notes,omitempty"`
	UpdatedBy             string   `json:"-"`
}

type SetConfigRequest struct {
	Key   string `json:"-"`
	Value string `json:"value"`
}

type FactorResponse struct {
	ID                    string    `json:"id"`
	Stage                 string    `json:"stage"`
	ElectricityKWhPerUnit float64   `json:"electricity_kwh_per_unit"`
	WaterKLPerUnit        float64   `json:"water_kl_per_unit"`
	DirectCO2KgPerUnit    float64   `json:"direct_co2_kg_per_unit"`
	Notes                 *string   `json:"notes"`
	UpdatedBy             string    `json:"updated_by"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type ConfigResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type ListResponse struct {
	Factors []FactorResponse  `json:"factors"`
	Config  map[string]string `json:"config"`
}

var (
	ErrUnknownStage  = errors.New("unknown_stage")
	ErrValueRequired = errors.New("value_required")
	ErrInvalidKey    = errors.New("invalid_key")
)
