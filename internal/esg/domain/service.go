package domain

import (
	"context"

	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
)

type Service interface {
	Overview(ctx context.Context, period Period) (*OverviewResponse, error)
	Chart(ctx context.Context, period Period) (*ChartResponse, error)
	FactorSummary(ctx context.Context) (*FactorSummaryResponse, error)
	Report(ctx context.Context, period Period) ([]byte, error)
}

// Range reports the resolved window as date strings, end exclusive.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ElectricityLeg struct {
	KWh   float64 `json:"kwh"`
	CO2Kg float64 `json:"co2_kg"`
}

type WaterLeg struct {
	KL    float64 `json:"kl"`
	CO2Kg float64 `json:"co2_kg"`
}

type ProductionLeg struct {
	DirectCO2Kg       float64 `json:"direct_co2_kg"`
	EstElectricityKWh float64 `json:"est_electricity_kwh"`
	EstWaterKL        float64 `json:"est_water_kl"`
}

type WasteLeg struct {
	Kg      float64 `json:"kg"`
	ScrapKg float64 `json:"scrap_kg"`
	CO2Kg   float64 `json:"co2_kg"`
}

type OverviewConfig struct {
	GridCO2Factor  float64 `json:"grid_co2_factor"`
	WaterCO2Factor float64 `json:"water_co2_factor"`
	WasteCO2Factor float64 `json:"waste_co2_factor"`
}

type OverviewResponse struct {
	Period        Period                    `json:"period"`
	Range         Range                     `json:"range"`
	Electricity   ElectricityLeg            `json:"electricity"`
	Water         WaterLeg                  `json:"water"`
	Production    ProductionLeg             `json:"production"`
	Waste         WasteLeg                  `json:"waste"`
	TotalCO2Kg    float64                   `json:"total_co2_kg"`
	StageSnapshot []factordomain.StageEntry `json:"stage_snapshot"`
	Config        OverviewConfig            `json:"config"`
}

type ChartSeries struct {
	Electricity   []Point `json:"electricity"`
	Water         []Point `json:"water"`
	ProductionCO2 []Point `json:"production_co2"`
}

type ChartResponse struct {
	Period Period      `json:"period"`
	Range  Range       `json:"range"`
	Series ChartSeries `json:"series"`
}

// FactorWithTotal extends a factor row with its full-chain per-unit CO2.
type FactorWithTotal struct {
	factordomain.FactorResponse
	TotalCO2PerUnit float64 `json:"total_co2_per_unit"`
}

type FactorSummaryResponse struct {
	Factors        []FactorWithTotal `json:"factors"`
	GridCO2Factor  float64           `json:"grid_co2_factor"`
	WaterCO2Factor float64           `json:"water_co2_factor"`
}
