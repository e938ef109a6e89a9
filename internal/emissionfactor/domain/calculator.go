package domain

import (
	"math"
	"strconv"
	"strings"
)

// Configuration keys and their fallbacks when the row is absent or does not
// parse as a number.
const (
	ConfigGridCO2Factor  = "grid_co2_factor"
	ConfigWaterCO2Factor = "water_co2_factor"
	ConfigWasteCO2Factor = "waste_co2_factor"

	DefaultGridCO2PerKWh = 0.82
	DefaultWaterCO2PerKL = 0.344
	DefaultWasteCO2PerKg = 0.5
)

// StageEntry records how many units passed through one stage.
type StageEntry struct {
	Stage        string  `json:"stage"`
	UnitsInStage float64 `json:"units_in_stage"`
}

// FactorConfig carries the resolved conversion coefficients.
type FactorConfig struct {
	GridCO2PerKWh float64 `json:"grid_co2_per_kwh"`
	WaterCO2PerKL float64 `json:"water_co2_per_kl"`
	WasteCO2PerKg float64 `json:"waste_co2_per_kg"`
}

// FactorSet is a point-in-time snapshot of the factor table and config,
// sufficient to estimate emissions without further lookups.
type FactorSet struct {
	Stages map[string]EmissionFactor
	Config FactorConfig
}

// Estimate is the emissions breakdown for a set of stage entries.
type Estimate struct {
	EstElectricityKWh float64 `json:"est_electricity_kwh"`
	EstWaterKL        float64 `json:"est_water_kl"`
	DirectCO2Kg       float64 `json:"direct_co2_kg"`
	ElectricityCO2Kg  float64 `json:"electricity_co2_kg"`
	WaterCO2Kg        float64 `json:"water_co2_kg"`
	TotalCO2Kg        float64 `json:"total_co2_kg"`
}

// NewFactorSet builds a FactorSet from factor rows and raw config rows,
// applying fallbacks for missing or non-numeric values.
func NewFactorSet(factors []EmissionFactor, config []AppConfig) FactorSet {
	stages := make(map[string]EmissionFactor, len(factors))
	for _, f := range factors {
		stages[f.Stage] = f
	}
	return FactorSet{
		Stages: stages,
		Config: FactorConfig{
			GridCO2PerKWh: configFloat(config, ConfigGridCO2Factor, DefaultGridCO2PerKWh),
			WaterCO2PerKL: configFloat(config, ConfigWaterCO2Factor, DefaultWaterCO2PerKL),
			WasteCO2PerKg: configFloat(config, ConfigWasteCO2Factor, DefaultWasteCO2PerKg),
		},
	}
}

// Estimate converts stage entries into estimated consumption and CO2.
// Entries whose stage has no registered factor contribute nothing. The total
// covers direct process emissions plus electricity and water conversion.
func (fs FactorSet) Estimate(entries []StageEntry) Estimate {
	var kwh, kl, direct float64
	for _, entry := range entries {
		factor, ok := fs.Stages[entry.Stage]
		if !ok {
			continue
		}
		units := entry.UnitsInStage
		kwh += units * factor.ElectricityKWhPerUnit
		kl += units * factor.WaterKLPerUnit
		direct += units * factor.DirectCO2KgPerUnit
	}

	electricityCO2 := kwh * fs.Config.GridCO2PerKWh
	waterCO2 := kl * fs.Config.WaterCO2PerKL

	return Estimate{
		EstElectricityKWh: Round2(kwh),
		EstWaterKL:        Round2(kl),
		DirectCO2Kg:       Round2(direct),
		ElectricityCO2Kg:  Round2(electricityCO2),
		WaterCO2Kg:        Round2(waterCO2),
		TotalCO2Kg:        Round2(direct + electricityCO2 + waterCO2),
	}
}

// TotalCO2PerUnit is the full-chain CO2 for one unit passing through the
// stage, including converted electricity and water.
func (fs FactorSet) TotalCO2PerUnit(f EmissionFactor) float64 {
	return Round2(f.DirectCO2KgPerUnit +
		f.ElectricityKWhPerUnit*fs.Config.GridCO2PerKWh +
		f.WaterKLPerUnit*fs.Config.WaterCO2PerKL)
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func configFloat(config []AppConfig, key string, fallback float64) float64 {
	for _, row := range config {
		if row.Key != key {
			continue
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64)
		if err != nil {
			return fallback
		}
		return parsed
	}
	return fallback
}
