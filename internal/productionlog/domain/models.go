package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ProductionLog is one submitted daily log. The emission estimate columns
// are frozen at submission time with the factors in force then, so later
// factor edits never rewrite history.
type ProductionLog struct {
	ID                snowflake.ID   `json:"id" gorm:"primaryKey"`
	LogDate           datatypes.Date `json:"log_date" gorm:"not null;index:ix_production_logs_log_date"`
	ShiftType         *string        `json:"shift_type" gorm:"type:text"`
	StageEntries      datatypes.JSON `json:"stage_entries" gorm:"not null"`
	WasteKg           float64        `json:"waste_kg" gorm:"not null;default:0"`
	Notes             *string        `json:"notes" gorm:"type:text"`
	EstElectricityKWh float64        `json:"est_electricity_kwh" gorm:"column:est_electricity_kwh;not null;default:0"`
	EstWaterKL        float64        `json:"est_water_kl" gorm:"column:est_water_kl;not null;default:0"`
	DirectCO2Kg       float64        `json:"direct_co2_kg" gorm:"column:direct_co2_kg;not null;default:0"`
	LoggedBy          string         `json:"logged_by" gorm:"type:text"`
	LoggedAt          time.Time      `json:"logged_at" gorm:"not null;index:ix_production_logs_logged_at"`
}

// TableName sets the database table name.
func (ProductionLog) TableName() string { return "production_logs" }

// Totals aggregates the frozen estimate columns over a window.
type Totals struct {
	ElecKWh   float64 `json:"elec_kwh"`
	WaterKL   float64 `json:"water_kl"`
	DirectCO2 float64 `json:"direct_co2"`
	WasteKg   float64 `json:"waste_kg"`
}
