package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Stages lists the production stages a factor can be registered for, in
// process order.
var Stages = []string{
	"CKD",
	"Shot Blasting",
	"Welding",
	"Paint Shop",
	"Final Assembly",
	"Finished Goods",
}

// KnownStage reports whether stage is one of the registered production stages.
func KnownStage(stage string) bool {
	for _, s := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// EmissionFactor holds the per-unit coefficients for one production stage.
type EmissionFactor struct {
	ID                    snowflake.ID `json:"id" gorm:"primaryKey"`
	Stage                 string       `json:"stage" gorm:"type:text;not null;uniqueIndex:ux_emission_factors_stage"`
	ElectricityKWhPerUnit float64      `json:"electricity_kwh_per_unit" gorm:"column:electricity_kwh_per_unit;not null;default:0"`
	WaterKLPerUnit        float64      `json:"water_kl_per_unit" gorm:"column:water_kl_per_unit;not null;default:0"`
	DirectCO2KgPerUnit    float64      `json:"direct_co2_kg_per_unit" gorm:"column:direct_co2_kg_per_unit;not null;default:0"`
	Notes                 *string      `json:"notes" gorm:"type:text"`
	UpdatedBy             string       `json:"updated_by" gorm:"type:text"`
	CreatedAt             time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt             time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (EmissionFactor) TableName() string { return "emission_factors" }

// AppConfig is a keyed configuration row. Values are stored as text and
// parsed on read.
type AppConfig struct {
	Key         string    `json:"key" gorm:"primaryKey;type:text"`
	Value       string    `json:"value" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AppConfig) TableName() string { return "app_config" }
