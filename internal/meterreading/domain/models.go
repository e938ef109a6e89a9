package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MeterType identifies which utility a reading belongs to.
type MeterType string

const (
	MeterElectricity MeterType = "electricity"
	MeterWater       MeterType = "water"
)

// DefaultMeterID is used when a reading does not name a physical meter.
const DefaultMeterID = "MAIN"

// Valid reports whether the meter type is supported.
func (t MeterType) Valid() bool {
	return t == MeterElectricity || t == MeterWater
}

// Unit returns the display unit for the meter type.
func (t MeterType) Unit() string {
	switch t {
	case MeterElectricity:
		return "kWh"
	case MeterWater:
		return "KL"
	default:
		return ""
	}
}

// MeterReading is one cumulative reading of a physical meter. The
// consumption delta is derived at insert time against the latest prior
// reading of the same (meter_type, meter_id) series and never recomputed.
// A nil delta means either the first reading of a series or a rollover.
type MeterReading struct {
	ID               snowflake.ID `json:"id" gorm:"primaryKey"`
	MeterType        MeterType    `json:"meter_type" gorm:"type:text;not null;index:ix_meter_readings_series,priority:1"`
	MeterID          string       `json:"meter_id" gorm:"type:text;not null;index:ix_meter_readings_series,priority:2"`
	ReadingValue     float64      `json:"reading_value" gorm:"not null"`
	Unit             string       `json:"unit" gorm:"type:text;not null"`
	ConsumptionDelta *float64     `json:"consumption_delta"`
	PhotoData        *string      `json:"photo_data" gorm:"type:text"`
	OCRRaw           *string      `json:"ocr_raw" gorm:"column:ocr_raw;type:text"`
	RecordedBy       string       `json:"recorded_by" gorm:"type:text"`
	RecordedAt       time.Time    `json:"recorded_at" gorm:"not null;index:ix_meter_readings_series,priority:3"`
}

// TableName sets the database table name.
func (MeterReading) TableName() string { return "meter_readings" }
