package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ScrapTypes lists the accepted scrap classifications.
var ScrapTypes = []string{"MS Scrap", "SS Scrap", "Mixed", "Hazardous"}

// KnownScrapType reports whether scrapType is accepted.
func KnownScrapType(scrapType string) bool {
	for _, s := range ScrapTypes {
		if s == scrapType {
			return true
		}
	}
	return false
}

const (
	StatusPending    = "pending"
	StatusDispatched = "dispatched"
)

// ScrapLog is one yard entry of scrap awaiting dispatch. Estimated weight
// feeds the waste leg of the emissions overview.
type ScrapLog struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	ScrapType       string       `json:"scrap_type" gorm:"type:text;not null"`
	EstimatedWeight *float64     `json:"estimated_weight"`
	Yard            *string      `json:"yard" gorm:"type:text"`
	Status          string       `json:"status" gorm:"type:text;not null;default:pending"`
	LoggedBy        string       `json:"logged_by" gorm:"type:text"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null;index:ix_scrap_logs_created_at"`
	DispatchedAt    *time.Time   `json:"dispatched_at"`
}

// TableName sets the database table name.
func (ScrapLog) TableName() string { return "scrap_logs" }
