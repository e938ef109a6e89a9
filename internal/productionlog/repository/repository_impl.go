package repository

import (
	"context"
	"time"

	proddomain "github.com/utkalworks/floorops/internal/productionlog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() proddomain.Repository {
	return &repo{}
}

const selectColumns = `id, log_date, shift_type, stage_entries, waste_kg, notes,
	est_electricity_kwh, est_water_kl, direct_co2_kg, logged_by, logged_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, l *proddomain.ProductionLog) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO production_logs
		   (id, log_date, shift_type, stage_entries, waste_kg, notes,
		    est_electricity_kwh, est_water_kl, direct_co2_kg, logged_by, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID,
		l.LogDate,
		l.ShiftType,
		l.StageEntries,
		l.WasteKg,
		l.Notes,
		l.EstElectricityKWh,
		l.EstWaterKL,
		l.DirectCO2Kg,
		l.LoggedBy,
		l.LoggedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, date *time.Time, limit int) ([]proddomain.ProductionLog, error) {
	query := `SELECT ` + selectColumns + ` FROM production_logs WHERE 1=1`
	args := []interface{}{}
	if date != nil {
		query += ` AND log_date = ?`
		args = append(args, *date)
	}
	query += ` ORDER BY logged_at DESC LIMIT ?`
	if limit <= 0 {
		limit = 30
	}
	args = append(args, limit)

	var logs []proddomain.ProductionLog
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) ListByDate(ctx context.Context, db *gorm.DB, date time.Time) ([]proddomain.ProductionLog, error) {
	var logs []proddomain.ProductionLog
	err := db.WithContext(ctx).Raw(
		`SELECT `+selectColumns+` FROM production_logs
		 WHERE log_date = ? ORDER BY logged_at DESC`,
		date,
	).Scan(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) ListBetween(ctx context.Context, db *gorm.DB, start, end time.Time) ([]proddomain.ProductionLog, error) {
	var logs []proddomain.ProductionLog
	err := db.WithContext(ctx).Raw(
		`SELECT `+selectColumns+` FROM production_logs
		 WHERE log_date >= ? AND log_date < ? ORDER BY log_date ASC`,
		start,
		end,
	).Scan(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) Latest(ctx context.Context, db *gorm.DB) (*proddomain.ProductionLog, error) {
	var log proddomain.ProductionLog
	err := db.WithContext(ctx).Raw(
		`SELECT ` + selectColumns + ` FROM production_logs ORDER BY logged_at DESC LIMIT 1`,
	).Scan(&log).Error
	if err != nil {
		return nil, err
	}
	if log.ID == 0 {
		return nil, nil
	}
	return &log, nil
}

func (r *repo) TotalsBetween(ctx context.Context, db *gorm.DB, start, end time.Time) (proddomain.Totals, error) {
	var row struct {
		ElecKWh   float64 `gorm:"column:elec_kwh"`
		WaterKL   float64 `gorm:"column:water_kl"`
		DirectCO2 float64 `gorm:"column:direct_co2"`
		WasteKg   float64 `gorm:"column:waste_kg"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT
		   COALESCE(SUM(est_electricity_kwh), 0) as elec_kwh,
		   COALESCE(SUM(est_water_kl), 0)        as water_kl,
		   COALESCE(SUM(direct_co2_kg), 0)       as direct_co2,
		   COALESCE(SUM(waste_kg), 0)            as waste_kg
		 FROM production_logs
		 WHERE log_date >= ? AND log_date < ?`,
		start,
		end,
	).Scan(&row).Error
	if err != nil {
		return proddomain.Totals{}, err
	}
	return proddomain.Totals{
		ElecKWh:   row.ElecKWh,
		WaterKL:   row.WaterKL,
		DirectCO2: row.DirectCO2,
		WasteKg:   row.WasteKg,
	}, nil
}
