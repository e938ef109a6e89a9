package repository

import (
	"context"
	"time"

	meterdomain "github.com/utkalworks/floorops/internal/meterreading/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() meterdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, m *meterdomain.MeterReading) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO meter_readings
		   (id, meter_type, meter_id, reading_value, unit, consumption_delta,
		    photo_data, ocr_raw, recorded_by, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.MeterType,
		m.MeterID,
		m.ReadingValue,
		m.Unit,
		m.ConsumptionDelta,
		m.PhotoData,
		m.OCRRaw,
		m.RecordedBy,
		m.RecordedAt,
	).Error
}

func (r *repo) FindLatest(ctx context.Context, db *gorm.DB, meterType meterdomain.MeterType, meterID string) (*meterdomain.MeterReading, error) {
	var reading meterdomain.MeterReading
	err := db.WithContext(ctx).Raw(
		`SELECT id, meter_type, meter_id, reading_value, unit, consumption_delta,
		        photo_data, ocr_raw, recorded_by, recorded_at
		 FROM meter_readings
		 WHERE meter_type = ? AND meter_id = ?
		 ORDER BY recorded_at DESC LIMIT 1`,
		meterType,
		meterID,
	).Scan(&reading).Error
	if err != nil {
		return nil, err
	}
	if reading.ID == 0 {
		return nil, nil
	}
	return &reading, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter meterdomain.ListFilter) ([]meterdomain.MeterReading, error) {
	query := `SELECT id, meter_type, meter_id, reading_value, unit, consumption_delta,
	                 photo_data, ocr_raw, recorded_by, recorded_at
	          FROM meter_readings WHERE 1=1`
	args := []interface{}{}
	if filter.MeterType != "" {
		query += ` AND meter_type = ?`
		args = append(args, filter.MeterType)
	}
	if filter.MeterID != "" {
		query += ` AND meter_id = ?`
		args = append(args, filter.MeterID)
	}
	query += ` ORDER BY recorded_at DESC LIMIT ?`
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	var readings []meterdomain.MeterReading
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *repo) LatestPerSeries(ctx context.Context, db *gorm.DB) ([]meterdomain.MeterReading, error) {
	var readings []meterdomain.MeterReading
	err := db.WithContext(ctx).Raw(
		`SELECT id, meter_type, meter_id, reading_value, unit, consumption_delta,
		        photo_data, ocr_raw, recorded_by, recorded_at
		 FROM meter_readings
		 WHERE id IN (
		   SELECT MAX(id) FROM meter_readings GROUP BY meter_type, meter_id
		 )
		 ORDER BY meter_type, meter_id`,
	).Scan(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *repo) ListSeries(ctx context.Context, db *gorm.DB) ([]meterdomain.SeriesSummary, error) {
	// Join back to the newest row per series instead of selecting bare
	// aggregates: sqlite drops the declared-type affinity on MAX(...),
	// which breaks scanning last_reading into time.Time.
	var series []meterdomain.SeriesSummary
	err := db.WithContext(ctx).Raw(
		`SELECT m.meter_type, m.meter_id, m.unit, s.reading_count,
		        m.recorded_at as last_reading, m.reading_value as last_value
		 FROM meter_readings m
		 JOIN (SELECT MAX(id) as last_id, COUNT(*) as reading_count
		       FROM meter_readings
		       GROUP BY meter_type, meter_id) s ON s.last_id = m.id
		 ORDER BY m.meter_type, m.meter_id`,
	).Scan(&series).Error
	if err != nil {
		return nil, err
	}
	return series, nil
}

func (r *repo) SumPositiveDeltas(ctx context.Context, db *gorm.DB, meterType meterdomain.MeterType, start, end time.Time) (float64, error) {
	var row struct {
		Total float64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(CASE WHEN consumption_delta > 0 THEN consumption_delta ELSE 0 END), 0) as total
		 FROM meter_readings
		 WHERE meter_type = ? AND recorded_at >= ? AND recorded_at < ?`,
		meterType,
		start,
		end,
	).Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Total, nil
}

func (r *repo) ReadingsBetween(ctx context.Context, db *gorm.DB, meterType meterdomain.MeterType, start, end time.Time) ([]meterdomain.MeterReading, error) {
	var readings []meterdomain.MeterReading
	err := db.WithContext(ctx).Raw(
		`SELECT id, meter_type, meter_id, reading_value, unit, consumption_delta,
		        photo_data, ocr_raw, recorded_by, recorded_at
		 FROM meter_readings
		 WHERE meter_type = ? AND recorded_at >= ? AND recorded_at < ?
		 ORDER BY recorded_at ASC`,
		meterType,
		start,
		end,
	).Scan(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}
