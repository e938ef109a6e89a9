package repository

import (
	"context"

	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() factordomain.Repository {
	return &repo{}
}

func (r *repo) ListFactors(ctx context.Context, db *gorm.DB) ([]factordomain.EmissionFactor, error) {
	var factors []factordomain.EmissionFactor
	err := db.WithContext(ctx).Raw(
		`SELECT id, stage, electricity_kwh_per_unit, water_kl_per_unit, direct_co2_kg_per_unit,
		        notes, updated_by, created_at, updated_at
		 FROM emission_factors ORDER BY id ASC`,
	).Scan(&factors).Error
	if err != nil {
		return nil, err
	}
	return factors, nil
}

func (r *repo) FindFactor(ctx context.Context, db *gorm.DB, stage string) (*factordomain.EmissionFactor, error) {
	var factor factordomain.EmissionFactor
	err := db.WithContext(ctx).Raw(
		`SELECT id, stage, electricity_kwh_per_unit, water_kl_per_unit, direct_co2_kg_per_unit,
		        notes, updated_by, created_at, updated_at
		 FROM emission_factors WHERE stage = ?`,
		stage,
	).Scan(&factor).Error
	if err != nil {
		return nil, err
	}
	if factor.ID == 0 {
		return nil, nil
	}
	return &factor, nil
}

func (r *repo) InsertFactor(ctx context.Context, db *gorm.DB, f *factordomain.EmissionFactor) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO emission_factors
		   (id, stage, electricity_kwh_per_unit, water_kl_per_unit, direct_co2_kg_per_unit,
		    notes, updated_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID,
		f.Stage,
		f.ElectricityKWhPerUnit,
		f.WaterKLPerUnit,
		f.DirectCO2KgPerUnit,
		f.Notes,
		f.UpdatedBy,
		f.CreatedAt,
		f.UpdatedAt,
	).Error
}

func (r *repo) UpdateFactor(ctx context.Context, db *gorm.DB, f *factordomain.EmissionFactor) error {
	return db.WithContext(ctx).Exec(
		`UPDATE emission_factors
		 SET electricity_kwh_per_unit = ?, water_kl_per_unit = ?, direct_co2_kg_per_unit = ?,
		     notes = ?, updated_by = ?, updated_at = ?
		 WHERE stage = ?`,
		f.ElectricityKWhPerUnit,
		f.WaterKLPerUnit,
		f.DirectCO2KgPerUnit,
		f.Notes,
		f.UpdatedBy,
		f.UpdatedAt,
		f.Stage,
	).Error
}

func (r *repo) ListConfig(ctx context.Context, db *gorm.DB) ([]factordomain.AppConfig, error) {
	var rows []factordomain.AppConfig
	err := db.WithContext(ctx).Raw(
		`SELECT key, value, description, updated_at FROM app_config ORDER BY key ASC`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) UpsertConfig(ctx context.Context, db *gorm.DB, row *factordomain.AppConfig) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO app_config (key, value, description, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		row.Key,
		row.Value,
		row.Description,
		row.UpdatedAt,
	).Error
}
