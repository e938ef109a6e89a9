package seed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
	"gorm.io/gorm"
)

type stageFactor struct {
	stage  string
	elec   float64
	water  float64
	direct float64
	notes  string
}

// Per-unit stage factors for a tipper body line, from the plant's
// 2023-24 energy audit.
var baselineFactors = []stageFactor{
	{"CKD", 50, 0.2, 5, "Cutting, drilling, deburring"},
	{"Shot Blasting", 35, 0.05, 15, "Abrasive blasting; steel grit particulates"},
	{"Welding", 45, 0.1, 20, "MIG/MAG welding fumes + shielding gas"},
	{"Paint Shop", 100, 2.5, 30, "Spray painting VOC emissions; booth exhaust"},
	{"Final Assembly", 25, 0.1, 2, "Mostly manual torquing + fitment"},
	{"Finished Goods", 5, 0, 0, "Inventory holding, minimal energy"},
}

type configRow struct {
	key         string
	value       string
	description string
}

var baselineConfig = []configRow{
	{factordomain.ConfigGridCO2Factor, "0.82", "kg CO2 per kWh, India CEA 2023-24 national grid"},
	{factordomain.ConfigWaterCO2Factor, "0.344", "kg CO2 per KL, water treatment & distribution"},
	{factordomain.ConfigWasteCO2Factor, "0.5", "kg CO2 per kg scrap/waste, landfill equivalent"},
}

// EnsureBaseline seeds the six stage factors and the three conversion
// config rows. Existing rows are left untouched.
func EnsureBaseline(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureFactorsTx(ctx, tx, node); err != nil {
			return err
		}
		return ensureConfigTx(ctx, tx)
	})
}

func ensureFactorsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	now := time.Now().UTC()
	for _, f := range baselineFactors {
		err := tx.WithContext(ctx).Exec(`
			INSERT INTO emission_factors
				(id, stage, electricity_kwh_per_unit, water_kl_per_unit, direct_co2_kg_per_unit, notes, updated_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (stage) DO NOTHING
		`, node.Generate().Int64(), f.stage, f.elec, f.water, f.direct, f.notes, "system", now, now).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureConfigTx(ctx context.Context, tx *gorm.DB) error {
	now := time.Now().UTC()
	for _, row := range baselineConfig {
		err := tx.WithContext(ctx).Exec(`
			INSERT INTO app_config (key, value, description, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (key) DO NOTHING
		`, row.key, row.value, row.description, now).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// EnsureDemoData loads a month of plausible meter readings and two weeks
// of production logs so the dashboard has data on a fresh install. It is
// a no-op once any meter reading exists.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Raw(`SELECT COUNT(1) FROM meter_readings`).Scan(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		if err := seedMeterSeries(ctx, tx, node, now, "electricity", "MAIN-ELEC", "kWh", 48000, 1100, 300); err != nil {
			return err
		}
		if err := seedMeterSeries(ctx, tx, node, now, "water", "MAIN-WATER", "KL", 3200, 25, 15); err != nil {
			return err
		}
		return seedProductionLogs(ctx, tx, node, now)
	})
}

func seedMeterSeries(ctx context.Context, tx *gorm.DB, node *snowflake.Node, now time.Time, meterType, meterID, unit string, base, deltaBase, deltaSpread float64) error {
	reading := base
	for i := 29; i >= 0; i -= 3 {
		delta := deltaBase + float64((i*53)%int(deltaSpread+1))
		var deltaArg any
		if i != 29 {
			deltaArg = delta
		}
		recordedAt := now.AddDate(0, 0, -i)
		err := tx.WithContext(ctx).Exec(`
			INSERT INTO meter_readings
				(id, meter_type, meter_id, reading_value, unit, consumption_delta, recorded_by, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, node.Generate().Int64(), meterType, meterID, reading, unit, deltaArg, "system", recordedAt).Error
		if err != nil {
			return err
		}
		reading += delta
	}
	return nil
}

func seedProductionLogs(ctx context.Context, tx *gorm.DB, node *snowflake.Node, now time.Time) error {
	factorByStage := make(map[string]stageFactor, len(baselineFactors))
	for _, f := range baselineFactors {
		factorByStage[f.stage] = f
	}
	shifts := []string{"A", "B", "C"}

	for i := 13; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		entries := []factordomain.StageEntry{
			{Stage: "CKD", UnitsInStage: float64(4 + i%4)},
			{Stage: "Shot Blasting", UnitsInStage: float64(3 + i%3)},
			{Stage: "Welding", UnitsInStage: float64(5 + i%4)},
			{Stage: "Paint Shop", UnitsInStage: float64(4 + i%3)},
			{Stage: "Final Assembly", UnitsInStage: float64(2 + i%3)},
			{Stage: "Finished Goods", UnitsInStage: float64(6 + i%5)},
		}
		var elec, water, direct float64
		for _, e := range entries {
			f := factorByStage[e.Stage]
			elec += e.UnitsInStage * f.elec
			water += e.UnitsInStage * f.water
			direct += e.UnitsInStage * f.direct
		}
		raw, err := json.Marshal(entries)
		if err != nil {
			return err
		}
		waste := float64(100 + (i*13)%80)
		err = tx.WithContext(ctx).Exec(`
			INSERT INTO production_logs
				(id, log_date, shift_type, stage_entries, waste_kg, est_electricity_kwh, est_water_kl, direct_co2_kg, logged_by, logged_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, node.Generate().Int64(), day.Format("2006-01-02"), shifts[i%3], string(raw), waste,
			factordomain.Round1(elec), factordomain.Round2(water), factordomain.Round1(direct),
			"system", day.Add(16*time.Hour)).Error
		if err != nil {
			return err
		}
	}
	return nil
}
