package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	sqlite "github.com/glebarez/sqlite"
	"github.com/utkalworks/floorops/internal/clock"
	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
	factorrepo "github.com/utkalworks/floorops/internal/emissionfactor/repository"
	factorservice "github.com/utkalworks/floorops/internal/emissionfactor/service"
	esgdomain "github.com/utkalworks/floorops/internal/esg/domain"
	meterdomain "github.com/utkalworks/floorops/internal/meterreading/domain"
	meterrepo "github.com/utkalworks/floorops/internal/meterreading/repository"
	meterservice "github.com/utkalworks/floorops/internal/meterreading/service"
	proddomain "github.com/utkalworks/floorops/internal/productionlog/domain"
	prodrepo "github.com/utkalworks/floorops/internal/productionlog/repository"
	prodservice "github.com/utkalworks/floorops/internal/productionlog/service"
	"github.com/utkalworks/floorops/internal/providers/pdf"
	scrapdomain "github.com/utkalworks/floorops/internal/scraplog/domain"
	scraprepo "github.com/utkalworks/floorops/internal/scraplog/repository"
	scrapservice "github.com/utkalworks/floorops/internal/scraplog/service"
	"github.com/utkalworks/floorops/internal/serieslock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	esg    esgdomain.Service
	factor factordomain.Service
	meter  meterdomain.Service
	prod   proddomain.Service
	scrap  scrapdomain.Service
	clock  *clock.FakeClock
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func setup(t *testing.T, at time.Time) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error

	for _, stmt := range []string{
		`CREATE TABLE emission_factors (
			id INTEGER PRIMARY KEY,
			stage TEXT NOT NULL UNIQUE,
			electricity_kwh_per_unit REAL NOT NULL DEFAULT 0,
			water_kl_per_unit REAL NOT NULL DEFAULT 0,
			direct_co2_kg_per_unit REAL NOT NULL DEFAULT 0,
			notes TEXT,
			updated_by TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE app_config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			description TEXT,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE meter_readings (
			id INTEGER PRIMARY KEY,
			meter_type TEXT NOT NULL,
			meter_id TEXT NOT NULL,
			reading_value REAL NOT NULL,
			unit TEXT NOT NULL,
			consumption_delta REAL,
			photo_data TEXT,
			ocr_raw TEXT,
			recorded_by TEXT,
			recorded_at DATETIME NOT NULL
		)`,
		`CREATE TABLE production_logs (
			id INTEGER PRIMARY KEY,
			log_date DATE NOT NULL,
			shift_type TEXT,
			stage_entries TEXT NOT NULL,
			waste_kg REAL NOT NULL DEFAULT 0,
			notes TEXT,
			est_electricity_kwh REAL NOT NULL DEFAULT 0,
			est_water_kl REAL NOT NULL DEFAULT 0,
			direct_co2_kg REAL NOT NULL DEFAULT 0,
			logged_by TEXT,
			logged_at DATETIME NOT NULL
		)`,
		`CREATE TABLE scrap_logs (
			id INTEGER PRIMARY KEY,
			scrap_type TEXT NOT NULL,
			estimated_weight REAL,
			yard TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			logged_by TEXT,
			created_at DATETIME NOT NULL,
			dispatched_at DATETIME
		)`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	fake := clock.NewFakeClock(at)
	node := mustNode(t)
	log := zap.NewNop()

	factorSvc := factorservice.New(factorservice.Params{
		DB: db, Log: log, Clock: fake, GenID: node, Repo: factorrepo.Provide(),
	})
	meterSvc := meterservice.New(meterservice.Params{
		DB: db, Log: log, Clock: fake, GenID: node, Repo: meterrepo.Provide(),
		Keyed: serieslock.NewKeyed(),
	})
	prodSvc := prodservice.New(prodservice.Params{
		DB: db, Log: log, Clock: fake, GenID: node, Repo: prodrepo.Provide(),
		FactorSvc: factorSvc,
	})
	scrapSvc := scrapservice.New(scrapservice.Params{
		DB: db, Log: log, Clock: fake, GenID: node, Repo: scraprepo.Provide(),
	})
	esgSvc := New(Params{
		Log: log, Clock: fake,
		MeterSvc: meterSvc, ProdSvc: prodSvc, ScrapSvc: scrapSvc, FactorSvc: factorSvc,
		PDF: pdf.New(),
	})

	return &fixture{
		esg:    esgSvc,
		factor: factorSvc,
		meter:  meterSvc,
		prod:   prodSvc,
		scrap:  scrapSvc,
		clock:  fake,
	}
}

func (f *fixture) seedWelding(t *testing.T) {
	t.Helper()
	elec, water, direct := 45.0, 0.1, 20.0
	if _, err := f.factor.UpsertFactor(context.Background(), factordomain.UpsertFactorRequest{
		Stage:                 "Welding",
		ElectricityKWhPerUnit: &elec,
		WaterKLPerUnit:        &water,
		DirectCO2KgPerUnit:    &direct,
		UpdatedBy:             "EMP-001",
	}); err != nil {
		t.Fatalf("seed factor: %v", err)
	}
}

func (f *fixture) record(t *testing.T, meterType string, value float64) {
	t.Helper()
	if _, err := f.meter.Record(context.Background(), meterdomain.RecordRequest{
		MeterType:    meterType,
		ReadingValue: &value,
	}); err != nil {
		t.Fatalf("record %s %v: %v", meterType, value, err)
	}
}

func (f *fixture) submitLog(t *testing.T, logDate string, units float64, wasteKg float64) {
	t.Helper()
	if _, err := f.prod.Submit(context.Background(), proddomain.SubmitRequest{
		LogDate:      logDate,
		StageEntries: []factordomain.StageEntry{{Stage: "Welding", UnitsInStage: units}},
		WasteKg:      wasteKg,
	}); err != nil {
		t.Fatalf("submit log: %v", err)
	}
}

func TestOverviewAggregatesAllLegs(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	f.seedWelding(t)

	f.record(t, "electricity", 1000) // first reading, no delta
	f.record(t, "water", 100)
	f.clock.Advance(24 * time.Hour)
	f.record(t, "electricity", 1450) // +450
	f.record(t, "water", 102)        // +2

	f.clock.Advance(24 * time.Hour)
	f.submitLog(t, "2024-03-12", 10, 25) // est 450 kWh / 1 KL / 200 kg direct

	f.clock.Advance(24 * time.Hour)
	weight := 40.0
	if _, err := f.scrap.Create(context.Background(), scrapdomain.CreateRequest{
		ScrapType:       "MS Scrap",
		EstimatedWeight: &weight,
	}); err != nil {
		t.Fatalf("scrap: %v", err)
	}

	f.clock.Advance(48 * time.Hour)
	overview, err := f.esg.Overview(context.Background(), esgdomain.PeriodMonthly)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}

	if overview.Electricity.KWh != 450 || overview.Electricity.CO2Kg != 369 {
		t.Fatalf("electricity = %+v, want 450 kWh / 369 kg", overview.Electricity)
	}
	if overview.Water.KL != 2 || overview.Water.CO2Kg != 0.7 {
		t.Fatalf("water = %+v, want 2 KL / 0.7 kg", overview.Water)
	}
	if overview.Production.DirectCO2Kg != 200 || overview.Production.EstElectricityKWh != 450 || overview.Production.EstWaterKL != 1 {
		t.Fatalf("production = %+v", overview.Production)
	}
	if overview.Waste.Kg != 25 || overview.Waste.ScrapKg != 40 || overview.Waste.CO2Kg != 20 {
		t.Fatalf("waste = %+v", overview.Waste)
	}
	// 200 + 369 + 0.688 + 20 = 589.688, displayed at one decimal.
	if overview.TotalCO2Kg != 589.7 {
		t.Fatalf("total = %v, want 589.7", overview.TotalCO2Kg)
	}
	if len(overview.StageSnapshot) != 1 || overview.StageSnapshot[0].Stage != "Welding" {
		t.Fatalf("snapshot = %+v", overview.StageSnapshot)
	}
	if overview.Config.GridCO2Factor != factordomain.DefaultGridCO2PerKWh {
		t.Fatalf("config grid = %v", overview.Config.GridCO2Factor)
	}
}

func TestOverviewEmptyDatabase(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	overview, err := f.esg.Overview(context.Background(), esgdomain.PeriodMonthly)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.TotalCO2Kg != 0 {
		t.Fatalf("total = %v, want 0", overview.TotalCO2Kg)
	}
	if overview.StageSnapshot == nil || len(overview.StageSnapshot) != 0 {
		t.Fatalf("snapshot = %#v, want empty slice", overview.StageSnapshot)
	}
	// Missing config rows fall back to the documented defaults.
	if overview.Config.GridCO2Factor != 0.82 || overview.Config.WaterCO2Factor != 0.344 || overview.Config.WasteCO2Factor != 0.5 {
		t.Fatalf("config = %+v", overview.Config)
	}
}

func TestOverviewSnapshotIgnoresWindow(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	f.seedWelding(t)

	// Submitted now, but for a log date outside the daily window.
	f.submitLog(t, "2024-01-15", 7, 0)

	overview, err := f.esg.Overview(context.Background(), esgdomain.PeriodDaily)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Production.DirectCO2Kg != 0 {
		t.Fatalf("out-of-window log counted in totals: %+v", overview.Production)
	}
	if len(overview.StageSnapshot) != 1 || overview.StageSnapshot[0].UnitsInStage != 7 {
		t.Fatalf("snapshot should track the latest log regardless of window: %+v", overview.StageSnapshot)
	}
}

func TestChartQuarterlyBuckets(t *testing.T) {
	f := setup(t, time.Date(2023, 11, 1, 8, 0, 0, 0, time.UTC))
	f.seedWelding(t)

	f.record(t, "electricity", 1000) // baseline
	f.clock.Advance(24 * time.Hour)
	f.record(t, "electricity", 1100) // +100 in 2023 Q4
	f.submitLog(t, "2023-11-02", 5, 0)

	f.clock.Advance(90 * 24 * time.Hour) // 2024-01-31
	f.record(t, "electricity", 1150) // +50 in 2024 Q1
	f.submitLog(t, "2024-01-31", 2, 0)

	f.clock.Advance(45 * 24 * time.Hour) // mid-March 2024
	chart, err := f.esg.Chart(context.Background(), esgdomain.PeriodQuarterly)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}

	elec := chart.Series.Electricity
	if len(elec) != 2 {
		t.Fatalf("electricity buckets = %d, want 2", len(elec))
	}
	if elec[0].Label != "2023 Q4" || elec[0].Val != 100 {
		t.Fatalf("elec[0] = %+v", elec[0])
	}
	if elec[1].Label != "2024 Q1" || elec[1].Val != 50 {
		t.Fatalf("elec[1] = %+v", elec[1])
	}

	co2 := chart.Series.ProductionCO2
	if len(co2) != 2 {
		t.Fatalf("co2 buckets = %d, want 2", len(co2))
	}
	if co2[0].Label != "2023 Q4" || co2[0].Val != 100 {
		t.Fatalf("co2[0] = %+v (Welding 5 units at 20 kg)", co2[0])
	}
	if co2[1].Label != "2024 Q1" || co2[1].Val != 40 {
		t.Fatalf("co2[1] = %+v", co2[1])
	}
}

func TestChartSeriesAreSparse(t *testing.T) {
	f := setup(t, time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))

	f.record(t, "water", 100)
	f.clock.Advance(24 * time.Hour)
	f.record(t, "water", 105) // +5 in January

	f.clock.Advance(60 * 24 * time.Hour) // mid-March
	f.record(t, "water", 120)            // +15 in March

	chart, err := f.esg.Chart(context.Background(), esgdomain.PeriodMonthly)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	water := chart.Series.Water
	if len(water) != 2 {
		t.Fatalf("water buckets = %d, want 2 (February omitted)", len(water))
	}
	if water[0].Label != "2024-01" || water[1].Label != "2024-03" {
		t.Fatalf("labels = %s, %s", water[0].Label, water[1].Label)
	}
}

func TestFactorSummaryTotals(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	f.seedWelding(t)

	summary, err := f.esg.FactorSummary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary.Factors) != 1 {
		t.Fatalf("factors = %d, want 1", len(summary.Factors))
	}
	// 20 + 45*0.82 + 0.1*0.344 = 56.93
	if summary.Factors[0].TotalCO2PerUnit != 56.93 {
		t.Fatalf("total per unit = %v, want 56.93", summary.Factors[0].TotalCO2PerUnit)
	}
	if summary.GridCO2Factor != 0.82 || summary.WaterCO2Factor != 0.344 {
		t.Fatalf("factors = %v / %v", summary.GridCO2Factor, summary.WaterCO2Factor)
	}
}

func TestReportRendersPDF(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	f.seedWelding(t)
	f.submitLog(t, "2024-03-09", 10, 5)

	doc, err := f.esg.Report(context.Background(), esgdomain.PeriodMonthly)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(doc) == 0 || !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatalf("report is not a PDF (%d bytes)", len(doc))
	}
}
