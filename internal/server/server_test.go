package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/utkalworks/floorops/internal/clock"
	"github.com/utkalworks/floorops/internal/config"
	factorrepo "github.com/utkalworks/floorops/internal/emissionfactor/repository"
	factorservice "github.com/utkalworks/floorops/internal/emissionfactor/service"
	esgservice "github.com/utkalworks/floorops/internal/esg/service"
	meterrepo "github.com/utkalworks/floorops/internal/meterreading/repository"
	meterservice "github.com/utkalworks/floorops/internal/meterreading/service"
	"github.com/utkalworks/floorops/internal/observability"
	obsmetrics "github.com/utkalworks/floorops/internal/observability/metrics"
	prodrepo "github.com/utkalworks/floorops/internal/productionlog/repository"
	prodservice "github.com/utkalworks/floorops/internal/productionlog/service"
	"github.com/utkalworks/floorops/internal/providers/pdf"
	scraprepo "github.com/utkalworks/floorops/internal/scraplog/repository"
	scrapservice "github.com/utkalworks/floorops/internal/scraplog/service"
	"github.com/utkalworks/floorops/internal/serieslock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	srv   *Server
	clock *clock.FakeClock
}

func setup(t *testing.T, at time.Time) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
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
	esgSvc := esgservice.New(esgservice.Params{
		Log: log, Clock: fake,
		MeterSvc: meterSvc, ProdSvc: prodSvc, ScrapSvc: scrapSvc, FactorSvc: factorSvc,
		PDF: pdf.New(),
	})

	engine := gin.New()
	engine.Use(EmployeeContext())
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:       engine,
		Cfg:       config.Config{},
		DB:        db,
		GenID:     node,
		FactorSvc: factorSvc,
		MeterSvc:  meterSvc,
		ProdSvc:   prodSvc,
		ScrapSvc:  scrapSvc,
		EsgSvc:    esgSvc,
	})

	return &fixture{srv: srv, clock: fake}
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	f.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return envelope.Data
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Type   string `json:"type"`
			Errors []struct {
				Code string `json:"code"`
			} `json:"errors"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error response %q: %v", rec.Body.String(), err)
	}
	if len(envelope.Error.Errors) > 0 {
		return envelope.Error.Errors[0].Code
	}
	return envelope.Error.Type
}

func (f *fixture) seedFactor(t *testing.T, stage string, elec, water, direct float64) {
	t.Helper()
	rec := f.do(t, http.MethodPatch, "/api/emission-factors/"+strings.ReplaceAll(stage, " ", "%20"), map[string]any{
		"electricity_kwh_per_unit": elec,
		"water_kl_per_unit":        water,
		"direct_co2_kg_per_unit":   direct,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed factor %s: status %d body %s", stage, rec.Code, rec.Body.String())
	}
}

func TestRecordMeterReadingEndpoint(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	rec := f.do(t, http.MethodPost, "/api/meter-readings", map[string]any{
		"meter_type":    "electricity",
		"reading_value": 1000.0,
	}, map[string]string{"X-Employee-Id": "EMP-042"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["consumption_delta"] != nil {
		t.Fatalf("first reading delta = %v, want null", data["consumption_delta"])
	}
	if data["prev_reading"] != nil {
		t.Fatalf("first reading prev = %v, want null", data["prev_reading"])
	}
	if data["meter_id"] != "MAIN" {
		t.Fatalf("meter_id = %v, want MAIN", data["meter_id"])
	}
	if data["recorded_by"] != "EMP-042" {
		t.Fatalf("recorded_by = %v, want EMP-042", data["recorded_by"])
	}

	f.clock.Advance(time.Hour)
	rec = f.do(t, http.MethodPost, "/api/meter-readings", map[string]any{
		"meter_type":    "electricity",
		"reading_value": 1450.0,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	data = decodeData(t, rec)
	if got := data["consumption_delta"]; got != 450.0 {
		t.Fatalf("delta = %v, want 450", got)
	}
	if got := data["prev_reading"]; got != 1000.0 {
		t.Fatalf("prev_reading = %v, want 1000", got)
	}
	if data["recorded_by"] != "anonymous" {
		t.Fatalf("recorded_by = %v, want anonymous", data["recorded_by"])
	}
}

func TestRecordMeterReadingValidation(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	rec := f.do(t, http.MethodPost, "/api/meter-readings", map[string]any{
		"meter_type": "electricity",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "reading_value_required" {
		t.Fatalf("code = %q, want reading_value_required", code)
	}

	value := 10.0
	rec = f.do(t, http.MethodPost, "/api/meter-readings", map[string]any{
		"meter_type":    "steam",
		"reading_value": value,
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "invalid_meter_type" {
		t.Fatalf("code = %q, want invalid_meter_type", code)
	}
}

func TestSubmitProductionLogEndpoint(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	f.seedFactor(t, "Welding", 45, 0.1, 20)

	rec := f.do(t, http.MethodPost, "/api/production-logs", map[string]any{
		"log_date": "2024-03-10",
		"stage_entries": []map[string]any{
			{"stage": "Welding", "units_in_stage": 10},
		},
		"waste_kg": 5,
	}, map[string]string{"X-Employee-Id": "EMP-007"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["logged_by"] != "EMP-007" {
		t.Fatalf("logged_by = %v, want EMP-007", data["logged_by"])
	}
	emissions, ok := data["emissions"].(map[string]any)
	if !ok {
		t.Fatalf("emissions missing in %v", data)
	}
	if got := emissions["direct_co2_kg"]; got != 200.0 {
		t.Fatalf("direct_co2_kg = %v, want 200", got)
	}
	if got := emissions["est_electricity_kwh"]; got != 450.0 {
		t.Fatalf("est_electricity_kwh = %v, want 450", got)
	}
}

func TestSubmitProductionLogValidation(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	rec := f.do(t, http.MethodPost, "/api/production-logs", map[string]any{
		"stage_entries": []map[string]any{},
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "log_date_required" {
		t.Fatalf("code = %q, want log_date_required", code)
	}

	rec = f.do(t, http.MethodPost, "/api/production-logs", map[string]any{
		"log_date":      "10/03/2024",
		"stage_entries": []map[string]any{{"stage": "Welding", "units_in_stage": 1}},
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "invalid_log_date" {
		t.Fatalf("code = %q, want invalid_log_date", code)
	}
}

func TestProductionLogsTodayFollowsClockDay(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	f.seedFactor(t, "Welding", 45, 0.1, 20)

	rec := f.do(t, http.MethodPost, "/api/production-logs", map[string]any{
		"log_date":      "2024-03-10",
		"stage_entries": []map[string]any{{"stage": "Welding", "units_in_stage": 10}},
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}

	var listEnvelope struct {
		Data []any `json:"data"`
	}
	rec = f.do(t, http.MethodGet, "/api/production-logs/today", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listEnvelope); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listEnvelope.Data) != 1 {
		t.Fatalf("today returned %d logs, want 1", len(listEnvelope.Data))
	}

	f.clock.Set(time.Date(2024, 3, 11, 0, 5, 0, 0, time.UTC))

	rec = f.do(t, http.MethodGet, "/api/production-logs/today", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	listEnvelope.Data = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &listEnvelope); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listEnvelope.Data) != 0 {
		t.Fatalf("yesterday's log leaked into today, got %d", len(listEnvelope.Data))
	}
}

func TestEmissionPreviewDoesNotPersist(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	f.seedFactor(t, "Welding", 45, 0.1, 20)

	rec := f.do(t, http.MethodPost, "/api/production-logs/emission-preview", map[string]any{
		"stage_entries": []map[string]any{
			{"stage": "Welding", "units_in_stage": 10},
		},
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if got := data["direct_co2_kg"]; got != 200.0 {
		t.Fatalf("direct_co2_kg = %v, want 200", got)
	}

	rec = f.do(t, http.MethodGet, "/api/production-logs", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var listEnvelope struct {
		Data []any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listEnvelope); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listEnvelope.Data) != 0 {
		t.Fatalf("preview persisted %d logs", len(listEnvelope.Data))
	}
}

func TestUpsertEmissionFactorUnknownStage(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	rec := f.do(t, http.MethodPatch, "/api/emission-factors/Foundry", map[string]any{
		"direct_co2_kg_per_unit": 10,
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "unknown_stage" {
		t.Fatalf("code = %q, want unknown_stage", code)
	}
}

func TestSetEmissionConfig(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	rec := f.do(t, http.MethodPatch, "/api/config/grid_co2_factor", map[string]any{
		"value": "0.9",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["key"] != "grid_co2_factor" || data["value"] != "0.9" {
		t.Fatalf("config echo = %v", data)
	}

	rec = f.do(t, http.MethodPatch, "/api/config/favorite_color", map[string]any{
		"value": "blue",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "invalid_key" {
		t.Fatalf("code = %q, want invalid_key", code)
	}
}

func TestScrapDispatchFlow(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	weight := 120.0
	rec := f.do(t, http.MethodPost, "/api/scrap", map[string]any{
		"scrap_type":       "MS Scrap",
		"estimated_weight": weight,
	}, map[string]string{"X-Employee-Id": "EMP-009"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("missing scrap id in %v", data)
	}
	if data["status"] != "pending" {
		t.Fatalf("status = %v, want pending", data["status"])
	}

	rec = f.do(t, http.MethodPatch, "/api/scrap/"+id+"/dispatch", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dispatch status = %d, body %s", rec.Code, rec.Body.String())
	}
	data = decodeData(t, rec)
	if data["status"] != "dispatched" {
		t.Fatalf("status = %v, want dispatched", data["status"])
	}

	rec = f.do(t, http.MethodPatch, "/api/scrap/"+id+"/dispatch", nil, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second dispatch status = %d, want 409, body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPatch, "/api/scrap/999999/dispatch", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404, body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPatch, "/api/scrap/not-a-number/dispatch", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestScrapValidation(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	rec := f.do(t, http.MethodPost, "/api/scrap", map[string]any{}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "scrap_type_required" {
		t.Fatalf("code = %q, want scrap_type_required", code)
	}

	rec = f.do(t, http.MethodPost, "/api/scrap", map[string]any{
		"scrap_type": "Gold",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "invalid_scrap_type" {
		t.Fatalf("code = %q, want invalid_scrap_type", code)
	}
}

func TestESGOverviewEndpoint(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	rec := f.do(t, http.MethodGet, "/api/esg/overview?period=weekly", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["period"] != "weekly" {
		t.Fatalf("period = %v, want weekly", data["period"])
	}

	// Unrecognized periods fall back to monthly.
	rec = f.do(t, http.MethodGet, "/api/esg/overview?period=hourly", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	data = decodeData(t, rec)
	if data["period"] != "monthly" {
		t.Fatalf("period = %v, want monthly", data["period"])
	}
}

func TestESGReportEndpoint(t *testing.T) {
	f := setup(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	rec := f.do(t, http.MethodGet, "/api/esg/report?period=monthly", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q, want application/pdf", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("report body does not look like a PDF")
	}
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	httpMetrics, err := obsmetrics.NewHTTPMetrics()
	if err != nil {
		t.Fatalf("http metrics: %v", err)
	}
	engine := NewEngine(observability.Config{}, httpMetrics)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
}
