package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/utkalworks/floorops/internal/clock"
	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
	proddomain "github.com/utkalworks/floorops/internal/productionlog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	GenID     *snowflake.Node
	Repo      proddomain.Repository
	FactorSvc factordomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	genID     *snowflake.Node
	repo      proddomain.Repository
	factorSvc factordomain.Service
}

func New(p Params) proddomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("productionlog.service"),
		clock:     p.Clock,
		genID:     p.GenID,
		repo:      p.Repo,
		factorSvc: p.FactorSvc,
	}
}

// Submit validates and stores a daily log. The emission estimate is
// computed once, with the factor set in force right now, and frozen into
// the row.
func (s *Service) Submit(ctx context.Context, req proddomain.SubmitRequest) (*proddomain.SubmitResponse, error) {
	logDate := strings.TrimSpace(req.LogDate)
	if logDate == "" {
		return nil, proddomain.ErrLogDateRequired
	}
	date, err := time.ParseInLocation(dateLayout, logDate, time.UTC)
	if err != nil {
		return nil, proddomain.ErrInvalidLogDate
	}
	if req.StageEntries == nil {
		return nil, proddomain.ErrStageEntriesRequired
	}

	factors, err := s.factorSvc.LoadFactorSet(ctx)
	if err != nil {
		return nil, err
	}
	emissions := factors.Estimate(req.StageEntries)

	entriesJSON, err := json.Marshal(req.StageEntries)
	if err != nil {
		return nil, err
	}

	row := &proddomain.ProductionLog{
		ID:                s.genID.Generate(),
		LogDate:           datatypes.Date(date),
		ShiftType:         req.ShiftType,
		StageEntries:      datatypes.JSON(entriesJSON),
		WasteKg:           req.WasteKg,
		Notes:             req.Notes,
		EstElectricityKWh: emissions.EstElectricityKWh,
		EstWaterKL:        emissions.EstWaterKL,
		DirectCO2Kg:       emissions.DirectCO2Kg,
		LoggedBy:          req.LoggedBy,
		LoggedAt:          s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, row); err != nil {
		return nil, err
	}

	s.log.Info("production log submitted",
		zap.String("log_date", logDate),
		zap.Int("stages", len(req.StageEntries)),
		zap.Float64("direct_co2_kg", emissions.DirectCO2Kg),
	)

	return &proddomain.SubmitResponse{
		LogResponse: *toResponse(row),
		Emissions:   emissions,
	}, nil
}

// Preview computes the estimate for a set of entries without saving.
func (s *Service) Preview(ctx context.Context, entries []factordomain.StageEntry) (factordomain.Estimate, error) {
	if entries == nil {
		return factordomain.Estimate{}, proddomain.ErrStageEntriesRequired
	}
	factors, err := s.factorSvc.LoadFactorSet(ctx)
	if err != nil {
		return factordomain.Estimate{}, err
	}
	return factors.Estimate(entries), nil
}

func (s *Service) List(ctx context.Context, req proddomain.ListRequest) ([]proddomain.LogResponse, error) {
	var date *time.Time
	if trimmed := strings.TrimSpace(req.Date); trimmed != "" {
		parsed, err := time.ParseInLocation(dateLayout, trimmed, time.UTC)
		if err != nil {
			return nil, proddomain.ErrInvalidLogDate
		}
		date = &parsed
	}

	logs, err := s.repo.List(ctx, s.db, date, req.Limit)
	if err != nil {
		return nil, err
	}
	return toResponses(logs), nil
}

func (s *Service) Today(ctx context.Context) ([]proddomain.LogResponse, error) {
	today := truncateToDay(s.clock.Now())
	logs, err := s.repo.ListByDate(ctx, s.db, today)
	if err != nil {
		return nil, err
	}
	return toResponses(logs), nil
}

// LatestSnapshot returns the stage entries of the most recently submitted
// log, regardless of its log date.
func (s *Service) LatestSnapshot(ctx context.Context) ([]factordomain.StageEntry, error) {
	latest, err := s.repo.Latest(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return []factordomain.StageEntry{}, nil
	}
	return decodeEntries(latest.StageEntries), nil
}

func (s *Service) TotalsBetween(ctx context.Context, start, end time.Time) (proddomain.Totals, error) {
	return s.repo.TotalsBetween(ctx, s.db, start, end)
}

// LogsBetween returns logs whose log date falls in [start, end), oldest
// first.
func (s *Service) LogsBetween(ctx context.Context, start, end time.Time) ([]proddomain.LogResponse, error) {
	logs, err := s.repo.ListBetween(ctx, s.db, start, end)
	if err != nil {
		return nil, err
	}
	return toResponses(logs), nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func decodeEntries(raw datatypes.JSON) []factordomain.StageEntry {
	entries := []factordomain.StageEntry{}
	if len(raw) == 0 {
		return entries
	}
	_ = json.Unmarshal(raw, &entries)
	return entries
}

func toResponse(l *proddomain.ProductionLog) *proddomain.LogResponse {
	return &proddomain.LogResponse{
		ID:                l.ID.String(),
		LogDate:           time.Time(l.LogDate).Format(dateLayout),
		ShiftType:         l.ShiftType,
		StageEntries:      decodeEntries(l.StageEntries),
		WasteKg:           l.WasteKg,
		Notes:             l.Notes,
		EstElectricityKWh: l.EstElectricityKWh,
		EstWaterKL:        l.EstWaterKL,
		DirectCO2Kg:       l.DirectCO2Kg,
		LoggedBy:          l.LoggedBy,
		LoggedAt:          l.LoggedAt,
	}
}

func toResponses(logs []proddomain.ProductionLog) []proddomain.LogResponse {
	resp := make([]proddomain.LogResponse, 0, len(logs))
	for i := range logs {
		resp = append(resp, *toResponse(&logs[i]))
	}
	return resp
}
