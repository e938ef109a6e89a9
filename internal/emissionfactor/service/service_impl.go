package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/utkalworks/floorops/internal/clock"
	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  factordomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  factordomain.Repository
}

func New(p Params) factordomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("emissionfactor.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) (*factordomain.ListResponse, error) {
	factors, err := s.repo.ListFactors(ctx, s.db)
	if err != nil {
		return nil, err
	}
	config, err := s.repo.ListConfig(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := &factordomain.ListResponse{
		Factors: make([]factordomain.FactorResponse, 0, len(factors)),
		Config:  make(map[string]string, len(config)),
	}
	for i := range factors {
		resp.Factors = append(resp.Factors, *toResponse(&factors[i]))
	}
	for _, row := range config {
		resp.Config[row.Key] = row.Value
	}
	return resp, nil
}

func (s *Service) UpsertFactor(ctx context.Context, req factordomain.UpsertFactorRequest) (*factordomain.FactorResponse, error) {
	stage := strings.TrimSpace(req.Stage)
	if !factordomain.KnownStage(stage) {
		return nil, factordomain.ErrUnknownStage
	}

	now := s.clock.Now()
	existing, err := s.repo.FindFactor(ctx, s.db, stage)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		factor := &factordomain.EmissionFactor{
			ID:        s.genID.Generate(),
			Stage:     stage,
			UpdatedBy: req.UpdatedBy,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if req.ElectricityKWhPerUnit != nil {
			factor.ElectricityKWhPerUnit = *req.ElectricityKWhPerUnit
		}
		if req.WaterKLPerUnit != nil {
			factor.WaterKLPerUnit = *req.WaterKLPerUnit
		}
		if req.DirectCO2KgPerUnit != nil {
			factor.DirectCO2KgPerUnit = *req.DirectCO2KgPerUnit
		}
		if req.Notes != nil {
			factor.Notes = req.Notes
		}
		if err := s.repo.InsertFactor(ctx, s.db, factor); err != nil {
			return nil, err
		}
		s.log.Info("emission factor created", zap.String("stage", stage))
		return toResponse(factor), nil
	}

	// Absent fields keep their stored values.
	if req.ElectricityKWhPerUnit != nil {
		existing.ElectricityKWhPerUnit = *req.ElectricityKWhPerUnit
	}
	if req.WaterKLPerUnit != nil {
		existing.WaterKLPerUnit = *req.WaterKLPerUnit
	}
	if req.DirectCO2KgPerUnit != nil {
		existing.DirectCO2KgPerUnit = *req.DirectCO2KgPerUnit
	}
	if req.Notes != nil {
		existing.Notes = req.Notes
	}
	existing.UpdatedBy = req.UpdatedBy
	existing.UpdatedAt = now

	if err := s.repo.UpdateFactor(ctx, s.db, existing); err != nil {
		return nil, err
	}
	s.log.Info("emission factor updated", zap.String("stage", stage))
	return toResponse(existing), nil
}

func (s *Service) SetConfig(ctx context.Context, req factordomain.SetConfigRequest) (*factordomain.ConfigResponse, error) {
	key := strings.TrimSpace(req.Key)
	switch key {
	case factordomain.ConfigGridCO2Factor,
		factordomain.ConfigWaterCO2Factor,
		factordomain.ConfigWasteCO2Factor:
	default:
		return nil, factordomain.ErrInvalidKey
	}
	value := strings.TrimSpace(req.Value)
	if value == "" {
		return nil, factordomain.ErrValueRequired
	}

	row := &factordomain.AppConfig{
		Key:       key,
		Value:     value,
		UpdatedAt: s.clock.Now(),
	}
	if err := s.repo.UpsertConfig(ctx, s.db, row); err != nil {
		return nil, err
	}
	s.log.Info("config updated", zap.String("key", key))
	return &factordomain.ConfigResponse{Key: key, Value: value}, nil
}

func (s *Service) LoadFactorSet(ctx context.Context) (factordomain.FactorSet, error) {
	factors, err := s.repo.ListFactors(ctx, s.db)
	if err != nil {
		return factordomain.FactorSet{}, err
	}
	config, err := s.repo.ListConfig(ctx, s.db)
	if err != nil {
		return factordomain.FactorSet{}, err
	}
	return factordomain.NewFactorSet(factors, config), nil
}

func toResponse(f *factordomain.EmissionFactor) *factordomain.FactorResponse {
	return &factordomain.FactorResponse{
		ID:                    f.ID.String(),
		Stage:                 f.Stage,
		ElectricityKWhPerUnit: f.ElectricityKWhPerUnit,
		WaterKLPerUnit:        f.WaterKLPerUnit,
		DirectCO2KgPerUnit:    f.DirectCO2KgPerUnit,
		Notes:                 f.Notes,
		UpdatedBy:             f.UpdatedBy,
		UpdatedAt:             f.UpdatedAt,
	}
}
