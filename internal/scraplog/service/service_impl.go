package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/utkalworks/floorops/internal/clock"
	scrapdomain "github.com/utkalworks/floorops/internal/scraplog/domain"
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
	Repo  scrapdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  scrapdomain.Repository
}

func New(p Params) scrapdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("scraplog.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req scrapdomain.CreateRequest) (*scrapdomain.ScrapResponse, error) {
	scrapType := strings.TrimSpace(req.ScrapType)
	if scrapType == "" {
		return nil, scrapdomain.ErrScrapTypeRequired
	}
	if !scrapdomain.KnownScrapType(scrapType) {
		return nil, scrapdomain.ErrInvalidScrapType
	}

	log := &scrapdomain.ScrapLog{
		ID:              s.genID.Generate(),
		ScrapType:       scrapType,
		EstimatedWeight: req.EstimatedWeight,
		Yard:            req.Yard,
		Status:          scrapdomain.StatusPending,
		LoggedBy:        req.LoggedBy,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, log); err != nil {
		return nil, err
	}
	return toResponse(log), nil
}

func (s *Service) Dispatch(ctx context.Context, id string) (*scrapdomain.ScrapResponse, error) {
	scrapID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, scrapdomain.ErrInvalidID
	}

	log, err := s.repo.FindByID(ctx, s.db, scrapID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, scrapdomain.ErrNotFound
	}
	if log.Status == scrapdomain.StatusDispatched {
		return nil, scrapdomain.ErrAlreadyDispatched
	}

	now := s.clock.Now()
	if err := s.repo.MarkDispatched(ctx, s.db, scrapID, now); err != nil {
		return nil, err
	}
	log.Status = scrapdomain.StatusDispatched
	log.DispatchedAt = &now
	s.log.Info("scrap dispatched", zap.String("id", id), zap.String("scrap_type", log.ScrapType))
	return toResponse(log), nil
}

func (s *Service) List(ctx context.Context, limit int) ([]scrapdomain.ScrapResponse, error) {
	logs, err := s.repo.List(ctx, s.db, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]scrapdomain.ScrapResponse, 0, len(logs))
	for i := range logs {
		resp = append(resp, *toResponse(&logs[i]))
	}
	return resp, nil
}

// WeightBetween sums estimated scrap weight logged in [start, end).
func (s *Service) WeightBetween(ctx context.Context, start, end time.Time) (float64, error) {
	return s.repo.WeightBetween(ctx, s.db, start, end)
}

func toResponse(l *scrapdomain.ScrapLog) *scrapdomain.ScrapResponse {
	return &scrapdomain.ScrapResponse{
		ID:              l.ID.String(),
		ScrapType:       l.ScrapType,
		EstimatedWeight: l.EstimatedWeight,
		Yard:            l.Yard,
		Status:          l.Status,
		LoggedBy:        l.LoggedBy,
		CreatedAt:       l.CreatedAt,
		DispatchedAt:    l.DispatchedAt,
	}
}
