package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/utkalworks/floorops/internal/clock"
	meterdomain "github.com/utkalworks/floorops/internal/meterreading/domain"
	"github.com/utkalworks/floorops/internal/serieslock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	lockTTL  = 5 * time.Second
	lockWait = 2 * time.Second
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	GenID  *snowflake.Node
	Repo   meterdomain.Repository
	Keyed  *serieslock.Keyed
	Locker *serieslock.Locker `optional:"true"`
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	clock  clock.Clock
	genID  *snowflake.Node
	repo   meterdomain.Repository
	keyed  *serieslock.Keyed
	locker *serieslock.Locker
}

func New(p Params) meterdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("meterreading.service"),
		clock:  p.Clock,
		genID:  p.GenID,
		repo:   p.Repo,
		keyed:  p.Keyed,
		locker: p.Locker,
	}
}

// Record inserts a cumulative reading and derives its consumption delta
// against the latest prior reading of the same series. Writers for a series
// are serialized so two concurrent readings cannot both diff against the
// same predecessor.
func (s *Service) Record(ctx context.Context, req meterdomain.RecordRequest) (*meterdomain.RecordResponse, error) {
	if req.ReadingValue == nil {
		return nil, meterdomain.ErrReadingRequired
	}
	meterType := meterdomain.MeterType(strings.TrimSpace(req.MeterType))
	if !meterType.Valid() {
		return nil, meterdomain.ErrInvalidMeterType
	}
	meterID := strings.TrimSpace(req.MeterID)
	if meterID == "" {
		meterID = meterdomain.DefaultMeterID
	}

	seriesKey := string(meterType) + ":" + meterID
	unlock := s.keyed.Lock(seriesKey)
	defer unlock()

	release, err := s.locker.Acquire(ctx, "floorops:serieslock:"+seriesKey, lockTTL, lockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	prev, err := s.repo.FindLatest(ctx, s.db, meterType, meterID)
	if err != nil {
		return nil, err
	}

	var delta *float64
	var prevValue *float64
	if prev != nil {
		prevValue = &prev.ReadingValue
		d := *req.ReadingValue - prev.ReadingValue
		// A negative delta means the meter rolled over or was replaced.
		// The reading is kept but contributes nothing to consumption.
		if d >= 0 {
			delta = &d
		} else {
			s.log.Warn("meter rollover detected",
				zap.String("series", seriesKey),
				zap.Float64("prev", prev.ReadingValue),
				zap.Float64("reading", *req.ReadingValue),
			)
		}
	}

	reading := &meterdomain.MeterReading{
		ID:               s.genID.Generate(),
		MeterType:        meterType,
		MeterID:          meterID,
		ReadingValue:     *req.ReadingValue,
		Unit:             meterType.Unit(),
		ConsumptionDelta: delta,
		PhotoData:        req.PhotoData,
		OCRRaw:           req.OCRRaw,
		RecordedBy:       req.RecordedBy,
		RecordedAt:       s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, reading); err != nil {
		return nil, err
	}

	return &meterdomain.RecordResponse{
		ReadingResponse: *toResponse(reading),
		PrevReading:     prevValue,
	}, nil
}

func (s *Service) List(ctx context.Context, req meterdomain.ListRequest) ([]meterdomain.ReadingResponse, error) {
	readings, err := s.repo.List(ctx, s.db, meterdomain.ListFilter{
		MeterType: meterdomain.MeterType(strings.TrimSpace(req.MeterType)),
		MeterID:   strings.TrimSpace(req.MeterID),
		Limit:     req.Limit,
	})
	if err != nil {
		return nil, err
	}
	return toResponses(readings), nil
}

func (s *Service) Latest(ctx context.Context) ([]meterdomain.ReadingResponse, error) {
	readings, err := s.repo.LatestPerSeries(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return toResponses(readings), nil
}

func (s *Service) Series(ctx context.Context) ([]meterdomain.SeriesSummary, error) {
	return s.repo.ListSeries(ctx, s.db)
}

// ConsumptionBetween sums positive deltas for a meter type over the
// half-open interval [start, end). Null and zero deltas contribute nothing.
func (s *Service) ConsumptionBetween(ctx context.Context, meterType meterdomain.MeterType, start, end time.Time) (float64, error) {
	return s.repo.SumPositiveDeltas(ctx, s.db, meterType, start, end)
}

// ReadingsBetween returns readings for a meter type in [start, end),
// oldest first.
func (s *Service) ReadingsBetween(ctx context.Context, meterType meterdomain.MeterType, start, end time.Time) ([]meterdomain.ReadingResponse, error) {
	readings, err := s.repo.ReadingsBetween(ctx, s.db, meterType, start, end)
	if err != nil {
		return nil, err
	}
	return toResponses(readings), nil
}

func toResponse(m *meterdomain.MeterReading) *meterdomain.ReadingResponse {
	return &meterdomain.ReadingResponse{
		ID:               m.ID.String(),
		MeterType:        m.MeterType,
		MeterID:          m.MeterID,
		ReadingValue:     m.ReadingValue,
		Unit:             m.Unit,
		ConsumptionDelta: m.ConsumptionDelta,
		RecordedBy:       m.RecordedBy,
		RecordedAt:       m.RecordedAt,
	}
}

func toResponses(readings []meterdomain.MeterReading) []meterdomain.ReadingResponse {
	resp := make([]meterdomain.ReadingResponse, 0, len(readings))
	for i := range readings {
		resp = append(resp, *toResponse(&readings[i]))
	}
	return resp
}
