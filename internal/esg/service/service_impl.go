package service

import (
	"context"
	"io"
	"time"

	"github.com/utkalworks/floorops/internal/clock"
	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
	esgdomain "github.com/utkalworks/floorops/internal/esg/domain"
	meterdomain "github.com/utkalworks/floorops/internal/meterreading/domain"
	proddomain "github.com/utkalworks/floorops/internal/productionlog/domain"
	"github.com/utkalworks/floorops/internal/providers/pdf"
	scrapdomain "github.com/utkalworks/floorops/internal/scraplog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	MeterSvc  meterdomain.Service
	ProdSvc   proddomain.Service
	ScrapSvc  scrapdomain.Service
	FactorSvc factordomain.Service
	PDF       pdf.Provider
}

type Service struct {
	log       *zap.Logger
	clock     clock.Clock
	meterSvc  meterdomain.Service
	prodSvc   proddomain.Service
	scrapSvc  scrapdomain.Service
	factorSvc factordomain.Service
	pdf       pdf.Provider
}

func New(p Params) esgdomain.Service {
	return &Service{
		log:       p.Log.Named("esg.service"),
		clock:     p.Clock,
		meterSvc:  p.MeterSvc,
		prodSvc:   p.ProdSvc,
		scrapSvc:  p.ScrapSvc,
		factorSvc: p.FactorSvc,
		pdf:       p.PDF,
	}
}

// Overview rolls the period window up into one emissions picture: metered
// consumption converted to CO2, frozen production estimates, and scrap
// weight converted with the waste factor. Scalars are rounded to one
// decimal for display; the raw config factors are echoed unrounded.
func (s *Service) Overview(ctx context.Context, period esgdomain.Period) (*esgdomain.OverviewResponse, error) {
	start, end := esgdomain.PeriodBounds(period, s.clock.Now())

	factors, err := s.factorSvc.LoadFactorSet(ctx)
	if err != nil {
		return nil, err
	}

	elec, err := s.meterSvc.ConsumptionBetween(ctx, meterdomain.MeterElectricity, start, end)
	if err != nil {
		return nil, err
	}
	water, err := s.meterSvc.ConsumptionBetween(ctx, meterdomain.MeterWater, start, end)
	if err != nil {
		return nil, err
	}
	prod, err := s.prodSvc.TotalsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	scrap, err := s.scrapSvc.WeightBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.prodSvc.LatestSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	cfg := factors.Config
	elecCO2 := elec * cfg.GridCO2PerKWh
	waterCO2 := water * cfg.WaterCO2PerKL
	wasteCO2 := scrap * cfg.WasteCO2PerKg
	totalCO2 := prod.DirectCO2 + elecCO2 + waterCO2 + wasteCO2

	return &esgdomain.OverviewResponse{
		Period: period,
		Range:  rangeOf(start, end),
		Electricity: esgdomain.ElectricityLeg{
			KWh:   factordomain.Round1(elec),
			CO2Kg: factordomain.Round1(elecCO2),
		},
		Water: esgdomain.WaterLeg{
			KL:    factordomain.Round1(water),
			CO2Kg: factordomain.Round1(waterCO2),
		},
		Production: esgdomain.ProductionLeg{
			DirectCO2Kg:       factordomain.Round1(prod.DirectCO2),
			EstElectricityKWh: factordomain.Round1(prod.ElecKWh),
			EstWaterKL:        factordomain.Round1(prod.WaterKL),
		},
		Waste: esgdomain.WasteLeg{
			Kg:      factordomain.Round1(prod.WasteKg),
			ScrapKg: factordomain.Round1(scrap),
			CO2Kg:   factordomain.Round1(wasteCO2),
		},
		TotalCO2Kg:    factordomain.Round1(totalCO2),
		StageSnapshot: snapshot,
		Config: esgdomain.OverviewConfig{
			GridCO2Factor:  cfg.GridCO2PerKWh,
			WaterCO2Factor: cfg.WaterCO2PerKL,
			WasteCO2Factor: cfg.WasteCO2PerKg,
		},
	}, nil
}

// Chart buckets positive meter deltas and frozen direct CO2 into the
// period's calendar buckets. Buckets without rows are omitted.
func (s *Service) Chart(ctx context.Context, period esgdomain.Period) (*esgdomain.ChartResponse, error) {
	start, end := esgdomain.PeriodBounds(period, s.clock.Now())

	elecSamples, err := s.meterSamples(ctx, meterdomain.MeterElectricity, start, end)
	if err != nil {
		return nil, err
	}
	waterSamples, err := s.meterSamples(ctx, meterdomain.MeterWater, start, end)
	if err != nil {
		return nil, err
	}

	logs, err := s.prodSvc.LogsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	co2Samples := make([]esgdomain.Sample, 0, len(logs))
	for _, l := range logs {
		at, err := parseDate(l.LogDate)
		if err != nil {
			continue
		}
		co2Samples = append(co2Samples, esgdomain.Sample{At: at, Val: l.DirectCO2Kg})
	}

	return &esgdomain.ChartResponse{
		Period: period,
		Range:  rangeOf(start, end),
		Series: esgdomain.ChartSeries{
			Electricity:   esgdomain.Series(period, elecSamples),
			Water:         esgdomain.Series(period, waterSamples),
			ProductionCO2: esgdomain.Series(period, co2Samples),
		},
	}, nil
}

// FactorSummary lists every factor with its full-chain per-unit CO2.
func (s *Service) FactorSummary(ctx context.Context) (*esgdomain.FactorSummaryResponse, error) {
	factors, err := s.factorSvc.LoadFactorSet(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.factorSvc.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]esgdomain.FactorWithTotal, 0, len(list.Factors))
	for _, f := range list.Factors {
		rows = append(rows, esgdomain.FactorWithTotal{
			FactorResponse: f,
			TotalCO2PerUnit: factors.TotalCO2PerUnit(factordomain.EmissionFactor{
				ElectricityKWhPerUnit: f.ElectricityKWhPerUnit,
				WaterKLPerUnit:        f.WaterKLPerUnit,
				DirectCO2KgPerUnit:    f.DirectCO2KgPerUnit,
			}),
		})
	}

	return &esgdomain.FactorSummaryResponse{
		Factors:        rows,
		GridCO2Factor:  factors.Config.GridCO2PerKWh,
		WaterCO2Factor: factors.Config.WaterCO2PerKL,
	}, nil
}

// Report renders the overview and factor table as a PDF.
func (s *Service) Report(ctx context.Context, period esgdomain.Period) ([]byte, error) {
	overview, err := s.Overview(ctx, period)
	if err != nil {
		return nil, err
	}
	summary, err := s.FactorSummary(ctx)
	if err != nil {
		return nil, err
	}

	reader, err := s.pdf.GenerateESGReport(ctx, pdf.ReportData{
		Overview: overview,
		Factors:  summary,
	})
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}

func (s *Service) meterSamples(ctx context.Context, meterType meterdomain.MeterType, start, end time.Time) ([]esgdomain.Sample, error) {
	readings, err := s.meterSvc.ReadingsBetween(ctx, meterType, start, end)
	if err != nil {
		return nil, err
	}
	samples := make([]esgdomain.Sample, 0, len(readings))
	for _, r := range readings {
		if r.ConsumptionDelta == nil || *r.ConsumptionDelta <= 0 {
			continue
		}
		samples = append(samples, esgdomain.Sample{At: r.RecordedAt, Val: *r.ConsumptionDelta})
	}
	return samples, nil
}

func rangeOf(start, end time.Time) esgdomain.Range {
	return esgdomain.Range{
		Start: start.Format(dateLayout),
		End:   end.Format(dateLayout),
	}
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, time.UTC)
}
