package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/utkalworks/floorops/internal/config"
	"github.com/utkalworks/floorops/internal/emissionfactor"
	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
	"github.com/utkalworks/floorops/internal/esg"
	esgdomain "github.com/utkalworks/floorops/internal/esg/domain"
	"github.com/utkalworks/floorops/internal/meterreading"
	meterdomain "github.com/utkalworks/floorops/internal/meterreading/domain"
	"github.com/utkalworks/floorops/internal/observability"
	obsmiddleware "github.com/utkalworks/floorops/internal/observability/logger"
	obsmetrics "github.com/utkalworks/floorops/internal/observability/metrics"
	obstracing "github.com/utkalworks/floorops/internal/observability/tracing"
	"github.com/utkalworks/floorops/internal/productionlog"
	proddomain "github.com/utkalworks/floorops/internal/productionlog/domain"
	"github.com/utkalworks/floorops/internal/providers"
	"github.com/utkalworks/floorops/internal/scraplog"
	scrapdomain "github.com/utkalworks/floorops/internal/scraplog/domain"
	"github.com/utkalworks/floorops/internal/serieslock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	serieslock.Module,
	providers.Module,
	emissionfactor.Module,
	meterreading.Module,
	productionlog.Module,
	scraplog.Module,
	esg.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(EmployeeContext())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine    *gin.Engine
	cfg       config.Config
	db        *gorm.DB
	genID     *snowflake.Node
	factorSvc factordomain.Service
	meterSvc  meterdomain.Service
	prodSvc   proddomain.Service
	scrapSvc  scrapdomain.Service
	esgSvc    esgdomain.Service
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	DB        *gorm.DB
	GenID     *snowflake.Node
	FactorSvc factordomain.Service
	MeterSvc  meterdomain.Service
	ProdSvc   proddomain.Service
	ScrapSvc  scrapdomain.Service
	EsgSvc    esgdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:    p.Gin,
		cfg:       p.Cfg,
		db:        p.DB,
		genID:     p.GenID,
		factorSvc: p.FactorSvc,
		meterSvc:  p.MeterSvc,
		prodSvc:   p.ProdSvc,
		scrapSvc:  p.ScrapSvc,
		esgSvc:    p.EsgSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- ESG --------
	api.GET("/esg/overview", s.GetESGOverview)
	api.GET("/esg/chart", s.GetESGChart)
	api.GET("/esg/factors-summary", s.GetFactorSummary)
	api.GET("/esg/report", s.GetESGReport)

	// -------- Production logs --------
	api.GET("/production-logs", s.ListProductionLogs)
	api.GET("/production-logs/today", s.ListProductionLogsToday)
	api.POST("/production-logs", s.SubmitProductionLog)
	api.POST("/production-logs/emission-preview", s.PreviewEmissions)

	// -------- Meter readings --------
	api.GET("/meter-readings", s.ListMeterReadings)
	api.GET("/meter-readings/latest", s.ListLatestReadings)
	api.GET("/meter-readings/meters", s.ListMeterSeries)
	api.POST("/meter-readings", s.RecordMeterReading)

	// -------- Emission factors --------
	api.GET("/emission-factors", s.ListEmissionFactors)
	api.PATCH("/emission-factors/:stage", s.UpsertEmissionFactor)
	api.PATCH("/config/:key", s.SetEmissionConfig)

	// -------- Scrap --------
	api.GET("/scrap", s.ListScrapLogs)
	api.POST("/scrap", s.CreateScrapLog)
	api.PATCH("/scrap/:id/dispatch", s.DispatchScrapLog)
}
