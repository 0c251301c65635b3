package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/noah-isme/wellbeing-api/api/swagger"
	"github.com/noah-isme/wellbeing-api/internal/handler"
	"github.com/noah-isme/wellbeing-api/internal/repository"
	"github.com/noah-isme/wellbeing-api/internal/repository/memory"
	"github.com/noah-isme/wellbeing-api/internal/server"
	"github.com/noah-isme/wellbeing-api/internal/service"
	"github.com/noah-isme/wellbeing-api/pkg/cache"
	"github.com/noah-isme/wellbeing-api/pkg/config"
	"github.com/noah-isme/wellbeing-api/pkg/database"
	"github.com/noah-isme/wellbeing-api/pkg/jobs"
	"github.com/noah-isme/wellbeing-api/pkg/logger"
	"github.com/noah-isme/wellbeing-api/pkg/pseudonym"
)

// @title Wellbeing API
// @version 1.0.0
// @description Student wellbeing check-ins with risk classification and privacy-preserving cohort analytics.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

type checkinStore interface {
	service.CheckinStore
	service.TrendStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	readiness := map[string]handler.Pinger{}

	store, db, err := openStore(cfg)
	if err != nil {
		logr.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	if db != nil {
		defer db.Close() //nolint:errcheck
		readiness["store"] = store.(handler.Pinger)
	}

	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	cacheEnabled := cfg.Analytics.CacheEnabled
	if cacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
			cacheEnabled = false
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			readiness["cache"] = cacheRepo
		}
	}
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cacheEnabled)

	invalidator := service.NewCohortCacheInvalidator(cacheSvc, logr)
	queue := jobs.NewQueue("cohort-cache-invalidation", invalidator.Handle, jobs.QueueConfig{
		Workers:    cfg.Analytics.InvalidationWorker,
		MaxRetries: 2,
		RetryDelay: time.Second,
		Logger:     logr,
	})
	invalidator.Bind(queue)
	queue.Start(ctx)
	defer queue.Stop()

	privacy := service.NewPrivacyGuard(cfg.Privacy.MinCohortSize, metrics)
	recommendations := service.NewRecommendationTable(nil)

	checkins := service.NewCheckinService(service.CheckinServiceParams{
		Store:       store,
		Invalidator: invalidator,
		Metrics:     metrics,
		Pseudonyms:  pseudonym.New(cfg.Log.PseudonymKey),
		Logger:      logr,
		Config: service.CheckinServiceConfig{
			ClassifierVersion:      cfg.Risk.ClassifierVersion,
			AcademicYearStartMonth: cfg.Risk.AcademicYearStartMonth,
		},
	})
	cohort := service.NewCohortService(service.CohortServiceParams{
		Store:           store,
		Privacy:         privacy,
		Recommendations: recommendations,
		Cache:           cacheSvc,
		Metrics:         metrics,
		Logger:          logr,
		Config: service.CohortServiceConfig{
			WindowDays:             cfg.Cohort.WindowDays,
			HighDistressSharePct:   cfg.Cohort.HighDistressSharePct,
			SupportEligibleMinimum: cfg.Cohort.SupportEligibleMinimum,
			CacheTTL:               cfg.Analytics.CacheTTL,
		},
	})
	trends := service.NewTrendService(service.TrendServiceParams{
		Store:           store,
		Privacy:         privacy,
		Recommendations: recommendations,
		Cache:           cacheSvc,
		Metrics:         metrics,
		Logger:          logr,
		Config: service.TrendServiceConfig{
			WindowDays:       cfg.Cohort.WindowDays,
			MaxAcademicWeeks: cfg.Trend.MaxAcademicWeeks,
			CacheTTL:         cfg.Analytics.CacheTTL,
		},
	})
	exports := service.NewExportService(cohort, trends, logr, nil, nil)
	tokens := service.NewTokenService(service.TokenServiceConfig{Secret: cfg.JWT.Secret, Expiration: cfg.JWT.Expiration})

	router := server.NewRouter(server.Deps{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Tokens:         tokens,
		Metrics:        metrics,
		Checkins:       handler.NewCheckinHandler(checkins),
		Cohort:         handler.NewCohortHandler(cohort, trends, exports),
		Observability:  handler.NewMetricsHandler(metrics, readiness),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.StoreDriver),
			zap.Int("min_cohort_size", privacy.MinCohortSize()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(cfg *config.Config) (checkinStore, *sqlx.DB, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return memory.NewStore(), nil, nil
	case config.StoreDriverPostgres, "":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewStore(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
