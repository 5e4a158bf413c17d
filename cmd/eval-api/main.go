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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sar-academy/eval-api/api/swagger"
	"github.com/sar-academy/eval-api/internal/catalog"
	"github.com/sar-academy/eval-api/internal/handler"
	"github.com/sar-academy/eval-api/internal/middleware"
	"github.com/sar-academy/eval-api/internal/models"
	"github.com/sar-academy/eval-api/internal/repository"
	"github.com/sar-academy/eval-api/internal/service"
	"github.com/sar-academy/eval-api/pkg/cache"
	"github.com/sar-academy/eval-api/pkg/config"
	"github.com/sar-academy/eval-api/pkg/database"
	"github.com/sar-academy/eval-api/pkg/jobs"
	"github.com/sar-academy/eval-api/pkg/logger"
	corsmiddleware "github.com/sar-academy/eval-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sar-academy/eval-api/pkg/middleware/requestid"
	"github.com/sar-academy/eval-api/pkg/storage"
)

// @title SAR Academy Evaluation API
// @version 1.0.0
// @description Athletic program evaluation records, catalogs and exports
// @BasePath /api/v1
// @schemes http

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
	sugar := logr.Sugar()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		sugar.Warnw("redis unavailable, latest-evaluation cache disabled", "error", err)
		redisClient = nil
	}

	cat, err := catalog.Load(cfg.Catalog, logr)
	if err != nil {
		sugar.Fatalw("failed to load catalogs", "error", err)
	}

	evalRepo := repository.NewEvaluationRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metrics := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	translator := service.NewTranslationService(nil, cfg.Translation, logr)
	evalSvc := service.NewEvaluationService(evalRepo, cat, cacheRepo, translator, nil, validate, logr, service.EvaluationServiceConfig{
		LatestCacheTTL:  cfg.Evaluations.LatestCacheTTL,
		HeaderImagePath: cfg.Render.HeaderImagePath,
	}).WithMetrics(metrics)

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		sugar.Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(evalSvc, store, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil).WithMetrics(metrics)

	worker := service.NewExportWorker(exportJobRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
	queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportJobSvc := service.NewExportJobService(exportJobRepo, queue, exportSvc, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
		MaxRetries:      cfg.Exports.WorkerRetries,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()
	exportJobSvc.RecoverPendingJobs(ctx)
	exportJobSvc.StartCleanup(ctx)

	authHandler := handler.NewAuthHandler(authSvc)
	evalHandler := handler.NewEvaluationHandler(evalSvc)
	catalogHandler := handler.NewCatalogHandler(cat)
	exportHandler := handler.NewExportHandler(exportJobSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		}

		evaluations := api.Group("/evaluations")
		{
			evaluations.POST("", middleware.JWT(authSvc), evalHandler.Submit)
			evaluations.GET("", evalHandler.History)
			evaluations.GET("/latest", evalHandler.Latest)
			evaluations.GET("/:id", evalHandler.Get)
			evaluations.GET("/:id/pdf", evalHandler.DownloadPDF)
		}

		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.GET("/areas", catalogHandler.Areas)
			catalogGroup.GET("/areas/:area/questions", catalogHandler.Questions)
			catalogGroup.GET("/areas/:area/participants", catalogHandler.Participants)
		}

		exports := api.Group("/exports")
		{
			exports.POST("", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleEvaluator), exportHandler.Create)
			exports.GET("/:id", middleware.JWT(authSvc), exportHandler.Status)
			// token carries its own authentication
			exports.GET("/download/:token", exportHandler.Download)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
}
