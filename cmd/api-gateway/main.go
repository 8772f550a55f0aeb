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
	"go.uber.org/zap"

	"github.com/noah-isme/grade-horaria-api/internal/handler"
	"github.com/noah-isme/grade-horaria-api/internal/repository"
	"github.com/noah-isme/grade-horaria-api/internal/server"
	"github.com/noah-isme/grade-horaria-api/internal/service"
	"github.com/noah-isme/grade-horaria-api/migrations"
	"github.com/noah-isme/grade-horaria-api/pkg/cache"
	"github.com/noah-isme/grade-horaria-api/pkg/config"
	"github.com/noah-isme/grade-horaria-api/pkg/database"
	"github.com/noah-isme/grade-horaria-api/pkg/export"
	"github.com/noah-isme/grade-horaria-api/pkg/logger"
)

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

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to open database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Migrate(db.DB, db.DriverName()); err != nil {
		logr.Fatal("failed to migrate database", zap.Error(err))
	}

	var metrics *service.MetricsService
	var observe database.Observer
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
		observe = metrics.ObserveUnitOfWork
	}
	store := database.NewStore(db, observe)

	validate := service.NewValidator()
	unitRepo := repository.NewUnitRepository(db)
	userRepo := repository.NewUserRepository(db)
	professorRepo := repository.NewProfessorRepository(db)

	var throttle *service.LoginLimiter
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, login throttling disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		throttle = service.NewLoginLimiter(redisClient, cfg.Login.MaxAttempts, cfg.Login.LockoutWindow)
	}

	authSvc := service.NewAuthService(store, userRepo, throttle, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
	})
	unitSvc := service.NewUnitService(store, unitRepo, validate, logr)
	userSvc := service.NewUserService(store, userRepo, unitRepo, validate, logr)
	professorSvc := service.NewProfessorService(store, professorRepo, export.NewCSVExporter(), nil, metrics, logr, service.ProfessorConfig{
		ImportMaxItems: cfg.Import.MaxItems,
	})

	opts := server.Options{
		Logger:         logr,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Tokens:         authSvc,
		ExposeMetrics:  cfg.Metrics.Enabled,
	}
	var metricsHandler http.Handler
	if metrics != nil {
		opts.Metrics = metrics
		metricsHandler = metrics.Handler()
	}

	r := server.NewRouter(server.Handlers{
		Health:     handler.NewHealthHandler(db, metricsHandler, logr),
		Units:      handler.NewUnitHandler(unitSvc),
		Users:      handler.NewUserHandler(userSvc, authSvc),
		Professors: handler.NewProfessorHandler(professorSvc),
	}, opts)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "driver", db.DriverName())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
