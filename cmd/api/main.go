package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/reservas-api/internal/audit"
	"github.com/BruksfildServices01/reservas-api/internal/clock"
	"github.com/BruksfildServices01/reservas-api/internal/config"
	dbpkg "github.com/BruksfildServices01/reservas-api/internal/db"
	"github.com/BruksfildServices01/reservas-api/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/reservas-api/internal/infra/repository"
	"github.com/BruksfildServices01/reservas-api/internal/infra/storage"
	"github.com/BruksfildServices01/reservas-api/internal/logger"
	"github.com/BruksfildServices01/reservas-api/internal/middleware"
	"github.com/BruksfildServices01/reservas-api/internal/routes"
)

func main() {

	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "reservas-api",
	})

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal("database setup failed", "error", err)
	}

	ctx := context.Background()

	// ======================================================
	// AUDITORIA (banco + RabbitMQ opcional)
	// ======================================================
	auditLogger := audit.New(db)
	recorders := []audit.Recorder{auditLogger}

	if cfg.RabbitURL != "" {
		publisher, err := audit.NewPublisher(cfg.RabbitURL, audit.DefaultExchange)
		if err != nil {
			log.Warn("rabbitmq unavailable, events stay local", "error", err)
		} else {
			defer publisher.Close()
			recorders = append(recorders, publisher)
		}
	}

	dispatcher := audit.NewDispatcher(log, recorders...)

	// ======================================================
	// CACHE DE HORÁRIOS
	// ======================================================
	var slots routes.SlotsCache = cache.NoopSlots{}
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, slots cache disabled", "error", err)
		} else {
			defer client.Close()
			slots = cache.NewRedisSlots(client, cfg.SlotsCacheTTL, log)
		}
	}

	// ======================================================
	// IMAGENS
	// ======================================================
	var store storage.ObjectStore
	if cfg.S3.Enabled() {
		s3Store, err := storage.NewS3Store(cfg.S3)
		if err != nil {
			log.Warn("s3 unavailable, image upload disabled", "error", err)
		} else {
			store = s3Store
		}
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogging(log),
		middleware.CORSMiddleware(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := routes.RegisterRoutes(r, routes.Deps{
		Config:       cfg,
		Log:          log,
		Clock:        clock.System{},
		Audit:        dispatcher,
		Reservations: infraRepo.NewReservationGormRepository(db),
		Locations:    infraRepo.NewLocationGormRepository(db),
		Users:        infraRepo.NewUserGormRepository(db),
		AuditLogs:    auditLogger,
		Cache:        slots,
		Store:        store,
	}); err != nil {
		log.Fatal("route setup failed", "error", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// drena eventos pendentes antes de fechar as conexões
	dispatcher.Close()
}
