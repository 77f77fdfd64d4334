package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cashdunia/internal/config"
	"cashdunia/internal/db"
	"cashdunia/internal/economy"
	httpServer "cashdunia/internal/http"
	"cashdunia/internal/logger"
	"cashdunia/internal/repository"
	"cashdunia/internal/service"
	"cashdunia/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret, cfg.JWTTTL)

	cal, err := economy.LoadCalendar(cfg.ReferenceTZ)
	if err != nil {
		logger.Fatal("invalid REFERENCE_TZ", "error", err)
	}

	var store repository.Store
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		store = repository.NewMemoryStore()
	default:
		dbPool := db.Connect(cfg.DatabaseURL, cfg.DBMaxConns)
		defer dbPool.Close()
		store = repository.NewPostgresStore(dbPool)
	}

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	hub := ws.NewHub()
	engine := service.New(service.Options{
		Store:       store,
		Calendar:    cal,
		MaxAttempts: cfg.TxMaxAttempts,
		Notifier:    hub,
		Cache:       rdb,
		CacheTTL:    cfg.LeaderboardCacheTTL,
	})
	if _, err := engine.Tasks.SeedCatalog(context.Background(), economy.DefaultTasks()); err != nil {
		logger.Fatal("seed task catalog failed", "error", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	httpServer.RegisterRoutes(r, httpServer.Deps{
		Config:  cfg,
		Engine:  engine,
		Store:   store,
		Redis:   rdb,
		Hub:     hub,
		Version: version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "storage", cfg.Storage, "timezone", cal.Location().String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
