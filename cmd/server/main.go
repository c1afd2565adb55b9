package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SashaSaw/Habitat-sub001/internal"
	"github.com/SashaSaw/Habitat-sub001/internal/api"
	"github.com/SashaSaw/Habitat-sub001/internal/auth"
	"github.com/SashaSaw/Habitat-sub001/internal/config"
	"github.com/SashaSaw/Habitat-sub001/internal/service"
	"github.com/SashaSaw/Habitat-sub001/internal/storage"
)

type appState struct {
	logger  internal.Logger
	repos   *storage.Repositories
	goodDay *service.GoodDay
	cfg     *config.Config
}

func (a *appState) Logger() internal.Logger                 { return a.logger }
func (a *appState) HabitRepo() storage.HabitRepository      { return a.repos.Habits }
func (a *appState) GroupRepo() storage.GroupRepository      { return a.repos.Groups }
func (a *appState) DayRepo() storage.DayRecordRepository    { return a.repos.Days }
func (a *appState) GoodDay() *service.GoodDay               { return a.goodDay }
func (a *appState) ReminderSlots() int                      { return a.cfg.ReminderSlots }
func (a *appState) Schedule() service.Schedule {
	return service.Schedule{WakeMinutes: a.cfg.WakeMinutes, BedMinutes: a.cfg.BedMinutes}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := internal.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	var repos *storage.Repositories
	switch cfg.DBType {
	case "postgres":
		repos, err = storage.NewPostgresRepositories(cfg.DBDSN, logger)
	case "sqlite":
		repos, err = storage.NewSQLiteRepositories(cfg.SQLitePath, logger)
	default:
		repos, err = storage.NewFileRepositories(cfg.DataDir, logger)
	}
	if err != nil {
		logger.Fatalf("failed to init storage (%s): %v", cfg.DBType, err)
	}

	var provider auth.Provider
	if cfg.AuthMode == "jwt" {
		provider = auth.NewJWTProvider(cfg.JWTSecret, logger)
	} else {
		provider = auth.NewStaticTokenProvider(cfg.APIToken, logger)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &appState{
		logger:  logger,
		repos:   repos,
		goodDay: service.NewGoodDay(repos.Habits, repos.Groups, repos.Days, logger),
		cfg:     cfg,
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(app, provider),
	}

	go func() {
		logger.Infof("server running on %s (storage=%s, auth=%s)", cfg.HTTPAddr, cfg.DBType, cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if closer, ok := repos.Habits.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Errorf("storage close: %v", err)
		}
	}
}
