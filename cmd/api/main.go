package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/bootstrap"
	"github.com/chatforge-io/chatforge/internal/config"
	"github.com/chatforge-io/chatforge/internal/infra/cache"
	"github.com/chatforge-io/chatforge/internal/infra/db"
	"github.com/chatforge-io/chatforge/internal/modules/handler"
	"github.com/chatforge-io/chatforge/internal/modules/service"
	"github.com/chatforge-io/chatforge/internal/router"
	"github.com/chatforge-io/chatforge/internal/telemetry"
)

func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer log.Sync()

	if _, err := telemetry.SetupTracing(cfg); err != nil {
		log.Fatal("setup tracing", zap.Error(err))
	}

	gormDB := do.MustInvoke[*gorm.DB](inj)
	rdb := do.MustInvoke[*redis.Client](inj)
	if cfg.Telemetry.Enabled && cfg.Telemetry.OtlpEndpoint != "" {
		if err := db.RegisterOpenTelemetryPlugin(gormDB); err != nil {
			log.Warn("gorm otel plugin", zap.Error(err))
		}
		if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
			log.Warn("redis otel plugin", zap.Error(err))
		}
	}

	r := router.NewRouter(router.RouterDeps{
		Config:           cfg,
		Log:              log,
		Users:            do.MustInvoke[service.UserService](inj),
		ProjectHandler:   do.MustInvoke[*handler.ProjectHandler](inj),
		InsightsHandler:  do.MustInvoke[*handler.InsightsHandler](inj),
		SmartTipsHandler: do.MustInvoke[*handler.SmartTipsHandler](inj),
		RolesHandler:     do.MustInvoke[*handler.RolesHandler](inj),
	})

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := telemetry.Shutdown(ctx); err != nil {
		log.Error("telemetry shutdown", zap.Error(err))
	}
	if err := cache.Close(rdb); err != nil {
		log.Error("redis close", zap.Error(err))
	}
	if err := inj.Shutdown(); err != nil {
		log.Error("container shutdown", zap.Error(err))
	}
}
