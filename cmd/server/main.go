package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/andresuchdata/intellichain/internal/api"
	"github.com/andresuchdata/intellichain/internal/cache"
	"github.com/andresuchdata/intellichain/internal/client"
	"github.com/andresuchdata/intellichain/internal/config"
	"github.com/andresuchdata/intellichain/internal/service"
	"github.com/andresuchdata/intellichain/internal/state"
	"github.com/andresuchdata/intellichain/pkg/logger"
	"github.com/andresuchdata/intellichain/pkg/tracing"
)

const serviceName = "intellichain-dashboard"

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	stopTracing := tracing.Start(cfg.Tracing.Enabled, serviceName, cfg.Tracing.JaegerEndpoint)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		stopTracing(ctx)
	}()

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Dashboard cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	backend := client.New(cfg.Backend)
	dashboardService := service.NewDashboardService(backend, state.NewStore(), cfg.Dashboard)
	emergencyService := service.NewEmergencyService(backend, dashboardCache)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A failed first load leaves the error banner set; the refresh loop keeps trying.
	if err := dashboardService.LoadStores(ctx); err != nil {
		logger.Log.Warn().Err(err).Str("backend", cfg.Backend.BaseURL).Msg("Initial dashboard load failed")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dashboardService.Run(ctx)
	}()

	router := api.NewRouter(&api.Services{
		Dashboard: dashboardService,
		Emergency: emergencyService,
	}, cfg)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Str("backend", cfg.Backend.BaseURL).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error().Err(err).Msg("Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}
	wg.Wait()

	logger.Log.Info().Msg("Server exiting")
}
