package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/andresuchdata/intellichain/internal/config"
	"github.com/andresuchdata/intellichain/internal/sampleapi"
	"github.com/andresuchdata/intellichain/pkg/logger"
	"github.com/andresuchdata/intellichain/pkg/tracing"
)

const serviceName = "intellichain-sampleapi"

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)
	log := logger.Component("sampleapi")

	stopTracing := tracing.Start(cfg.Tracing.Enabled, serviceName, cfg.Tracing.JaegerEndpoint)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		stopTracing(ctx)
	}()

	data := sampleapi.NewDataset(cfg.SampleAPI.Seed, time.Now())
	handler := sampleapi.NewHandler(data)

	r := mux.NewRouter()
	handler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", cfg.SampleAPI.Port)
	srv := &http.Server{Addr: addr, Handler: otelhttp.NewHandler(r, serviceName)}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("addr", addr).
			Int64("seed", cfg.SampleAPI.Seed).
			Int("stores", len(data.Stores)).
			Int("products", len(data.Products)).
			Msg("Sample inventory backend starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Sample backend failed")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Sample backend forced to shutdown")
	}
}
