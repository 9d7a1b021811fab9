package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/internal/logging"
)

// serveMetrics starts the Prometheus /metrics endpoint on addr
// (SPEC_FULL.md §C "Prometheus metrics server") and shuts it down when
// ctx is cancelled.
func serveMetrics(ctx context.Context, addr string) {
	if addr == "" {
		return
	}

	log := logging.New("bpsrmon.metrics", false)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	log.Info("metrics server listening", zap.String("addr", addr))
}
