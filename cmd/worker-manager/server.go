// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visa-workers/internal/common/logger"
)

type readiness interface {
	Ready() bool
}

type pinger interface {
	HealthCheck(ctx context.Context) error
}

func newHealthServer(addr string, catalog readiness, engine pinger) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"catalog": "ok", "zeebe": "ok"}
		code := http.StatusOK

		if !catalog.Ready() {
			checks["catalog"] = "not loaded"
			code = http.StatusServiceUnavailable
		}
		if engine != nil {
			if err := engine.HealthCheck(r.Context()); err != nil {
				checks["zeebe"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}

		status := "ready"
		if code != http.StatusOK {
			status = "not ready"
		}
		writeStatus(w, code, status, checks)
	})

	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	})
}

func serve(srv *http.Server, log logger.Logger) {
	log.Info("Health/Metrics server listening", map[string]interface{}{"address": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Health/Metrics server failed", map[string]interface{}{"error": err})
	}
}
