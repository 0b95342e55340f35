// cmd/worker-manager/main_test.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"visa-workers/internal/common/config"
	"visa-workers/internal/common/database"
	"visa-workers/internal/common/logger"
	"visa-workers/internal/visa"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReady bool

func (s stubReady) Ready() bool { return bool(s) }

type stubEngine struct{ err error }

func (s stubEngine) HealthCheck(context.Context) error { return s.err }

func get(t *testing.T, srv *http.Server, path string) (int, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if path != "/metrics" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestHealthServer(t *testing.T) {
	t.Run("health is always ok", func(t *testing.T) {
		code, body := get(t, newHealthServer(":0", stubReady(false), nil), "/health")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("ready", func(t *testing.T) {
		code, body := get(t, newHealthServer(":0", stubReady(true), stubEngine{}), "/ready")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("catalog not loaded", func(t *testing.T) {
		code, body := get(t, newHealthServer(":0", stubReady(false), stubEngine{}), "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not loaded", body["checks"].(map[string]interface{})["catalog"])
	})

	t.Run("engine down", func(t *testing.T) {
		code, _ := get(t, newHealthServer(":0", stubReady(true), stubEngine{err: fmt.Errorf("unavailable")}), "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, code)
	})

	t.Run("metrics", func(t *testing.T) {
		code, _ := get(t, newHealthServer(":0", stubReady(true), nil), "/metrics")
		assert.Equal(t, http.StatusOK, code)
	})
}

func TestBuildSource(t *testing.T) {
	cfg := &config.Config{Catalog: config.CatalogConfig{Source: config.CatalogSourceStatic}}
	src, err := buildSource(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "static", src.Name())

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data, err := visa.MarshalYAML(visa.DefaultRules())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg.Catalog = config.CatalogConfig{Source: config.CatalogSourceFile, Path: path}
	src, err = buildSource(cfg, nil)
	require.NoError(t, err)
	rules, err := src.LoadRules(context.Background())
	require.NoError(t, err)
	assert.Len(t, rules, len(visa.DefaultRules()))

	cfg.Catalog = config.CatalogConfig{Source: config.CatalogSourcePostgres}
	_, err = buildSource(cfg, nil)
	assert.Error(t, err)

	pg, err := database.NewPostgres(config.PostgresConfig{Host: "db", Port: 5432, Database: "alba", User: "alba", SSLMode: "disable"})
	require.NoError(t, err)
	defer pg.Close()
	src, err = buildSource(cfg, pg)
	require.NoError(t, err)
	assert.Equal(t, "postgres", src.Name())

	cfg.Catalog = config.CatalogConfig{Source: "s3"}
	_, err = buildSource(cfg, nil)
	assert.Error(t, err)
}

func TestBuildRegistrations(t *testing.T) {
	store := visa.NewCatalogStore(visa.NewStaticSource(nil), logger.NewNoOpLogger())
	cfg := &config.Config{Workers: map[string]config.WorkerConfig{
		"list-visa-catalog": {Enabled: false},
	}}

	regs, err := buildRegistrations(cfg, logger.NewNoOpLogger(), nil, store, nil)
	require.NoError(t, err)
	require.Len(t, regs, 4)

	enabled := map[string]bool{}
	for _, r := range regs {
		enabled[r.TaskType] = r.Enabled
	}
	assert.Equal(t, map[string]bool{
		"reduce-schedule":             true,
		"evaluate-visa-compatibility": true,
		"match-visa-candidates":       true,
		"list-visa-catalog":           false,
	}, enabled)
}
