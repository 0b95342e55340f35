// internal/visa/store.go
package visa

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"visa-workers/internal/common/errors"
	"visa-workers/internal/common/logger"
	"visa-workers/internal/common/metrics"
	"visa-workers/internal/models"
)

// Snapshot is one loaded catalog and the evaluator built from it.
type Snapshot struct {
	Version   string
	Source    string
	LoadedAt  time.Time
	Evaluator *Evaluator
}

// Rules returns a copy of the snapshot's catalog.
func (s *Snapshot) Rules() []models.VisaRule {
	return s.Evaluator.Rules()
}

// CatalogStore owns the current catalog snapshot and refreshes it from a
// RuleSource. A failed refresh leaves the previous snapshot in place.
type CatalogStore struct {
	source  RuleSource
	logger  logger.Logger
	timeout time.Duration

	mu       sync.RWMutex
	snapshot *Snapshot

	cron     *cron.Cron
	onReload []func(*Snapshot)
}

func NewCatalogStore(source RuleSource, log logger.Logger) *CatalogStore {
	return &CatalogStore{
		source:  source,
		logger:  log.WithFields(map[string]interface{}{"component": "catalog-store", "source": source.Name()}),
		timeout: 10 * time.Second,
	}
}

// OnReload registers fn to run after every successful load.
func (s *CatalogStore) OnReload(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, fn)
}

// Load fetches and validates the catalog, then swaps it in.
func (s *CatalogStore) Load(ctx context.Context) error {
	rules, err := s.source.LoadRules(ctx)
	if err != nil {
		s.logger.Error("catalog load failed", map[string]interface{}{"error": err})
		metrics.CatalogReloads.WithLabelValues("failure").Inc()
		return errors.NewCatalogLoadFailedError(s.source.Name(), err)
	}
	if err := Validate(rules); err != nil {
		s.logger.Error("catalog rejected", map[string]interface{}{"error": err})
		metrics.CatalogReloads.WithLabelValues("failure").Inc()
		return err
	}

	snap := &Snapshot{
		Version:   Version(rules),
		Source:    s.source.Name(),
		LoadedAt:  time.Now().UTC(),
		Evaluator: NewEvaluator(rules),
	}

	s.mu.Lock()
	prev := s.snapshot
	s.snapshot = snap
	hooks := append([]func(*Snapshot){}, s.onReload...)
	s.mu.Unlock()
	metrics.CatalogReloads.WithLabelValues("success").Inc()

	if prev == nil || prev.Version != snap.Version {
		s.logger.Info("catalog loaded", map[string]interface{}{
			"version": snap.Version,
			"rules":   len(rules),
		})
	}
	for _, fn := range hooks {
		fn(snap)
	}
	return nil
}

// Current returns the active snapshot, or CATALOG_UNAVAILABLE before the first load.
func (s *CatalogStore) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, errors.NewCatalogUnavailableError()
	}
	return s.snapshot, nil
}

// Ready reports whether a catalog has been loaded.
func (s *CatalogStore) Ready() bool {
	_, err := s.Current()
	return err == nil
}

// StartRefresh reloads the catalog on the given cron spec, e.g. "@every 15m".
func (s *CatalogStore) StartRefresh(spec string) error {
	c := cron.New(cron.WithLogger(cronLogger{s.logger}))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.Load(ctx); err != nil {
			s.logger.Warn("catalog refresh failed, keeping previous snapshot", map[string]interface{}{"error": err})
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()

	c.Start()
	s.logger.Info("catalog refresh scheduled", map[string]interface{}{"spec": spec})
	return nil
}

// Stop halts the refresh schedule and waits for a running refresh to finish.
func (s *CatalogStore) Stop() {
	s.mu.RLock()
	c := s.cron
	s.mu.RUnlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

// cronLogger routes robfig/cron's logging through our Logger.
type cronLogger struct {
	l logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, kvToMap(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := kvToMap(keysAndValues)
	fields["error"] = err
	c.l.Error("cron: "+msg, fields)
}

func kvToMap(kv []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
