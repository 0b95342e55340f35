// internal/workers/visa/list-visa-catalog/handler.go
package listcatalog

import (
	"context"
	"fmt"
	"time"

	"visa-workers/internal/common/camunda"
	"visa-workers/internal/common/config"
	"visa-workers/internal/common/errors"
	"visa-workers/internal/common/logger"
	"visa-workers/internal/common/metrics"
	"visa-workers/internal/common/observability"
	"visa-workers/internal/common/validation"
	"visa-workers/internal/models"
	"visa-workers/internal/visa"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "list-visa-catalog"

var inputSchema = validation.MustCompile(TaskType, InputSchema)

type Handler struct {
	config     *Config
	logger     logger.Logger
	obs        *observability.Observability
	store      *visa.CatalogStore
	errHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Logger        logger.Logger
	Observability *observability.Observability
	Store         *visa.CatalogStore
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("%s: catalog store is required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}

	return &Handler{
		config:     workerConfig,
		logger:     log,
		obs:        opts.Observability,
		store:      opts.Store,
		errHandler: errors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.process(ctx, job)
	if err == nil {
		err = camunda.CompleteJob(ctx, client, job, output)
	}
	if err != nil {
		stdErr := errors.Normalize(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.errHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")

	h.logger.Debug("Catalog listed", map[string]interface{}{
		"jobKey":         job.GetKey(),
		"catalogVersion": output.CatalogVersion,
		"rules":          len(output.Rules),
		"worker":         TaskType,
	})
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	if res := inputSchema.ValidateJSON(job.GetVariables()); !res.Valid {
		return nil, errors.NewInputSchemaViolationError(TaskType, res.GetErrorMessages())
	}

	var input Input
	if err := job.GetVariablesAs(&input); err != nil {
		return nil, errors.NewInputSchemaViolationError(TaskType, []string{err.Error()})
	}
	return h.Execute(ctx, &input)
}

// Execute returns the current catalog in catalog order. Unknown codes in
// input.VisaCodes are ignored.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	snap, err := h.store.Current()
	if err != nil {
		return nil, err
	}

	rules := snap.Rules()
	if len(input.VisaCodes) > 0 {
		rules = filterRules(rules, input.VisaCodes)
	}

	return &Output{
		CatalogVersion: snap.Version,
		CatalogSource:  snap.Source,
		LoadedAt:       snap.LoadedAt,
		Rules:          rules,
	}, nil
}

func filterRules(rules []models.VisaRule, codes []string) []models.VisaRule {
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	out := make([]models.VisaRule, 0, len(codes))
	for _, r := range rules {
		if want[r.VisaCode] {
			out = append(out, r)
		}
	}
	return out
}

// Registration describes how the worker manager should open this worker.
func (h *Handler) Registration() camunda.Registration {
	return camunda.Registration{
		TaskType:      TaskType,
		Handle:        h.Handle,
		Enabled:       h.config.Enabled,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
	}
}
