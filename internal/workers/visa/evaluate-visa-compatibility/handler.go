// internal/workers/visa/evaluate-visa-compatibility/handler.go
package evaluatevisa

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
	"github.com/google/uuid"
)

const TaskType = "evaluate-visa-compatibility"

var inputSchema = validation.MustCompile(TaskType, InputSchema)

type Handler struct {
	config     *Config
	logger     logger.Logger
	obs        *observability.Observability
	evaluator  *visa.CachedEvaluator
	cached     bool
	errHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Logger        logger.Logger
	Observability *observability.Observability
	Store         *visa.CatalogStore
	Cache         *visa.ResultCache // optional
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
		evaluator:  visa.NewCachedEvaluator(opts.Store, opts.Cache),
		cached:     opts.Cache != nil,
		errHandler: errors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing visa compatibility evaluation", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"worker":             TaskType,
	})

	output, err := h.process(ctx, job)
	if err == nil {
		err = camunda.CompleteJob(ctx, client, job, output)
	}
	if err != nil {
		stdErr := errors.Normalize(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "failed")
		h.errHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "completed")

	h.logger.Info("Visa compatibility evaluated", map[string]interface{}{
		"jobKey":         job.GetKey(),
		"evaluationId":   output.EvaluationID,
		"jobId":          output.JobID,
		"catalogVersion": output.CatalogVersion,
		"cached":         output.Cached,
		"eligible":       output.Summary.TotalEligible,
		"conditional":    output.Summary.TotalConditional,
		"blocked":        output.Summary.TotalBlocked,
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

// Execute resolves the labor profile and classifies it against the current catalog.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := visa.ProfileFor(input.JobConditions)
	if err != nil {
		return nil, err
	}

	compat, version, cached, err := h.evaluator.Evaluate(ctx, profile)
	if err != nil {
		return nil, err
	}
	h.record(ctx, compat, version, cached)

	return &Output{
		EvaluationID:   uuid.NewString(),
		JobID:          input.JobID,
		CatalogVersion: version,
		Cached:         cached,
		LaborProfile:   profile,
		Eligible:       compat.Eligible,
		Conditional:    compat.Conditional,
		Blocked:        compat.Blocked,
		Summary:        compat.Summary,
		EvaluatedAt:    time.Now().UTC(),
	}, nil
}

func (h *Handler) record(ctx context.Context, compat *models.VisaCompatibility, version string, cached bool) {
	metrics.ObserveCompatibility(codes(compat.Eligible), codes(compat.Conditional), codes(compat.Blocked))
	if h.cached {
		result := "miss"
		if cached {
			result = "hit"
		}
		metrics.EvaluationCacheLookups.WithLabelValues(result).Inc()
	}
	h.obs.RecordEvaluation(ctx, version, cached)
}

func codes(results []models.VisaEvalResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.VisaCode
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
