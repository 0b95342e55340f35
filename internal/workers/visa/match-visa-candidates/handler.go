// internal/workers/visa/match-visa-candidates/handler.go
package matchcandidates

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
	"visa-workers/internal/visa"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "match-visa-candidates"

var inputSchema = validation.MustCompile(TaskType, InputSchema)

type Handler struct {
	config     *Config
	logger     logger.Logger
	obs        *observability.Observability
	evaluator  *visa.CachedEvaluator
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
		errHandler: errors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing visa candidate match", map[string]interface{}{
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
		h.errHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "completed")

	h.logger.Info("Candidates matched", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"jobId":       output.JobID,
		"eligible":    output.Summary.TotalEligible,
		"conditional": output.Summary.TotalConditional,
		"excluded":    output.Summary.TotalExcluded,
		"worker":      TaskType,
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

// Execute evaluates the job once and sorts the candidates by their visa's result.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := visa.ValidateCandidates(input.Candidates); err != nil {
		return nil, err
	}
	profile, err := visa.ProfileFor(input.JobConditions)
	if err != nil {
		return nil, err
	}

	compat, version, cached, err := h.evaluator.Evaluate(ctx, profile)
	if err != nil {
		return nil, err
	}
	h.obs.RecordEvaluation(ctx, version, cached)

	m := visa.MatchCandidates(compat, input.Candidates)
	return &Output{
		JobID:                 input.JobID,
		CatalogVersion:        version,
		EligibleCandidates:    m.Eligible,
		ConditionalCandidates: m.Conditional,
		ExcludedCandidates:    m.Excluded,
		Summary: Summary{
			TotalEligible:    len(m.Eligible),
			TotalConditional: len(m.Conditional),
			TotalExcluded:    len(m.Excluded),
		},
	}, nil
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
