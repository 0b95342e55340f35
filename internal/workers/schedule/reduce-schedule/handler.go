// internal/workers/schedule/reduce-schedule/handler.go
package reduceschedule

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
	"visa-workers/internal/schedule"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "reduce-schedule"

var inputSchema = validation.MustCompile(TaskType, InputSchema)

type Handler struct {
	config     *Config
	logger     logger.Logger
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}

	return &Handler{
		config:     workerConfig,
		logger:     log,
		obs:        opts.Observability,
		errHandler: errors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Debug("Processing schedule reduction", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"worker":             TaskType,
	})

	output, err := h.process(ctx, job)
	if err == nil {
		err = camunda.CompleteJob(ctx, client, job, output)
	}
	if err != nil {
		h.fail(ctx, client, job, err, startTime)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "completed")

	h.logger.Info("Schedule reduced", map[string]interface{}{
		"jobKey":        job.GetKey(),
		"totalHours":    output.TotalHours,
		"isWeekendOnly": output.IsWeekendOnly,
		"worker":        TaskType,
	})
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := h.parseInput(job)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if res := inputSchema.ValidateJSON(job.GetVariables()); !res.Valid {
		return nil, errors.NewInputSchemaViolationError(TaskType, res.GetErrorMessages())
	}

	var input Input
	if err := job.GetVariablesAs(&input); err != nil {
		return nil, errors.NewInputSchemaViolationError(TaskType, []string{err.Error()})
	}
	return &input, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, startTime time.Time) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "failed")
	h.errHandler.HandleJobError(ctx, client, job, stdErr)
}

// Execute reduces the entries. Validation runs here too, so direct callers
// get the same errors as job callers.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := schedule.Validate(input.ScheduleEntries); err != nil {
		return nil, err
	}
	ws := schedule.Reduce(input.ScheduleEntries)
	return &Output{TotalHours: ws.TotalHours, IsWeekendOnly: ws.IsWeekendOnly}, nil
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
