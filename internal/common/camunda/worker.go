// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"visa-workers/internal/common/errors"
	"visa-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Registration describes one job worker to open.
type Registration struct {
	TaskType      string
	Handle        worker.JobHandler
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
}

// StartWorkers opens a job worker for every enabled registration and returns
// them so the caller can close them on shutdown.
func StartWorkers(client zbc.Client, regs []Registration, log logger.Logger) []worker.JobWorker {
	var started []worker.JobWorker
	for _, reg := range regs {
		if !reg.Enabled {
			log.Info("Worker disabled by configuration", map[string]interface{}{"worker": reg.TaskType})
			continue
		}

		w := client.NewJobWorker().
			JobType(reg.TaskType).
			Handler(reg.Handle).
			MaxJobsActive(reg.MaxJobsActive).
			Timeout(reg.Timeout).
			Name(fmt.Sprintf("%s-worker", reg.TaskType)).
			Open()
		started = append(started, w)

		log.Info("Worker registered with Camunda", map[string]interface{}{
			"taskType":      reg.TaskType,
			"maxJobsActive": reg.MaxJobsActive,
			"timeout":       reg.Timeout.String(),
		})
	}
	return started
}

// CompleteJob completes job with output encoded as its variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("encode job output: %w", err))
	}
	if _, err := cmd.Send(ctx); err != nil {
		return mapZeebeError(err, "complete job")
	}
	return nil
}
