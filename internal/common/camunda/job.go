package camunda

import (
	"context"
	"encoding/json"
	"time"

	"kisan-sathi/internal/common/errors"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/metrics"
	"kisan-sathi/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/trace"
)

// JobRunner holds what every handler needs around its Execute method:
// the job timeout, error resolution, logging and metrics.
type JobRunner struct {
	TaskType      string
	Timeout       time.Duration
	Errors        *errors.ErrorHandler
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewJobRunner(taskType string, timeout time.Duration, maxRetries int, log logger.Logger, obs *observability.Observability) *JobRunner {
	log = log.With(map[string]interface{}{"taskType": taskType})
	return &JobRunner{
		TaskType:      taskType,
		Timeout:       timeout,
		Errors:        errors.NewErrorHandler(log, maxRetries),
		Logger:        log,
		Observability: obs,
	}
}

// Run decodes the job variables into I, calls execute and completes or
// fails the job with the result.
func Run[I any, O any](r *JobRunner, client worker.JobClient, job entities.Job, execute func(context.Context, *I) (*O, error)) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.TaskType).Dec()

	ctx, cancel := JobContext(r.Timeout)
	defer cancel()
	ctx, span := r.Observability.StartJob(ctx, r.TaskType, job.GetKey(), job.GetProcessInstanceKey())

	r.Logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"retries":            job.GetRetries(),
	})

	var input I
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		r.report(client, job, nil, errors.NewInvalidInputError(err), span, start)
		return
	}

	output, err := execute(ctx, &input)
	r.report(client, job, output, err, span, start)
	if err != nil {
		return
	}

	r.Logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.GetKey(),
		"durationMs": time.Since(start).Milliseconds(),
	})
}

// report sends the job outcome on its own context: the job context may
// already be past its deadline, and a dropped command would let the broker
// re-activate the job without consuming a retry.
func (r *JobRunner) report(client worker.JobClient, job entities.Job, output interface{}, err error, span trace.Span, start time.Time) {
	ctx, cancel := CommandContext()
	defer cancel()

	if err != nil {
		observability.EndJob(span, r.fail(ctx, client, job, err, start), err)
		return
	}
	CompleteJob(ctx, client, job, output, r.Logger)
	observability.EndJob(span, "", nil)
	metrics.WorkerJobsCompleted.WithLabelValues(r.TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.TaskType).Observe(time.Since(start).Seconds())
	r.Observability.RecordJob(ctx, r.TaskType, "completed", time.Since(start))
}

func (r *JobRunner) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) string {
	code := string(errors.ErrCodeInternal)
	if stdErr, ok := errors.AsStandardError(err); ok {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(r.TaskType, code).Inc()
	r.Observability.RecordJob(ctx, r.TaskType, "failed", time.Since(start))
	r.Errors.HandleJobError(ctx, client, job, err)
	return code
}
