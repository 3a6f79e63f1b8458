// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler fails or throws jobs based on the StandardError code.
type ErrorHandler struct {
	logger     Logger
	maxRetries int
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// NewErrorHandler creates a handler. maxRetries > 0 caps the per-code retry
// budget for one worker; 0 keeps the per-code budget.
func NewErrorHandler(logger Logger, maxRetries int) *ErrorHandler {
	return &ErrorHandler{logger: logger, maxRetries: maxRetries}
}

// Resolution is what HandleJobError will do with a failed job.
type Resolution struct {
	Throw     bool
	Retries   int32
	BPMNError *BPMNError
	Standard  *StandardError
}

// Resolve decides between failing with retries and throwing a BPMN error.
// Remaining retries always decrease so a job cannot loop forever.
func (h *ErrorHandler) Resolve(job entities.Job, err error) Resolution {
	stdErr := normalizeError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	budget := bpmnErr.Retries
	if h.maxRetries > 0 && h.maxRetries < budget {
		budget = h.maxRetries
	}

	remaining := int(job.Retries) - 1
	if budget > 0 && remaining > 0 {
		if remaining > budget {
			remaining = budget
		}
		return Resolution{Retries: int32(remaining), BPMNError: bpmnErr, Standard: stdErr}
	}
	return Resolution{Throw: true, BPMNError: bpmnErr, Standard: stdErr}
}

// HandleJobError handles any error in a worker job
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	res := h.Resolve(job, err)
	h.logError(job, res)

	if res.Throw {
		h.throwBPMNError(ctx, client, job, res.BPMNError)
		return
	}
	h.failJobWithRetries(ctx, client, job, res.BPMNError, res.Retries)
}

func normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int32) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			h.send(ctx, job, func(ctx context.Context) error { _, err := withVars.Send(ctx); return err })
			return
		}
	}
	h.send(ctx, job, func(ctx context.Context) error { _, err := cmd.Send(ctx); return err })
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			h.send(ctx, job, func(ctx context.Context) error { _, err := withVars.Send(ctx); return err })
			return
		}
	}
	h.send(ctx, job, func(ctx context.Context) error { _, err := cmd.Send(ctx); return err })
}

func (h *ErrorHandler) send(ctx context.Context, job entities.Job, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		h.logger.Error("Failed to send job failure command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *ErrorHandler) logError(job entities.Job, res Resolution) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(res.Standard.Code),
		"message":          res.BPMNError.Message,
		"details":          res.Standard.Details,
		"retryable":        res.Standard.Retryable,
		"retries":          res.Retries,
		"thrown":           res.Throw,
		"errorCategory":    GetErrorCategory(res.Standard.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
