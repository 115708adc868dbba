package worker

import (
	"context"
	"log/slog"

	"github.com/imgvault/imgvault/internal/engine"
	"github.com/imgvault/imgvault/internal/queue"
)

// Submitter registers a finished payload and returns its result id.
type Submitter interface {
	Submit(ctx context.Context, name, op, mode string, content []byte) (string, error)
}

// Worker consumes transform jobs from the queue, runs the transform, and
// registers the output. A failed job is logged and dropped; the uploader's
// poll never resolves and a retry produces a fresh job.
type Worker struct {
	queue       queue.Queue
	transformer engine.Transformer
	submitter   Submitter
}

// New creates a new Worker.
func New(q queue.Queue, tr engine.Transformer, sub Submitter) *Worker {
	return &Worker{queue: q, transformer: tr, submitter: sub}
}

// Start subscribes to the job queue. It returns once the subscription is
// established; jobs are handled until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.queue.Subscribe(ctx, w.handle); err != nil {
		return err
	}
	slog.Info("worker started")
	return nil
}

func (w *Worker) handle(ctx context.Context, job queue.Job) {
	slog.Info("processing job", "job_id", job.ID, "file", job.FileName,
		"op", job.Operation, "mode", job.Mode, "bytes", len(job.Payload))

	out, err := w.transformer.Transform(ctx, engine.Request{
		Payload:   job.Payload,
		Key:       job.Key,
		Operation: job.Operation,
		Mode:      job.Mode,
	})
	if err != nil {
		slog.Error("transform failed", "job_id", job.ID, "error", err)
		return
	}

	id, err := w.submitter.Submit(ctx, job.FileName, job.Operation, job.Mode, out)
	if err != nil {
		slog.Error("submit failed", "job_id", job.ID, "error", err)
		return
	}
	slog.Info("job complete", "job_id", job.ID, "result_id", id)
}
