// Package queue carries transform jobs from the upload endpoint to the
// worker. Two backends: NATS for multi-process deployments and an embedded
// in-process queue for local runs and tests.
package queue

import "context"

// Job is one queued transform request. Field names are the wire contract
// shared with external workers; Payload marshals as base64 under fileBase64.
type Job struct {
	ID        string `json:"id"`
	FileName  string `json:"fileName"`
	Payload   []byte `json:"fileBase64"`
	Key       string `json:"key"`
	Operation string `json:"operation"`
	Mode      string `json:"mode"`
}

// Handler consumes one job. Errors are the handler's to report; the queue
// does not redeliver.
type Handler func(ctx context.Context, job Job)

// Queue is a publish/subscribe channel for transform jobs.
type Queue interface {
	// Publish enqueues a job for some subscriber to pick up.
	Publish(ctx context.Context, job Job) error

	// Subscribe registers a handler for incoming jobs. It returns
	// immediately; the handler runs until ctx is cancelled.
	Subscribe(ctx context.Context, h Handler) error

	// Close tears down the queue. Pending jobs may be dropped.
	Close() error
}
