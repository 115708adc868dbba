package queue

import (
	"context"
	"errors"
	"sync"
)

const memoryQueueDepth = 64

// MemoryQueue is an in-process Queue over a buffered channel. It serves
// single-binary deployments where the API server and the transform worker
// run in the same process.
type MemoryQueue struct {
	jobs chan Job

	mu     sync.Mutex
	closed bool
}

var _ Queue = (*MemoryQueue)(nil)

// NewMemoryQueue returns an empty in-process queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{jobs: make(chan Job, memoryQueueDepth)}
}

// Publish enqueues the job, blocking when the buffer is full so a slow
// worker applies backpressure instead of dropping work.
func (q *MemoryQueue) Publish(ctx context.Context, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return errors.New("queue closed")
	}
	q.mu.Unlock()

	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe starts a goroutine that feeds jobs to h until ctx is cancelled
// or the queue is closed.
func (q *MemoryQueue) Subscribe(ctx context.Context, h Handler) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-q.jobs:
				if !ok {
					return
				}
				h(ctx, job)
			}
		}
	}()
	return nil
}

func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	return nil
}
