package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// Subject transform jobs are published on.
	subjectJobs = "imgvault.jobs.transform"

	// Queue group so concurrent workers split jobs instead of each
	// receiving every one.
	workerGroup = "imgvault-workers"
)

// NATSQueue is a Queue over a NATS connection with JSON-encoded jobs.
type NATSQueue struct {
	nc *nats.Conn
}

var _ Queue = (*NATSQueue)(nil)

// NewNATSQueue dials NATS at the provided URL.
func NewNATSQueue(url string) (*NATSQueue, error) {
	opts := []nats.Option{
		nats.Name("imgvault"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSQueue{nc: nc}, nil
}

func (q *NATSQueue) Publish(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.nc.Publish(subjectJobs, data); err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}

func (q *NATSQueue) Subscribe(ctx context.Context, h Handler) error {
	sub, err := q.nc.QueueSubscribe(subjectJobs, workerGroup, func(msg *nats.Msg) {
		var job Job
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			slog.Error("queue: drop undecodable job", "error", err)
			return
		}
		h(ctx, job)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subjectJobs, err)
	}
	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()
	return nil
}

func (q *NATSQueue) Close() error {
	q.nc.Close()
	return nil
}
