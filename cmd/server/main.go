package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/imgvault/imgvault/internal/api"
	"github.com/imgvault/imgvault/internal/blob"
	"github.com/imgvault/imgvault/internal/config"
	"github.com/imgvault/imgvault/internal/engine"
	"github.com/imgvault/imgvault/internal/metrics"
	"github.com/imgvault/imgvault/internal/queue"
	"github.com/imgvault/imgvault/internal/result"
	"github.com/imgvault/imgvault/internal/store"
	"github.com/imgvault/imgvault/internal/worker"
)

func main() {
	cfg := config.Load()

	// Open SQLite metadata store.
	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	meta, err := store.New(db)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}

	// Pick the blob backend.
	var blobs blob.Store
	switch cfg.BlobBackend {
	case "redis":
		slog.Info("using redis blob store", "url", cfg.RedisURL)
		blobs, err = blob.NewRedisStore(cfg.RedisURL)
	case "fs":
		slog.Info("using filesystem blob store", "dir", cfg.BlobDir)
		blobs, err = blob.NewFSStore(cfg.BlobDir)
	default:
		log.Fatalf("unknown blob backend %q", cfg.BlobBackend)
	}
	if err != nil {
		log.Fatalf("init blob store: %v", err)
	}
	defer blobs.Close()

	// Pick the job queue.
	var jobs queue.Queue
	if cfg.UseEmbeddedQueue() {
		slog.Info("NATS_URL not set, using embedded job queue")
		jobs = queue.NewMemoryQueue()
	} else {
		slog.Info("using NATS job queue", "url", cfg.NATSURL)
		jobs, err = queue.NewNATSQueue(cfg.NATSURL)
		if err != nil {
			log.Fatalf("init job queue: %v", err)
		}
	}
	defer jobs.Close()

	registrar := result.NewRegistrar(blobs, meta)
	reader := result.NewReader(blobs, meta)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the transform worker unless external workers own the queue.
	if cfg.WorkerEnabled {
		w := worker.New(jobs, engine.NewAESTransformer(), registrar)
		if err := w.Start(ctx); err != nil {
			log.Fatalf("start worker: %v", err)
		}
	}

	// Start API server.
	srv := api.New(registrar, reader, jobs, metrics.NewProm("imgvault"), api.Options{
		MaxBodyBytes: cfg.MaxUploadBytes,
		CORSOrigin:   cfg.CORSOrigin,
	})
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		slog.Info("shutting down...")
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer done()
		httpServer.Shutdown(shutdownCtx)
	}()

	fmt.Printf("imgvault server listening on http://localhost:%s\n", cfg.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
