// Package config provides centralized configuration for the imgvault server.
// All configurable values are loaded from environment variables with sensible defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all server configuration values.
type Config struct {
	// Port is the HTTP server listen port.
	Port string

	// DBPath is the path to the SQLite metadata database file.
	DBPath string

	// BlobBackend selects the binary object store: "fs" or "redis".
	BlobBackend string

	// BlobDir is the directory for the filesystem blob backend.
	BlobDir string

	// RedisURL is the connection URL for the redis blob backend.
	RedisURL string

	// NATSURL is the NATS server URL for the job queue. Empty means the
	// embedded in-process queue.
	NATSURL string

	// WorkerEnabled controls whether the transform worker runs in this
	// process. Disable it when external workers consume the queue.
	WorkerEnabled bool

	// MaxUploadBytes limits request bodies on the upload and submit
	// endpoints.
	MaxUploadBytes int64

	// CORSOrigin is the allowed CORS origin. Defaults to "*".
	CORSOrigin string

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults.
func Load() Config {
	return Config{
		Port:            envOr("PORT", "3000"),
		DBPath:          envOr("DB_PATH", "imgvault.db"),
		BlobBackend:     envOr("BLOB_BACKEND", "fs"),
		BlobDir:         envOr("BLOB_DIR", "blobs"),
		RedisURL:        envOr("REDIS_URL", "redis://localhost:6379"),
		NATSURL:         os.Getenv("NATS_URL"),
		WorkerEnabled:   envBool("WORKER_ENABLED", true),
		MaxUploadBytes:  envInt64("MAX_UPLOAD_BYTES", 150<<20),
		CORSOrigin:      envOr("CORS_ORIGIN", "*"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// UseEmbeddedQueue reports whether jobs stay in-process instead of NATS.
func (c Config) UseEmbeddedQueue() bool {
	return c.NATSURL == ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
