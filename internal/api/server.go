package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/imgvault/imgvault/internal/metrics"
	"github.com/imgvault/imgvault/internal/queue"
	"github.com/imgvault/imgvault/internal/result"
)

// defaultMaxBody is the request body cap when none is configured (150 MB,
// sized for base64-encoded images).
const defaultMaxBody int64 = 150 << 20

// Options tune transport behavior without touching handler logic.
type Options struct {
	// MaxBodyBytes limits request body size. Zero means defaultMaxBody.
	MaxBodyBytes int64

	// CORSOrigin is the allowed origin. Empty means "*".
	CORSOrigin string
}

// Server holds the HTTP handlers and dependencies.
type Server struct {
	registrar *result.Registrar
	reader    *result.Reader
	jobs      queue.Queue
	metrics   metrics.Metrics
	opts      Options
	mux       *http.ServeMux
}

// New creates a new API server.
func New(reg *result.Registrar, rd *result.Reader, jobs queue.Queue, m metrics.Metrics, opts Options) *Server {
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	if m == nil {
		m = metrics.Noop{}
	}
	srv := &Server{registrar: reg, reader: rd, jobs: jobs, metrics: m, opts: opts, mux: http.NewServeMux()}
	srv.routes()
	return srv
}

// Handler returns the root http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.opts.CORSOrigin, limitBody(s.opts.MaxBodyBytes, logRequests(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/encrypt/upload", s.handleUpload)
	s.mux.HandleFunc("POST /api/result", s.handleSubmitResult)
	s.mux.HandleFunc("GET /api/result/last", s.handleLatest)
	s.mux.HandleFunc("GET /api/result/{id}", s.handleGetResult)
	s.mux.HandleFunc("GET /api/result/{id}/meta", s.handleGetMeta)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.Handle("GET /metrics", metrics.Handler())
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

// corsMiddleware sets CORS headers for the browser client.
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody restricts the request body to max bytes.
func limitBody(max int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, max)
		next.ServeHTTP(w, r)
	})
}

// logRequests emits one slog line per request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("http request", "method", r.Method, "path", r.URL.Path,
			"duration", time.Since(start).String())
	})
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
