package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/imgvault/imgvault/internal/model"
	"github.com/imgvault/imgvault/internal/queue"
)

// ---------------------------------------------------------------------------
// POST /api/result
//
// Internal endpoint: the transform worker posts the finished payload here.
// ---------------------------------------------------------------------------

type submitRequest struct {
	FileName     string `json:"fileName"`
	Operation    string `json:"operation"`
	Mode         string `json:"mode"`
	ResultBase64 string `json:"resultBase64"`
}

func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.FileName == "" || req.Operation == "" || req.Mode == "" || req.ResultBase64 == "" {
		s.metrics.IncSubmitted("invalid")
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	content, err := base64.StdEncoding.DecodeString(req.ResultBase64)
	if err != nil {
		s.metrics.IncSubmitted("invalid")
		writeError(w, http.StatusBadRequest, "resultBase64 is not valid base64")
		return
	}

	id, err := s.registrar.Submit(r.Context(), req.FileName, req.Operation, req.Mode, content)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			s.metrics.IncSubmitted("invalid")
			writeError(w, http.StatusBadRequest, verr.Msg)
			return
		}
		s.metrics.IncSubmitted("error")
		slog.Error("submit failed", "file", req.FileName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.metrics.IncSubmitted("ok")
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// ---------------------------------------------------------------------------
// GET /api/result/last
// ---------------------------------------------------------------------------

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	id, err := s.reader.LatestID(r.Context())
	if errors.Is(err, model.ErrNoResults) {
		// Nothing registered yet: the explicit keep-polling signal,
		// distinct from every error status.
		s.metrics.IncLatestQueried("none")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.metrics.IncLatestQueried("error")
		slog.Error("latest-id query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.metrics.IncLatestQueried("ok")
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// ---------------------------------------------------------------------------
// GET /api/result/{id}
// ---------------------------------------------------------------------------

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rc, err := s.reader.Open(r.Context(), id)
	if err != nil {
		s.writeReadError(w, id, err)
		return
	}
	defer rc.Close()

	// Every poll re-reads; never let the browser serve a stale artifact.
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "image/bmp")
	if _, err := io.Copy(w, rc); err != nil {
		// Headers are gone; all we can do is log the broken transfer.
		slog.Error("result stream aborted", "id", id, "error", err)
	}
}

// ---------------------------------------------------------------------------
// GET /api/result/{id}/meta
// ---------------------------------------------------------------------------

func (s *Server) handleGetMeta(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rec, err := s.reader.Meta(r.Context(), id)
	if err != nil {
		s.writeReadError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// writeReadError maps reader failures onto transport statuses: malformed id
// → 400, not ready → 404, anything else → 500 with detail kept server-side.
func (s *Server) writeReadError(w http.ResponseWriter, id string, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		s.metrics.IncFetched("invalid")
		writeError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, model.ErrNotFound):
		s.metrics.IncFetched("not_found")
		writeError(w, http.StatusNotFound, "file not found")
	default:
		s.metrics.IncFetched("error")
		slog.Error("result read failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ---------------------------------------------------------------------------
// POST /api/encrypt/upload
//
// Browser entry point: accepts the original image plus cipher parameters and
// queues a transform job. The returned id is the job id; the artifact id
// arrives later via the polling endpoints.
// ---------------------------------------------------------------------------

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	key := r.FormValue("key")
	operation := r.FormValue("operation")
	mode := r.FormValue("mode")
	if key == "" || operation == "" || mode == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if len(payload) == 0 {
		writeError(w, http.StatusBadRequest, "file is empty")
		return
	}

	job := queue.Job{
		ID:        uuid.New().String(),
		FileName:  header.Filename,
		Payload:   payload,
		Key:       key,
		Operation: operation,
		Mode:      mode,
	}
	if err := s.jobs.Publish(r.Context(), job); err != nil {
		slog.Error("job publish failed", "job_id", job.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.metrics.IncJobsPublished()
	writeJSON(w, http.StatusAccepted, map[string]string{"id": job.ID})
}

// ---------------------------------------------------------------------------
// GET /api/health
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	n, err := s.reader.Count(r.Context())
	if err != nil {
		slog.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "results": n})
}
